package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/ftdgame/internal/config"
	"github.com/mcoot/ftdgame/internal/storage/memory"
	redisstorage "github.com/mcoot/ftdgame/internal/storage/redis"
	"github.com/mcoot/ftdgame/internal/storage/sqlite"
	"github.com/mcoot/ftdgame/internal/testutil"
)

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(context.Background(), config.Default(), nil)
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.IsType(t, &memory.Storage{}, app.Storage)
	assert.NotNil(t, app.Gate)
	assert.NotNil(t, app.Metrics)
}

func TestOpenStorageSQLite(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Type = config.StorageSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "ftd.db")

	store, err := OpenStorage(context.Background(), cfg, testutil.NopLogger())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.IsType(t, &sqlite.Storage{}, store)
}

func TestOpenStorageRedis(t *testing.T) {
	mini := miniredis.RunT(t)

	cfg := config.Default().Storage
	cfg.Type = config.StorageRedis
	cfg.RedisURL = "redis://" + mini.Addr()

	store, err := OpenStorage(context.Background(), cfg, testutil.NopLogger())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.IsType(t, &redisstorage.Storage{}, store)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenStorageRetriesThenGivesUp(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Type = config.StorageRedis
	cfg.RedisURL = "redis://127.0.0.1:1"
	cfg.ConnectAttempts = 2

	_, err := OpenStorage(context.Background(), cfg, testutil.NopLogger())
	assert.Error(t, err)
}

func TestOpenStorageUnknownType(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Type = "mongo"

	_, err := OpenStorage(context.Background(), cfg, testutil.NopLogger())
	assert.Error(t, err)
}

func TestNewTestAppUsesMocks(t *testing.T) {
	app := NewTestApp()
	ctx := context.Background()

	assert.Equal(t, app.MockClock.Now(), app.Clock.Now())
	assert.Equal(t, "result-000001", string(app.IDs.NewResultID(app.Clock.Now())))
	assert.NoError(t, app.Storage.Ping(ctx))
}
