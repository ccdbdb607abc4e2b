package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/ftdgame/internal/dependencies/mocks"
	"github.com/mcoot/ftdgame/internal/services/leaderboard"
	"github.com/mcoot/ftdgame/internal/storage"
	"github.com/mcoot/ftdgame/internal/storage/memory"
	"github.com/mcoot/ftdgame/internal/storage/secret"
	"github.com/mcoot/ftdgame/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// NewTestApp creates an App over in-memory storage with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New(secret.NewHasher(bcrypt.MinCost)))
}

// NewTestAppWithStorage creates an App over store with mocked dependencies
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()

	app := newWithDependencies(store, mockClock, mockIDs, leaderboard.DefaultSize, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
