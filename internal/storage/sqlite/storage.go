// Package sqlite stores identities and game results in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage"
	"github.com/mcoot/ftdgame/internal/storage/secret"
	"github.com/mcoot/ftdgame/internal/storage/sqlite/migrations"
)

// Storage is a SQLite implementation of the storage interface
type Storage struct {
	db     *sql.DB
	hasher *secret.Hasher
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open opens the database at path and applies embedded migrations.
// A nil hasher uses bcrypt's default cost.
func Open(ctx context.Context, path string, hasher *secret.Hasher) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, oops.Code("STORAGE_SQLITE_CONFIG").Errorf("storage path is required")
	}
	if hasher == nil {
		hasher = secret.NewHasher(0)
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, oops.Code("STORAGE_SQLITE_OPEN").With("path", path).Wrap(err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, oops.Code("STORAGE_SQLITE_OPEN").With("path", path).Wrap(err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Storage{db: db, hasher: hasher}, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Identity operations

func (s *Storage) CreateIdentity(ctx context.Context, identity *model.Identity, plain string) error {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ftd_users (
			username, secret_hash, email, first_name, last_name,
			birthday, pizza, soda, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		identity.Username,
		hash,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.Birthday,
		string(identity.PizzaPreference),
		string(identity.SodaPreference),
		toMillis(identity.CreatedAt),
		toMillis(identity.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return model.ErrAlreadyExists
	}
	if err != nil {
		return oops.Code("STORAGE_SQLITE_CREATE_IDENTITY").
			With("username", identity.Username).
			Wrap(err)
	}
	return nil
}

func (s *Storage) GetIdentity(ctx context.Context, username string) (*model.Identity, error) {
	var (
		identity  model.Identity
		pizza     string
		soda      string
		createdAt int64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT username, email, first_name, last_name, birthday, pizza, soda, created_at, updated_at
		FROM ftd_users
		WHERE username = ?`,
		username,
	).Scan(
		&identity.Username,
		&identity.Email,
		&identity.FirstName,
		&identity.LastName,
		&identity.Birthday,
		&pizza,
		&soda,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("STORAGE_SQLITE_GET_IDENTITY").
			With("username", username).
			Wrap(err)
	}
	identity.PizzaPreference = model.PizzaPreference(pizza)
	identity.SodaPreference = model.Soda(soda)
	identity.CreatedAt = fromMillis(createdAt)
	identity.UpdatedAt = fromMillis(updatedAt)
	return &identity, nil
}

func (s *Storage) IdentityExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM ftd_users WHERE username = ?)`, username,
	).Scan(&exists)
	if err != nil {
		return false, oops.Code("STORAGE_SQLITE_IDENTITY_EXISTS").
			With("username", username).
			Wrap(err)
	}
	return exists, nil
}

func (s *Storage) VerifySecret(ctx context.Context, username, plain string) (bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT secret_hash FROM ftd_users WHERE username = ?`, username,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("STORAGE_SQLITE_VERIFY_SECRET").
			With("username", username).
			Wrap(err)
	}
	return s.hasher.Verify(hash, plain)
}

func (s *Storage) UpdateIdentity(ctx context.Context, identity *model.Identity, plain string) error {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE ftd_users SET
			secret_hash = ?,
			email = ?,
			first_name = ?,
			last_name = ?,
			birthday = ?,
			pizza = ?,
			soda = ?,
			updated_at = ?
		WHERE username = ?`,
		hash,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.Birthday,
		string(identity.PizzaPreference),
		string(identity.SodaPreference),
		toMillis(identity.UpdatedAt),
		identity.Username,
	)
	if err != nil {
		return oops.Code("STORAGE_SQLITE_UPDATE_IDENTITY").
			With("username", identity.Username).
			Wrap(err)
	}
	return requireRow(res, "STORAGE_SQLITE_UPDATE_IDENTITY")
}

func (s *Storage) DeleteIdentity(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ftd_users WHERE username = ?`, username)
	if err != nil {
		return oops.Code("STORAGE_SQLITE_DELETE_IDENTITY").
			With("username", username).
			Wrap(err)
	}
	return requireRow(res, "STORAGE_SQLITE_DELETE_IDENTITY")
}

// Game result operations

func (s *Storage) AppendResult(ctx context.Context, result *model.GameResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ftd_results (id, username, score, difficulty, played_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(result.ID),
		result.Username,
		result.Score,
		string(result.Difficulty),
		toMillis(result.PlayedAt),
	)
	if err != nil {
		return oops.Code("STORAGE_SQLITE_APPEND_RESULT").
			With("result_id", result.ID).
			Wrap(err)
	}
	return nil
}

func (s *Storage) TopResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, score, difficulty, played_at
		FROM ftd_results
		ORDER BY score DESC, id ASC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, oops.Code("STORAGE_SQLITE_TOP_RESULTS").Wrap(err)
	}
	defer func() { _ = rows.Close() }()

	results := []model.GameResult{}
	for rows.Next() {
		var (
			r          model.GameResult
			id         string
			difficulty string
			playedAt   int64
		)
		if err := rows.Scan(&id, &r.Username, &r.Score, &difficulty, &playedAt); err != nil {
			return nil, oops.Code("STORAGE_SQLITE_TOP_RESULTS").Wrap(err)
		}
		r.ID = model.ResultID(id)
		r.Difficulty = model.Difficulty(difficulty)
		r.PlayedAt = fromMillis(playedAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STORAGE_SQLITE_TOP_RESULTS").Wrap(err)
	}
	return results, nil
}

// Lifecycle

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return oops.Code("STORAGE_SQLITE_PING").Wrap(err)
	}
	return nil
}

// Close closes the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

func requireRow(res sql.Result, code string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return oops.Code(code).Wrap(err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
