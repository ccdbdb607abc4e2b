// Package postgres stores identities and game results in PostgreSQL.
//
// Secrets are hashed inside the database with pgcrypto, so verification is a
// single lookup comparing crypt(secret, stored_hash) against the stored hash.
// The secret is reduced to base64(sha256) first because bf only reads 72 bytes.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage"
)

// poolIface is the subset of pgxpool.Pool used here; pgxmock satisfies it in tests
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage is a PostgreSQL implementation of the storage interface
type Storage struct {
	pool       poolIface
	bcryptCost int
}

// New connects to the database at databaseURL and verifies the connection
func New(ctx context.Context, databaseURL string, bcryptCost int) (*Storage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("STORAGE_POSTGRES_CONFIG").Wrap(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, oops.Code("STORAGE_POSTGRES_CONNECT").Wrap(err)
	}

	return NewWithPool(pool, bcryptCost), nil
}

// NewWithPool creates a Storage over an existing pool (for testing).
// A bcryptCost of 0 uses bcrypt.DefaultCost.
func NewWithPool(pool poolIface, bcryptCost int) *Storage {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Storage{pool: pool, bcryptCost: bcryptCost}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) CreateIdentity(ctx context.Context, identity *model.Identity, secret string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ftd_users (
			username, secret_hash, email, first_name, last_name,
			birthday, pizza, soda, created_at, updated_at
		) VALUES ($1, crypt(encode(digest($2::text, 'sha256'), 'base64'), gen_salt('bf', $3)), $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		identity.Username,
		secret,
		s.bcryptCost,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.Birthday,
		string(identity.PizzaPreference),
		string(identity.SodaPreference),
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return model.ErrAlreadyExists
	}
	if err != nil {
		return oops.Code("STORAGE_POSTGRES_CREATE_IDENTITY").
			With("username", identity.Username).
			Wrap(err)
	}
	return nil
}

func (s *Storage) GetIdentity(ctx context.Context, username string) (*model.Identity, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT username, email, first_name, last_name, birthday, pizza, soda, created_at, updated_at
		FROM ftd_users
		WHERE username = $1
	`, username)

	var (
		identity model.Identity
		pizza    string
		soda     string
	)
	err := row.Scan(
		&identity.Username,
		&identity.Email,
		&identity.FirstName,
		&identity.LastName,
		&identity.Birthday,
		&pizza,
		&soda,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("STORAGE_POSTGRES_GET_IDENTITY").
			With("username", username).
			Wrap(err)
	}
	identity.PizzaPreference = model.PizzaPreference(pizza)
	identity.SodaPreference = model.Soda(soda)
	return &identity, nil
}

func (s *Storage) IdentityExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ftd_users WHERE username = $1)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, oops.Code("STORAGE_POSTGRES_IDENTITY_EXISTS").
			With("username", username).
			Wrap(err)
	}
	return exists, nil
}

func (s *Storage) VerifySecret(ctx context.Context, username, secret string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ftd_users WHERE username = $1 AND secret_hash = crypt(encode(digest($2::text, 'sha256'), 'base64'), secret_hash))`,
		username, secret,
	).Scan(&ok)
	if err != nil {
		return false, oops.Code("STORAGE_POSTGRES_VERIFY_SECRET").
			With("username", username).
			Wrap(err)
	}
	return ok, nil
}

func (s *Storage) UpdateIdentity(ctx context.Context, identity *model.Identity, secret string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE ftd_users SET
			secret_hash = crypt(encode(digest($2::text, 'sha256'), 'base64'), gen_salt('bf', $3)),
			email = $4,
			first_name = $5,
			last_name = $6,
			birthday = $7,
			pizza = $8,
			soda = $9,
			updated_at = $10
		WHERE username = $1
	`,
		identity.Username,
		secret,
		s.bcryptCost,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.Birthday,
		string(identity.PizzaPreference),
		string(identity.SodaPreference),
		identity.UpdatedAt,
	)
	if err != nil {
		return oops.Code("STORAGE_POSTGRES_UPDATE_IDENTITY").
			With("username", identity.Username).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteIdentity(ctx context.Context, username string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ftd_users WHERE username = $1`, username)
	if err != nil {
		return oops.Code("STORAGE_POSTGRES_DELETE_IDENTITY").
			With("username", username).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Game result operations

func (s *Storage) AppendResult(ctx context.Context, result *model.GameResult) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ftd_results (id, username, score, difficulty, played_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		string(result.ID),
		result.Username,
		result.Score,
		string(result.Difficulty),
		result.PlayedAt,
	)
	if err != nil {
		return oops.Code("STORAGE_POSTGRES_APPEND_RESULT").
			With("result_id", result.ID).
			With("username", result.Username).
			Wrap(err)
	}
	return nil
}

func (s *Storage) TopResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, username, score, difficulty, played_at
		FROM ftd_results
		ORDER BY score DESC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("STORAGE_POSTGRES_TOP_RESULTS").Wrap(err)
	}
	defer rows.Close()

	results := []model.GameResult{}
	for rows.Next() {
		var (
			r          model.GameResult
			id         string
			difficulty string
		)
		if err := rows.Scan(&id, &r.Username, &r.Score, &difficulty, &r.PlayedAt); err != nil {
			return nil, oops.Code("STORAGE_POSTGRES_TOP_RESULTS").With("operation", "scan result row").Wrap(err)
		}
		r.ID = model.ResultID(id)
		r.Difficulty = model.Difficulty(difficulty)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STORAGE_POSTGRES_TOP_RESULTS").With("operation", "iterate results").Wrap(err)
	}
	return results, nil
}

// Lifecycle

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return oops.Code("STORAGE_POSTGRES_PING").Wrap(err)
	}
	return nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
