package sqlite

import (
	"context"
	"database/sql"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/samber/oops"
)

const migrationTable = "schema_migrations"

// applyMigrations runs each embedded .sql file at most once, in name order
func applyMigrations(ctx context.Context, db *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return oops.Code("MIGRATION_SOURCE_FAILED").Wrap(err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").Wrap(err)
	}

	for _, name := range files {
		var applied bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM `+migrationTable+` WHERE name = ?)`, name,
		).Scan(&applied)
		if err != nil {
			return oops.Code("MIGRATION_UP_FAILED").With("migration", name).Wrap(err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return oops.Code("MIGRATION_SOURCE_FAILED").With("migration", name).Wrap(err)
		}

		if err := applyOne(ctx, db, name, upSection(string(content))); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ctx context.Context, db *sql.DB, name, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return oops.Code("MIGRATION_UP_FAILED").With("migration", name).Wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	if strings.TrimSpace(body) != "" {
		if _, err := tx.ExecContext(ctx, body); err != nil {
			return oops.Code("MIGRATION_UP_FAILED").With("migration", name).Wrap(err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		return oops.Code("MIGRATION_UP_FAILED").With("migration", name).Wrap(err)
	}
	if err := tx.Commit(); err != nil {
		return oops.Code("MIGRATION_UP_FAILED").With("migration", name).Wrap(err)
	}
	return nil
}

// upSection returns the statements between "-- +migrate Up" and "-- +migrate Down".
// Files without markers are treated as entirely up.
func upSection(content string) string {
	const upMarker, downMarker = "-- +migrate Up", "-- +migrate Down"
	if _, rest, found := strings.Cut(content, upMarker); found {
		content = rest
	}
	up, _, _ := strings.Cut(content, downMarker)
	return up
}
