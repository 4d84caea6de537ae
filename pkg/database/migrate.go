package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes for objects that already exist. A migration failing with one
// of these is re-run statement by statement, skipping the objects that exist.
const (
	pgDuplicateTable    = "42P07"
	pgDuplicateDatabase = "42P04"
	pgDuplicateObject   = "42710"
)

// isConnectionError returns true if the error looks like a transient connection
// problem rather than a SQL syntax or constraint error. Only connection errors
// are retried; SQL errors are returned immediately.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	connPatterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"connect: connection",
		"dial tcp",
		"EOF",
		"connection timed out",
		"server closed the connection unexpectedly",
		"could not connect",
	}
	for _, p := range connPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// isAlreadyExists reports whether err is a PostgreSQL "object already exists"
// error.
func isAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgDuplicateTable, pgDuplicateDatabase, pgDuplicateObject:
		return true
	}
	return false
}

// RunMigrations executes every *.up.sql file found at the root of migrations,
// in lexical order, exactly once. Applied versions are tracked in
// schema_migrations. Connection errors are retried (3 attempts). When a file
// fails because some of its objects already exist, its statements are applied
// one at a time outside a transaction, existing objects are skipped and the
// version is recorded. Any other SQL error aborts.
func RunMigrations(ctx context.Context, db DBTX, migrations fs.FS, logger *slog.Logger) error {
	var err error
	for attempt := 0; attempt < defaultRetryAttempts; attempt++ {
		err = runMigrationsOnce(ctx, db, migrations, logger)
		if err == nil || !isConnectionError(err) {
			return err
		}
		if attempt == defaultRetryAttempts-1 {
			break
		}
		logger.Warn("migration failed due to connection error, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", defaultRetryAttempts),
			slog.String("error", err.Error()),
		)
		if werr := waitRetry(ctx, attempt); werr != nil {
			return fmt.Errorf("run migrations: context cancelled during retry: %w", werr)
		}
	}
	return fmt.Errorf("run migrations after %d attempts: %w", defaultRetryAttempts, err)
}

// migrationNames lists the .up.sql files at the root of fsys in sorted order.
func migrationNames(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func runMigrationsOnce(ctx context.Context, db DBTX, migrations fs.FS, logger *slog.Logger) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	names, err := migrationNames(migrations)
	if err != nil {
		return err
	}

	for _, name := range names {
		var exists bool
		err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if exists {
			logger.Debug("migration already applied, skipping", slog.String("version", name))
			continue
		}

		content, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if err := applyMigration(ctx, db, name, string(content)); err != nil {
			if !isAlreadyExists(err) {
				return err
			}
			logger.Warn("migration objects already exist, applying remaining statements one by one",
				slog.String("version", name),
				slog.String("error", err.Error()),
			)
			if err := applyStatements(ctx, db, name, string(content), logger); err != nil {
				return err
			}
			if _, err := db.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING", name); err != nil {
				return fmt.Errorf("record migration %s: %w", name, err)
			}
			continue
		}

		logger.Info("migration applied successfully", slog.String("version", name))
	}

	return nil
}

// applyMigration runs one migration and records its version in a single
// transaction so multi-statement files are atomic.
func applyMigration(ctx context.Context, db DBTX, name, content string) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx for migration %s: %w", name, err)
	}

	if _, err := tx.Exec(ctx, content); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("execute migration %s: %w", name, err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("record migration %s: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// applyStatements executes each statement of a migration on its own and
// skips those that fail because their object already exists.
func applyStatements(ctx context.Context, db DBTX, name, content string, logger *slog.Logger) error {
	for i, stmt := range splitStatements(content) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			if !isAlreadyExists(err) {
				return fmt.Errorf("execute migration %s statement %d: %w", name, i+1, err)
			}
			logger.Debug("migration statement skipped, object exists",
				slog.String("version", name),
				slog.Int("statement", i+1),
			)
		}
	}
	return nil
}

// splitStatements splits a migration on semicolons. Migration files must not
// contain semicolons inside literals or function bodies.
func splitStatements(content string) []string {
	var stmts []string
	for _, part := range strings.Split(content, ";") {
		if part = strings.TrimSpace(part); part != "" {
			stmts = append(stmts, part)
		}
	}
	return stmts
}
