// Package migration applies the embedded goose migrations to Postgres.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	dir       = "sql"
	tableName = "goose_db_version"
)

// ErrMigrate wraps every failure of this package.
var ErrMigrate = errors.New("migration: failed")

//go:embed sql/*.sql
var embedFS embed.FS

// goose keeps its settings in package globals.
var mu sync.Mutex

// Up applies all pending migrations.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	return run(ctx, pool, func(db *sql.DB) error {
		return goose.UpContext(ctx, db, dir)
	})
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, pool *pgxpool.Pool) error {
	return run(ctx, pool, func(db *sql.DB) error {
		return goose.DownContext(ctx, db, dir)
	})
}

// Status logs the state of every migration.
func Status(ctx context.Context, pool *pgxpool.Pool) error {
	return run(ctx, pool, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, dir)
	})
}

// Version returns the current schema version.
func Version(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var version int64
	err := run(ctx, pool, func(db *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		version = v
		return err
	})
	return version, err
}

func run(ctx context.Context, pool *pgxpool.Pool, fn func(db *sql.DB) error) error {
	mu.Lock()
	defer mu.Unlock()

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close migration db handle", "error", err)
		}
	}()

	goose.SetBaseFS(embedFS)
	goose.SetLogger(slogLogger{})
	goose.SetTableName(tableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrate, err)
	}

	if err := fn(db); err != nil {
		return errors.Join(ErrMigrate, err)
	}
	return nil
}

// slogLogger routes goose output through slog.
type slogLogger struct{}

func (slogLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (slogLogger) Printf(format string, v ...any) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
