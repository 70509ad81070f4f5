package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

// Dir is the embedded directory holding the cache schema migrations.
const Dir = "migrations"

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps dialect and base FS as package globals.
var gooseMu sync.Mutex

// Up applies every pending cache migration.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	return run(ctx, db, dialect, func() error {
		if err := goose.UpContext(ctx, db, Dir); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
}

// Version returns the applied schema version.
func Version(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	var version int64
	err := run(ctx, db, dialect, func() error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func run(ctx context.Context, db *sql.DB, dialect string, fn func() error) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dialect == "" {
		return fmt.Errorf("dialect is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return fn()
}
