package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	dbpkg "github.com/praveen037/agriconnect/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Up applies all pending migrations using the embedded SQL files.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	if err := goose.SetDialect(gooseDialect(driver)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func gooseDialect(driver string) string {
	if driver == dbpkg.DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}
