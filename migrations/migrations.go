package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed *.sql
var migrationsFS embed.FS

// Run applies all pending migrations.
func Run(dbx *sqlx.DB, logger *slog.Logger) error {
	d, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("create migrations source: %w", err)
	}
	i, err := postgres.WithInstance(dbx.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres instance for migration: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", d, "postgres", i)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}

	version, dirty, _ := migrator.Version()
	logger.Info("migrated", "version", version, "dirty", dirty)
	return nil
}
