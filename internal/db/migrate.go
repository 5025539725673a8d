package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/balancesheet-pro/apiserver/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateUp applies every pending up migration for the configured driver.
func MigrateUp(cfg config.Config) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

// MigrateDown reverts every applied migration.
func MigrateDown(cfg config.Config) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down failed: %w", err)
	}
	return nil
}

// newMigrator opens a dedicated connection; closing the migrator closes it.
func newMigrator(cfg config.Config) (*migrate.Migrate, error) {
	driverName, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	if driverName == config.DriverSQLite {
		if err := ensureDir(cfg.Database.SQLitePath); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	var instance database.Driver
	switch driverName {
	case config.DriverSQLite:
		instance, err = sqlite.WithInstance(conn, &sqlite.Config{})
	default:
		instance, err = postgres.WithInstance(conn, &postgres.Config{})
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create %s migration driver: %w", driverName, err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driverName)
	if err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, instance)
	if err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("init migrator failed: %w", err)
	}
	return m, nil
}
