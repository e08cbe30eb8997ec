package infra

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	postgreswrapper "github.com/tradesim/venue-sim/pkg/infra/postgres"
)

// Migrate runs all pending up migrations from source against connStr. A dirty
// version is forced back one step before retrying.
func Migrate(source, connStr string) error {
	mg, err := migrate.New(source, connStr)
	if err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	defer mg.Close() // nolint

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	if dirty {
		if err := mg.Force(int(version) - 1); err != nil {
			return err
		}
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// ConnectAndMigrate waits for the database, then brings the schema up to
// date.
func ConnectAndMigrate(cfg *postgreswrapper.PostgresConfig, source string) (*gorm.DB, error) {
	db, err := postgreswrapper.InitPostgresWithBackoff(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(source, cfg.MigrationConnURL); err != nil {
		return nil, err
	}
	return db, nil
}
