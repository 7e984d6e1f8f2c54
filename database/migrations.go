// Package database provides database migration tooling.
package database

import (
	"embed"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// Registers the pgx5 database driver with golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
)

//go:embed migrations/*.sql
var fs embed.FS

// migrationsFromSource returns a migration source driver from the embedded migrations.
func migrationsFromSource() source.Driver {
	d, err := iofs.New(fs, "migrations")
	if err != nil {
		panic(err)
	}
	return d
}

// Migrator is the interface for the migration tooling.
type Migrator interface {
	Up() error
	Down() error
	Steps(int) error
	Version() (uint, bool, error)
}

// NewFromConnectionString returns a new migration instance from the given connection string.
func NewFromConnectionString(connString string) (Migrator, error) {
	d := migrationsFromSource()
	return migrate.NewWithSourceInstance("iofs", d, toMigrateURL(connString))
}

// GetVersion returns the current migration version and dirty state for the database.
func GetVersion(connString string) (uint, bool, error) {
	m, err := NewFromConnectionString(connString)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m.Version()
}

// toMigrateURL rewrites a postgres:// connection string to the scheme the
// golang-migrate pgx/v5 driver registers under.
func toMigrateURL(connString string) string {
	if rest, ok := strings.CutPrefix(connString, "postgres://"); ok {
		return "pgx5://" + rest
	}
	if rest, ok := strings.CutPrefix(connString, "postgresql://"); ok {
		return "pgx5://" + rest
	}
	return connString
}
