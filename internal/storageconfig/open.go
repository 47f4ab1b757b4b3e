package storageconfig

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-cms-animations/internal/runtimeconfig"
)

// ErrDriverUnsupported is returned for drivers other than sqlite3 and postgres.
var ErrDriverUnsupported = errors.New("storageconfig: unsupported driver")

// Driver names accepted by Open after normalisation.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// NormalizeDriver maps driver aliases onto DriverSQLite or DriverPostgres.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrDriverUnsupported, driver)
	}
}

// Open connects to the configured database and wraps it in bun with the
// matching dialect. SQLite connections are limited to one open connection.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	driver, err := NormalizeDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storageconfig: open %s: %w", driver, err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storageconfig: ping %s: %w", driver, err)
	}

	switch driver {
	case DriverPostgres:
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	}
}
