package storageconfig

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const (
	migrationsTable      = "animation_migrations"
	migrationsLocksTable = "animation_migration_locks"
)

func newMigrator(db *bun.DB, fsys fs.FS) (*migrate.Migrator, error) {
	migrations := migrate.NewMigrations()
	if err := migrations.Discover(fsys); err != nil {
		return nil, fmt.Errorf("storageconfig: discover migrations: %w", err)
	}
	return migrate.NewMigrator(db, migrations,
		migrate.WithTableName(migrationsTable),
		migrate.WithLocksTableName(migrationsLocksTable),
	), nil
}

// ApplyMigrations runs every pending *.up.sql migration found in fsys and
// returns the names of the applied ones.
func ApplyMigrations(ctx context.Context, db *bun.DB, fsys fs.FS) ([]string, error) {
	migrator, err := newMigrator(db, fsys)
	if err != nil {
		return nil, err
	}
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("storageconfig: init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("storageconfig: migrate: %w", err)
	}
	return migrationNames(group), nil
}

// RollbackMigrations reverts the last applied migration group.
func RollbackMigrations(ctx context.Context, db *bun.DB, fsys fs.FS) ([]string, error) {
	migrator, err := newMigrator(db, fsys)
	if err != nil {
		return nil, err
	}
	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("storageconfig: rollback: %w", err)
	}
	return migrationNames(group), nil
}

func migrationNames(group *migrate.MigrationGroup) []string {
	if group == nil || group.IsZero() {
		return nil
	}
	names := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		names = append(names, m.Name)
	}
	return names
}
