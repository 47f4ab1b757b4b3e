package animations

import (
	"embed"
	"io/fs"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// MigrationsFS returns the migration directory itself, ready for
// storageconfig-style discovery.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "data/sql/migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
