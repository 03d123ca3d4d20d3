package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the schema backing per-browser storage.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS storage (
            namespace TEXT NOT NULL,
            key TEXT NOT NULL,
            value TEXT NOT NULL,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY(namespace, key)
        );`,
		`CREATE INDEX IF NOT EXISTS storage_updated_at ON storage(updated_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
