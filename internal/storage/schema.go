package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		// One JSON document per (family, key): profile, tasks, rewards, ...
		`CREATE TABLE IF NOT EXISTS documents (
			family TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (family, key)
		);`,
		// Append-only lists: activities.
		`CREATE TABLE IF NOT EXISTS list_items (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			family TEXT NOT NULL,
			list TEXT NOT NULL,
			id TEXT NOT NULL UNIQUE,
			value TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_list_items_family_list_seq ON list_items(family, list, seq);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
