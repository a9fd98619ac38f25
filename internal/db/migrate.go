package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list re-runs safely on every startup.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Self-referential hierarchy. parent_id deliberately has no ON DELETE
	// action: deletes must promote children first, the FK rejects anything
	// that would orphan a row.
	`CREATE TABLE IF NOT EXISTS workgroups (
		id          TEXT PRIMARY KEY,
		parent_id   TEXT REFERENCES workgroups(id),
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		version     INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workgroups_parent ON workgroups(parent_id)`,

	// Sibling names are unique case-insensitively. COALESCE folds the NULL
	// parent of root groups into a comparable key, since SQLite treats NULLs
	// as distinct in unique indexes.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_workgroups_sibling_name
		ON workgroups(COALESCE(parent_id, ''), lower(name))`,

	// workgroup_id is nullable: assets of a deleted root workgroup become
	// unassigned rather than being dropped.
	`CREATE TABLE IF NOT EXISTS assets (
		id           TEXT PRIMARY KEY,
		workgroup_id TEXT REFERENCES workgroups(id),
		name         TEXT NOT NULL,
		kind         TEXT NOT NULL DEFAULT 'host'
		             CHECK(kind IN ('host','service','application','database','network')),
		criticality  TEXT NOT NULL DEFAULT 'medium'
		             CHECK(criticality IN ('low','medium','high','critical')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assets_workgroup ON assets(workgroup_id)`,
}
