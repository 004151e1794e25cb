package database

import (
	"fmt"
	"strings"
)

// Migration represents a database schema migration
type Migration struct {
	ID          int
	Description string
	SQL         string
}

// migrations are applied in order; never edit an applied entry, append a new one
var migrations = []Migration{
	{
		ID:          1,
		Description: "Create result tables",
		SQL: `
CREATE TABLE IF NOT EXISTS sectors (
	macro    TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	is_known INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS objects (
	sector_macro        TEXT NOT NULL REFERENCES sectors(macro) ON DELETE CASCADE,
	code                TEXT NOT NULL,
	class               TEXT NOT NULL,
	macro               TEXT NOT NULL DEFAULT '',
	owner               TEXT NOT NULL DEFAULT '',
	x                   REAL NOT NULL DEFAULT 0,
	y                   REAL NOT NULL DEFAULT 0,
	z                   REAL NOT NULL DEFAULT 0,
	is_wreck            INTEGER NOT NULL DEFAULT 0,
	is_headquarter      INTEGER NOT NULL DEFAULT 0,
	is_active           INTEGER NOT NULL DEFAULT 0,
	has_blueprints      INTEGER NOT NULL DEFAULT 0,
	has_wares           INTEGER NOT NULL DEFAULT 0,
	has_signalleak      INTEGER NOT NULL DEFAULT 0,
	target_sector_macro TEXT NOT NULL DEFAULT '',
	target_sector_name  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (sector_macro, code)
);

CREATE INDEX IF NOT EXISTS idx_objects_class ON objects(class);
CREATE INDEX IF NOT EXISTS idx_objects_owner ON objects(owner);

CREATE TABLE IF NOT EXISTS resource_areas (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	sector_macro TEXT NOT NULL REFERENCES sectors(macro) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	x            INTEGER NOT NULL DEFAULT 0,
	y            INTEGER NOT NULL DEFAULT 0,
	z            INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS resources (
	area_id          INTEGER NOT NULL REFERENCES resource_areas(id) ON DELETE CASCADE,
	ware             TEXT NOT NULL,
	recharge_max     INTEGER NOT NULL DEFAULT 0,
	recharge_current INTEGER NOT NULL DEFAULT 0,
	recharge_time    INTEGER NOT NULL DEFAULT 0,
	yield            TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (area_id, ware)
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`,
	},
	{
		ID:          2,
		Description: "Index resource areas by sector",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_resource_areas_sector ON resource_areas(sector_macro, position);`,
	},
}

// runMigrations applies every migration not yet recorded in schema_version
func (d *SQLiteStore) runMigrations() error {
	createVersionTable := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := d.db.Exec(createVersionTable); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := d.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version;`).Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.ID <= currentVersion {
			continue
		}
		d.logger.Debug("applying migration", "id", migration.ID, "description", migration.Description)
		if err := d.applyMigration(migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.ID, err)
		}
	}
	return nil
}

// applyMigration runs one migration and records it, in a single transaction
func (d *SQLiteStore) applyMigration(migration Migration) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, statement := range strings.Split(migration.SQL, ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := tx.Exec(statement); err != nil {
			return fmt.Errorf("failed to execute migration statement: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?);`, migration.ID); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}

// MigrationStatus represents the status of a migration
type MigrationStatus struct {
	ID          int
	Description string
	Applied     bool
}

// MigrationStatus returns the status of all known migrations
func (d *SQLiteStore) MigrationStatus() ([]MigrationStatus, error) {
	rows, err := d.db.Query(`SELECT version FROM schema_version ORDER BY version;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	status := make([]MigrationStatus, 0, len(migrations))
	for _, migration := range migrations {
		status = append(status, MigrationStatus{
			ID:          migration.ID,
			Description: migration.Description,
			Applied:     applied[migration.ID],
		})
	}
	return status, nil
}
