package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS workshops (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					date DATETIME NOT NULL,
					ticket_price REAL NOT NULL DEFAULT 0,
					sheet_url TEXT,
					status TEXT NOT NULL DEFAULT 'upcoming',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_workshops_date ON workshops(date)`,

				`CREATE TABLE IF NOT EXISTS registrations (
					id TEXT PRIMARY KEY,
					workshop_id TEXT NOT NULL,
					full_name TEXT,
					phone TEXT,
					email TEXT,
					notes TEXT,
					payment_confirmed TEXT,
					amount_rs REAL NOT NULL DEFAULT 0,
					raw_row_index INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(workshop_id, raw_row_index),
					FOREIGN KEY (workshop_id) REFERENCES workshops(id) ON DELETE CASCADE
				)`,

				`CREATE TABLE IF NOT EXISTS other_costs (
					id TEXT PRIMARY KEY,
					workshop_id TEXT NOT NULL,
					label TEXT NOT NULL,
					amount REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (workshop_id) REFERENCES workshops(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_other_costs_workshop ON other_costs(workshop_id)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Track sync times",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE workshops ADD COLUMN last_synced_at DATETIME`,
				`ALTER TABLE registrations ADD COLUMN updated_at DATETIME`,
				`UPDATE registrations SET updated_at = created_at WHERE updated_at IS NULL`,
			)
		},
	},
	{
		Version:     3,
		Description: "Add financial snapshots",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS financial_snapshots (
					id TEXT PRIMARY KEY,
					workshop_id TEXT NOT NULL,
					revenue REAL NOT NULL,
					meta_spend REAL NOT NULL,
					other_costs_total REAL NOT NULL,
					profit REAL NOT NULL,
					profit_margin REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (workshop_id) REFERENCES workshops(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_financial_snapshots_workshop ON financial_snapshots(workshop_id, created_at)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate runs all database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
