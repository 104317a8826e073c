package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required by the pharmacy backend. Statements are
// portable between SQLite and PostgreSQL.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            full_name TEXT NOT NULL,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS medications (
            id TEXT PRIMARY KEY,
            code TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            active_ingredient TEXT NOT NULL DEFAULT '',
            concentration TEXT NOT NULL DEFAULT '',
            dosage_form TEXT NOT NULL DEFAULT '',
            presentation TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS stock_lots (
            id TEXT PRIMARY KEY,
            medication_id TEXT NOT NULL UNIQUE,
            current_qty INTEGER NOT NULL CHECK (current_qty >= 0),
            minimum_qty INTEGER NOT NULL,
            lot_number TEXT NOT NULL,
            expiry_date TIMESTAMP NOT NULL,
            entry_date TIMESTAMP NOT NULL,
            updated_at TIMESTAMP NOT NULL,
            FOREIGN KEY(medication_id) REFERENCES medications(id)
        );`,
		`CREATE TABLE IF NOT EXISTS patients (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            national_id TEXT NOT NULL UNIQUE,
            birth_date TIMESTAMP,
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS dispensations (
            id TEXT PRIMARY KEY,
            patient_id TEXT NOT NULL,
            medication_id TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            dispensed_at TIMESTAMP NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            dispensing_user TEXT NOT NULL,
            FOREIGN KEY(patient_id) REFERENCES patients(id),
            FOREIGN KEY(medication_id) REFERENCES medications(id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_dispensations_dispensed_at ON dispensations (dispensed_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
