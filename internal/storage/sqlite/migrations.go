package sqlite

import (
	"database/sql"
	"fmt"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    host_id TEXT NOT NULL,
    category TEXT NOT NULL,
    status TEXT NOT NULL,
    price TEXT NOT NULL DEFAULT '',
    current_participants INTEGER NOT NULL DEFAULT 0,
    purchase_count INTEGER NOT NULL DEFAULT 0,
    male_seats INTEGER NOT NULL DEFAULT 0,
    female_seats INTEGER NOT NULL DEFAULT 0,
    settlement_status TEXT NOT NULL DEFAULT 'pending',
    invoice_sent_at INTEGER NOT NULL DEFAULT 0,
    settled_at INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_host_id ON items(host_id);
`

// commissionRateKey is the settings row holding the global commission percentage.
const commissionRateKey = "commission_rate"

// runMigrations executes the schema setup and seeds the default commission rate
// if none is stored yet.
func runMigrations(db *sql.DB, defaultRate int) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(
		"INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)",
		commissionRateKey, defaultRate,
	)
	if err != nil {
		return fmt.Errorf("failed to seed commission rate: %w", err)
	}
	return nil
}
