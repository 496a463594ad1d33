// Package sqlite provides the local persistence layer for the game state:
// the player profile, owned items, daily step records, and the competitor
// leaderboard. All mutations run as transactions so the sensor-ingest path
// and the interactive path never lose updates to each other.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection with typed game-state operations.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database under dir and applies migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dir, "powerwalk.db")
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single writer keeps the read-modify-write paths serialized.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.db.Close()
}

// migrate applies the schema. Each string is a single SQL statement
// (SQLite executes one at a time).
func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Migrations returns the schema migration statements.
func Migrations() []string {
	return []string{
		// Local player profile — exactly one row.
		`CREATE TABLE IF NOT EXISTS profile (
			id            INTEGER PRIMARY KEY CHECK (id = 1),
			name          TEXT NOT NULL,
			coins         INTEGER NOT NULL DEFAULT 0,
			base_attack   INTEGER NOT NULL DEFAULT 0,
			base_defense  INTEGER NOT NULL DEFAULT 0,
			base_health   INTEGER NOT NULL DEFAULT 0,
			equipped_item TEXT NOT NULL DEFAULT '',
			attempts_left INTEGER NOT NULL DEFAULT 0,
			attempts_reset TEXT NOT NULL DEFAULT ''
		)`,

		// Owned cosmetic items
		`CREATE TABLE IF NOT EXISTS items (
			id            TEXT PRIMARY KEY,
			visual        TEXT NOT NULL,
			attack_bonus  REAL NOT NULL,
			defense_bonus REAL NOT NULL,
			health_bonus  REAL NOT NULL,
			drawn_at      TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// One row per calendar date, replace on conflict
		`CREATE TABLE IF NOT EXISTS steps (
			date  TEXT PRIMARY KEY,
			steps INTEGER NOT NULL DEFAULT 0
		)`,

		// Claimed-steps checkpoint per date
		`CREATE TABLE IF NOT EXISTS claim_checkpoints (
			date  TEXT PRIMARY KEY,
			steps INTEGER NOT NULL DEFAULT 0
		)`,

		// Last observed raw sensor reading (single row)
		`CREATE TABLE IF NOT EXISTS sensor_baseline (
			id  INTEGER PRIMARY KEY CHECK (id = 1),
			raw INTEGER NOT NULL
		)`,

		// Competitor leaderboard
		`CREATE TABLE IF NOT EXISTS competitors (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			name    TEXT NOT NULL UNIQUE,
			score   INTEGER NOT NULL DEFAULT 0,
			attack  INTEGER NOT NULL DEFAULT 0,
			defense INTEGER NOT NULL DEFAULT 0,
			health  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_competitors_score ON competitors(score DESC)`,
	}
}
