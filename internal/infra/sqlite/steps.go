// Step ledger persistence: daily totals, the raw sensor baseline, and the
// per-date claim checkpoint.
package sqlite

import (
	"database/sql"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// StepsForDate returns the recorded total for a date key, zero if the date
// has no row yet.
func (db *DB) StepsForDate(date string) (int, error) {
	var steps int
	err := db.db.QueryRow(`SELECT steps FROM steps WHERE date = ?`, date).Scan(&steps)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return steps, err
}

// UpsertSteps replaces the record for a date.
func (db *DB) UpsertSteps(rec domain.DailyStepRecord) error {
	_, err := db.db.Exec(`
		INSERT INTO steps (date, steps) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET steps = excluded.steps
	`, rec.Date, rec.Steps)
	return err
}

// SensorBaseline returns the last observed raw sensor value and whether one
// has ever been recorded.
func (db *DB) SensorBaseline() (int64, bool, error) {
	var raw int64
	err := db.db.QueryRow(`SELECT raw FROM sensor_baseline WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return raw, true, nil
}

// SaveSensorBaseline stores the last observed raw sensor value.
func (db *DB) SaveSensorBaseline(raw int64) error {
	_, err := db.db.Exec(`
		INSERT INTO sensor_baseline (id, raw) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET raw = excluded.raw
	`, raw)
	return err
}

// ClaimCheckpoint returns the step count already converted to coins for a
// date, zero if never claimed.
func (db *DB) ClaimCheckpoint(date string) (int, error) {
	var steps int
	err := db.db.QueryRow(`SELECT steps FROM claim_checkpoints WHERE date = ?`, date).Scan(&steps)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return steps, err
}

// SaveClaimCheckpoint stores the claimed-steps checkpoint for a date.
func (db *DB) SaveClaimCheckpoint(date string, steps int) error {
	_, err := db.db.Exec(`
		INSERT INTO claim_checkpoints (date, steps) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET steps = excluded.steps
	`, date, steps)
	return err
}
