// Competitor leaderboard persistence.
package sqlite

import (
	"database/sql"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// UpsertCompetitor inserts a competitor or replaces an existing one with the
// same name, returning the row ID.
func (db *DB) UpsertCompetitor(c domain.Competitor) (int64, error) {
	_, err := db.db.Exec(`
		INSERT INTO competitors (name, score, attack, defense, health)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			score = excluded.score,
			attack = excluded.attack,
			defense = excluded.defense,
			health = excluded.health
	`, c.Name, c.Score, c.Attack, c.Defense, c.Health)
	if err != nil {
		return 0, err
	}
	got, err := db.GetCompetitorByName(c.Name)
	if err != nil {
		return 0, err
	}
	return got.ID, nil
}

// GetCompetitorByName looks up a single competitor.
func (db *DB) GetCompetitorByName(name string) (domain.Competitor, error) {
	var c domain.Competitor
	err := db.db.QueryRow(`
		SELECT id, name, score, attack, defense, health
		FROM competitors WHERE name = ? LIMIT 1
	`, name).Scan(&c.ID, &c.Name, &c.Score, &c.Attack, &c.Defense, &c.Health)
	if err == sql.ErrNoRows {
		return domain.Competitor{}, domain.ErrCompetitorNotFound
	}
	return c, err
}

// UpdateScore unconditionally overwrites a competitor's score. Last write
// wins — there is no optimistic concurrency check.
func (db *DB) UpdateScore(id int64, score int) error {
	res, err := db.db.Exec(`UPDATE competitors SET score = ? WHERE id = ?`, score, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCompetitorNotFound
	}
	return nil
}

// RankedAll returns every competitor ordered by score descending. Ties keep
// storage order.
func (db *DB) RankedAll() ([]domain.Competitor, error) {
	rows, err := db.db.Query(`
		SELECT id, name, score, attack, defense, health
		FROM competitors ORDER BY score DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompetitors(rows)
}

// Nearby returns up to limit competitors other than exceptName whose score
// lies in [minScore, maxScore], ordered by score descending.
func (db *DB) Nearby(exceptName string, minScore, maxScore, limit int) ([]domain.Competitor, error) {
	rows, err := db.db.Query(`
		SELECT id, name, score, attack, defense, health
		FROM competitors
		WHERE name != ? AND score BETWEEN ? AND ?
		ORDER BY score DESC LIMIT ?
	`, exceptName, minScore, maxScore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompetitors(rows)
}

// DeleteAllExcept removes every competitor except the named one. Used when
// reseeding sample data.
func (db *DB) DeleteAllExcept(name string) error {
	_, err := db.db.Exec(`DELETE FROM competitors WHERE name != ?`, name)
	return err
}

func scanCompetitors(rows *sql.Rows) ([]domain.Competitor, error) {
	var out []domain.Competitor
	for rows.Next() {
		var c domain.Competitor
		if err := rows.Scan(&c.ID, &c.Name, &c.Score, &c.Attack, &c.Defense, &c.Health); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
