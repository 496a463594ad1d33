// Profile and item persistence.
package sqlite

import (
	"database/sql"
	"time"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// DefaultProfileName is used when the profile row is created implicitly
// before any configuration has been seen.
const DefaultProfileName = "PowerKing"

// ─── Profile Operations ─────────────────────────────────────────────────────

// Profile returns the stored profile, creating the default one on first
// access.
func (db *DB) Profile() (domain.Profile, error) {
	p, err := db.readProfile()
	if err == sql.ErrNoRows {
		p = domain.DefaultProfile(DefaultProfileName)
		if err := db.SaveProfile(p); err != nil {
			return domain.Profile{}, err
		}
		return p, nil
	}
	return p, err
}

func (db *DB) readProfile() (domain.Profile, error) {
	var p domain.Profile
	var reset string
	err := db.db.QueryRow(`
		SELECT name, coins, base_attack, base_defense, base_health,
		       equipped_item, attempts_left, attempts_reset
		FROM profile WHERE id = 1
	`).Scan(&p.Name, &p.Coins, &p.BaseAttack, &p.BaseDefense, &p.BaseHealth,
		&p.EquippedItemID, &p.AttemptsLeft, &reset)
	if err != nil {
		return domain.Profile{}, err
	}
	if reset != "" {
		if t, perr := time.Parse(time.RFC3339, reset); perr == nil {
			p.AttemptsReset = t
		}
	}
	return p, nil
}

// SaveProfile overwrites the stored profile.
func (db *DB) SaveProfile(p domain.Profile) error {
	reset := ""
	if !p.AttemptsReset.IsZero() {
		reset = p.AttemptsReset.Format(time.RFC3339)
	}
	_, err := db.db.Exec(`
		INSERT INTO profile (id, name, coins, base_attack, base_defense, base_health,
		                     equipped_item, attempts_left, attempts_reset)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			coins = excluded.coins,
			base_attack = excluded.base_attack,
			base_defense = excluded.base_defense,
			base_health = excluded.base_health,
			equipped_item = excluded.equipped_item,
			attempts_left = excluded.attempts_left,
			attempts_reset = excluded.attempts_reset
	`, p.Name, p.Coins, p.BaseAttack, p.BaseDefense, p.BaseHealth,
		p.EquippedItemID, p.AttemptsLeft, reset)
	return err
}

// ─── Item Operations ────────────────────────────────────────────────────────

// InsertItem appends an item to the owned collection.
func (db *DB) InsertItem(item domain.Item) error {
	_, err := db.db.Exec(`
		INSERT INTO items (id, visual, attack_bonus, defense_bonus, health_bonus, drawn_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, item.Visual, item.AttackBonus, item.DefenseBonus, item.HealthBonus,
		item.DrawnAt.Format(time.RFC3339))
	return err
}

// DeleteItem removes an item from the owned collection.
func (db *DB) DeleteItem(id string) error {
	res, err := db.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// GetItem retrieves a single owned item.
func (db *DB) GetItem(id string) (domain.Item, error) {
	var item domain.Item
	var drawnAt string
	err := db.db.QueryRow(`
		SELECT id, visual, attack_bonus, defense_bonus, health_bonus, drawn_at
		FROM items WHERE id = ?
	`, id).Scan(&item.ID, &item.Visual, &item.AttackBonus, &item.DefenseBonus,
		&item.HealthBonus, &drawnAt)
	if err == sql.ErrNoRows {
		return domain.Item{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.Item{}, err
	}
	item.DrawnAt, _ = time.Parse(time.RFC3339, drawnAt)
	return item, nil
}

// ListItems returns the owned collection in draw order.
func (db *DB) ListItems() ([]domain.Item, error) {
	rows, err := db.db.Query(`
		SELECT id, visual, attack_bonus, defense_bonus, health_bonus, drawn_at
		FROM items ORDER BY drawn_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		var drawnAt string
		if err := rows.Scan(&item.ID, &item.Visual, &item.AttackBonus,
			&item.DefenseBonus, &item.HealthBonus, &drawnAt); err != nil {
			return nil, err
		}
		item.DrawnAt, _ = time.Parse(time.RFC3339, drawnAt)
		items = append(items, item)
	}
	return items, rows.Err()
}
