// Package game owns the local player's character and account state: coins,
// base stats, owned items, and the equipped slot. It is the single writer
// for the profile — both the sensor-ingest path and the interactive path go
// through the same mutex, and every mutation is a read-modify-write against
// the backing store so nothing is lost between restarts.
package game

import (
	"sync"
	"time"

	"github.com/powerwalk-app/powerwalk/internal/app/items"
	"github.com/powerwalk-app/powerwalk/internal/domain"
	"github.com/powerwalk-app/powerwalk/internal/infra/observability"
)

// Store is the persistence surface the session needs.
type Store interface {
	domain.ProfileStore
	domain.ItemStore
	domain.StepStore
}

// Session is the injected state container the rest of the system consults.
type Session struct {
	mu    sync.Mutex
	store Store
	gen   *items.Generator
	now   func() time.Time
}

// NewSession creates the session. The profile row is created lazily with
// the default loadout on first access.
func NewSession(store Store, gen *items.Generator) *Session {
	return &Session{store: store, gen: gen, now: time.Now}
}

// SetClock overrides the time source. Tests only.
func (s *Session) SetClock(now func() time.Time) { s.now = now }

// Profile returns a snapshot of the current profile.
func (s *Session) Profile() (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Profile()
}

// Apply runs a command against the profile under the session lock and
// persists the result. This is the single-writer update contract other
// services (the arena's attempt bookkeeping) go through instead of
// mutating shared state ambiently.
func (s *Session) Apply(cmd func(*domain.Profile) error) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Profile()
	if err != nil {
		return domain.Profile{}, err
	}
	if err := cmd(&p); err != nil {
		return domain.Profile{}, err
	}
	if err := s.store.SaveProfile(p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// SetName renames the local player.
func (s *Session) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.store.Profile()
	if err != nil {
		return err
	}
	p.Name = name
	return s.store.SaveProfile(p)
}

// ─── Wallet ─────────────────────────────────────────────────────────────────

// Wallet is a snapshot of the coin economy.
type Wallet struct {
	Coins      int `json:"coins"`
	StepsToday int `json:"steps_today"`
	Checkpoint int `json:"claimed_steps"`
	Claimable  int `json:"claimable"`
}

// Wallet reports the balance and the currently claimable amount.
func (s *Session) Wallet() (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet()
}

func (s *Session) wallet() (Wallet, error) {
	p, err := s.store.Profile()
	if err != nil {
		return Wallet{}, err
	}
	date := domain.DateKey(s.now())
	steps, err := s.store.StepsForDate(date)
	if err != nil {
		return Wallet{}, err
	}
	checkpoint, err := s.store.ClaimCheckpoint(date)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{
		Coins:      p.Coins,
		StepsToday: steps,
		Checkpoint: checkpoint,
		Claimable:  domain.ClaimableCoins(steps, checkpoint),
	}, nil
}

// Claim converts today's unclaimed steps into coins. A no-op returning 0
// when nothing is claimable, so claiming twice in a row mints nothing the
// second time. The checkpoint advances to the capped step count — steps
// beyond the daily cap never earn.
func (s *Session) Claim() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.wallet()
	if err != nil {
		return 0, err
	}
	if w.Claimable <= 0 {
		return 0, nil
	}

	p, err := s.store.Profile()
	if err != nil {
		return 0, err
	}
	p.Coins += w.Claimable
	if err := s.store.SaveProfile(p); err != nil {
		return 0, err
	}
	date := domain.DateKey(s.now())
	if err := s.store.SaveClaimCheckpoint(date, domain.ClaimCheckpoint(w.StepsToday)); err != nil {
		return 0, err
	}

	observability.CoinsClaimed.Add(float64(w.Claimable))
	return w.Claimable, nil
}

// ─── Stat Growth ────────────────────────────────────────────────────────────

// Upgrade spends one coin on a base-stat increment: +1 attack, +1 defense,
// or +10 health. There is no upper bound on stat growth.
func (s *Session) Upgrade(kind domain.StatKind) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Profile()
	if err != nil {
		return domain.Profile{}, err
	}
	if p.Coins < domain.UpgradeCost {
		return domain.Profile{}, domain.ErrInsufficientFunds
	}

	switch kind {
	case domain.StatAttack:
		p.BaseAttack += domain.AttackUpgradeIncrement
	case domain.StatDefense:
		p.BaseDefense += domain.DefenseUpgradeIncrement
	case domain.StatHealth:
		p.BaseHealth += domain.HealthUpgradeIncrement
	default:
		return domain.Profile{}, domain.ErrUnknownStat
	}
	p.Coins -= domain.UpgradeCost

	if err := s.store.SaveProfile(p); err != nil {
		return domain.Profile{}, err
	}
	observability.StatUpgrades.WithLabelValues(string(kind)).Inc()
	observability.CoinsSpent.WithLabelValues("upgrade").Add(domain.UpgradeCost)
	return p, nil
}

// ─── Shop ───────────────────────────────────────────────────────────────────

// Draw performs count independent single draws at cost coins each. If the
// balance runs out mid-batch, whatever was already drawn is kept and
// returned; a batch that cannot afford even one draw fails with
// ErrInsufficientFunds.
func (s *Session) Draw(cost, count int) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var drawn []domain.Item
	for i := 0; i < count; i++ {
		p, err := s.store.Profile()
		if err != nil {
			return drawn, err
		}
		if p.Coins < cost {
			break
		}

		item := s.gen.Roll()
		p.Coins -= cost
		if err := s.store.SaveProfile(p); err != nil {
			return drawn, err
		}
		if err := s.store.InsertItem(item); err != nil {
			return drawn, err
		}
		drawn = append(drawn, item)

		observability.ItemsDrawn.Inc()
		observability.CoinsSpent.WithLabelValues("draw").Add(float64(cost))
	}

	if len(drawn) == 0 {
		return nil, domain.ErrInsufficientFunds
	}
	return drawn, nil
}

// Items returns the owned collection.
func (s *Session) Items() ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListItems()
}

// ─── Equipment ──────────────────────────────────────────────────────────────

// Equip sets the equipped slot. The item must be owned.
func (s *Session) Equip(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetItem(itemID); err != nil {
		return domain.ErrItemNotOwned
	}
	p, err := s.store.Profile()
	if err != nil {
		return err
	}
	p.EquippedItemID = itemID
	return s.store.SaveProfile(p)
}

// Unequip clears the equipped slot. Always succeeds.
func (s *Session) Unequip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Profile()
	if err != nil {
		return err
	}
	p.EquippedItemID = ""
	return s.store.SaveProfile(p)
}

// DeleteItem removes an item from the collection, clearing the equipped
// slot if it was the one worn.
func (s *Session) DeleteItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteItem(itemID); err != nil {
		return err
	}
	p, err := s.store.Profile()
	if err != nil {
		return err
	}
	if p.EquippedItemID == itemID {
		p.EquippedItemID = ""
		return s.store.SaveProfile(p)
	}
	return nil
}

// EquippedItem returns the currently worn item, or nil.
func (s *Session) EquippedItem() (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equippedItem()
}

func (s *Session) equippedItem() (*domain.Item, error) {
	p, err := s.store.Profile()
	if err != nil {
		return nil, err
	}
	if p.EquippedItemID == "" {
		return nil, nil
	}
	item, err := s.store.GetItem(p.EquippedItemID)
	if err != nil {
		// Equipped row vanished; treat as bare head.
		return nil, nil
	}
	return &item, nil
}

// TotalStats returns the derived stat triple with the equipped item's
// bonuses applied.
func (s *Session) TotalStats() (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Profile()
	if err != nil {
		return domain.Stats{}, err
	}
	equipped, err := s.equippedItem()
	if err != nil {
		return domain.Stats{}, err
	}
	return p.TotalStats(equipped), nil
}
