// Package leaderboard maintains the ranked competitor table: full ranking
// reads, the windowed "nearby score" query backing the challenge list, and
// sample-data seeding. Consumers that want live updates subscribe for
// change notifications and re-read the current snapshot — the service
// exposes state plus "something changed", not diffs.
package leaderboard

import (
	"sync"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// Service wraps the competitor store with ranking queries and change
// notification.
type Service struct {
	store domain.CompetitorStore

	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewService creates the leaderboard service.
func NewService(store domain.CompetitorStore) *Service {
	return &Service{
		store: store,
		subs:  make(map[chan struct{}]struct{}),
	}
}

// Ranked returns competitors ordered by score descending, ties in storage
// order. limit <= 0 returns everyone.
func (s *Service) Ranked(limit int) ([]domain.Competitor, error) {
	all, err := s.store.RankedAll()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// RankOf returns the 1-based rank of the named competitor, or 0 if absent.
func (s *Service) RankOf(name string) (int, error) {
	all, err := s.store.RankedAll()
	if err != nil {
		return 0, err
	}
	for i, c := range all {
		if c.Name == name {
			return i + 1, nil
		}
	}
	return 0, nil
}

// Nearby returns up to limit competitors other than self whose score lies
// within radius of self's score, ordered by score descending.
func (s *Service) Nearby(self domain.Competitor, radius, limit int) ([]domain.Competitor, error) {
	minScore := self.Score - radius
	if minScore < 0 {
		minScore = 0
	}
	return s.store.Nearby(self.Name, minScore, self.Score+radius, limit)
}

// UpdateScore unconditionally overwrites a competitor's score and notifies
// subscribers. Last write wins.
func (s *Service) UpdateScore(id int64, score int) error {
	if err := s.store.UpdateScore(id, score); err != nil {
		return err
	}
	s.Notify()
	return nil
}

// ─── Change Notification ────────────────────────────────────────────────────

// Subscribe registers for change signals. The channel carries a token per
// change batch (coalesced — a slow reader sees at least one). Call the
// returned cancel function when done.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

// Notify signals every subscriber that scores changed. Non-blocking: a
// subscriber with a pending signal is skipped.
func (s *Service) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ─── Sample Data ────────────────────────────────────────────────────────────

// SeedSampleData wipes every competitor except keepName and inserts the
// stock roster, then notifies subscribers.
func (s *Service) SeedSampleData(keepName string) error {
	if err := s.store.DeleteAllExcept(keepName); err != nil {
		return err
	}
	for _, c := range SampleCompetitors() {
		if _, err := s.store.UpsertCompetitor(c); err != nil {
			return err
		}
	}
	s.Notify()
	return nil
}

// SampleCompetitors returns the stock roster of 30 opponents, spread seven
// points apart down the score column so every player score has someone
// within challenge range.
func SampleCompetitors() []domain.Competitor {
	return []domain.Competitor{
		{Name: "RunningCat", Attack: 120, Defense: 80, Health: 550, Score: 200},
		{Name: "PowerWalker", Attack: 100, Defense: 90, Health: 500, Score: 193},
		{Name: "SpeedKing", Attack: 110, Defense: 85, Health: 520, Score: 186},
		{Name: "StrideMaster", Attack: 95, Defense: 95, Health: 480, Score: 179},
		{Name: "WalkingHero", Attack: 105, Defense: 88, Health: 510, Score: 172},
		{Name: "QuickFeet", Attack: 90, Defense: 100, Health: 460, Score: 165},
		{Name: "WalkKing", Attack: 115, Defense: 82, Health: 540, Score: 158},
		{Name: "StepMaster", Attack: 85, Defense: 105, Health: 440, Score: 151},
		{Name: "WalkingStar", Attack: 125, Defense: 75, Health: 560, Score: 144},
		{Name: "StrideWarrior", Attack: 80, Defense: 110, Health: 420, Score: 137},
		{Name: "PowerStep", Attack: 130, Defense: 70, Health: 580, Score: 130},
		{Name: "SpeedWalker", Attack: 75, Defense: 115, Health: 400, Score: 123},
		{Name: "WalkChampion", Attack: 135, Defense: 65, Health: 600, Score: 116},
		{Name: "WalkingLegend", Attack: 70, Defense: 120, Health: 450, Score: 109},
		{Name: "QuickStride", Attack: 140, Defense: 60, Health: 590, Score: 102},
		{Name: "StepKing", Attack: 65, Defense: 125, Health: 430, Score: 96},
		{Name: "WalkDeity", Attack: 145, Defense: 55, Health: 570, Score: 89},
		{Name: "WalkingAce", Attack: 60, Defense: 130, Health: 410, Score: 82},
		{Name: "PowerStride", Attack: 150, Defense: 50, Health: 580, Score: 75},
		{Name: "SpeedStep", Attack: 55, Defense: 135, Health: 400, Score: 68},
		{Name: "WalkVirtuoso", Attack: 98, Defense: 102, Health: 490, Score: 61},
		{Name: "WalkingPro", Attack: 50, Defense: 140, Health: 420, Score: 54},
		{Name: "FastFeet", Attack: 103, Defense: 97, Health: 470, Score: 47},
		{Name: "StepHero", Attack: 45, Defense: 145, Health: 410, Score: 41},
		{Name: "WalkGenius", Attack: 108, Defense: 92, Health: 480, Score: 34},
		{Name: "WalkingWizard", Attack: 40, Defense: 150, Health: 400, Score: 27},
		{Name: "PowerPacer", Attack: 113, Defense: 87, Health: 490, Score: 20},
		{Name: "SpeedStride", Attack: 88, Defense: 107, Health: 450, Score: 13},
		{Name: "WalkAthlete", Attack: 118, Defense: 77, Health: 530, Score: 6},
		{Name: "WalkingIdol", Attack: 83, Defense: 112, Health: 440, Score: 0},
	}
}
