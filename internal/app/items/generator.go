// Package items generates randomized cosmetic items from tiered probability
// tables. Each stat bonus rolls independently: a common tier (80%), an
// uncommon tier (15%), and a rare tier (5%), uniform within the tier's
// range and rounded half-up to one decimal place.
package items

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// tier is one probability-weighted bonus range: uniform in [lo, hi).
type tier struct {
	chance float64 // cumulative upper bound in [0, 100)
	lo, hi float64
}

// Attack and defense bonuses roll 1–4%, health 5–10%.
var (
	attackTiers = []tier{
		{80, 1.0, 2.0},
		{95, 2.0, 3.0},
		{100, 3.0, 4.0},
	}
	healthTiers = []tier{
		{80, 5.0, 7.0},
		{95, 7.0, 9.0},
		{100, 9.0, 10.0},
	}
)

// Generator produces items from a private RNG. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a time-seeded generator.
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator creates a deterministic generator. Tests only.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Roll synthesizes one item: a uniformly chosen visual (independent of the
// stat rolls) plus three independently sampled bonuses.
func (g *Generator) Roll() domain.Item {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return domain.Item{
		ID:           id.String(),
		Visual:       domain.ItemVisuals[g.rng.Intn(len(domain.ItemVisuals))],
		AttackBonus:  g.rollBonus(attackTiers),
		DefenseBonus: g.rollBonus(attackTiers),
		HealthBonus:  g.rollBonus(healthTiers),
		DrawnAt:      g.now(),
	}
}

func (g *Generator) rollBonus(tiers []tier) float64 {
	roll := g.rng.Float64() * 100
	for _, t := range tiers {
		if roll < t.chance {
			return roundTenth(t.lo + g.rng.Float64()*(t.hi-t.lo))
		}
	}
	// Float64 < 1.0 always lands in a tier; this is unreachable.
	last := tiers[len(tiers)-1]
	return roundTenth(last.lo + g.rng.Float64()*(last.hi-last.lo))
}

// roundTenth rounds half-up at the tenths digit: 1.234 → 1.2, 1.25 → 1.3.
func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
