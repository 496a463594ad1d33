package battle

import (
	"sync"
	"time"

	"github.com/powerwalk-app/powerwalk/internal/app/game"
	"github.com/powerwalk-app/powerwalk/internal/app/items"
	"github.com/powerwalk-app/powerwalk/internal/domain"
	"github.com/powerwalk-app/powerwalk/internal/infra/observability"
)

// ─── Arena ──────────────────────────────────────────────────────────────────
// The arena orchestrates challenges: it enforces the weekly attempt
// allowance, snapshots both combatants (the opponent gets a random item
// rolled at battle start), runs the engine to resolution, and applies the
// score deltas to the leaderboard.

// Arena coordinates battles against leaderboard competitors.
type Arena struct {
	mu          sync.Mutex
	competitors domain.CompetitorStore
	session     *game.Session
	gen         *items.Generator
	now         func() time.Time

	// onScoresChanged, when set, fires after any leaderboard mutation.
	onScoresChanged func()
}

// NewArena creates the arena service.
func NewArena(competitors domain.CompetitorStore, session *game.Session, gen *items.Generator) *Arena {
	return &Arena{
		competitors: competitors,
		session:     session,
		gen:         gen,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (a *Arena) SetClock(now func() time.Time) { a.now = now }

// OnScoresChanged registers a hook fired after battle outcomes are applied.
// The live leaderboard feed subscribes through this.
func (a *Arena) OnScoresChanged(fn func()) { a.onScoresChanged = fn }

// Overview is the arena landing state.
type Overview struct {
	AttemptsLeft     int                 `json:"attempts_left"`
	ResetAt          time.Time           `json:"reset_at"`
	ResetInSeconds   int64               `json:"reset_in_seconds"`
	MyScore          int                 `json:"my_score"`
	ChallengeTargets []domain.Competitor `json:"challenge_targets"`
}

// Overview replenishes the allowance if the weekly deadline has passed and
// returns attempts, the reset countdown, and the nearby challenge list.
func (a *Arena) Overview() (Overview, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.replenish()
	if err != nil {
		return Overview{}, err
	}
	me, err := a.ensureSelf(p.Name)
	if err != nil {
		return Overview{}, err
	}

	minScore := me.Score - domain.ChallengeWindowRadius
	if minScore < 0 {
		minScore = 0
	}
	targets, err := a.competitors.Nearby(me.Name, minScore, me.Score+domain.ChallengeWindowRadius, 10)
	if err != nil {
		return Overview{}, err
	}

	now := a.now()
	return Overview{
		AttemptsLeft:     p.AttemptsLeft,
		ResetAt:          p.AttemptsReset,
		ResetInSeconds:   int64(p.AttemptsReset.Sub(now) / time.Second),
		MyScore:          me.Score,
		ChallengeTargets: targets,
	}, nil
}

// Outcome is a completed challenge: the full tick log plus the applied
// score movement.
type Outcome struct {
	BattleID      string              `json:"battle_id"`
	Initiator     domain.Combatant    `json:"initiator"`
	Opponent      domain.Combatant    `json:"opponent"`
	OpponentItem  domain.Item         `json:"opponent_item"`
	Ticks         []Tick              `json:"ticks"`
	Result        domain.BattleResult `json:"result"`
	MyScore       int                 `json:"my_score"`
	OpponentScore int                 `json:"opponent_score"`
	AttemptsLeft  int                 `json:"attempts_left"`
}

// Challenge runs a full battle against the named competitor and applies
// the outcome. Fails with ErrNoAttemptsLeft when the weekly allowance is
// spent; the allowance decrements once per initiated battle.
func (a *Arena) Challenge(opponentName string) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.replenish()
	if err != nil {
		return Outcome{}, err
	}
	if p.AttemptsLeft <= 0 {
		return Outcome{}, domain.ErrNoAttemptsLeft
	}

	me, err := a.ensureSelf(p.Name)
	if err != nil {
		return Outcome{}, err
	}
	opponent, err := a.competitors.GetCompetitorByName(opponentName)
	if err != nil {
		return Outcome{}, err
	}

	// Snapshot both sides. The initiator's totals fold in the equipped
	// item; the opponent rolls a random item at battle start.
	myStats, err := a.session.TotalStats()
	if err != nil {
		return Outcome{}, err
	}
	oppItem := a.gen.Roll()
	oppStats := domain.Stats{
		Attack:  domain.ApplyBonus(opponent.Attack, oppItem.AttackBonus),
		Defense: domain.ApplyBonus(opponent.Defense, oppItem.DefenseBonus),
		Health:  domain.ApplyBonus(opponent.Health, oppItem.HealthBonus),
	}

	engine := NewEngine(
		domain.Combatant{Name: me.Name, Score: me.Score, Stats: myStats},
		domain.Combatant{Name: opponent.Name, Score: opponent.Score, Stats: oppStats},
	)
	ticks, result, err := engine.Resolve()
	if err != nil {
		return Outcome{}, err
	}

	// Apply the asymmetric clamp: the opponent's floor is enforced, the
	// initiator's is not.
	myScore := me.Score + result.ScoreDelta
	oppScore := opponent.Score - result.ScoreDelta
	if oppScore < 0 {
		oppScore = 0
	}
	if err := a.competitors.UpdateScore(me.ID, myScore); err != nil {
		return Outcome{}, err
	}
	if err := a.competitors.UpdateScore(opponent.ID, oppScore); err != nil {
		return Outcome{}, err
	}

	p, err = a.session.Apply(func(p *domain.Profile) error {
		p.AttemptsLeft--
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	label := "loss"
	if result.Victory {
		label = "win"
	}
	observability.BattlesResolved.WithLabelValues(label).Inc()
	observability.BattleTicks.Observe(float64(result.Ticks))
	observability.AttemptsRemaining.Set(float64(p.AttemptsLeft))

	if a.onScoresChanged != nil {
		a.onScoresChanged()
	}

	return Outcome{
		BattleID:      engine.ID(),
		Initiator:     engine.Initiator(),
		Opponent:      engine.Opponent(),
		OpponentItem:  oppItem,
		Ticks:         ticks,
		Result:        result,
		MyScore:       myScore,
		OpponentScore: oppScore,
		AttemptsLeft:  p.AttemptsLeft,
	}, nil
}

// replenish refills the allowance when the weekly deadline has passed.
func (a *Arena) replenish() (domain.Profile, error) {
	now := a.now()
	return a.session.Apply(func(p *domain.Profile) error {
		if ReplenishDue(p.AttemptsReset, now) {
			p.AttemptsLeft = domain.WeeklyBattleAttempts
			p.AttemptsReset = NextMondayReset(now)
			observability.AttemptsRemaining.Set(float64(p.AttemptsLeft))
		}
		return nil
	})
}

// ensureSelf guarantees the local player has a leaderboard row.
func (a *Arena) ensureSelf(name string) (domain.Competitor, error) {
	me, err := a.competitors.GetCompetitorByName(name)
	if err == nil {
		return me, nil
	}
	if err != domain.ErrCompetitorNotFound {
		return domain.Competitor{}, err
	}
	id, err := a.competitors.UpsertCompetitor(domain.Competitor{Name: name, Score: 0})
	if err != nil {
		return domain.Competitor{}, err
	}
	return domain.Competitor{ID: id, Name: name, Score: 0}, nil
}
