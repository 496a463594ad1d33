// Package battle resolves turn-based auto-battles between two stat
// snapshots. The engine is a pure state machine advanced one tick at a
// time by an external scheduler, so resolution is deterministic and
// testable without real time; a ticker-driven Runner layers wall-clock
// pacing on top for live feeds.
package battle

import (
	"github.com/google/uuid"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// State is the engine lifecycle.
type State int

const (
	Idle State = iota
	InProgress
	Resolved
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Tick is one simultaneous damage exchange.
type Tick struct {
	N                 int `json:"n"`
	DamageToInitiator int `json:"damage_to_initiator"`
	DamageToOpponent  int `json:"damage_to_opponent"`
	InitiatorHealth   int `json:"initiator_health"`
	OpponentHealth    int `json:"opponent_health"`
}

// Engine runs one battle between two immutable combatant snapshots.
// Not safe for concurrent use; each battle owns its own engine.
type Engine struct {
	id        string
	state     State
	initiator domain.Combatant
	opponent  domain.Combatant

	initiatorHealth int
	opponentHealth  int
	ticks           int
	result          domain.BattleResult
}

// NewEngine creates an Idle engine holding the two snapshots. Bonuses are
// expected to be folded into the snapshots already — equipment changes
// after this point do not affect the battle.
func NewEngine(initiator, opponent domain.Combatant) *Engine {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Engine{
		id:              id.String(),
		state:           Idle,
		initiator:       initiator,
		opponent:        opponent,
		initiatorHealth: initiator.Stats.Health,
		opponentHealth:  opponent.Stats.Health,
	}
}

// ID returns the battle's unique identifier.
func (e *Engine) ID() string { return e.id }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Initiator returns the initiator snapshot.
func (e *Engine) Initiator() domain.Combatant { return e.initiator }

// Opponent returns the opponent snapshot.
func (e *Engine) Opponent() domain.Combatant { return e.opponent }

// Start transitions Idle → InProgress.
func (e *Engine) Start() error {
	switch e.state {
	case InProgress:
		return domain.ErrBattleInProgress
	case Resolved:
		return domain.ErrBattleResolved
	}
	e.state = InProgress
	return nil
}

// Advance applies one simultaneous exchange: both sides take damage in the
// same tick, computed from the immutable snapshots, clamped at zero. When
// at least one side reaches zero the engine resolves; a simultaneous death
// rules the initiator the loser (fixed, non-configurable tie-break).
func (e *Engine) Advance() (Tick, error) {
	if e.state != InProgress {
		if e.state == Resolved {
			return Tick{}, domain.ErrBattleResolved
		}
		return Tick{}, domain.ErrBattleNotStarted
	}

	dmgToOpponent := domain.DamagePerTick(e.initiator.Stats, e.opponent.Stats)
	dmgToInitiator := domain.DamagePerTick(e.opponent.Stats, e.initiator.Stats)

	e.opponentHealth -= dmgToOpponent
	if e.opponentHealth < 0 {
		e.opponentHealth = 0
	}
	e.initiatorHealth -= dmgToInitiator
	if e.initiatorHealth < 0 {
		e.initiatorHealth = 0
	}
	e.ticks++

	tick := Tick{
		N:                 e.ticks,
		DamageToInitiator: dmgToInitiator,
		DamageToOpponent:  dmgToOpponent,
		InitiatorHealth:   e.initiatorHealth,
		OpponentHealth:    e.opponentHealth,
	}

	if e.initiatorHealth <= 0 || e.opponentHealth <= 0 {
		e.resolve()
	}
	return tick, nil
}

// resolve computes the outcome. The initiator loses on simultaneous death;
// the win delta is the flat base plus the score gap and may be negative.
func (e *Engine) resolve() {
	e.state = Resolved

	if e.initiatorHealth <= 0 {
		e.result = domain.BattleResult{
			Victory:    false,
			ScoreDelta: domain.LossScoreDelta,
			Ticks:      e.ticks,
		}
		return
	}
	e.result = domain.BattleResult{
		Victory:    true,
		ScoreDelta: domain.WinScoreDelta(e.initiator.Score, e.opponent.Score),
		Ticks:      e.ticks,
	}
}

// IsResolved reports whether the battle has finished.
func (e *Engine) IsResolved() bool { return e.state == Resolved }

// Result returns the outcome of a resolved battle.
func (e *Engine) Result() (domain.BattleResult, error) {
	switch e.state {
	case Idle:
		return domain.BattleResult{}, domain.ErrBattleNotStarted
	case InProgress:
		return domain.BattleResult{}, domain.ErrBattleInProgress
	}
	return e.result, nil
}

// Healths returns the current health pair (initiator, opponent).
func (e *Engine) Healths() (int, int) {
	return e.initiatorHealth, e.opponentHealth
}

// Resolve advances the battle to completion without pacing, returning the
// full tick log. Used by the synchronous challenge path and by tests.
func (e *Engine) Resolve() ([]Tick, domain.BattleResult, error) {
	if e.state == Idle {
		if err := e.Start(); err != nil {
			return nil, domain.BattleResult{}, err
		}
	}

	var log []Tick
	for !e.IsResolved() {
		tick, err := e.Advance()
		if err != nil {
			return log, domain.BattleResult{}, err
		}
		log = append(log, tick)
	}
	result, err := e.Result()
	return log, result, err
}
