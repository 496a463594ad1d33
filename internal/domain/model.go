// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import "time"

// ─── Stat Types ─────────────────────────────────────────────────────────────

// Stats is an attack/defense/health triple.
type Stats struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Health  int `json:"health"`
}

// StatKind selects which base stat an upgrade applies to.
type StatKind string

const (
	StatAttack  StatKind = "attack"
	StatDefense StatKind = "defense"
	StatHealth  StatKind = "health"
)

// Upgrade increments per purchase. One coin buys +1 attack, +1 defense,
// or +10 health.
const (
	UpgradeCost             = 1
	AttackUpgradeIncrement  = 1
	DefenseUpgradeIncrement = 1
	HealthUpgradeIncrement  = 10
)

// ─── Item Types ─────────────────────────────────────────────────────────────

// Item is a randomized cosmetic with percentage stat bonuses.
// Immutable once generated.
type Item struct {
	ID           string    `json:"id"`
	Visual       string    `json:"visual"`
	AttackBonus  float64   `json:"attack_bonus"`  // percent
	DefenseBonus float64   `json:"defense_bonus"` // percent
	HealthBonus  float64   `json:"health_bonus"`  // percent
	DrawnAt      time.Time `json:"drawn_at"`
}

// ItemVisuals is the fixed sprite set an item's visual is drawn from.
var ItemVisuals = []string{
	"red_cap",
	"blue_cap",
	"green_cap",
	"straw_hat",
	"wizard_hat",
	"crown",
}

// ApplyBonus scales a base stat by a percentage bonus, flooring the result.
func ApplyBonus(base int, bonusPct float64) int {
	return int(float64(base) * (1 + bonusPct/100))
}

// ─── Profile ────────────────────────────────────────────────────────────────

// Profile is the local player's character and account state.
// There is exactly one per database.
type Profile struct {
	Name           string    `json:"name"`
	Coins          int       `json:"coins"`
	BaseAttack     int       `json:"base_attack"`
	BaseDefense    int       `json:"base_defense"`
	BaseHealth     int       `json:"base_health"`
	EquippedItemID string    `json:"equipped_item_id,omitempty"` // empty = nothing equipped
	AttemptsLeft   int       `json:"attempts_left"`
	AttemptsReset  time.Time `json:"attempts_reset"` // next weekly replenish
}

// DefaultProfile returns a fresh character with the starting loadout.
func DefaultProfile(name string) Profile {
	return Profile{
		Name:        name,
		Coins:       1000,
		BaseAttack:  100,
		BaseDefense: 100,
		BaseHealth:  500,
	}
}

// BaseStats returns the profile's unmodified stat triple.
func (p Profile) BaseStats() Stats {
	return Stats{Attack: p.BaseAttack, Defense: p.BaseDefense, Health: p.BaseHealth}
}

// TotalStats returns the stat triple after the equipped item's bonuses.
// A nil item means nothing is equipped.
func (p Profile) TotalStats(equipped *Item) Stats {
	base := p.BaseStats()
	if equipped == nil {
		return base
	}
	return Stats{
		Attack:  ApplyBonus(base.Attack, equipped.AttackBonus),
		Defense: ApplyBonus(base.Defense, equipped.DefenseBonus),
		Health:  ApplyBonus(base.Health, equipped.HealthBonus),
	}
}

// ─── Competitor ─────────────────────────────────────────────────────────────

// Competitor is one row on the leaderboard. The local player appears as a
// competitor too; everyone else is seeded reference data whose score moves
// only through battle outcomes.
type Competitor struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Health  int    `json:"health"`
}

// Stats returns the competitor's base stat triple.
func (c Competitor) Stats() Stats {
	return Stats{Attack: c.Attack, Defense: c.Defense, Health: c.Health}
}

// ─── Step Types ─────────────────────────────────────────────────────────────

// DailyStepRecord is one row per calendar date.
type DailyStepRecord struct {
	Date  string `json:"date"` // YYYY-MM-DD, local time
	Steps int    `json:"steps"`
}

// DateKey formats a time as the ledger's calendar-date key.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ─── Currency Rules ─────────────────────────────────────────────────────────

// DailyStepCap is the step count beyond which walking earns no more coins.
// Steps keep counting for display; only the claimable amount saturates.
const DailyStepCap = 8000

// StepsPerCoin converts claimed steps into coins.
const StepsPerCoin = 100

// DrawCost is the coin price of a single shop draw.
const DrawCost = 100

// ClaimableCoins returns the coins earnable right now given today's steps
// and the already-claimed checkpoint. Never negative.
func ClaimableCoins(stepsToday, checkpoint int) int {
	capped := stepsToday
	if capped > DailyStepCap {
		capped = DailyStepCap
	}
	claimable := capped - checkpoint
	if claimable <= 0 {
		return 0
	}
	return claimable / StepsPerCoin
}

// ClaimCheckpoint returns the checkpoint value after a claim: today's steps
// saturated at the daily cap, so steps beyond the cap never earn twice.
func ClaimCheckpoint(stepsToday int) int {
	if stepsToday > DailyStepCap {
		return DailyStepCap
	}
	return stepsToday
}

// ─── Battle Types ───────────────────────────────────────────────────────────

// Combatant is an immutable stat snapshot taken at battle start. Item
// bonuses are folded in once here; later equipment changes do not affect
// an in-progress battle.
type Combatant struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Stats Stats  `json:"stats"`
}

// BattleResult is the ephemeral outcome of a resolved battle.
type BattleResult struct {
	Victory    bool `json:"victory"`     // from the initiator's perspective
	ScoreDelta int  `json:"score_delta"` // signed; applied by the caller
	Ticks      int  `json:"ticks"`
}

// DamagePerTick computes one side's damage against the other for a single
// exchange: floor(attack × 100 / (100 + defense)), minimum 1. The formula
// never varies with current health.
func DamagePerTick(attacker, defender Stats) int {
	dmg := attacker.Attack * 100 / (100 + defender.Defense)
	if dmg < 1 {
		return 1
	}
	return dmg
}

// Flat score awards. A win pays the base plus the score gap to the opponent
// (which can drag the delta negative against far weaker opponents — the
// outcome is still recorded as a win). A loss costs a flat 10.
const (
	WinBaseScore   = 30
	LossScoreDelta = -10
)

// WinScoreDelta returns the initiator's score delta for a victory.
func WinScoreDelta(initiatorScore, opponentScore int) int {
	return WinBaseScore + (opponentScore - initiatorScore)
}

// WeeklyBattleAttempts is the per-period challenge allowance.
const WeeklyBattleAttempts = 5

// ChallengeWindowRadius bounds the "nearby opponents" score window.
const ChallengeWindowRadius = 10
