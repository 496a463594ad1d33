package domain

import (
	"testing"
	"time"
)

// ─── Currency Rules ─────────────────────────────────────────────────────────

func TestClaimableCoins(t *testing.T) {
	tests := []struct {
		name       string
		steps      int
		checkpoint int
		want       int
	}{
		{"no_steps", 0, 0, 0},
		{"below_one_coin", 99, 0, 0},
		{"one_coin", 100, 0, 1},
		{"partial_coin_floored", 250, 0, 2},
		{"after_claim", 250, 250, 0},
		{"checkpoint_ahead", 100, 200, 0},
		{"at_cap", 8000, 0, 80},
		{"beyond_cap", 12000, 0, 80},
		{"beyond_cap_claimed", 12000, 8000, 0},
		{"incremental", 5300, 5000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClaimableCoins(tt.steps, tt.checkpoint)
			if got != tt.want {
				t.Errorf("ClaimableCoins(%d, %d) = %d, want %d", tt.steps, tt.checkpoint, got, tt.want)
			}
		})
	}
}

func TestClaimableCoins_NeverNegative(t *testing.T) {
	for steps := 0; steps <= 10000; steps += 500 {
		for cp := 0; cp <= DailyStepCap; cp += 500 {
			if got := ClaimableCoins(steps, cp); got < 0 {
				t.Fatalf("ClaimableCoins(%d, %d) = %d, want >= 0", steps, cp, got)
			}
		}
	}
}

func TestClaimCheckpoint(t *testing.T) {
	if got := ClaimCheckpoint(3000); got != 3000 {
		t.Errorf("ClaimCheckpoint(3000) = %d, want 3000", got)
	}
	if got := ClaimCheckpoint(12000); got != DailyStepCap {
		t.Errorf("ClaimCheckpoint(12000) = %d, want %d", got, DailyStepCap)
	}
}

// ─── Stat Derivation ────────────────────────────────────────────────────────

func TestApplyBonus(t *testing.T) {
	tests := []struct {
		base int
		pct  float64
		want int
	}{
		{100, 0, 100},
		{100, 1.5, 101},  // 101.5 floors
		{100, 3.9, 103},  // 103.9 floors
		{500, 9.9, 549},  // 549.5 floors
		{500, 5.0, 525},
	}

	for _, tt := range tests {
		if got := ApplyBonus(tt.base, tt.pct); got != tt.want {
			t.Errorf("ApplyBonus(%d, %.1f) = %d, want %d", tt.base, tt.pct, got, tt.want)
		}
	}
}

func TestProfileTotalStats(t *testing.T) {
	p := DefaultProfile("walker")

	bare := p.TotalStats(nil)
	if bare != p.BaseStats() {
		t.Errorf("unequipped totals = %+v, want base %+v", bare, p.BaseStats())
	}

	item := &Item{AttackBonus: 2.5, DefenseBonus: 1.0, HealthBonus: 6.0}
	got := p.TotalStats(item)
	want := Stats{Attack: 102, Defense: 101, Health: 530}
	if got != want {
		t.Errorf("equipped totals = %+v, want %+v", got, want)
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile("walker")
	if p.Coins != 1000 {
		t.Errorf("Coins = %d, want 1000", p.Coins)
	}
	if p.BaseAttack != 100 || p.BaseDefense != 100 || p.BaseHealth != 500 {
		t.Errorf("base stats = %d/%d/%d, want 100/100/500", p.BaseAttack, p.BaseDefense, p.BaseHealth)
	}
	if p.EquippedItemID != "" {
		t.Errorf("EquippedItemID = %q, want empty", p.EquippedItemID)
	}
}

// ─── Battle Rules ───────────────────────────────────────────────────────────

func TestDamagePerTick(t *testing.T) {
	tests := []struct {
		name     string
		attacker Stats
		defender Stats
		want     int
	}{
		{"mirror_match", Stats{Attack: 100, Defense: 100, Health: 500}, Stats{Attack: 100, Defense: 100, Health: 500}, 50},
		{"glass_cannon", Stats{Attack: 150}, Stats{Defense: 50}, 100},
		{"tank", Stats{Attack: 10}, Stats{Defense: 900}, 1}, // floor would be 1 anyway
		{"minimum_one", Stats{Attack: 1}, Stats{Defense: 500}, 1},
		{"zero_defense", Stats{Attack: 77}, Stats{Defense: 0}, 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DamagePerTick(tt.attacker, tt.defender)
			if got != tt.want {
				t.Errorf("DamagePerTick = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDamagePerTick_IgnoresHealth(t *testing.T) {
	a := Stats{Attack: 120, Defense: 80, Health: 500}
	b := Stats{Attack: 90, Defense: 110, Health: 400}

	full := DamagePerTick(a, b)
	a.Health = 1
	b.Health = 1
	if got := DamagePerTick(a, b); got != full {
		t.Errorf("damage changed with health: %d vs %d", got, full)
	}
}

func TestWinScoreDelta(t *testing.T) {
	// Beating a higher-scored opponent pays more.
	if got := WinScoreDelta(100, 150); got != 80 {
		t.Errorf("WinScoreDelta(100, 150) = %d, want 80", got)
	}
	// Beating a far weaker opponent can cost score despite the win.
	if got := WinScoreDelta(200, 100); got != -70 {
		t.Errorf("WinScoreDelta(200, 100) = %d, want -70", got)
	}
	if got := WinScoreDelta(50, 50); got != WinBaseScore {
		t.Errorf("WinScoreDelta(50, 50) = %d, want %d", got, WinBaseScore)
	}
}

// ─── Step Records ───────────────────────────────────────────────────────────

func TestDateKey(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 23, 59, 0, 0, time.Local)
	if got := DateKey(ts); got != "2025-03-07" {
		t.Errorf("DateKey = %q, want %q", got, "2025-03-07")
	}
}
