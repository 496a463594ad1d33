// Package observability exposes Prometheus metrics for the game engine:
// step ingestion, the coin economy, item draws, and battle outcomes.
// The /metrics endpoint is served by the API layer when enabled in config.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Step Metrics ───────────────────────────────────────────────────────────

// StepsRecorded tracks total steps credited by the ledger.
var StepsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "powerwalk",
	Subsystem: "steps",
	Name:      "recorded_total",
	Help:      "Total steps credited to daily records.",
})

// SensorResets tracks detected step-counter resets (device reboots).
var SensorResets = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "powerwalk",
	Subsystem: "steps",
	Name:      "sensor_resets_total",
	Help:      "Total step-counter resets detected and re-baselined.",
})

// ─── Economy Metrics ────────────────────────────────────────────────────────

// CoinsClaimed tracks coins minted from steps.
var CoinsClaimed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "powerwalk",
	Subsystem: "economy",
	Name:      "coins_claimed_total",
	Help:      "Total coins claimed from step conversion.",
})

// CoinsSpent tracks coins spent by spend reason.
var CoinsSpent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "powerwalk",
	Subsystem: "economy",
	Name:      "coins_spent_total",
	Help:      "Total coins spent, by reason.",
}, []string{"reason"})

// StatUpgrades tracks stat purchases by stat kind.
var StatUpgrades = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "powerwalk",
	Subsystem: "economy",
	Name:      "stat_upgrades_total",
	Help:      "Total stat upgrades purchased, by stat.",
}, []string{"stat"})

// ─── Shop Metrics ───────────────────────────────────────────────────────────

// ItemsDrawn tracks cosmetic items generated by the shop.
var ItemsDrawn = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "powerwalk",
	Subsystem: "shop",
	Name:      "items_drawn_total",
	Help:      "Total cosmetic items drawn.",
})

// ─── Arena Metrics ──────────────────────────────────────────────────────────

// BattlesResolved tracks resolved battles by result.
var BattlesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "powerwalk",
	Subsystem: "arena",
	Name:      "battles_resolved_total",
	Help:      "Total battles resolved, by result (win/loss).",
}, []string{"result"})

// BattleTicks observes the length of resolved battles in ticks.
var BattleTicks = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "powerwalk",
	Subsystem: "arena",
	Name:      "battle_ticks",
	Help:      "Number of simultaneous-exchange ticks per resolved battle.",
	Buckets:   prometheus.LinearBuckets(2, 2, 10),
})

// AttemptsRemaining tracks the current weekly challenge allowance.
var AttemptsRemaining = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "powerwalk",
	Subsystem: "arena",
	Name:      "attempts_remaining",
	Help:      "Battle attempts remaining in the current weekly window.",
})
