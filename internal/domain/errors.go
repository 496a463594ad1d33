package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Every failure path
// here degrades to a disabled action; nothing is fatal.

var (
	// Spending errors
	ErrInsufficientFunds = errors.New("insufficient coins")

	// Item errors
	ErrItemNotOwned = errors.New("item not in owned collection")
	ErrItemNotFound = errors.New("item not found")

	// Battle errors
	ErrNoAttemptsLeft   = errors.New("no battle attempts remaining")
	ErrBattleNotStarted = errors.New("battle not started")
	ErrBattleInProgress = errors.New("battle already in progress")
	ErrBattleResolved   = errors.New("battle already resolved")

	// Leaderboard errors
	ErrCompetitorNotFound = errors.New("competitor not found")

	// Upgrade errors
	ErrUnknownStat = errors.New("unknown stat kind")
)
