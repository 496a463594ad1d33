package domain

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application services depend on them.

// ProfileStore persists the single local profile.
type ProfileStore interface {
	// Profile returns the stored profile, creating the default one on
	// first access.
	Profile() (Profile, error)

	// SaveProfile overwrites the stored profile.
	SaveProfile(p Profile) error
}

// ItemStore persists the owned item collection.
type ItemStore interface {
	InsertItem(item Item) error
	DeleteItem(id string) error
	GetItem(id string) (Item, error)
	ListItems() ([]Item, error)
}

// StepStore persists daily step records and the sensor baseline.
type StepStore interface {
	// StepsForDate returns the recorded total for a date key, zero if the
	// date has no row yet.
	StepsForDate(date string) (int, error)

	// UpsertSteps replaces the record for a date.
	UpsertSteps(rec DailyStepRecord) error

	// SensorBaseline returns the last observed raw sensor value and
	// whether one has ever been recorded.
	SensorBaseline() (int64, bool, error)

	// SaveSensorBaseline stores the last observed raw sensor value.
	SaveSensorBaseline(raw int64) error

	// ClaimCheckpoint returns the step count already converted to coins
	// for a date, zero if never claimed.
	ClaimCheckpoint(date string) (int, error)

	// SaveClaimCheckpoint stores the claimed-steps checkpoint for a date.
	SaveClaimCheckpoint(date string, steps int) error
}

// CompetitorStore persists the leaderboard.
type CompetitorStore interface {
	UpsertCompetitor(c Competitor) (int64, error)
	GetCompetitorByName(name string) (Competitor, error)
	UpdateScore(id int64, score int) error

	// RankedAll returns every competitor ordered by score descending.
	RankedAll() ([]Competitor, error)

	// Nearby returns up to limit competitors other than exceptName whose
	// score lies in [minScore, maxScore], ordered by score descending.
	Nearby(exceptName string, minScore, maxScore, limit int) ([]Competitor, error)

	// DeleteAllExcept removes every competitor except the named one.
	// Used when reseeding sample data.
	DeleteAllExcept(name string) error
}
