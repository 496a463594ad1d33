package battle

import "time"

// ─── Weekly Attempt Allowance ───────────────────────────────────────────────
// Challenges spend from a fixed weekly allowance. The allowance replenishes
// at the next Monday midnight, local time; the arena checks the deadline on
// every read rather than running its own timer.

// NextMondayReset returns the upcoming Monday 00:00 in now's location. If
// now is already Monday the reset is the following Monday.
func NextMondayReset(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return midnight.AddDate(0, 0, days)
}

// ReplenishDue reports whether the stored reset deadline has passed (or was
// never set), meaning the allowance should refill.
func ReplenishDue(resetAt time.Time, now time.Time) bool {
	return resetAt.IsZero() || !now.Before(resetAt)
}
