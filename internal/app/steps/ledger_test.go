package steps

import (
	"testing"
	"time"

	"github.com/powerwalk-app/powerwalk/internal/domain"
	"github.com/powerwalk-app/powerwalk/internal/infra/sqlite"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewLedger(db)
}

func TestRecordSensorTick_FirstTickSetsBaseline(t *testing.T) {
	l := newTestLedger(t)

	delta, err := l.RecordSensorTick(50000)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if delta != 0 {
		t.Errorf("first tick delta = %d, want 0", delta)
	}
	if today, _ := l.StepsToday(); today != 0 {
		t.Errorf("steps today = %d, want 0", today)
	}
}

func TestRecordSensorTick_AccumulatesDeltas(t *testing.T) {
	l := newTestLedger(t)

	l.RecordSensorTick(50000)

	readings := []struct {
		raw       int64
		wantDelta int
		wantToday int
	}{
		{50010, 10, 10},
		{50010, 0, 10}, // no movement
		{50035, 25, 35},
		{50100, 65, 100},
	}
	for _, r := range readings {
		delta, err := l.RecordSensorTick(r.raw)
		if err != nil {
			t.Fatalf("tick %d: %v", r.raw, err)
		}
		if delta != r.wantDelta {
			t.Errorf("tick %d: delta = %d, want %d", r.raw, delta, r.wantDelta)
		}
		today, _ := l.StepsToday()
		if today != r.wantToday {
			t.Errorf("tick %d: today = %d, want %d", r.raw, today, r.wantToday)
		}
	}
}

func TestRecordSensorTick_ResetRebaselines(t *testing.T) {
	l := newTestLedger(t)

	l.RecordSensorTick(50000)
	l.RecordSensorTick(50100) // today = 100

	// Reboot: counter restarts far below the baseline.
	delta, err := l.RecordSensorTick(20)
	if err != nil {
		t.Fatalf("reset tick: %v", err)
	}
	if delta != 0 {
		t.Errorf("reset delta = %d, want 0", delta)
	}
	if today, _ := l.StepsToday(); today != 100 {
		t.Errorf("today after reset = %d, want 100 (no retroactive adjustment)", today)
	}

	// Walking resumes against the new baseline.
	delta, _ = l.RecordSensorTick(50)
	if delta != 30 {
		t.Errorf("post-reset delta = %d, want 30", delta)
	}
	if today, _ := l.StepsToday(); today != 130 {
		t.Errorf("today = %d, want 130", today)
	}
}

func TestRecordSensorTick_NeverNegative(t *testing.T) {
	l := newTestLedger(t)

	raws := []int64{1000, 500, 1500, 100, 100, 2000}
	for _, raw := range raws {
		delta, err := l.RecordSensorTick(raw)
		if err != nil {
			t.Fatalf("tick %d: %v", raw, err)
		}
		if delta < 0 {
			t.Fatalf("tick %d: negative delta %d", raw, delta)
		}
	}
	today, _ := l.StepsToday()
	if today < 0 {
		t.Fatalf("negative today total %d", today)
	}
}

func TestStepsToday_DateRollover(t *testing.T) {
	l := newTestLedger(t)

	day1 := time.Date(2025, 4, 1, 12, 0, 0, 0, time.Local)
	l.SetClock(func() time.Time { return day1 })

	l.RecordSensorTick(1000)
	l.RecordSensorTick(1400)
	if today, _ := l.StepsToday(); today != 400 {
		t.Fatalf("day1 total = %d, want 400", today)
	}

	// Midnight passes: a new date key simply starts at zero. Yesterday's
	// row is left as-is.
	l.SetClock(func() time.Time { return day1.AddDate(0, 0, 1) })
	if today, _ := l.StepsToday(); today != 0 {
		t.Errorf("day2 total = %d, want 0", today)
	}

	delta, _ := l.RecordSensorTick(1650)
	if delta != 250 {
		t.Errorf("day2 delta = %d, want 250", delta)
	}
	if today, _ := l.StepsToday(); today != 250 {
		t.Errorf("day2 total = %d, want 250", today)
	}
}

func TestLedger_PersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	l := NewLedger(db)
	l.RecordSensorTick(700)
	l.RecordSensorTick(950)
	db.Close()

	db2, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	t.Cleanup(func() { db2.Close() })

	l2 := NewLedger(db2)
	if today, _ := l2.StepsToday(); today != 250 {
		t.Errorf("restarted total = %d, want 250", today)
	}
	// Baseline also survives: the next reading continues from 950.
	delta, _ := l2.RecordSensorTick(1000)
	if delta != 50 {
		t.Errorf("post-restart delta = %d, want 50", delta)
	}
}

var _ domain.StepStore = (*sqlite.DB)(nil)
