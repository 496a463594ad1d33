// Package steps implements the step ledger: the mapping from calendar day
// to accumulated step count, fed by raw cumulative readings from a hardware
// step counter.
//
// The OS counter is monotonically increasing except across reboots. The
// ledger keeps the last observed raw value as a baseline and only ever adds
// positive deltas, so a reboot (raw below baseline) re-baselines without
// recording negative steps.
package steps

import (
	"log"
	"sync"
	"time"

	"github.com/powerwalk-app/powerwalk/internal/domain"
	"github.com/powerwalk-app/powerwalk/internal/infra/observability"
)

// Ledger owns today's running step total.
type Ledger struct {
	mu    sync.Mutex
	store domain.StepStore
	now   func() time.Time
}

// NewLedger creates a ledger over the given store.
func NewLedger(store domain.StepStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// SetClock overrides the time source. Tests only.
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// RecordSensorTick ingests one raw cumulative reading and returns the step
// delta credited to today. The first reading ever observed establishes the
// baseline and credits nothing; a reading below the baseline is treated as
// a counter reset and re-baselines without credit.
func (l *Ledger) RecordSensorTick(raw int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	baseline, ok, err := l.store.SensorBaseline()
	if err != nil {
		return 0, err
	}
	if !ok || raw < baseline {
		// First tick ever, or counter reset after a reboot. Accumulated
		// steps are never adjusted retroactively.
		if err := l.store.SaveSensorBaseline(raw); err != nil {
			return 0, err
		}
		if ok {
			observability.SensorResets.Inc()
		}
		return 0, nil
	}

	delta := int(raw - baseline)
	if delta == 0 {
		return 0, nil
	}

	date := domain.DateKey(l.now())
	today, err := l.store.StepsForDate(date)
	if err != nil {
		// Degrade to zero rather than dropping the tick entirely.
		log.Printf("steps: read failed for %s, defaulting to 0: %v", date, err)
		today = 0
	}

	if err := l.store.UpsertSteps(domain.DailyStepRecord{Date: date, Steps: today + delta}); err != nil {
		return 0, err
	}
	if err := l.store.SaveSensorBaseline(raw); err != nil {
		return 0, err
	}

	observability.StepsRecorded.Add(float64(delta))
	return delta, nil
}

// StepsToday returns today's running total. A missing row reads as zero,
// so a fresh date rolls over implicitly.
func (l *Ledger) StepsToday() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.StepsForDate(domain.DateKey(l.now()))
}
