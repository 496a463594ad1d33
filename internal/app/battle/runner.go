package battle

import (
	"context"
	"time"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// Run paces an engine with a real ticker, invoking onTick after every
// exchange, until the battle resolves or ctx is cancelled. Cancellation
// simply stops scheduling further ticks — no partial state is persisted,
// the engine is just abandoned mid-battle.
func Run(ctx context.Context, e *Engine, interval time.Duration, onTick func(Tick)) (domain.BattleResult, error) {
	if e.State() == Idle {
		if err := e.Start(); err != nil {
			return domain.BattleResult{}, err
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !e.IsResolved() {
		select {
		case <-ctx.Done():
			return domain.BattleResult{}, ctx.Err()
		case <-ticker.C:
			tick, err := e.Advance()
			if err != nil {
				return domain.BattleResult{}, err
			}
			if onTick != nil {
				onTick(tick)
			}
		}
	}
	return e.Result()
}
