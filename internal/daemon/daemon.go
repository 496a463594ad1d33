package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/powerwalk-app/powerwalk/internal/api"
	"github.com/powerwalk-app/powerwalk/internal/app/battle"
	"github.com/powerwalk-app/powerwalk/internal/app/game"
	"github.com/powerwalk-app/powerwalk/internal/app/items"
	"github.com/powerwalk-app/powerwalk/internal/app/leaderboard"
	"github.com/powerwalk-app/powerwalk/internal/app/steps"
	"github.com/powerwalk-app/powerwalk/internal/infra/sqlite"
)

// Daemon owns the database and all game services for one running instance.
type Daemon struct {
	cfg     Config
	db      *sqlite.DB
	session *game.Session
	ledger  *steps.Ledger
	arena   *battle.Arena
	board   *leaderboard.Service
	server  *api.Server
}

// New opens storage and wires the services. Call Close when done.
func New(cfg Config) (*Daemon, error) {
	dir := DataDir(cfg.Storage.Path)
	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open storage at %s: %w", dir, err)
	}

	session := game.NewSession(db, items.NewGenerator())
	ledger := steps.NewLedger(db)
	arena := battle.NewArena(db, session, items.NewGenerator())
	board := leaderboard.NewService(db)
	arena.OnScoresChanged(board.Notify)

	d := &Daemon{
		cfg:     cfg,
		db:      db,
		session: session,
		ledger:  ledger,
		arena:   arena,
		board:   board,
		server:  api.NewServer(session, ledger, arena, board),
	}
	if cfg.Metrics.Enabled {
		d.server.EnableMetrics()
	}
	d.server.SetDrawCost(cfg.Game.DrawCost)

	if err := d.bootstrap(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// bootstrap applies the configured profile name and seeds the competitor
// roster on first run.
func (d *Daemon) bootstrap() error {
	profile, err := d.session.Profile()
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if d.cfg.Profile.Name != "" && profile.Name != d.cfg.Profile.Name {
		if err := d.session.SetName(d.cfg.Profile.Name); err != nil {
			return fmt.Errorf("set profile name: %w", err)
		}
		profile.Name = d.cfg.Profile.Name
	}

	ranked, err := d.board.Ranked(1)
	if err != nil {
		return fmt.Errorf("check competitors: %w", err)
	}
	if len(ranked) == 0 {
		if err := d.board.SeedSampleData(profile.Name); err != nil {
			return fmt.Errorf("seed competitors: %w", err)
		}
		log.Printf("seeded %d sample competitors", len(leaderboard.SampleCompetitors()))
	}
	return nil
}

// Leaderboard exposes the leaderboard service, mainly for the seed command.
func (d *Daemon) Leaderboard() *leaderboard.Service { return d.board }

// Session exposes the game session.
func (d *Daemon) Session() *game.Session { return d.session }

// Run serves the HTTP API until ctx is cancelled, then shuts down
// gracefully.
func (d *Daemon) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              d.cfg.API.Addr(),
		Handler:           d.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("PowerWalk listening on http://%s", d.cfg.API.Addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the database.
func (d *Daemon) Close() error {
	return d.db.Close()
}
