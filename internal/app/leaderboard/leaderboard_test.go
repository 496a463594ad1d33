package leaderboard

import (
	"testing"

	"github.com/powerwalk-app/powerwalk/internal/domain"
	"github.com/powerwalk-app/powerwalk/internal/infra/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db), db
}

func TestSeedSampleData(t *testing.T) {
	svc, db := newTestService(t)

	if _, err := db.UpsertCompetitor(domain.Competitor{Name: "PowerKing", Score: 42}); err != nil {
		t.Fatalf("seed self: %v", err)
	}
	if _, err := db.UpsertCompetitor(domain.Competitor{Name: "Stale", Score: 7}); err != nil {
		t.Fatalf("seed stale: %v", err)
	}

	if err := svc.SeedSampleData("PowerKing"); err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}

	all, err := svc.Ranked(0)
	if err != nil {
		t.Fatalf("Ranked: %v", err)
	}
	if got, want := len(all), 31; got != want {
		t.Fatalf("competitor count = %d, want %d", got, want)
	}
	for _, c := range all {
		if c.Name == "Stale" {
			t.Fatal("stale competitor survived reseed")
		}
	}
	if got, want := all[0].Name, "RunningCat"; got != want {
		t.Errorf("top competitor = %q, want %q", got, want)
	}
	if got, want := all[0].Score, 200; got != want {
		t.Errorf("top score = %d, want %d", got, want)
	}
}

func TestRanked_OrderAndLimit(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.SeedSampleData("PowerKing"); err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}

	top, err := svc.Ranked(5)
	if err != nil {
		t.Fatalf("Ranked: %v", err)
	}
	if got, want := len(top), 5; got != want {
		t.Fatalf("len = %d, want %d", got, want)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Fatalf("ranking not descending at %d: %d > %d", i, top[i].Score, top[i-1].Score)
		}
	}
}

func TestRankOf(t *testing.T) {
	svc, db := newTestService(t)
	if _, err := db.UpsertCompetitor(domain.Competitor{Name: "PowerKing", Score: 190}); err != nil {
		t.Fatalf("seed self: %v", err)
	}
	if err := svc.SeedSampleData("PowerKing"); err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}

	// Score 190 slots between RunningCat (200) and PowerWalker (193).
	rank, err := svc.RankOf("PowerKing")
	if err != nil {
		t.Fatalf("RankOf: %v", err)
	}
	if got, want := rank, 3; got != want {
		t.Errorf("rank = %d, want %d", got, want)
	}

	rank, err = svc.RankOf("Nobody")
	if err != nil {
		t.Fatalf("RankOf absent: %v", err)
	}
	if rank != 0 {
		t.Errorf("absent rank = %d, want 0", rank)
	}
}

func TestNearby_ScoreWindow(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.SeedSampleData("PowerKing"); err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}

	self := domain.Competitor{Name: "PowerKing", Score: 100}
	near, err := svc.Nearby(self, domain.ChallengeWindowRadius, 10)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	// Roster scores are 7 apart, so a +-10 window around 100 holds
	// exactly QuickStride (102) and StepKing (96).
	if got, want := len(near), 2; got != want {
		t.Fatalf("len = %d, want %d: %+v", got, want, near)
	}
	if near[0].Name != "QuickStride" || near[1].Name != "StepKing" {
		t.Errorf("window = [%s %s], want [QuickStride StepKing]", near[0].Name, near[1].Name)
	}
}

func TestNearby_FloorsAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.SeedSampleData("PowerKing"); err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}

	self := domain.Competitor{Name: "PowerKing", Score: 3}
	near, err := svc.Nearby(self, domain.ChallengeWindowRadius, 10)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	for _, c := range near {
		if c.Score < 0 || c.Score > 13 {
			t.Errorf("competitor %s score %d outside window", c.Name, c.Score)
		}
	}
	if got, want := len(near), 3; got != want {
		t.Errorf("len = %d, want %d: %+v", got, want, near)
	}
}

func TestUpdateScore_Notifies(t *testing.T) {
	svc, db := newTestService(t)
	id, err := db.UpsertCompetitor(domain.Competitor{Name: "PowerKing", Score: 10})
	if err != nil {
		t.Fatalf("seed self: %v", err)
	}

	ch, cancel := svc.Subscribe()
	defer cancel()

	if err := svc.UpdateScore(id, 40); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}

	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after UpdateScore")
	}

	got, err := db.GetCompetitorByName("PowerKing")
	if err != nil {
		t.Fatalf("GetCompetitorByName: %v", err)
	}
	if got.Score != 40 {
		t.Errorf("score = %d, want 40", got.Score)
	}
}

func TestSubscribe_CoalescesAndCancels(t *testing.T) {
	svc, _ := newTestService(t)

	ch, cancel := svc.Subscribe()

	svc.Notify()
	svc.Notify()
	svc.Notify()

	// Coalesced: exactly one pending signal.
	select {
	case <-ch:
	default:
		t.Fatal("expected a pending signal")
	}
	select {
	case <-ch:
		t.Fatal("signals not coalesced")
	default:
	}

	cancel()
	svc.Notify()
	select {
	case <-ch:
		t.Fatal("cancelled subscriber still signalled")
	default:
	}
}
