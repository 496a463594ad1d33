package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/powerwalk-app/powerwalk/internal/app/battle"
	"github.com/powerwalk-app/powerwalk/internal/app/game"
	"github.com/powerwalk-app/powerwalk/internal/app/items"
	"github.com/powerwalk-app/powerwalk/internal/app/leaderboard"
	"github.com/powerwalk-app/powerwalk/internal/app/steps"
	"github.com/powerwalk-app/powerwalk/internal/domain"
	"github.com/powerwalk-app/powerwalk/internal/infra/sqlite"
)

// ─── Game API Tests ─────────────────────────────────────────────────────────

func newTestServer(t *testing.T) (*Server, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	session := game.NewSession(db, items.NewSeededGenerator(7))
	ledger := steps.NewLedger(db)
	arena := battle.NewArena(db, session, items.NewSeededGenerator(8))
	board := leaderboard.NewService(db)
	arena.OnScoresChanged(board.Notify)

	return NewServer(session, ledger, arena, board), db
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s %s: %v\nbody: %s", method, path, err, w.Body.String())
		}
	}
	return w, resp
}

func TestAPI_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	w, resp := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %v", resp["status"])
	}
}

func TestAPI_SensorTick(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	// First reading establishes the baseline and counts nothing.
	_, resp := doJSON(t, h, http.MethodPost, "/api/steps/sensor", `{"raw": 500}`)
	if resp["delta"] != float64(0) {
		t.Errorf("first tick delta = %v, want 0", resp["delta"])
	}

	// Subsequent readings count the advance.
	_, resp = doJSON(t, h, http.MethodPost, "/api/steps/sensor", `{"raw": 1700}`)
	if resp["delta"] != float64(1200) {
		t.Errorf("delta = %v, want 1200", resp["delta"])
	}
	if resp["steps_today"] != float64(1200) {
		t.Errorf("steps_today = %v, want 1200", resp["steps_today"])
	}

	w, _ := doJSON(t, h, http.MethodPost, "/api/steps/sensor", `{"raw": -1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative raw: expected 400, got %d", w.Code)
	}
}

func TestAPI_WalletAndClaim(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	doJSON(t, h, http.MethodPost, "/api/steps/sensor", `{"raw": 0}`)
	doJSON(t, h, http.MethodPost, "/api/steps/sensor", `{"raw": 2550}`)

	_, resp := doJSON(t, h, http.MethodGet, "/api/wallet", "")
	if resp["claimable"] != float64(25) {
		t.Errorf("claimable = %v, want 25", resp["claimable"])
	}
	if resp["coins"] != float64(1000) {
		t.Errorf("coins = %v, want 1000", resp["coins"])
	}

	_, resp = doJSON(t, h, http.MethodPost, "/api/wallet/claim", "")
	if resp["claimed"] != float64(25) {
		t.Errorf("claimed = %v, want 25", resp["claimed"])
	}
	if resp["coins"] != float64(1025) {
		t.Errorf("coins = %v, want 1025", resp["coins"])
	}

	// Claiming again without new steps yields zero.
	_, resp = doJSON(t, h, http.MethodPost, "/api/wallet/claim", "")
	if resp["claimed"] != float64(0) {
		t.Errorf("second claim = %v, want 0", resp["claimed"])
	}
}

func TestAPI_Character(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	w, resp := doJSON(t, h, http.MethodGet, "/api/character", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	profile := resp["profile"].(map[string]interface{})
	if profile["coins"] != float64(1000) {
		t.Errorf("coins = %v, want 1000", profile["coins"])
	}
	if profile["base_attack"] != float64(100) {
		t.Errorf("base_attack = %v, want 100", profile["base_attack"])
	}
	if inventory, ok := resp["items"].([]interface{}); !ok || len(inventory) != 0 {
		t.Errorf("items = %v, want empty array", resp["items"])
	}
}

func TestAPI_SetName(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	doJSON(t, h, http.MethodPost, "/api/character/name", `{"name": "StepLord"}`)
	_, resp := doJSON(t, h, http.MethodGet, "/api/character", "")
	profile := resp["profile"].(map[string]interface{})
	if profile["name"] != "StepLord" {
		t.Errorf("name = %v, want StepLord", profile["name"])
	}

	w, _ := doJSON(t, h, http.MethodPost, "/api/character/name", `{"name": "  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank name: expected 400, got %d", w.Code)
	}
}

func TestAPI_Upgrade(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	_, resp := doJSON(t, h, http.MethodPost, "/api/character/upgrade", `{"stat": "health"}`)
	profile := resp["profile"].(map[string]interface{})
	if profile["base_health"] != float64(510) {
		t.Errorf("base_health = %v, want 510", profile["base_health"])
	}
	if profile["coins"] != float64(999) {
		t.Errorf("coins = %v, want 999", profile["coins"])
	}

	w, _ := doJSON(t, h, http.MethodPost, "/api/character/upgrade", `{"stat": "luck"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown stat: expected 400, got %d", w.Code)
	}
}

func TestAPI_Draw(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	w, resp := doJSON(t, h, http.MethodPost, "/api/shop/draw", `{"count": 1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	drawn := resp["items"].([]interface{})
	if len(drawn) != 1 {
		t.Fatalf("drawn = %d items, want 1", len(drawn))
	}
	if resp["coins"] != float64(900) {
		t.Errorf("coins = %v, want 900", resp["coins"])
	}

	w, _ = doJSON(t, h, http.MethodPost, "/api/shop/draw", `{"count": 3}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("count=3: expected 400, got %d", w.Code)
	}
}

func TestAPI_Draw_InsufficientFunds(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	// Nine draws leave zero coins; the tenth must fail.
	for i := 0; i < 9; i++ {
		doJSON(t, h, http.MethodPost, "/api/shop/draw", `{"count": 1}`)
	}
	doJSON(t, h, http.MethodPost, "/api/shop/draw", `{"count": 1}`)
	w, _ := doJSON(t, h, http.MethodPost, "/api/shop/draw", `{"count": 1}`)
	if w.Code != http.StatusPaymentRequired {
		t.Errorf("broke draw: expected 402, got %d", w.Code)
	}
}

func TestAPI_EquipLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	_, resp := doJSON(t, h, http.MethodPost, "/api/shop/draw", `{"count": 1}`)
	item := resp["items"].([]interface{})[0].(map[string]interface{})
	itemID := item["id"].(string)

	w, _ := doJSON(t, h, http.MethodPost, "/api/character/equip", `{"item_id": "`+itemID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("equip: expected 200, got %d", w.Code)
	}

	_, resp = doJSON(t, h, http.MethodGet, "/api/character", "")
	profile := resp["profile"].(map[string]interface{})
	if profile["equipped_item_id"] != itemID {
		t.Errorf("equipped_item_id = %v, want %s", profile["equipped_item_id"], itemID)
	}

	doJSON(t, h, http.MethodPost, "/api/character/unequip", "")
	_, resp = doJSON(t, h, http.MethodGet, "/api/character", "")
	profile = resp["profile"].(map[string]interface{})
	if id, ok := profile["equipped_item_id"]; ok && id != "" {
		t.Errorf("equipped_item_id after unequip = %v, want empty", id)
	}

	w, _ = doJSON(t, h, http.MethodDelete, "/api/character/items/"+itemID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete item: expected 200, got %d", w.Code)
	}
	w, _ = doJSON(t, h, http.MethodDelete, "/api/character/items/"+itemID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("delete gone item: expected 404, got %d", w.Code)
	}
}

func TestAPI_Equip_NotOwned(t *testing.T) {
	srv, _ := newTestServer(t)
	w, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/character/equip", `{"item_id": "nope"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAPI_Arena(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	w, resp := doJSON(t, h, http.MethodGet, "/api/arena", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp["attempts_left"] != float64(domain.WeeklyBattleAttempts) {
		t.Errorf("attempts_left = %v, want %d", resp["attempts_left"], domain.WeeklyBattleAttempts)
	}
	if _, ok := resp["challenge_targets"].([]interface{}); !ok {
		t.Errorf("challenge_targets = %v, want array", resp["challenge_targets"])
	}
}

func TestAPI_Challenge(t *testing.T) {
	srv, db := newTestServer(t)
	h := srv.Handler()

	if _, err := db.UpsertCompetitor(domain.Competitor{
		Name: "Pushover", Attack: 10, Defense: 10, Health: 50, Score: 5,
	}); err != nil {
		t.Fatalf("seed opponent: %v", err)
	}

	w, resp := doJSON(t, h, http.MethodPost, "/api/arena/challenge", `{"opponent": "Pushover"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", w.Code, resp)
	}
	result := resp["result"].(map[string]interface{})
	if result["victory"] != true {
		t.Errorf("victory = %v, want true", result["victory"])
	}
	if resp["attempts_left"] != float64(domain.WeeklyBattleAttempts-1) {
		t.Errorf("attempts_left = %v, want %d", resp["attempts_left"], domain.WeeklyBattleAttempts-1)
	}

	w, _ = doJSON(t, h, http.MethodPost, "/api/arena/challenge", `{"opponent": "Ghost"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown opponent: expected 404, got %d", w.Code)
	}
}

func TestAPI_Leaderboard(t *testing.T) {
	srv, db := newTestServer(t)
	h := srv.Handler()

	board := leaderboard.NewService(db)
	if err := board.SeedSampleData("PowerKing"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, resp := doJSON(t, h, http.MethodGet, "/api/leaderboard", "")
	competitors := resp["competitors"].([]interface{})
	if got, want := len(competitors), 30; got != want {
		t.Fatalf("competitors = %d, want %d", got, want)
	}

	_, resp = doJSON(t, h, http.MethodGet, "/api/leaderboard?limit=5", "")
	competitors = resp["competitors"].([]interface{})
	if got, want := len(competitors), 5; got != want {
		t.Errorf("limited competitors = %d, want %d", got, want)
	}

	w, _ := doJSON(t, h, http.MethodGet, "/api/leaderboard?limit=bogus", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bogus limit: expected 400, got %d", w.Code)
	}
}

func TestAPI_LeaderboardLive_InitialSnapshot(t *testing.T) {
	srv, db := newTestServer(t)

	if _, err := db.UpsertCompetitor(domain.Competitor{Name: "RunningCat", Score: 200}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard/live", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	srv.handleLeaderboardLive(w, req)

	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "data: ") {
		t.Fatalf("body does not start with an SSE frame: %q", body)
	}
	if !strings.Contains(body, "RunningCat") {
		t.Errorf("initial snapshot missing seeded competitor: %q", body)
	}
}

func TestAPI_LiveFeedStreamsUpdates(t *testing.T) {
	srv, db := newTestServer(t)

	tsrv := httptest.NewServer(srv.Handler())
	t.Cleanup(tsrv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tsrv.URL+"/api/leaderboard/live", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := tsrv.Client().Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", got)
	}

	reader := bufio.NewReader(resp.Body)
	readFrame := func() string {
		t.Helper()
		var frame strings.Builder
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read frame: %v", err)
			}
			if line == "\n" {
				return frame.String()
			}
			frame.WriteString(line)
		}
	}

	// Initial snapshot arrives on connect.
	if frame := readFrame(); !strings.Contains(frame, `"type":"leaderboard"`) {
		t.Fatalf("initial frame = %q, want a leaderboard snapshot", frame)
	}

	// The stream stays open and pushes a fresh snapshot when scores change.
	id, err := db.UpsertCompetitor(domain.Competitor{Name: "RunningCat", Score: 200})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := srv.board.UpdateScore(id, 250); err != nil {
		t.Fatalf("update score: %v", err)
	}

	if frame := readFrame(); !strings.Contains(frame, `"score":250`) {
		t.Fatalf("update frame = %q, want the new score", frame)
	}
}

func TestAPI_MetricsGated(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: expected 404, got %d", w.Code)
	}

	srv.EnableMetrics()
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("metrics enabled: expected 200, got %d", w.Code)
	}
}
