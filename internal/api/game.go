package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// ─── Game API ───────────────────────────────────────────────────────────────
// REST endpoints for the CLI and any companion UI.
//
// POST   /api/steps/sensor            — raw pedometer reading
// GET    /api/steps                   — today's step count
// GET    /api/wallet                  — balance + claimable amount
// POST   /api/wallet/claim            — convert walked steps into coins
// GET    /api/character               — profile, totals, item inventory
// POST   /api/character/name          — rename the character
// POST   /api/character/upgrade       — buy a stat point
// POST   /api/character/equip         — equip an owned item
// POST   /api/character/unequip       — clear the equipped slot
// DELETE /api/character/items/{id}    — discard an item
// POST   /api/shop/draw               — draw 1 or 5 items
// GET    /api/arena                   — attempts, countdown, challenge list
// POST   /api/arena/challenge         — fight a nearby competitor
// GET    /api/leaderboard             — ranked competitors
// GET    /api/leaderboard/live        — SSE feed of ranking snapshots

// handleSensorTick ingests a raw cumulative pedometer reading.
// POST /api/steps/sensor
func (s *Server) handleSensorTick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Raw int64 `json:"raw"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Raw < 0 {
		writeError(w, http.StatusBadRequest, "raw reading must be non-negative")
		return
	}

	delta, err := s.ledger.RecordSensorTick(req.Raw)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	today, err := s.ledger.StepsToday()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"delta":       delta,
		"steps_today": today,
	})
}

// handleSteps returns today's step count.
// GET /api/steps
func (s *Server) handleSteps(w http.ResponseWriter, r *http.Request) {
	today, err := s.ledger.StepsToday()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"steps_today": today,
		"daily_cap":   domain.DailyStepCap,
	})
}

// handleWallet returns the balance and claimable amount.
// GET /api/wallet
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.session.Wallet()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// handleClaim converts walked steps into coins. Claiming twice without new
// steps yields zero; that is not an error.
// POST /api/wallet/claim
func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	claimed, err := s.session.Claim()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	wallet, err := s.session.Wallet()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"claimed": claimed,
		"coins":   wallet.Coins,
	})
}

// handleCharacter returns the full character sheet.
// GET /api/character
func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
	profile, err := s.session.Profile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	total, err := s.session.TotalStats()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	inventory, err := s.session.Items()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if inventory == nil {
		inventory = []domain.Item{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":     profile,
		"total_stats": total,
		"items":       inventory,
	})
}

// handleSetName renames the character.
// POST /api/character/name
func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	if err := s.session.SetName(req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"name":   req.Name,
	})
}

// handleUpgrade spends one coin on a base stat point.
// POST /api/character/upgrade
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stat string `json:"stat"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := s.session.Upgrade(domain.StatKind(req.Stat))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
	})
}

// handleEquip equips an owned item.
// POST /api/character/equip
func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	if err := s.session.Equip(req.ItemID); err != nil {
		writeDomainError(w, err)
		return
	}
	total, err := s.session.TotalStats()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"total_stats": total,
	})
}

// handleUnequip clears the equipped slot.
// POST /api/character/unequip
func (s *Server) handleUnequip(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Unequip(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// handleDeleteItem discards an owned item.
// DELETE /api/character/items/{id}
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	if err := s.session.DeleteItem(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// handleDraw performs 1 or 5 independent shop draws. A batch keeps the items
// drawn before the coins ran out.
// POST /api/shop/draw
func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count != 1 && req.Count != 5 {
		writeError(w, http.StatusBadRequest, "count must be 1 or 5")
		return
	}

	drawn, err := s.session.Draw(s.drawCost, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	wallet, err := s.session.Wallet()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": drawn,
		"coins": wallet.Coins,
	})
}

// handleArena returns attempts left, the weekly reset countdown, and the
// nearby challenge list.
// GET /api/arena
func (s *Server) handleArena(w http.ResponseWriter, r *http.Request) {
	overview, err := s.arena.Overview()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if overview.ChallengeTargets == nil {
		overview.ChallengeTargets = []domain.Competitor{}
	}
	writeJSON(w, http.StatusOK, overview)
}

// handleChallenge runs a full battle against the named competitor.
// POST /api/arena/challenge
func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Opponent string `json:"opponent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Opponent == "" {
		writeError(w, http.StatusBadRequest, "opponent is required")
		return
	}

	outcome, err := s.arena.Challenge(req.Opponent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// handleLeaderboard returns the ranked competitor table.
// GET /api/leaderboard?limit=N
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	ranked, err := s.board.Ranked(limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if ranked == nil {
		ranked = []domain.Competitor{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"competitors": ranked,
	})
}

// handleLeaderboardLive streams ranking snapshots via Server-Sent Events.
// An initial snapshot is sent on connect; afterwards each score change
// produces a fresh snapshot. Changes are coalesced, so a slow client sees
// the latest state rather than every intermediate one.
// GET /api/leaderboard/live
func (s *Server) handleLeaderboardLive(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	flusher.Flush()

	changes, cancel := s.board.Subscribe()
	defer cancel()

	send := func() bool {
		ranked, err := s.board.Ranked(0)
		if err != nil {
			return false
		}
		event := struct {
			Type        string              `json:"type"`
			Competitors []domain.Competitor `json:"competitors"`
			Timestamp   int64               `json:"timestamp"`
		}{
			Type:        "leaderboard",
			Competitors: ranked,
			Timestamp:   time.Now().Unix(),
		}
		data, err := json.Marshal(event)
		if err != nil {
			return false
		}
		w.Write([]byte("data: "))
		w.Write(data)
		w.Write([]byte("\n\n"))
		flusher.Flush()
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-changes:
			if !send() {
				return
			}
		}
	}
}
