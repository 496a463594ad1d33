// Package api provides the HTTP server for PowerWalk.
// It exposes the local REST API consumed by the CLI and any companion UI:
// step ingestion, wallet, character, shop, arena, and leaderboard.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/powerwalk-app/powerwalk/internal/app/battle"
	"github.com/powerwalk-app/powerwalk/internal/app/game"
	"github.com/powerwalk-app/powerwalk/internal/app/leaderboard"
	"github.com/powerwalk-app/powerwalk/internal/app/steps"
	"github.com/powerwalk-app/powerwalk/internal/domain"
)

// Server is the PowerWalk HTTP API server.
type Server struct {
	session        *game.Session
	ledger         *steps.Ledger
	arena          *battle.Arena
	board          *leaderboard.Service
	drawCost       int
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(session *game.Session, ledger *steps.Ledger, arena *battle.Arena, board *leaderboard.Service) *Server {
	return &Server{
		session:  session,
		ledger:   ledger,
		arena:    arena,
		board:    board,
		drawCost: domain.DrawCost,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetDrawCost overrides the per-draw coin price.
func (s *Server) SetDrawCost(cost int) {
	if cost > 0 {
		s.drawCost = cost
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	// The SSE feed lives outside the timeout group: the stream stays open
	// until the client disconnects.
	r.Get("/api/leaderboard/live", s.handleLeaderboardLive)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(time.Minute))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"status": "ok",
			})
		})

		r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"status": "PowerWalk is running",
			})
		})

		r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"version": "0.1.0",
			})
		})

		r.Route("/api", func(r chi.Router) {
			r.Post("/steps/sensor", s.handleSensorTick)
			r.Get("/steps", s.handleSteps)

			r.Get("/wallet", s.handleWallet)
			r.Post("/wallet/claim", s.handleClaim)

			r.Get("/character", s.handleCharacter)
			r.Post("/character/name", s.handleSetName)
			r.Post("/character/upgrade", s.handleUpgrade)
			r.Post("/character/equip", s.handleEquip)
			r.Post("/character/unequip", s.handleUnequip)
			r.Delete("/character/items/{id}", s.handleDeleteItem)

			r.Post("/shop/draw", s.handleDraw)

			r.Get("/arena", s.handleArena)
			r.Post("/arena/challenge", s.handleChallenge)

			r.Get("/leaderboard", s.handleLeaderboard)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinel errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrNoAttemptsLeft):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrItemNotOwned),
		errors.Is(err, domain.ErrCompetitorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownStat):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
