package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"wordle-arena-server/auth"
	"wordle-arena-server/config"
	"wordle-arena-server/game"
	"wordle-arena-server/lobby"
	"wordle-arena-server/sessions"
	"wordle-arena-server/storage"
)

const bearerPrefix = "Bearer "

// Handler holds dependencies for the REST API.
type Handler struct {
	Config   *config.Config
	Store    *storage.Store
	Verifier *auth.Verifier
	Games    *game.Manager
	Lobby    *lobby.Lobby
	Sessions *sessions.Registry
}

// Routes mounts the API endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(cors)
	r.Get("/health", h.Health)
	r.Get("/history", h.History)
	r.Get("/stats", h.Stats)
	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractUserID validates the Authorization header and returns the user
// ID, or empty string on failure.
func (h *Handler) extractUserID(r *http.Request) string {
	if h.Verifier == nil {
		return ""
	}
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	claims, err := h.Verifier.Validate(token)
	if err != nil {
		return ""
	}
	return auth.UserIDFromClaims(claims)
}

// HealthResponse summarizes live server load for monitoring.
type HealthResponse struct {
	Status        string `json:"status"`
	SoloGames     int    `json:"solo_games"`
	ActiveMatches int    `json:"active_matches"`
	LiveSessions  int    `json:"live_sessions"`
}

// Health reports server liveness and current load.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.Games != nil {
		resp.SoloGames = h.Games.Count()
	}
	if h.Lobby != nil {
		resp.ActiveMatches = h.Lobby.ActiveMatches()
	}
	if h.Sessions != nil {
		resp.LiveSessions = h.Sessions.Count()
	}
	writeJSON(w, resp)
}

// History returns the match history for the authenticated user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := h.extractUserID(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	list, err := h.Store.ListByUserID(r.Context(), userID)
	if err != nil {
		slog.Error("listing match history", "tag", "api", "err", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []storage.MatchRecord{}
	}
	writeJSON(w, list)
}

// Stats returns the authenticated user's win/loss/draw record.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := h.extractUserID(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	stats, err := h.Store.GetStats(r.Context(), userID)
	if err != nil {
		slog.Error("loading player stats", "tag", "api", "err", err)
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}
	if stats == nil {
		stats = &storage.PlayerStats{UserID: userID}
	}
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "tag", "api", "err", err)
	}
}
