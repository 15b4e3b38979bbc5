// Package api serves clubs, standings, head-to-head records and model
// predictions over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aspera-non-spernit/guru/internal/guru"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/logger"
)

// MatchSource answers head-to-head lookups. store.Store implements it.
type MatchSource interface {
	MatchesBetween(ctx context.Context, a, b league.Club) ([]league.Match, error)
}

// Memory serves head-to-head lookups from an in-memory match list.
type Memory []league.Match

func (m Memory) MatchesBetween(_ context.Context, a, b league.Club) ([]league.Match, error) {
	out := make([]league.Match, 0)
	for _, match := range m {
		if match.Involves(a) && match.Involves(b) {
			out = append(out, match)
		}
	}
	return out, nil
}

// State is the read-only data the handlers serve.
type State struct {
	Registry    *league.Registry
	Matches     []league.Match
	Predictions guru.Predictions
}

// Handler is the thin HTTP layer over a State.
type Handler struct {
	state  State
	source MatchSource
	log    *zap.SugaredLogger
}

// NewHandler returns a handler. A nil source falls back to the state's
// matches.
func NewHandler(state State, source MatchSource, log *zap.SugaredLogger) *Handler {
	if source == nil {
		source = Memory(state.Matches)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{state: state, source: source, log: log}
}

// NewRouter wires all endpoints. gatherer backs /metrics.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/clubs", h.handleClubs).Methods(http.MethodGet)
	r.HandleFunc("/standings", h.handleStandings).Methods(http.MethodGet)
	r.HandleFunc("/head-to-head/{home}/{away}", h.handleHeadToHead).Methods(http.MethodGet)
	r.HandleFunc("/predictions", h.handlePredictions).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.Use(h.logRequests)
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.log.Debugw("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type club struct {
	Club  league.Club `json:"club"`
	Index int         `json:"index"`
}

func (h *Handler) handleClubs(w http.ResponseWriter, _ *http.Request) {
	clubs := h.state.Registry.Clubs()
	out := make([]club, len(clubs))
	for i, c := range clubs {
		out[i] = club{Club: c, Index: i}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleStandings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, league.Standings(h.state.Matches))
}

func (h *Handler) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	home, away := league.Club(vars["home"]), league.Club(vars["away"])
	if home == away {
		writeError(w, http.StatusBadRequest, "a club has no head-to-head record with itself")
		return
	}
	for _, c := range []league.Club{home, away} {
		if !h.state.Registry.Contains(c) {
			writeError(w, http.StatusNotFound, "unknown club "+string(c))
			return
		}
	}
	matches, err := h.source.MatchesBetween(r.Context(), home, away)
	if err != nil {
		h.log.Errorw("head-to-head lookup failed", "home", home, "away", away, "error", err)
		writeError(w, http.StatusInternalServerError, "head-to-head lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *Handler) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(h.state.Predictions.Markdown()))
		return
	}
	preds := h.state.Predictions
	if preds == nil {
		preds = guru.Predictions{}
	}
	writeJSON(w, http.StatusOK, preds)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
