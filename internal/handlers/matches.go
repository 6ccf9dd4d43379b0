package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/scorecard"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/tracker"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// upstream fetches may retry several times before giving up
const updateTimeout = 60 * time.Second

func (h *Handler) matchKey(r *http.Request, tournamentID string) (tracker.Key, bool) {
	matchID := chi.URLParam(r, "matchID")
	if matchID == "" {
		return tracker.Key{}, false
	}
	if tournamentID == "" {
		tournamentID = r.URL.Query().Get("tournament_id")
	}
	if tournamentID == "" {
		tournamentID = h.opts.DefaultTournamentID
	}
	return tracker.Key{MatchID: matchID, TournamentID: tournamentID}, true
}

// session tracks key on first use and, when refresh is set, updates an
// existing session. It writes the error response itself and returns nil.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, key tracker.Key, refresh bool) *tracker.Session {
	ctx, cancel := context.WithTimeout(r.Context(), updateTimeout)
	defer cancel()

	s, created, err := h.registry.Track(ctx, key)
	if err != nil {
		h.respondError(w, http.StatusBadGateway, "failed to initialize match", err)
		return nil
	}
	if created || !refresh {
		return s
	}

	if _, err := h.registry.Refresh(ctx, key); err != nil {
		h.respondError(w, http.StatusBadGateway, "failed to update match data", err)
		return nil
	}
	return s
}

// GetMatch returns the full state of a match
// Query params: tournament_id, refresh
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	key, ok := h.matchKey(r, "")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "match_id is required", nil)
		return
	}

	s := h.session(w, r, key, parseBoolParam(r, "refresh"))
	if s == nil {
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

// RefreshMatch forces an update of a match
// Body: {"tournament_id": "..."}
func (h *Handler) RefreshMatch(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	key, ok := h.matchKey(r, req.TournamentID)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "match_id is required", nil)
		return
	}

	s := h.session(w, r, key, true)
	if s == nil {
		return
	}
	respondJSON(w, http.StatusOK, models.RefreshResponse{
		Status:      "success",
		Message:     fmt.Sprintf("Match data refreshed for match %s", key.MatchID),
		LastUpdated: s.Snapshot().LastUpdated,
	})
}

// ListMatches returns a summary of every tracked match
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	sessions := h.registry.Sessions()
	summaries := make([]models.MatchSummary, 0, len(sessions))

	for _, s := range sessions {
		state := s.Snapshot()
		summary := models.MatchSummary{
			MatchID:      s.Key().MatchID,
			TournamentID: s.Key().TournamentID,
			Title:        state.MatchInfo.Title,
			Status:       state.MatchInfo.Status,
			Phase:        string(s.Phase()),
			Teams:        make(map[models.TeamSlot]string),
			Scores:       make(map[models.TeamSlot]string),
			LastUpdated:  state.LastUpdated,
		}
		for slot, team := range state.Teams {
			summary.Teams[slot] = team.Name
			summary.Scores[slot] = team.Score
		}
		summaries = append(summaries, summary)
	}

	respondJSON(w, http.StatusOK, summaries)
}

// GetCommentary returns only the commentary of a match
// Query params: tournament_id, refresh
func (h *Handler) GetCommentary(w http.ResponseWriter, r *http.Request) {
	key, ok := h.matchKey(r, "")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "match_id is required", nil)
		return
	}

	s := h.session(w, r, key, parseBoolParam(r, "refresh"))
	if s == nil {
		return
	}

	commentary := s.Snapshot().Commentary
	if commentary == nil {
		commentary = []models.CommentaryEntry{}
	}
	respondJSON(w, http.StatusOK, commentary)
}

// GetScorecard returns the scorecard view of a match
// Query params: tournament_id, refresh
func (h *Handler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	key, ok := h.matchKey(r, "")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "match_id is required", nil)
		return
	}

	s := h.session(w, r, key, parseBoolParam(r, "refresh"))
	if s == nil {
		return
	}
	respondJSON(w, http.StatusOK, scorecard.BuildScorecard(s.Snapshot()))
}

// CreateSnapshot persists the current state of a tracked match
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		h.respondError(w, http.StatusServiceUnavailable, "snapshot store not configured", nil)
		return
	}

	key, ok := h.matchKey(r, "")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "match_id is required", nil)
		return
	}
	s, ok := h.registry.Get(key)
	if !ok {
		h.respondError(w, http.StatusNotFound, "match not tracked", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.snapshots.SaveSnapshot(ctx, s.Snapshot())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to save snapshot", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        id,
		"match_key": key.String(),
	})
}
