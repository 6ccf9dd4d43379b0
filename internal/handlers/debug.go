package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/tracker"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// DebugInfo is the admin view of one tracked match.
type DebugInfo struct {
	MatchID         string                  `json:"match_id"`
	TournamentID    string                  `json:"tournament_id"`
	DebugCaptures   []models.DebugCapture   `json:"debug_captures"`
	Snapshots       []models.Snapshot       `json:"snapshots"`
	Session         tracker.Stats           `json:"session"`
	BattingCount    map[models.TeamSlot]int `json:"batting_stats_count"`
	BowlingCount    map[models.TeamSlot]int `json:"bowling_stats_count"`
	CommentaryCount int                     `json:"commentary_count"`
	Warnings        []string                `json:"warnings,omitempty"`
}

func (h *Handler) authorized(r *http.Request) bool {
	key := r.Header.Get("X-API-Key")
	if key == "" || h.opts.AdminAPIKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(h.opts.AdminAPIKey)) == 1
}

// GetDebugInfo returns captures, snapshots and session diagnostics (admin only)
// Headers: X-API-Key
func (h *Handler) GetDebugInfo(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.respondError(w, http.StatusUnauthorized, "unauthorized access", nil)
		return
	}

	key, ok := h.matchKey(r, "")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "match_id is required", nil)
		return
	}
	s, ok := h.registry.Get(key)
	if !ok {
		h.respondError(w, http.StatusNotFound, "match not found", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state := s.Snapshot()
	info := DebugInfo{
		MatchID:         key.MatchID,
		TournamentID:    key.TournamentID,
		DebugCaptures:   []models.DebugCapture{},
		Snapshots:       []models.Snapshot{},
		Session:         s.Stats(),
		BattingCount:    make(map[models.TeamSlot]int),
		BowlingCount:    make(map[models.TeamSlot]int),
		CommentaryCount: len(state.Commentary),
	}
	for slot, entries := range state.BattingStats {
		info.BattingCount[slot] = len(entries)
	}
	for slot, entries := range state.BowlingStats {
		info.BowlingCount[slot] = len(entries)
	}

	if h.debug != nil {
		captures, err := h.debug.List(ctx, key.MatchID)
		if err != nil {
			h.logger.Warn("listing debug captures failed", "match", key.String(), "error", err)
			info.Warnings = append(info.Warnings, "debug captures unavailable")
		} else {
			info.DebugCaptures = captures
		}
	}

	if h.snapshots != nil {
		snaps, err := h.snapshots.ListSnapshots(ctx, key.MatchID, parseIntParam(r, "limit", 20))
		if err != nil {
			h.logger.Warn("listing snapshots failed", "match", key.String(), "error", err)
			info.Warnings = append(info.Warnings, "snapshots unavailable")
		} else if snaps != nil {
			info.Snapshots = snaps
		}
	}

	respondJSON(w, http.StatusOK, info)
}
