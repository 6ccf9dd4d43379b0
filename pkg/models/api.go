package models

import "time"

// Scorecard match phases reported by the scorecard view.
const (
	PhaseInProgress    = "in_progress"
	PhaseFirstInnings  = "first_innings"
	PhaseSecondInnings = "second_innings"
	PhaseCompleted     = "completed"
)

// Scorecard is the presentation view of a match: only the innings that have
// started, with the side currently batting and bowling.
type Scorecard struct {
	MatchInfo    MatchInfo                   `json:"match_info"`
	Teams        map[TeamSlot]TeamState      `json:"teams"`
	BattingStats map[TeamSlot][]BattingEntry `json:"batting_stats"`
	BowlingStats map[TeamSlot][]BowlingEntry `json:"bowling_stats"`
	MatchState   string                      `json:"match_state"`
	BattingTeam  TeamSlot                    `json:"batting_team,omitempty"`
	BowlingTeam  TeamSlot                    `json:"bowling_team,omitempty"`
	LastUpdated  time.Time                   `json:"last_updated"`
}

// MatchSummary is one row of the tracked matches listing.
type MatchSummary struct {
	MatchID      string              `json:"match_id"`
	TournamentID string              `json:"tournament_id"`
	Title        string              `json:"title"`
	Status       string              `json:"status"`
	Phase        string              `json:"phase"`
	Teams        map[TeamSlot]string `json:"teams"`
	Scores       map[TeamSlot]string `json:"scores"`
	LastUpdated  time.Time           `json:"last_updated"`
}

// RefreshRequest is the body of a refresh call.
type RefreshRequest struct {
	TournamentID string `json:"tournament_id"`
}

// RefreshResponse reports the outcome of a refresh.
type RefreshResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	LastUpdated time.Time `json:"last_updated"`
}

// Snapshot is a persisted copy of a MatchState.
type Snapshot struct {
	ID           int64       `json:"id"`
	MatchID      string      `json:"match_id"`
	TournamentID string      `json:"tournament_id"`
	Team1        string      `json:"team1"`
	Team2        string      `json:"team2"`
	State        *MatchState `json:"state,omitempty"`
	CapturedAt   time.Time   `json:"captured_at"`
}

// DebugCapture describes one stored raw document.
type DebugCapture struct {
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	Size       int64     `json:"size"`
	CapturedAt time.Time `json:"captured_at"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
