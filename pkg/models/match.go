package models

import "time"

// TeamSlot is the key a team occupies in a MatchState. It is positional
// (first and second team section on the page), not tied to a team name.
type TeamSlot string

const (
	Team1 TeamSlot = "team1"
	Team2 TeamSlot = "team2"
)

// Slots lists both slots in page order.
var Slots = []TeamSlot{Team1, Team2}

// Opponent returns the other slot.
func (s TeamSlot) Opponent() TeamSlot {
	if s == Team1 {
		return Team2
	}
	return Team1
}

// YetToBat is the sentinel written into score and runs for a team that has not batted.
const YetToBat = "Yet to bat"

// MatchState is the aggregate record of one tracked match. It is rebuilt
// section by section on every successful update.
type MatchState struct {
	MatchInfo    MatchInfo                   `json:"match_info"`
	Teams        map[TeamSlot]TeamState      `json:"teams"`
	BattingStats map[TeamSlot][]BattingEntry `json:"batting_stats"`
	BowlingStats map[TeamSlot][]BowlingEntry `json:"bowling_stats"`
	Commentary   []CommentaryEntry           `json:"commentary"`
	LastUpdated  time.Time                   `json:"last_updated"`
}

// MatchInfo holds descriptive fields. Fields are only overwritten when a new
// value was extracted.
type MatchInfo struct {
	Title         string `json:"title,omitempty"`
	Venue         string `json:"venue,omitempty"`
	Date          string `json:"date,omitempty"`
	Status        string `json:"status,omitempty"`
	Result        string `json:"result,omitempty"`
	PlayerOfMatch string `json:"player_of_match,omitempty"`
	MatchID       string `json:"match_id"`
	TournamentID  string `json:"tournament_id"`
}

// TeamState is one team's innings summary.
type TeamState struct {
	Name            string `json:"name"`
	Score           string `json:"score"`
	Runs            string `json:"runs"`
	Wickets         string `json:"wickets"`
	Overs           string `json:"overs"`
	InningsComplete bool   `json:"innings_complete"`
	Won             bool   `json:"won"`
}

// HasBatted reports whether the team has a score that is not the yet-to-bat sentinel.
func (t TeamState) HasBatted() bool {
	return t.Score != "" && !IsYetToBat(t.Score)
}

// BattingEntry is one batter row. Numeric columns are kept as display strings.
type BattingEntry struct {
	Name       string `json:"name"`
	Runs       string `json:"runs"`
	Balls      string `json:"balls"`
	Fours      string `json:"fours"`
	Sixes      string `json:"sixes"`
	StrikeRate string `json:"strike_rate"`
	Dismissal  string `json:"dismissal"`
}

// NotOut is the dismissal value of a batter still in.
const NotOut = "not out"

// IsOut reports whether the batter has any dismissal recorded.
func (b BattingEntry) IsOut() bool {
	return b.Dismissal != "" && b.Dismissal != NotOut
}

// BowlingEntry is one bowler row. Inferred marks the synthesized placeholder
// written when no bowling table could be read for a team that batted.
type BowlingEntry struct {
	Name     string `json:"name"`
	Overs    string `json:"overs"`
	Maidens  string `json:"maidens"`
	Runs     string `json:"runs"`
	Wickets  string `json:"wickets"`
	Economy  string `json:"economy"`
	Inferred bool   `json:"inferred,omitempty"`
}

// PlaceholderBowler is the name used for an inferred bowling entry.
const PlaceholderBowler = "Bowling data not available"

// NewMatchState returns an empty state for the given identity.
func NewMatchState(matchID, tournamentID string) *MatchState {
	return &MatchState{
		MatchInfo: MatchInfo{
			MatchID:      matchID,
			TournamentID: tournamentID,
		},
		Teams:        make(map[TeamSlot]TeamState),
		BattingStats: make(map[TeamSlot][]BattingEntry),
		BowlingStats: NewBowlingStats(),
		Commentary:   []CommentaryEntry{},
	}
}

// NewBowlingStats returns bowling stats with both slots present and empty.
func NewBowlingStats() map[TeamSlot][]BowlingEntry {
	return map[TeamSlot][]BowlingEntry{
		Team1: {},
		Team2: {},
	}
}

// Clone returns a deep copy.
func (m *MatchState) Clone() *MatchState {
	out := &MatchState{
		MatchInfo:    m.MatchInfo,
		Teams:        make(map[TeamSlot]TeamState, len(m.Teams)),
		BattingStats: make(map[TeamSlot][]BattingEntry, len(m.BattingStats)),
		BowlingStats: make(map[TeamSlot][]BowlingEntry, len(m.BowlingStats)),
		Commentary:   append([]CommentaryEntry{}, m.Commentary...),
		LastUpdated:  m.LastUpdated,
	}
	for k, v := range m.Teams {
		out.Teams[k] = v
	}
	for k, v := range m.BattingStats {
		out.BattingStats[k] = append([]BattingEntry{}, v...)
	}
	for k, v := range m.BowlingStats {
		out.BowlingStats[k] = append([]BowlingEntry{}, v...)
	}
	return out
}

// IsComplete reports whether the status text or a team's won flag marks the match finished.
func (m *MatchState) IsComplete() bool {
	if StatusIndicatesResult(m.MatchInfo.Status) {
		return true
	}
	for _, t := range m.Teams {
		if t.Won {
			return true
		}
	}
	return false
}
