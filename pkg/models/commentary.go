package models

import "encoding/json"

// CommentaryType discriminates commentary entries.
type CommentaryType string

const (
	CommentaryGeneral CommentaryType = "general"
	CommentaryBall    CommentaryType = "ball"
)

// CommentaryEntry is either a timestamped general note (Time, Text) or a
// ball event (Over, Result, Text).
type CommentaryEntry struct {
	Type   CommentaryType
	Time   string
	Over   string
	Result string
	Text   string
}

// GeneralNote builds a general commentary entry.
func GeneralNote(time, text string) CommentaryEntry {
	return CommentaryEntry{Type: CommentaryGeneral, Time: time, Text: text}
}

// BallEvent builds a ball-by-ball commentary entry.
func BallEvent(over, result, text string) CommentaryEntry {
	return CommentaryEntry{Type: CommentaryBall, Over: over, Result: result, Text: text}
}

type generalWire struct {
	Type CommentaryType `json:"type"`
	Time string         `json:"time"`
	Text string         `json:"text"`
}

type ballWire struct {
	Type   CommentaryType `json:"type"`
	Over   string         `json:"over"`
	Result string         `json:"result"`
	Text   string         `json:"text"`
}

// MarshalJSON emits only the fields that belong to the entry's variant.
func (c CommentaryEntry) MarshalJSON() ([]byte, error) {
	if c.Type == CommentaryBall {
		return json.Marshal(ballWire{Type: c.Type, Over: c.Over, Result: c.Result, Text: c.Text})
	}
	return json.Marshal(generalWire{Type: CommentaryGeneral, Time: c.Time, Text: c.Text})
}

// UnmarshalJSON accepts either variant.
func (c *CommentaryEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   CommentaryType `json:"type"`
		Time   string         `json:"time"`
		Over   string         `json:"over"`
		Result string         `json:"result"`
		Text   string         `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CommentaryEntry{Type: raw.Type, Time: raw.Time, Over: raw.Over, Result: raw.Result, Text: raw.Text}
	if c.Type == "" {
		c.Type = CommentaryGeneral
	}
	return nil
}
