package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeMatchUpdate     = "match_update"
	MessageTypeSubscribe       = "subscribe"
	MessageTypeUnsubscribe     = "unsubscribe"
	MessageTypeHeartbeat       = "heartbeat"
	MessageTypeError           = "error"
	MessageTypeConnectionStats = "connection_stats"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// MatchUpdate is broadcast after every successful update of a tracked match.
type MatchUpdate struct {
	MatchKey string      `json:"match_key"`
	Phase    string      `json:"phase"`
	State    *MatchState `json:"state"`
}

// SubscriptionFilter represents client subscription preferences
type SubscriptionFilter struct {
	Matches []string `json:"matches,omitempty"` // match keys, "<match>_<tournament>"
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
