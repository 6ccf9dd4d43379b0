package hub

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHub(logger)
	go h.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := client.NewClient("test-client", conn, h, logger)
		h.Register(c)
		go c.WritePump(ctx)
		go c.ReadPump(ctx)
	}))
	t.Cleanup(srv.Close)
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wireMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// roundTrip sends msg followed by a heartbeat and waits for the heartbeat
// reply, so msg has been handled when it returns.
func roundTrip(t *testing.T, conn *websocket.Conn, msg models.ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(models.ClientMessage{Type: models.MessageTypeHeartbeat}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for {
		if read(t, conn).Type == models.MessageTypeHeartbeat {
			return
		}
	}
}

func liveState(matchID string) *models.MatchState {
	state := models.NewMatchState(matchID, "8307")
	state.Teams[models.Team1] = models.TeamState{Name: "Mumbai Indians", Score: "54/1", Runs: "54", Wickets: "1", Overs: "6.0"}
	state.Teams[models.Team2] = models.TeamState{Name: "Chennai Super Kings", Score: models.YetToBat, Runs: models.YetToBat}
	return state
}

func TestHub_BroadcastsToSubscribers(t *testing.T) {
	h, srv := startHub(t)
	conn := dial(t, srv)

	roundTrip(t, conn, models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: map[string]interface{}{"matches": []string{"2_8307"}},
	})
	if h.GetClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", h.GetClientCount())
	}

	ctx := context.Background()
	h.OnMatchUpdate(ctx, "1_8307", liveState("1"))
	h.OnMatchUpdate(ctx, "2_8307", liveState("2"))

	msg := read(t, conn)
	if msg.Type != models.MessageTypeMatchUpdate {
		t.Fatalf("expected match_update, got %s", msg.Type)
	}

	var update models.MatchUpdate
	if err := json.Unmarshal(msg.Payload, &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if update.MatchKey != "2_8307" {
		t.Errorf("expected only the subscribed match, got %s", update.MatchKey)
	}
	if update.Phase != models.PhaseFirstInnings {
		t.Errorf("expected first_innings, got %s", update.Phase)
	}
	if update.State.Teams[models.Team1].Runs != "54" {
		t.Errorf("unexpected state %+v", update.State.Teams)
	}
}

func TestHub_UnknownMessageType(t *testing.T) {
	_, srv := startHub(t)
	conn := dial(t, srv)

	if err := conn.WriteJSON(models.ClientMessage{Type: "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := read(t, conn)
	if msg.Type != models.MessageTypeError {
		t.Fatalf("expected error message, got %s", msg.Type)
	}
	if !strings.Contains(string(msg.Payload), "unknown_message_type") {
		t.Errorf("unexpected payload %s", msg.Payload)
	}
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	h, srv := startHub(t)
	conn := dial(t, srv)
	roundTrip(t, conn, models.ClientMessage{Type: models.MessageTypeUnsubscribe})

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.GetClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client not unregistered after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if m := h.GetMetrics(); m["total_connections"].(int64) != 1 {
		t.Errorf("expected 1 total connection, got %v", m["total_connections"])
	}
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for i := 0; i < cap(h.broadcast)+5; i++ {
		h.Broadcast(models.MatchUpdate{MatchKey: "k"})
	}
	if len(h.broadcast) != cap(h.broadcast) {
		t.Errorf("expected full buffer, got %d", len(h.broadcast))
	}
}
