package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the CORS configuration of the router
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler attaches live update clients to the hub
type WebSocketHandler struct {
	hub    *hub.Hub
	ctx    context.Context
	logger *slog.Logger
}

// NewWebSocketHandler creates a handler whose client pumps stop with ctx
func NewWebSocketHandler(ctx context.Context, h *hub.Hub, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{hub: h, ctx: ctx, logger: logger.With("component", "websocket")}
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := client.NewClient(uuid.New().String(), conn, h.hub, h.logger)
	h.hub.Register(c)

	// pumps outlive the request, so they run on the handler context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}

// HandleMetrics returns hub metrics
func (h *WebSocketHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.GetMetrics())
}
