// Package hub fans match updates out to connected WebSocket clients.
package hub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/scorecard"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

const metricsInterval = 30 * time.Second

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.MatchUpdate
	register   chan *client.Client
	unregister chan *client.Client
	done       chan struct{}

	logger *slog.Logger

	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.MatchUpdate, 256),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "hub"),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.logger.Info("hub started")

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues an update for every subscribed client
func (h *Hub) Broadcast(update models.MatchUpdate) {
	select {
	case h.broadcast <- update:
	default:
		h.logger.Warn("broadcast buffer full, dropping update", "match", update.MatchKey)
	}
}

// OnMatchUpdate broadcasts every successful match update.
func (h *Hub) OnMatchUpdate(ctx context.Context, matchKey string, state *models.MatchState) error {
	h.Broadcast(models.MatchUpdate{
		MatchKey: matchKey,
		Phase:    scorecard.MatchPhase(state),
		State:    state,
	})
	return nil
}

func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.incrementTotalConnections()
	h.logger.Info("client connected", "client", c.ID, "total", len(h.clients))
}

func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.logger.Info("client disconnected", "client", c.ID, "total", len(h.clients))
	}
}

func (h *Hub) broadcastUpdate(update models.MatchUpdate) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := models.ServerMessage{
		Type:      models.MessageTypeMatchUpdate,
		Payload:   update,
		Timestamp: time.Now(),
	}

	sent, dropped := 0, 0
	for _, c := range clients {
		if !c.Wants(update.MatchKey) {
			continue
		}
		if c.TrySend(message) {
			sent++
			continue
		}
		// too slow to keep up, disconnect
		dropped++
		h.logger.Warn("client buffer full, disconnecting", "client", c.ID)
		h.unregisterClient(c)
	}

	if sent > 0 {
		h.incrementTotalMessages()
	}
	if dropped > 0 {
		h.logger.Warn("dropped slow clients", "match", update.MatchKey, "count", dropped)
	}
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalMessages := h.totalMessages
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info("shutting down hub", "active_clients", len(h.clients))
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}

func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := h.GetMetrics()
			h.logger.Info("hub metrics",
				"clients", m["active_clients"],
				"total_connections", m["total_connections"],
				"messages", m["total_messages"])
		}
	}
}

func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

func (h *Hub) incrementTotalMessages() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalMessages++
}
