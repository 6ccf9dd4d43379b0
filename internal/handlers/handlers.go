package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/tracker"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

const serviceName = "cricket-stats-service"

// Options configures request defaults and access control.
type Options struct {
	DefaultTournamentID string
	AdminAPIKey         string
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	registry  *tracker.Registry
	snapshots contracts.SnapshotStore
	debug     contracts.DebugSink
	opts      Options
	logger    *slog.Logger
}

// NewHandler creates a new handler. snapshots and debug may be nil when
// those stores are not configured.
func NewHandler(registry *tracker.Registry, snapshots contracts.SnapshotStore, debug contracts.DebugSink, opts Options, logger *slog.Logger) *Handler {
	if opts.DefaultTournamentID == "" {
		opts.DefaultTournamentID = "8307"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry:  registry,
		snapshots: snapshots,
		debug:     debug,
		opts:      opts,
		logger:    logger.With("component", "handlers"),
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"service":         serviceName,
		"tracked_matches": len(h.registry.Keys()),
		"timestamp":       time.Now().UTC(),
	})
}

// Home serves the API documentation page
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(docsPage))
}

// Helper functions

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseBoolParam(r *http.Request, param string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(param))
	return err == nil && v
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		h.logger.Error(message, "status", status, "error", err)
		if status == http.StatusBadGateway {
			errResp.Message = message + ": " + err.Error()
		}
	}

	respondJSON(w, status, errResp)
}
