// Package poller keeps tracked matches current by refreshing them on an interval.
package poller

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/tracker"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/contracts"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 30 * time.Second

// maxConcurrentRefreshes bounds the refreshes of one cycle; the fetch
// client paces the actual requests.
const maxConcurrentRefreshes = 4

// Poller refreshes every tracked match that has not finished.
type Poller struct {
	registry     *tracker.Registry
	snapshots    contracts.SnapshotStore
	interval     time.Duration
	autoSnapshot bool
	logger       *slog.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithAutoSnapshot saves a snapshot of each match when it completes.
func WithAutoSnapshot(store contracts.SnapshotStore) Option {
	return func(p *Poller) {
		p.snapshots = store
		p.autoSnapshot = store != nil
	}
}

// NewPoller creates a poller over registry.
func NewPoller(registry *tracker.Registry, interval time.Duration, logger *slog.Logger, opts ...Option) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		registry: registry,
		interval: interval,
		logger:   logger.With("component", "poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("starting poller", "interval", p.interval, "auto_snapshot", p.autoSnapshot)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping poller")
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce refreshes every live session once and returns how many were refreshed.
func (p *Poller) PollOnce(ctx context.Context) int {
	var live []*tracker.Session
	for _, s := range p.registry.Sessions() {
		if s.Snapshot().IsComplete() {
			continue
		}
		live = append(live, s)
	}
	if len(live) == 0 {
		return 0
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRefreshes)
	for _, s := range live {
		g.Go(func() error {
			p.refresh(gctx, s)
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Debug("poll cycle finished", "refreshed", len(live))
	return len(live)
}

func (p *Poller) refresh(ctx context.Context, s *tracker.Session) {
	key := s.Key()
	if _, err := p.registry.Refresh(ctx, key); err != nil {
		// the registry already logged the failure and marked the session stale
		return
	}

	state := s.Snapshot()
	if !state.IsComplete() || !p.autoSnapshot {
		return
	}

	id, err := p.snapshots.SaveSnapshot(ctx, state)
	if err != nil {
		p.logger.Error("auto snapshot failed", "match", key.String(), "error", err)
		return
	}
	p.logger.Info("match complete, snapshot saved", "match", key.String(), "snapshot_id", id, "result", state.MatchInfo.Result)
}
