// Package tracker owns the set of matches being followed and runs their
// update cycles.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/scorecard"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// ErrNotTracked is returned for keys the registry does not hold.
var ErrNotTracked = errors.New("match not tracked")

// Registry maps match identities to sessions.
type Registry struct {
	fetcher   contracts.Fetcher
	engine    *scorecard.Engine
	debug     contracts.DebugSink
	seeder    contracts.StateSeeder
	listeners []contracts.Listener
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[Key]*Session
}

// Option configures optional collaborators.
type Option func(*Registry)

// WithDebugSink stores every fetched document.
func WithDebugSink(d contracts.DebugSink) Option {
	return func(r *Registry) { r.debug = d }
}

// WithSeeder restores cached state for newly tracked matches.
func WithSeeder(s contracts.StateSeeder) Option {
	return func(r *Registry) { r.seeder = s }
}

// WithListeners adds listeners notified after each successful update.
func WithListeners(l ...contracts.Listener) Option {
	return func(r *Registry) { r.listeners = append(r.listeners, l...) }
}

// NewRegistry creates an empty registry.
func NewRegistry(fetcher contracts.Fetcher, engine *scorecard.Engine, logger *slog.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		fetcher:  fetcher,
		engine:   engine,
		logger:   logger.With("component", "tracker"),
		sessions: make(map[Key]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Track returns the session for key, creating it and running its first
// update when it is new. A new session whose first update fails is not kept.
// Callers that find a session still on its first update wait for it.
func (r *Registry) Track(ctx context.Context, key Key) (*Session, bool, error) {
	if s, ok := r.Get(key); ok {
		return r.await(ctx, s)
	}
	seed := r.seed(ctx, key)

	r.mu.Lock()
	if s, ok := r.sessions[key]; ok {
		r.mu.Unlock()
		return r.await(ctx, s)
	}
	s := newSession(key, seed)
	r.sessions[key] = s
	r.mu.Unlock()

	r.logger.Info("tracking match", "match", key.String())
	defer close(s.ready)
	if err := r.run(ctx, s); err != nil {
		if s.Phase() == PhaseEmpty {
			r.Remove(key)
			s.initErr = fmt.Errorf("initializing match %s: %w", key, err)
			return nil, true, s.initErr
		}
		// seeded from cache, keep serving the cached copy
		r.logger.Warn("first update failed, serving cached state", "match", key.String(), "error", err)
	}
	return s, true, nil
}

func (r *Registry) await(ctx context.Context, s *Session) (*Session, bool, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
	if s.initErr != nil {
		return nil, false, s.initErr
	}
	return s, false, nil
}

// Get returns the session for key.
func (r *Registry) Get(key Key) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[key]
	return s, ok
}

// Refresh runs one update cycle for a tracked match.
func (r *Registry) Refresh(ctx context.Context, key Key) (*Session, error) {
	s, ok := r.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotTracked, key)
	}
	return s, r.run(ctx, s)
}

// Remove stops tracking key.
func (r *Registry) Remove(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Sessions returns every tracked session ordered by key.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].key.String() < out[j].key.String()
	})
	return out
}

// Keys returns the tracked match keys in order.
func (r *Registry) Keys() []string {
	sessions := r.Sessions()
	keys := make([]string, len(sessions))
	for i, s := range sessions {
		keys[i] = s.key.String()
	}
	return keys
}

func (r *Registry) run(ctx context.Context, s *Session) error {
	state, err := s.update(ctx, r.fetcher, r.engine, r.debug, r.logger)
	if err != nil {
		r.logger.Error("update failed", "match", s.key.String(), "phase", s.Phase(), "error", err)
		return err
	}

	r.logger.Info("match updated",
		"match", s.key.String(),
		"status", state.MatchInfo.Status,
		"team1", state.Teams[models.Team1].Score,
		"team2", state.Teams[models.Team2].Score)

	for _, l := range r.listeners {
		if err := l.OnMatchUpdate(ctx, s.key.String(), state); err != nil {
			r.logger.Warn("listener failed", "match", s.key.String(), "listener", fmt.Sprintf("%T", l), "error", err)
		}
	}
	return nil
}

func (r *Registry) seed(ctx context.Context, key Key) *models.MatchState {
	if r.seeder == nil {
		return nil
	}
	state, err := r.seeder.ReadMatchState(ctx, key.String())
	if err != nil || state == nil {
		return nil
	}
	r.logger.Info("seeded match from cache", "match", key.String())
	return state
}
