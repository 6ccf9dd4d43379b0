package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/scorecard"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// ErrFetch wraps failures of the fetch collaborator.
var ErrFetch = errors.New("fetch failed")

// Phase is the lifecycle position of a tracked match.
type Phase string

const (
	// PhaseEmpty: created, never successfully updated.
	PhaseEmpty Phase = "empty"
	// PhasePopulated: the last update succeeded.
	PhasePopulated Phase = "populated"
	// PhaseStale: the last update failed; the previous data is kept.
	PhaseStale Phase = "stale"
)

// Key identifies a tracked match.
type Key struct {
	MatchID      string
	TournamentID string
}

func (k Key) String() string {
	return k.MatchID + "_" + k.TournamentID
}

// Stats describes a session for diagnostics.
type Stats struct {
	Key         string           `json:"key"`
	Phase       Phase            `json:"phase"`
	CreatedAt   time.Time        `json:"created_at"`
	LastUpdated time.Time        `json:"last_updated"`
	UpdateCount int              `json:"update_count"`
	LastError   string           `json:"last_error,omitempty"`
	LastReport  scorecard.Report `json:"last_report"`
}

// Session owns the MatchState of one tracked match. Updates are serialized;
// readers get copies taken between updates.
type Session struct {
	key Key

	// ready closes once the first update has finished; initErr is set
	// before that when the session was dropped.
	ready   chan struct{}
	initErr error

	updateMu sync.Mutex

	mu          sync.RWMutex
	state       *models.MatchState
	phase       Phase
	createdAt   time.Time
	updateCount int
	lastErr     error
	lastReport  scorecard.Report
}

func newSession(key Key, seed *models.MatchState) *Session {
	s := &Session{
		key:       key,
		ready:     make(chan struct{}),
		state:     models.NewMatchState(key.MatchID, key.TournamentID),
		phase:     PhaseEmpty,
		createdAt: time.Now(),
	}
	if seed != nil {
		s.state = seed.Clone()
		s.state.MatchInfo.MatchID = key.MatchID
		s.state.MatchInfo.TournamentID = key.TournamentID
		s.phase = PhaseStale
	}
	return s
}

// Key returns the session identity.
func (s *Session) Key() Key { return s.key }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() *models.MatchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Stats returns diagnostics for the session.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		Key:         s.key.String(),
		Phase:       s.phase,
		CreatedAt:   s.createdAt,
		LastUpdated: s.state.LastUpdated,
		UpdateCount: s.updateCount,
		LastReport:  s.lastReport,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// update runs one fetch, extract, validate, stamp cycle. The engine works on
// a copy that replaces the current state only when the cycle completes.
func (s *Session) update(ctx context.Context, fetcher contracts.Fetcher, engine *scorecard.Engine, debug contracts.DebugSink, logger *slog.Logger) (*models.MatchState, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	document, err := fetcher.Fetch(ctx, s.key.MatchID, s.key.TournamentID)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrFetch, err)
		s.fail(err)
		return nil, err
	}

	if debug != nil {
		if location, err := debug.Save(ctx, s.key.MatchID, document); err != nil {
			logger.Warn("saving debug capture failed", "match", s.key.String(), "error", err)
		} else {
			logger.Debug("saved debug capture", "match", s.key.String(), "location", location)
		}
	}

	next := s.Snapshot()
	report, err := engine.Apply(next, document)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.state = next
	s.phase = PhasePopulated
	s.updateCount++
	s.lastErr = nil
	s.lastReport = report
	s.mu.Unlock()

	return next.Clone(), nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if s.phase != PhaseEmpty {
		s.phase = PhaseStale
	}
}
