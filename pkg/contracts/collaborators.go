package contracts

import (
	"context"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// Fetcher retrieves the raw scorecard document for a match.
type Fetcher interface {
	Fetch(ctx context.Context, matchID, tournamentID string) (string, error)
}

// SnapshotStore persists copies of match state.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, state *models.MatchState) (int64, error)
	ListSnapshots(ctx context.Context, matchID string, limit int) ([]models.Snapshot, error)
}

// DebugSink stores raw fetched documents for later inspection.
type DebugSink interface {
	Save(ctx context.Context, matchID string, document string) (string, error)
	List(ctx context.Context, matchID string) ([]models.DebugCapture, error)
}

// Listener is notified after every successful update of a tracked match.
// matchKey is the "<match>_<tournament>" identity; state must not be mutated.
type Listener interface {
	OnMatchUpdate(ctx context.Context, matchKey string, state *models.MatchState) error
}

// StateSeeder supplies a previously cached state for a match that is being tracked anew.
type StateSeeder interface {
	ReadMatchState(ctx context.Context, matchKey string) (*models.MatchState, error)
}
