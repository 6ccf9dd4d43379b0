// Package storage persists match snapshots and raw debug captures.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS match_snapshots (
	id            BIGSERIAL PRIMARY KEY,
	match_id      TEXT        NOT NULL,
	tournament_id TEXT        NOT NULL,
	team1         TEXT        NOT NULL DEFAULT '',
	team2         TEXT        NOT NULL DEFAULT '',
	payload       JSONB       NOT NULL,
	captured_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_match_snapshots_match ON match_snapshots (match_id, captured_at DESC);
`

// DefaultSnapshotLimit bounds ListSnapshots when no limit is given.
const DefaultSnapshotLimit = 20

// PostgresStore saves match snapshots to Postgres
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore creates a snapshot store over db
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the snapshot table if missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}
	return nil
}

// SaveSnapshot stores state and returns the new snapshot id
func (s *PostgresStore) SaveSnapshot(ctx context.Context, state *models.MatchState) (int64, error) {
	row, err := newSnapshotRow(state)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO match_snapshots (match_id, tournament_id, team1, team2, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, row.matchID, row.tournamentID, row.team1, row.team2, row.payload).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// ListSnapshots returns the most recent snapshots of a match, newest first
func (s *PostgresStore) ListSnapshots(ctx context.Context, matchID string, limit int) ([]models.Snapshot, error) {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_id, tournament_id, team1, team2, captured_at
		FROM match_snapshots
		WHERE match_id = $1
		ORDER BY captured_at DESC
		LIMIT $2
	`, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		if err := rows.Scan(&snap.ID, &snap.MatchID, &snap.TournamentID, &snap.Team1, &snap.Team2, &snap.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// GetSnapshot loads one snapshot including its state
func (s *PostgresStore) GetSnapshot(ctx context.Context, id int64) (*models.Snapshot, error) {
	var (
		snap    models.Snapshot
		payload []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, match_id, tournament_id, team1, team2, payload, captured_at
		FROM match_snapshots
		WHERE id = $1
	`, id).Scan(&snap.ID, &snap.MatchID, &snap.TournamentID, &snap.Team1, &snap.Team2, &payload, &snap.CapturedAt)
	if err != nil {
		return nil, fmt.Errorf("get snapshot %d: %w", id, err)
	}

	snap.State = &models.MatchState{}
	if err := json.Unmarshal(payload, snap.State); err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", id, err)
	}
	return &snap, nil
}

type snapshotRow struct {
	matchID      string
	tournamentID string
	team1        string
	team2        string
	payload      []byte
}

func newSnapshotRow(state *models.MatchState) (snapshotRow, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return snapshotRow{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	return snapshotRow{
		matchID:      state.MatchInfo.MatchID,
		tournamentID: state.MatchInfo.TournamentID,
		team1:        state.Teams[models.Team1].Name,
		team2:        state.Teams[models.Team2].Name,
		payload:      payload,
	}, nil
}
