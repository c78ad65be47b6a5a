package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trapwire-labs/trapwire/pkg/logger"
)

// Archiver receives terminated sessions for long-term retention. The
// in-store archived flag keeps a session readable; the archiver is the
// durable copy that outlives store TTLs and process restarts.
type Archiver interface {
	ArchiveSession(ctx context.Context, state *State) error
	Close()
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS archived_sessions (
	id UUID PRIMARY KEY,
	session_id TEXT NOT NULL,
	scam_confirmed BOOLEAN NOT NULL,
	turn_count INTEGER NOT NULL,
	trust_level DOUBLE PRECISION NOT NULL,
	risk_score INTEGER NOT NULL,
	intelligence JSONB NOT NULL,
	history JSONB NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_archived_sessions_session_id ON archived_sessions (session_id);
`

// PostgresArchive stores terminated sessions in PostgreSQL.
type PostgresArchive struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewPostgresArchive connects to PostgreSQL and ensures the archive
// table exists.
func NewPostgresArchive(ctx context.Context, dsn string, log *logger.Logger) (*PostgresArchive, error) {
	log = log.WithComponent("archive")
	log.Info().Msg("connecting to PostgreSQL")

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse archive DSN: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(connectCtx, archiveSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure archive schema: %w", err)
	}

	return &PostgresArchive{pool: pool, log: log}, nil
}

// ArchiveSession inserts one terminated session. History and
// intelligence go in as JSONB so forensic queries can dig into them.
func (a *PostgresArchive) ArchiveSession(ctx context.Context, state *State) error {
	const insert = `
INSERT INTO archived_sessions
	(id, session_id, scam_confirmed, turn_count, trust_level, risk_score, intelligence, history, started_at, archived_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := a.pool.Exec(ctx, insert,
		uuid.New(),
		state.SessionID,
		state.ScamConfirmed,
		state.TurnCount,
		state.TrustLevel,
		state.Intelligence.RiskScore,
		state.Intelligence,
		state.History,
		state.CreatedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert archived session %s: %w", state.SessionID, err)
	}

	a.log.Info().Str("session_id", state.SessionID).Int("turns", state.TurnCount).Msg("session archived")
	return nil
}

// Close closes the connection pool.
func (a *PostgresArchive) Close() {
	a.pool.Close()
}

var _ Archiver = (*PostgresArchive)(nil)
