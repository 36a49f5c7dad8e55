package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/guardline/vishsim/internal/model/simulation"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite. Exchanges and alerts are
// stored as JSON blobs alongside the session row; sessions are only ever
// loaded whole.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed repository at dbPath, initializing the
// schema on first open.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode so turn writes don't block concurrent session reads.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		trainee_id TEXT NOT NULL,
		scenario_id TEXT NOT NULL,
		state TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER,
		current_node TEXT,
		exchanges_json TEXT NOT NULL,
		tactics_json TEXT NOT NULL,
		alerts_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_trainee ON sessions(trainee_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Load retrieves a session by identifier.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*simulation.Session, error) {
	query := `
		SELECT session_id, trainee_id, scenario_id, state, started_at, ended_at,
		       current_node, exchanges_json, tactics_json, alerts_json, updated_at
		FROM sessions WHERE session_id = ?`

	row := s.db.QueryRowContext(ctx, query, sessionID)

	var session simulation.Session
	var state, currentNode string
	var endedAt sql.NullInt64
	var startedAt, updatedAt int64
	var exchangesJSON, tacticsJSON, alertsJSON string

	err := row.Scan(
		&session.ID, &session.TraineeID, &session.ScenarioID, &state,
		&startedAt, &endedAt, &currentNode,
		&exchangesJSON, &tacticsJSON, &alertsJSON, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	session.State = simulation.CallState(state)
	session.CurrentNode = currentNode
	session.StartedAt = time.Unix(startedAt, 0).UTC()
	session.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if endedAt.Valid {
		session.EndedAt = time.Unix(endedAt.Int64, 0).UTC()
	}

	if err := json.Unmarshal([]byte(exchangesJSON), &session.Exchanges); err != nil {
		return nil, fmt.Errorf("decode exchanges: %w", err)
	}
	if err := json.Unmarshal([]byte(tacticsJSON), &session.TacticsUsed); err != nil {
		return nil, fmt.Errorf("decode tactics: %w", err)
	}
	if err := json.Unmarshal([]byte(alertsJSON), &session.Alerts); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}

	return &session, nil
}

// Save upserts the session row and its JSON-encoded children.
func (s *SQLiteStore) Save(ctx context.Context, session *simulation.Session) error {
	if session == nil || session.ID == "" {
		return ErrSessionNotFound
	}

	exchangesJSON, err := json.Marshal(session.Exchanges)
	if err != nil {
		return fmt.Errorf("encode exchanges: %w", err)
	}
	tacticsJSON, err := json.Marshal(session.TacticsUsed)
	if err != nil {
		return fmt.Errorf("encode tactics: %w", err)
	}
	alertsJSON, err := json.Marshal(session.Alerts)
	if err != nil {
		return fmt.Errorf("encode alerts: %w", err)
	}

	var endedAt sql.NullInt64
	if !session.EndedAt.IsZero() {
		endedAt = sql.NullInt64{Int64: session.EndedAt.Unix(), Valid: true}
	}

	query := `
		INSERT INTO sessions (session_id, trainee_id, scenario_id, state, started_at,
		                      ended_at, current_node, exchanges_json, tactics_json,
		                      alerts_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			state = excluded.state,
			ended_at = excluded.ended_at,
			current_node = excluded.current_node,
			exchanges_json = excluded.exchanges_json,
			tactics_json = excluded.tactics_json,
			alerts_json = excluded.alerts_json,
			updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		session.ID, session.TraineeID, session.ScenarioID, string(session.State),
		session.StartedAt.Unix(), endedAt, session.CurrentNode,
		string(exchangesJSON), string(tacticsJSON), string(alertsJSON),
		session.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
