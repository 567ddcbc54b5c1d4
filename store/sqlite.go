package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dsn and runs
// migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			round_id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			outcome TEXT NOT NULL,
			steps_completed INTEGER NOT NULL,
			total_steps INTEGER NOT NULL,
			terminal_node_id TEXT,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ended ON rounds(ended_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRound records a finished round.
func (s *SQLiteStore) SaveRound(ctx context.Context, round *Round) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (round_id, scenario, outcome, steps_completed, total_steps, terminal_node_id, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		round.RoundID, round.Scenario, round.Outcome, round.StepsCompleted,
		round.TotalSteps, round.TerminalNodeID, round.StartedAt, round.EndedAt)
	return err
}

// ListRounds returns the most recent rounds, newest first.
func (s *SQLiteStore) ListRounds(ctx context.Context, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT round_id, scenario, outcome, steps_completed, total_steps, terminal_node_id, started_at, ended_at
		 FROM rounds ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var r Round
		var terminal sql.NullString
		if err := rows.Scan(&r.RoundID, &r.Scenario, &r.Outcome, &r.StepsCompleted,
			&r.TotalSteps, &terminal, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, err
		}
		if terminal.Valid {
			r.TerminalNodeID = terminal.String
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}
