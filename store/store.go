// Package store defines persistence for finished rounds and its
// implementations. Only completed rounds are recorded; in-flight sessions
// are never persisted or resumed.
package store

import (
	"context"
	"time"
)

// Round outcomes.
const (
	OutcomeCleared = "cleared"
	OutcomeDenied  = "denied"
	OutcomeQuit    = "quit"
)

// Round is one finished play-through.
type Round struct {
	RoundID        string    `json:"round_id"`
	Scenario       string    `json:"scenario"`
	Outcome        string    `json:"outcome"`
	StepsCompleted int       `json:"steps_completed"`
	TotalSteps     int       `json:"total_steps"`
	TerminalNodeID string    `json:"terminal_node_id,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
}

// Store defines the interface for round persistence.
type Store interface {
	SaveRound(ctx context.Context, round *Round) error
	ListRounds(ctx context.Context, limit int) ([]Round, error)
	Close() error
}
