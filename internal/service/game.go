// Package service runs the judged dialogue rounds: the walker that moves a
// session through the scenario graph, the judge that turns model output
// into transitions, and the decision parser.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/doronnac/elsa/domain"
	"github.com/doronnac/elsa/internal/adapter/llm"
	"github.com/doronnac/elsa/internal/term"
	"github.com/doronnac/elsa/policy"
	"github.com/doronnac/elsa/store"
)

// Service plays rounds of one scenario against a generator backend.
type Service struct {
	graph        *domain.Graph
	generator    llm.Generator
	policy       *policy.Engine
	store        store.Store
	console      term.Console
	quitWords    []string
	scenarioName string
}

// New creates the game service. store may be nil to disable round history.
func New(graph *domain.Graph, generator llm.Generator, pol *policy.Engine, st store.Store, console term.Console, quitWords []string, scenarioName string) *Service {
	return &Service{
		graph:        graph,
		generator:    generator,
		policy:       pol,
		store:        st,
		console:      console,
		quitWords:    quitWords,
		scenarioName: scenarioName,
	}
}

// PlayRound walks one session from the start node to an outcome. State is
// created fresh here; nothing survives between rounds.
func (s *Service) PlayRound(ctx context.Context) (domain.Outcome, error) {
	state := domain.NewSessionState(s.graph)

	for {
		node, ok := state.CurrentNode()
		if !ok {
			return domain.Outcome{}, fmt.Errorf("session at unknown node %q", state.CurrentNodeID)
		}

		state.Conversation = append(state.Conversation, domain.Assistant(node.Transcript))
		s.console.Say(node.Transcript)

		if node.Terminal {
			return domain.Outcome{
				Success:        node.Success,
				StepsCompleted: state.StepsCompleted,
				TotalSteps:     s.graph.TotalSteps(),
				TerminalNodeID: node.ID,
			}, nil
		}

		input, err := s.console.ReadLine()
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("read player input: %w", err)
		}

		if input == "" {
			// The guard line was already delivered; drop it so the re-ask
			// does not duplicate it in the history.
			state.Conversation = state.Conversation[:len(state.Conversation)-1]
			s.console.Info("  (Say something.)")
			continue
		}

		if s.isQuitWord(input) {
			return domain.Outcome{
				Quit:           true,
				StepsCompleted: state.StepsCompleted,
				TotalSteps:     s.graph.TotalSteps(),
			}, nil
		}

		state.Conversation = append(state.Conversation, domain.User(input))

		res := s.judgeTurn(ctx, state, node)
		if !res.Fallback && res.Reason != "" {
			s.console.Reasoning(res.Reason)
		}

		state.CurrentNodeID = res.NextID
		state.StepsCompleted++
	}
}

// Run plays rounds until the player declines a restart. Round history
// failures are logged but never interrupt play.
func (s *Service) Run(ctx context.Context) error {
	s.console.Info("=== Border Control ===")
	s.console.Info(fmt.Sprintf("Scenario: %s. Type %s to give up.",
		s.scenarioName, strings.Join(s.quitWords, " or ")))

	for {
		startedAt := time.Now().UTC()
		outcome, err := s.PlayRound(ctx)
		if err != nil {
			return err
		}

		s.showOutcome(outcome)
		s.saveRound(ctx, outcome, startedAt)

		s.console.Info("\nPress [r] to restart or [q] to quit.")
		again, err := s.console.ReadRestart()
		if err != nil {
			return fmt.Errorf("read restart choice: %w", err)
		}
		if !again {
			return nil
		}
	}
}

func (s *Service) showOutcome(o domain.Outcome) {
	switch {
	case o.Quit:
		s.console.Info("\nYou gave up and walked away from the border.")
	case o.Success:
		s.console.Info("\n*** ENTRY GRANTED ***")
	default:
		s.console.Info("\n*** ENTRY DENIED ***")
	}
	s.console.Info(fmt.Sprintf("Checks passed: %d/%d", o.StepsCompleted, o.TotalSteps))
}

func (s *Service) saveRound(ctx context.Context, o domain.Outcome, startedAt time.Time) {
	if s.store == nil {
		return
	}
	round := &store.Round{
		RoundID:        uuid.NewString(),
		Scenario:       s.scenarioName,
		Outcome:        outcomeLabel(o),
		StepsCompleted: o.StepsCompleted,
		TotalSteps:     o.TotalSteps,
		TerminalNodeID: o.TerminalNodeID,
		StartedAt:      startedAt,
		EndedAt:        time.Now().UTC(),
	}
	if err := s.store.SaveRound(ctx, round); err != nil {
		log.Warn().Err(err).Str("round_id", round.RoundID).Msg("failed to record round")
	}
}

func outcomeLabel(o domain.Outcome) string {
	switch {
	case o.Quit:
		return store.OutcomeQuit
	case o.Success:
		return store.OutcomeCleared
	default:
		return store.OutcomeDenied
	}
}

func (s *Service) isQuitWord(input string) bool {
	for _, w := range s.quitWords {
		if strings.EqualFold(input, w) {
			return true
		}
	}
	return false
}
