package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/doronnac/elsa/domain"
	"github.com/doronnac/elsa/internal/adapter/llm"
	"github.com/doronnac/elsa/policy"
)

// guardPreamble is the judge's base persona. Per-node criteria from the
// scenario are appended to it at judge time.
const guardPreamble = "You are a border security guard at an airport. " +
	"You are questioning a traveler who wants to enter the country. " +
	"Judge only what the traveler actually said in this conversation."

// Resolution is the outcome of judging one player turn.
type Resolution struct {
	// NextID is the node the session moves to.
	NextID string
	// Reason is the judge's justification, empty on the fallback path.
	Reason string
	// Fallback reports that the favorable option was forced rather than
	// chosen.
	Fallback bool
	// Cause carries the failure behind a fallback, nil otherwise.
	Cause error
}

// judgeTurn asks the model to pick the next node for the current decision
// node and resolves the answer against the transition policy. Every
// failure on the way degrades to the node's first option so a bad model
// reply can never stall the round.
func (s *Service) judgeTurn(ctx context.Context, state *domain.SessionState, node domain.Node) Resolution {
	reqID := "judge_" + uuid.NewString()[:8]
	logger := log.With().Str("request_id", reqID).Str("node", node.ID).Logger()

	var raw string
	fallback := func(choice string, cause error) Resolution {
		logger.Warn().Err(cause).
			Str("choice", choice).
			Str("next", node.FirstOptionID()).
			Int("raw_len", len(raw)).
			Msg("judge failed, forcing favorable transition")
		return Resolution{NextID: node.FirstOptionID(), Fallback: true, Cause: cause}
	}

	messages := buildJudgeMessages(node, state.Conversation)
	logger.Debug().Str("instruction", messages[0].Content).Msg("judge instruction")

	raw, err := s.generator.Generate(ctx, messages, llm.JudgePolicy())
	if err != nil {
		return fallback("", err)
	}
	logger.Debug().Str("raw", raw).Msg("judge reply")

	decision, err := ParseDecision(raw)
	if err != nil {
		return fallback("", err)
	}

	action, err := s.policy.Evaluate(ctx, policy.Input{
		NodeID: node.ID,
		Choice: decision.Decision,
		Valid:  node.OptionIDs(),
	})
	if err != nil {
		return fallback(decision.Decision, err)
	}
	if action != policy.ActionAdvance {
		return fallback(decision.Decision, fmt.Errorf("choice %q not among options for node %s", decision.Decision, node.ID))
	}

	logger.Info().Str("next", decision.Decision).Str("reason", decision.Reason).
		Msg("transition judged")
	return Resolution{NextID: decision.Decision, Reason: decision.Reason}
}

// buildJudgeMessages assembles the judge call: a fresh system message
// carrying the persona, node criteria and reply contract, followed by the
// conversation so far. System messages never accumulate in the history.
func buildJudgeMessages(node domain.Node, conversation []domain.ChatMessage) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(conversation)+1)
	messages = append(messages, domain.System(buildJudgeInstruction(node)))
	for _, m := range conversation {
		if m.Role == domain.RoleSystem {
			continue
		}
		messages = append(messages, m)
	}
	return messages
}

// buildJudgeInstruction renders the system message for one decision node.
// Options are listed favorable-first to counter first-choice bias against
// the traveler.
func buildJudgeInstruction(node domain.Node) string {
	var b strings.Builder
	b.WriteString(guardPreamble)
	if node.SystemContext != "" {
		b.WriteString("\n")
		b.WriteString(node.SystemContext)
	}
	b.WriteString("\nBased on the traveler's last answer, decide what happens next:\n")
	for _, opt := range node.Options {
		fmt.Fprintf(&b, "- %s: %s\n", opt.ID, opt.Description)
	}
	fmt.Fprintf(&b, "Pick one: %s\n", strings.Join(node.OptionIDs(), ", "))
	b.WriteString(`Reply with JSON only: {"decision": "<PICK>", "reason": "<why>"}. JSON must be valid.`)
	return b.String()
}
