// Package policy evaluates judged transitions against a rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Actions a policy evaluation can name.
const (
	ActionAdvance  = "advance"
	ActionFallback = "fallback"
)

// Input describes one judged transition for evaluation.
type Input struct {
	NodeID string
	Choice string
	Valid  []string
}

// Engine is the transition policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a policy engine from the given rego module.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.transition.action"),
		rego.Module("transition.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the action for a judged transition: ActionAdvance when
// the policy accepts the choice, ActionFallback otherwise. An undefined
// result falls back rather than advancing.
func (e *Engine) Evaluate(ctx context.Context, in Input) (string, error) {
	input := map[string]interface{}{
		"node_id": in.NodeID,
		"choice":  in.Choice,
		"valid":   in.Valid,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return ActionFallback, nil
	}

	if action, ok := results[0].Expressions[0].Value.(string); ok {
		return action, nil
	}
	return ActionFallback, nil
}

// DefaultPolicy accepts a choice only when it is among the node's allowed
// next-ids; anything else names the fallback action. This encodes the
// fail-open default: an invalid or missing choice forces the favorable
// transition instead of ending the turn in an error.
const DefaultPolicy = `package transition

import rego.v1

default action := "fallback"

action := "advance" if {
	input.choice in input.valid
}
`
