package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(context.Background(), DefaultPolicy)
	require.NoError(t, err)
	return e
}

func TestEvaluateAdvance(t *testing.T) {
	e := newTestEngine(t)
	action, err := e.Evaluate(context.Background(), Input{
		NodeID: "START",
		Choice: "PASSPORT_CHECK",
		Valid:  []string{"PASSPORT_CHECK", "FAILED"},
	})
	assert.NoError(t, err)
	assert.Equal(t, ActionAdvance, action)
}

func TestEvaluateFallbackOnUnknownChoice(t *testing.T) {
	e := newTestEngine(t)
	action, err := e.Evaluate(context.Background(), Input{
		NodeID: "START",
		Choice: "HALLUCINATED_NODE",
		Valid:  []string{"PASSPORT_CHECK", "FAILED"},
	})
	assert.NoError(t, err)
	assert.Equal(t, ActionFallback, action)
}

func TestEvaluateFallbackOnEmptyChoice(t *testing.T) {
	e := newTestEngine(t)
	action, err := e.Evaluate(context.Background(), Input{
		NodeID: "START",
		Choice: "",
		Valid:  []string{"PASSPORT_CHECK", "FAILED"},
	})
	assert.NoError(t, err)
	assert.Equal(t, ActionFallback, action)
}

func TestEvaluateCaseSensitive(t *testing.T) {
	e := newTestEngine(t)
	action, err := e.Evaluate(context.Background(), Input{
		NodeID: "START",
		Choice: "passport_check",
		Valid:  []string{"PASSPORT_CHECK", "FAILED"},
	})
	assert.NoError(t, err)
	assert.Equal(t, ActionFallback, action)
}

func TestNewEngineRejectsBrokenPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package transition\n\naction := {")
	assert.Error(t, err)
}
