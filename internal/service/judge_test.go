package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/doronnac/elsa/domain"
	"github.com/doronnac/elsa/internal/adapter/llm"
	"github.com/doronnac/elsa/policy"
	"github.com/doronnac/elsa/scenario"
)

func newJudgeService(t *testing.T, gen llm.Generator) (*Service, *domain.SessionState) {
	t.Helper()
	g := scenario.Airport()
	if err := g.Validate(); err != nil {
		t.Fatalf("scenario invalid: %v", err)
	}
	pol, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("policy engine: %v", err)
	}
	svc := New(g, gen, pol, nil, nil, []string{"quit"}, "airport")
	return svc, domain.NewSessionState(g)
}

func startNode(t *testing.T, state *domain.SessionState) domain.Node {
	t.Helper()
	node, ok := state.CurrentNode()
	if !ok {
		t.Fatal("start node missing")
	}
	return node
}

func TestJudgeTurnAdvance(t *testing.T) {
	gen := llm.NewMockGenerator(`{"decision": "PASSPORT_CHECK", "reason": "Cooperated"}`)
	svc, state := newJudgeService(t, gen)
	state.Conversation = []domain.ChatMessage{
		domain.Assistant("Hello. Passport please."),
		domain.User("Here you go."),
	}

	res := svc.judgeTurn(context.Background(), state, startNode(t, state))
	if res.Fallback {
		t.Fatalf("unexpected fallback: %v", res.Cause)
	}
	if res.NextID != "PASSPORT_CHECK" || res.Reason != "Cooperated" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestJudgeTurnFallbackOnGeneratorError(t *testing.T) {
	gen := llm.NewMockGenerator()
	gen.Err = errors.New("daemon unreachable")
	svc, state := newJudgeService(t, gen)

	res := svc.judgeTurn(context.Background(), state, startNode(t, state))
	if !res.Fallback {
		t.Fatal("expected fallback")
	}
	if res.NextID != "PASSPORT_CHECK" {
		t.Fatalf("fallback must target the favorable option, got %q", res.NextID)
	}
	if res.Cause == nil {
		t.Fatal("fallback cause missing")
	}
}

func TestJudgeTurnFallbackOnGarbageOutput(t *testing.T) {
	gen := llm.NewMockGenerator("I cannot decide right now.")
	svc, state := newJudgeService(t, gen)

	res := svc.judgeTurn(context.Background(), state, startNode(t, state))
	if !res.Fallback || res.NextID != "PASSPORT_CHECK" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if !errors.Is(res.Cause, ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound cause, got %v", res.Cause)
	}
}

func TestJudgeTurnDenialWithEmptyReason(t *testing.T) {
	// An unfavorable verdict without justification must still be honored,
	// not replaced by the favorable fallback.
	gen := llm.NewMockGenerator(`{"decision": "FAILED", "reason": ""}`)
	svc, state := newJudgeService(t, gen)

	res := svc.judgeTurn(context.Background(), state, startNode(t, state))
	if res.Fallback {
		t.Fatalf("unexpected fallback: %v", res.Cause)
	}
	if res.NextID != "FAILED" || res.Reason != "" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestJudgeTurnFallbackOnHallucinatedNode(t *testing.T) {
	gen := llm.NewMockGenerator(`{"decision": "SECRET_ROOM", "reason": "sounds fun"}`)
	svc, state := newJudgeService(t, gen)

	res := svc.judgeTurn(context.Background(), state, startNode(t, state))
	if !res.Fallback || res.NextID != "PASSPORT_CHECK" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestBuildJudgeMessages(t *testing.T) {
	node := domain.Node{
		ID: "START",
		Options: []domain.Option{
			{ID: "NEXT", Description: "cooperates"},
			{ID: "FAILED", Description: "refuses"},
		},
		SystemContext: "Decide on cooperation only.",
	}
	conversation := []domain.ChatMessage{
		domain.System("stale instruction from an earlier node"),
		domain.Assistant("Passport please."),
		domain.User("Here you go."),
	}

	messages := buildJudgeMessages(node, conversation)
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleSystem {
		t.Fatalf("first message must be the fresh system instruction, got %s", messages[0].Role)
	}
	for _, m := range messages[1:] {
		if m.Role == domain.RoleSystem {
			t.Fatal("stale system message leaked into judge history")
		}
	}
	if !strings.Contains(messages[0].Content, "Decide on cooperation only.") {
		t.Fatal("node criteria missing from system instruction")
	}
}

func TestBuildJudgeInstruction(t *testing.T) {
	node := domain.Node{
		ID: "START",
		Options: []domain.Option{
			{ID: "NEXT", Description: "cooperates"},
			{ID: "FAILED", Description: "refuses"},
		},
	}
	instruction := buildJudgeInstruction(node)

	for _, want := range []string{
		"border security guard",
		"- NEXT: cooperates",
		"- FAILED: refuses",
		"Pick one: NEXT, FAILED",
		`{"decision": "<PICK>", "reason": "<why>"}`,
	} {
		if !strings.Contains(instruction, want) {
			t.Fatalf("instruction missing %q:\n%s", want, instruction)
		}
	}
}
