package service

import (
	"errors"
	"testing"
)

func TestParseDecisionPlain(t *testing.T) {
	got, err := ParseDecision(`{"decision": "PASSPORT_CHECK", "reason": "Cooperated"}`)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if got.Decision != "PASSPORT_CHECK" || got.Reason != "Cooperated" {
		t.Fatalf("unexpected decision: %+v", got)
	}
}

func TestParseDecisionStripsThinkBlock(t *testing.T) {
	raw := "<think>The traveler handed over the passport without\nfuss, so this passes.</think>\n" +
		`{"decision": "PASSPORT_CHECK", "reason": "Cooperated"}`
	got, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if got.Decision != "PASSPORT_CHECK" || got.Reason != "Cooperated" {
		t.Fatalf("unexpected decision: %+v", got)
	}
}

func TestParseDecisionSurroundingProse(t *testing.T) {
	raw := "Sure! Here is my verdict:\n" +
		`{"decision": "FAILED", "reason": "Refused to answer"}` +
		"\nLet me know if you need anything else."
	got, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if got.Decision != "FAILED" {
		t.Fatalf("unexpected decision: %+v", got)
	}
}

func TestParseDecisionNoJSON(t *testing.T) {
	_, err := ParseDecision("I think the traveler should pass.")
	if !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound, got %v", err)
	}
}

func TestParseDecisionOnlyThoughts(t *testing.T) {
	_, err := ParseDecision("<think>{\"decision\": \"X\", \"reason\": \"y\"}</think>")
	if !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound after think stripping, got %v", err)
	}
}

func TestParseDecisionMalformed(t *testing.T) {
	cases := map[string]string{
		"truncated":        `{"decision": "X", "reason": }`,
		"missing decision": `{"reason": "y"}`,
		"missing reason":   `{"decision": "X"}`,
		"wrong type":       `{"decision": 7, "reason": "y"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDecision(raw)
			if !errors.Is(err, ErrMalformedJSON) {
				t.Fatalf("expected ErrMalformedJSON, got %v", err)
			}
		})
	}
}

func TestParseDecisionEmptyReason(t *testing.T) {
	// A terse model may deny with no justification; the verdict must come
	// through intact rather than degrade into a fallback.
	got, err := ParseDecision(`{"decision": "FAILED", "reason": ""}`)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if got.Decision != "FAILED" || got.Reason != "" {
		t.Fatalf("unexpected decision: %+v", got)
	}
}

func TestParseDecisionKeepsValuesVerbatim(t *testing.T) {
	got, err := ParseDecision(`{"decision": " FAILED ", "reason": " rude "}`)
	if err != nil {
		t.Fatalf("ParseDecision failed: %v", err)
	}
	if got.Decision != " FAILED " || got.Reason != " rude " {
		t.Fatalf("values altered: %+v", got)
	}
}
