package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/doronnac/elsa/domain"
)

// Typed parse failures. Both are recoverable; the judge folds them into
// the fallback path.
var (
	ErrNoJSONFound   = errors.New("no JSON object in model output")
	ErrMalformedJSON = errors.New("malformed decision JSON")
)

var (
	// thinkRe strips chain-of-thought blocks some models emit before the
	// answer. Dot matches newlines; the block content is logged, not kept.
	thinkRe = regexp.MustCompile(`(?s)<think>(.*?)</think>`)
	// jsonRe grabs the first flat JSON object. Nested objects are not
	// expected in a decision reply.
	jsonRe = regexp.MustCompile(`(?s)\{[^{}]*\}`)
)

// ParseDecision extracts a judge decision from raw model output. Think
// blocks are removed first, then the first flat JSON object is decoded.
// Both fields must be present; values are returned verbatim, the
// transition policy decides whether a choice is usable.
func ParseDecision(raw string) (domain.JudgeDecision, error) {
	cleaned := thinkRe.ReplaceAllStringFunc(raw, func(block string) string {
		inner := strings.TrimSpace(thinkRe.FindStringSubmatch(block)[1])
		if inner != "" {
			log.Debug().Str("thoughts", inner).Msg("model reasoning block")
		}
		return ""
	})

	match := jsonRe.FindString(cleaned)
	if match == "" {
		return domain.JudgeDecision{}, fmt.Errorf("%w: %q", ErrNoJSONFound, truncate(cleaned, 120))
	}

	var parsed struct {
		Decision *string `json:"decision"`
		Reason   *string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return domain.JudgeDecision{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if parsed.Decision == nil {
		return domain.JudgeDecision{}, fmt.Errorf("%w: missing decision field", ErrMalformedJSON)
	}
	if parsed.Reason == nil {
		return domain.JudgeDecision{}, fmt.Errorf("%w: missing reason field", ErrMalformedJSON)
	}

	return domain.JudgeDecision{
		Decision: *parsed.Decision,
		Reason:   *parsed.Reason,
	}, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
