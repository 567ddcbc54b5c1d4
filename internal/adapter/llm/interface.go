// Package llm abstracts the text-generation backends the game can drive.
package llm

import (
	"context"
	"errors"

	"github.com/doronnac/elsa/domain"
)

// ErrGenerationFailed marks any backend failure producing a completion.
var ErrGenerationFailed = errors.New("text generation failed")

// Generator produces a completion for an ordered message sequence under a
// sampling policy. Implementations are synchronous and must not be invoked
// reentrantly; callers serialize access.
type Generator interface {
	Generate(ctx context.Context, messages []domain.ChatMessage, policy SamplingPolicy) (string, error)
}

// SamplingPolicy controls how the next token is chosen from the model's
// output distribution. Fixed per call site; not user-tunable mid-session.
type SamplingPolicy struct {
	// RepeatLastN is the trailing-token window the repetition penalty
	// applies over.
	RepeatLastN   int
	RepeatPenalty float64
	TopK          int
	TopP          float64
	MinP          float64
	Temperature   float64
	// Seed fixes the sampling RNG for reproducibility within a process run.
	Seed uint64
}

// FreePolicy is the sampling policy for open-ended text.
func FreePolicy() SamplingPolicy {
	return SamplingPolicy{
		RepeatLastN:   64,
		RepeatPenalty: 1.1,
		TopK:          40,
		TopP:          0.95,
		MinP:          0.0,
		Temperature:   1.0,
		Seed:          1234,
	}
}

// JudgePolicy is the sampling policy for structured decisions. Currently
// parameterized identically to FreePolicy, but kept as a distinct seam:
// judge calls are invalid-output sensitive and may need tightening
// independently.
func JudgePolicy() SamplingPolicy {
	return FreePolicy()
}
