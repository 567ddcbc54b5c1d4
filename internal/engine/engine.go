package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/doronnac/elsa/domain"
	"github.com/doronnac/elsa/internal/adapter/llm"
)

// Typed generation failures. All are per-turn recoverable from the
// caller's perspective; the walker folds them into the fallback policy.
var (
	ErrTemplate        = errors.New("chat template rendering failed")
	ErrTokenize        = errors.New("prompt tokenization failed")
	ErrDecode          = errors.New("decode failed")
	ErrContextOverflow = errors.New("prompt exceeds context capacity")
)

// Engine drives a bounded autoregressive decode loop over a Runtime. One
// generation is in flight at a time; the runtime's state is reset at the
// start of every call, so each call is a fresh forward pass over the full
// rendered prompt.
type Engine struct {
	rt        Runtime
	maxTokens int
}

var _ llm.Generator = (*Engine)(nil)

// New creates an engine bounded to maxTokens decode steps per call.
func New(rt Runtime, maxTokens int) *Engine {
	return &Engine{rt: rt, maxTokens: maxTokens}
}

// Generate renders, tokenizes and decodes the messages, then samples up to
// maxTokens tokens under policy. Returns the accumulated text; an
// end-of-generation token stops early (possibly with empty output).
func (e *Engine) Generate(ctx context.Context, messages []domain.ChatMessage, policy llm.SamplingPolicy) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: empty message list", llm.ErrGenerationFailed)
	}

	if err := e.rt.Reset(); err != nil {
		return "", fmt.Errorf("reset inference context: %w", err)
	}

	prompt, err := e.rt.RenderPrompt(messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	log.Trace().Str("prompt", prompt).Msg("rendered prompt")

	tokens, err := e.rt.Tokenize(prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenize, err)
	}
	log.Debug().Int("prompt_tokens", len(tokens)).Msg("prompt tokenized")

	if len(tokens)+1 > e.rt.ContextSize() {
		return "", fmt.Errorf("%w: %d prompt tokens, context %d",
			ErrContextOverflow, len(tokens), e.rt.ContextSize())
	}

	if err := e.rt.Decode(tokens); err != nil {
		return "", fmt.Errorf("%w: initial batch: %v", ErrDecode, err)
	}

	smp := newSampler(policy)
	var out utf8Assembler

	for i := 0; i < e.maxTokens; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		logits, err := e.rt.Logits()
		if err != nil {
			return "", fmt.Errorf("%w: logits: %v", ErrDecode, err)
		}

		tok := smp.sample(logits)
		smp.accept(tok)

		if e.rt.IsEndOfGeneration(tok) {
			log.Debug().Int("steps", i).Msg("end-of-generation token, stopping")
			break
		}

		out.Write(e.rt.TokenBytes(tok))

		if err := e.rt.Decode([]int{tok}); err != nil {
			return "", fmt.Errorf("%w: step %d: %v", ErrDecode, i, err)
		}
	}

	text := out.String()
	log.Trace().Str("output", text).Msg("generation finished")
	return text, nil
}
