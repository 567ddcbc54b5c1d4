// Package engine implements the in-process generation pipeline: a bounded
// autoregressive decode loop over a low-level model runtime, with a pure-Go
// sampler chain and streaming UTF-8 assembly.
package engine

import "github.com/doronnac/elsa/domain"

// Runtime is the surface a loaded model and its inference context must
// provide. It is the integration point for an in-process inference
// backend (e.g. a GGUF/llama.cpp binding); the shipped backends reach a
// model through the ollama daemon instead, so no production Runtime
// exists yet.
//
// Implementations are stateful and not safe for concurrent use; the
// engine serializes access and calls Reset at the start of every
// generation, so no attention state leaks between calls.
type Runtime interface {
	// RenderPrompt renders role-tagged messages through the model's chat
	// template into a single prompt string.
	RenderPrompt(messages []domain.ChatMessage) (string, error)

	// Tokenize converts a rendered prompt into model tokens.
	Tokenize(prompt string) ([]int, error)

	// Decode feeds a batch of tokens through the model, advancing the
	// inference context.
	Decode(tokens []int) error

	// Logits returns next-token logits for the last decoded position.
	Logits() ([]float32, error)

	// TokenBytes returns the raw bytes a token decodes to. Tokens may split
	// a multi-byte character; callers must assemble bytes, not runes.
	TokenBytes(token int) []byte

	// IsEndOfGeneration reports whether token terminates a completion.
	IsEndOfGeneration(token int) bool

	// Reset clears carried-over attention/key-value state.
	Reset() error

	// ContextSize returns the token capacity of the inference context.
	ContextSize() int
}
