package llm

import (
	"context"

	"github.com/doronnac/elsa/domain"
)

// MockGenerator is a scripted Generator for tests and offline play. It
// replays its responses in order (the last one repeats) and records every
// call.
type MockGenerator struct {
	Responses []string
	// Err, when set, is returned on every call instead of a response.
	Err error

	calls        int
	LastMessages []domain.ChatMessage
	LastPolicy   SamplingPolicy
}

var _ Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock that cycles through responses.
func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{Responses: responses}
}

// Generate returns the next scripted response.
func (m *MockGenerator) Generate(ctx context.Context, messages []domain.ChatMessage, policy SamplingPolicy) (string, error) {
	m.calls++
	m.LastMessages = append([]domain.ChatMessage(nil), messages...)
	m.LastPolicy = policy

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := m.calls - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// Calls reports how many times Generate was invoked.
func (m *MockGenerator) Calls() int {
	return m.calls
}
