package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"

	"github.com/doronnac/elsa/domain"
)

// OllamaConfig holds the connection and model parameters for the ollama
// backend. These are fixed for the process lifetime.
type OllamaConfig struct {
	BaseURL   string
	Model     string
	NumCtx    int
	NumGPU    int
	MaxTokens int
	Timeout   time.Duration
}

// OllamaGenerator runs completions against a local ollama daemon. The
// sampling policy maps one-to-one onto ollama's runtime options, so the
// daemon-side sampler chain matches the in-process engine's.
type OllamaGenerator struct {
	client  *api.Client
	cfg     OllamaConfig
	encoder *tiktoken.Tiktoken
}

var _ Generator = (*OllamaGenerator)(nil)

// NewOllamaGenerator creates a generator talking to the daemon at
// cfg.BaseURL. The token encoder is best-effort: without it the context
// budget guard is skipped, not fatal.
func NewOllamaGenerator(cfg OllamaConfig) (*OllamaGenerator, error) {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base URL %q: %w", base, err)
	}

	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Warn().Err(err).Msg("token encoder unavailable, context budget guard disabled")
		encoder = nil
	}

	return &OllamaGenerator{
		client:  api.NewClient(parsed, &http.Client{Timeout: cfg.Timeout}),
		cfg:     cfg,
		encoder: encoder,
	}, nil
}

// Generate renders the messages through the model's own chat template
// daemon-side and returns the completion text.
func (g *OllamaGenerator) Generate(ctx context.Context, messages []domain.ChatMessage, policy SamplingPolicy) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: empty message list", ErrGenerationFailed)
	}

	messages = g.trimToBudget(messages)

	apiMsgs := make([]api.Message, len(messages))
	for i, m := range messages {
		apiMsgs[i] = api.Message{Role: string(m.Role), Content: m.Content}
	}

	stream := false
	req := &api.ChatRequest{
		Model:    g.cfg.Model,
		Messages: apiMsgs,
		Stream:   &stream,
		Options: map[string]interface{}{
			"num_ctx":        g.cfg.NumCtx,
			"num_gpu":        g.cfg.NumGPU,
			"num_predict":    g.cfg.MaxTokens,
			"repeat_last_n":  policy.RepeatLastN,
			"repeat_penalty": policy.RepeatPenalty,
			"top_k":          policy.TopK,
			"top_p":          policy.TopP,
			"min_p":          policy.MinP,
			"temperature":    policy.Temperature,
			"seed":           int(policy.Seed),
		},
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	var resp api.ChatResponse
	err := g.client.Chat(reqCtx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	log.Debug().
		Str("model", g.cfg.Model).
		Dur("latency", time.Since(start)).
		Int("prompt_tokens", resp.PromptEvalCount).
		Int("completion_tokens", resp.EvalCount).
		Msg("ollama completion")
	log.Trace().Str("raw", resp.Message.Content).Msg("ollama raw output")

	return resp.Message.Content, nil
}

// trimToBudget drops the oldest non-system turns while the estimated
// prompt exceeds what the context can hold alongside the completion. The
// first message (the judge's system instruction) is never dropped.
func (g *OllamaGenerator) trimToBudget(messages []domain.ChatMessage) []domain.ChatMessage {
	if g.encoder == nil || g.cfg.NumCtx <= 0 {
		return messages
	}
	budget := g.cfg.NumCtx - g.cfg.MaxTokens
	if budget <= 0 {
		return messages
	}

	trimmed := messages
	for len(trimmed) > 2 && g.estimateTokens(trimmed) > budget {
		dropped := trimmed[1]
		trimmed = append([]domain.ChatMessage{trimmed[0]}, trimmed[2:]...)
		log.Warn().
			Str("role", string(dropped.Role)).
			Int("budget", budget).
			Msg("prompt over context budget, dropped oldest turn")
	}
	return trimmed
}

// estimateTokens approximates the prompt's token count. The encoding does
// not match every model's tokenizer exactly; it only needs to be close
// enough for the budget guard.
func (g *OllamaGenerator) estimateTokens(messages []domain.ChatMessage) int {
	total := 0
	for _, m := range messages {
		// Small per-message overhead for role markers in the chat template.
		total += 4 + len(g.encoder.Encode(m.Content, nil, nil))
	}
	return total
}
