// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	// Backend selects the generator: "ollama" or "mock".
	Backend string `env:"ELSA_BACKEND" env-default:"ollama"`
	Model   string `env:"ELSA_MODEL" env-default:"qwen3:4b"`

	OllamaHost    string        `env:"OLLAMA_HOST" env-default:"http://localhost:11434"`
	ContextTokens int           `env:"ELSA_CONTEXT_TOKENS" env-default:"8092"`
	MaxTokens     int           `env:"ELSA_MAX_TOKENS" env-default:"1024"`
	GPULayers     int           `env:"ELSA_GPU_LAYERS" env-default:"0"`
	LLMTimeout    time.Duration `env:"ELSA_LLM_TIMEOUT" env-default:"120s"`

	// ScenarioPath points at a scenario JSON file. Empty means the builtin
	// airport scenario.
	ScenarioPath string `env:"ELSA_SCENARIO" env-default:""`
	DatabasePath string `env:"ELSA_DB" env-default:"elsa.db"`
	// StatusAddr enables the status API when non-empty, e.g. ":8089".
	StatusAddr string `env:"ELSA_STATUS_ADDR" env-default:""`

	QuitWords []string `env:"ELSA_QUIT_WORDS" env-default:"quit,exit"`
	LogLevel  string   `env:"ELSA_LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return &cfg, nil
}
