package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "ollama" {
		t.Fatalf("unexpected default backend %q", cfg.Backend)
	}
	if cfg.ContextTokens != 8092 || cfg.MaxTokens != 1024 {
		t.Fatalf("unexpected token defaults: %+v", cfg)
	}
	if cfg.LLMTimeout != 120*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.LLMTimeout)
	}
	if len(cfg.QuitWords) != 2 || cfg.QuitWords[0] != "quit" || cfg.QuitWords[1] != "exit" {
		t.Fatalf("unexpected quit words: %v", cfg.QuitWords)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ELSA_BACKEND", "mock")
	t.Setenv("ELSA_MODEL", "qwen3:0.6b")
	t.Setenv("ELSA_QUIT_WORDS", "surrender")
	t.Setenv("ELSA_LLM_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "mock" || cfg.Model != "qwen3:0.6b" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.QuitWords) != 1 || cfg.QuitWords[0] != "surrender" {
		t.Fatalf("quit words override not applied: %v", cfg.QuitWords)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Fatalf("timeout override not applied: %v", cfg.LLMTimeout)
	}
}
