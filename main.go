package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/doronnac/elsa/config"
	"github.com/doronnac/elsa/domain"
	"github.com/doronnac/elsa/internal/adapter/llm"
	"github.com/doronnac/elsa/internal/service"
	"github.com/doronnac/elsa/internal/term"
	transporthttp "github.com/doronnac/elsa/internal/transport/http"
	"github.com/doronnac/elsa/policy"
	"github.com/doronnac/elsa/scenario"
	"github.com/doronnac/elsa/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogging(cfg.LogLevel)

	graph, name, err := loadScenario(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load scenario")
	}

	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open round store")
	}
	defer st.Close()

	ctx := context.Background()

	pol, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare transition policy")
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("failed to build generator")
	}

	if cfg.StatusAddr != "" {
		srv := transporthttp.NewServer(transporthttp.NewHandler(st, name))
		go func() {
			log.Info().Str("addr", cfg.StatusAddr).Msg("status API listening")
			if err := srv.Start(cfg.StatusAddr); err != nil {
				log.Error().Err(err).Msg("status API stopped")
			}
		}()
	}

	console := term.New(os.Stdin, os.Stdout)
	svc := service.New(graph, generator, pol, st, console, cfg.QuitWords, name)

	if err := svc.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).With().Timestamp().Logger()
}

func loadScenario(cfg *config.Config) (*domain.Graph, string, error) {
	if cfg.ScenarioPath == "" {
		g := scenario.Airport()
		if err := g.Validate(); err != nil {
			return nil, "", err
		}
		return g, "airport", nil
	}
	g, err := scenario.Load(cfg.ScenarioPath)
	if err != nil {
		return nil, "", err
	}
	return g, cfg.ScenarioPath, nil
}

func buildGenerator(cfg *config.Config) (llm.Generator, error) {
	switch cfg.Backend {
	case "ollama":
		return llm.NewOllamaGenerator(llm.OllamaConfig{
			BaseURL:   cfg.OllamaHost,
			Model:     cfg.Model,
			NumCtx:    cfg.ContextTokens,
			NumGPU:    cfg.GPULayers,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.LLMTimeout,
		})
	case "mock":
		return llm.NewMockGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
