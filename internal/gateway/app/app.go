package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"storyforge/internal/gateway/config"
	"storyforge/internal/gateway/handler"
	"storyforge/internal/gateway/server"
	"storyforge/internal/jobstore"
	"storyforge/internal/llm"
	"storyforge/internal/pipeline"
	"storyforge/internal/universe"
)

type App struct {
	server *server.Server
	llm    llm.LLMClient
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	jobs := jobstore.NewFromEnv(cfg.Store.JobPath)
	universes := universe.NewFromEnv(cfg.Store.UniversePath)
	snapshots := initArchive(cfg)

	client, err := newLLMClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	orch := &pipeline.Orchestrator{
		LLM:       client,
		Jobs:      jobs,
		Universes: universes,
		Snapshots: snapshots,
		Length:    pipeline.StoryLength(cfg.Length),
		HookPack:  cfg.Hook,
	}

	jobHandler := handler.NewJobHandler(jobs, universes, orch.Run)
	promptHandler := handler.NewPromptHandler(universes)
	watchHandler := handler.NewWatchHandler(jobs)

	// Routing & Server
	mux := server.NewMux(jobHandler, promptHandler, watchHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		llm:    client,
	}, nil
}

// newLLMClient wires the model client plus its middleware chain. Gemini wins
// when both provider keys are set; without any key the deterministic offline
// client is used, which keeps local runs and CI away from the network.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.LLMClient, error) {
	var base llm.LLMClient
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		gem, err := llm.NewGeminiClient(ctx, key, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		base = gem
	} else if key := strings.TrimSpace(os.Getenv("GROQ_API_KEY")); key != "" {
		groq, err := llm.NewGroqClient(key, cfg.GroqModel)
		if err != nil {
			return nil, fmt.Errorf("init groq client: %w", err)
		}
		base = groq
	} else {
		base = llm.NewFakeClient()
	}
	return llm.Wrap(base,
		llm.WithLogging(nil),
		llm.RateLimitFromEnv("LLM", "GEMINI", "GROQ"),
		llm.Retry(3, 500*time.Millisecond),
		llm.WithHooks(),
	), nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	return a.server.Shutdown(ctx)
}
