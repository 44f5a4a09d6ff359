package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"storyforge/internal/jobstore"
	"storyforge/internal/llm"
	"storyforge/internal/pipeline"
	"storyforge/internal/universe"
)

func main() {
	source := flag.String("source", "", "path to the narrative source text")
	model := flag.String("model", "gemini-2.0-flash", "Gemini model id")
	outDir := flag.String("out", "out", "output directory")
	jobID := flag.String("job", "", "job id to create or resume")
	length := flag.String("length", "medium", "story length: short, medium, long")
	hook := flag.Int("hook", 0, "hook pack size (0 uses the default)")
	flag.Parse()

	_ = godotenv.Load()

	sourceText := ""
	if *source != "" {
		b, err := os.ReadFile(*source)
		if err != nil {
			log.Fatalf("failed to read source: %v", err)
		}
		sourceText = string(b)
	}
	if strings.TrimSpace(sourceText) == "" && strings.TrimSpace(*jobID) == "" {
		log.Fatal("--source is required unless resuming with --job")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var base llm.LLMClient
	if apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); apiKey != "" {
		gem, err := llm.NewGeminiClient(ctx, apiKey, *model)
		if err != nil {
			log.Fatal(err)
		}
		base = gem
	} else if apiKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY")); apiKey != "" {
		model := strings.TrimSpace(os.Getenv("GROQ_MODEL"))
		if model == "" {
			model = "llama-3.3-70b-versatile"
		}
		groq, err := llm.NewGroqClient(apiKey, model)
		if err != nil {
			log.Fatal(err)
		}
		base = groq
	} else {
		log.Println("no GEMINI_API_KEY or GROQ_API_KEY set; using the offline client")
		base = llm.NewFakeClient()
	}
	client := llm.Wrap(base,
		llm.WithLogging(nil),
		llm.RateLimitFromEnv("LLM", "GEMINI", "GROQ"),
		llm.Retry(3, 500*time.Millisecond),
	)
	defer client.Close()

	jobs := jobstore.NewFromEnv(filepath.Join(*outDir, "jobs.json"))
	universes := universe.NewFromEnv(filepath.Join(*outDir, "universes.json"))

	orch := &pipeline.Orchestrator{
		LLM:       client,
		Jobs:      jobs,
		Universes: universes,
		Length:    pipeline.StoryLength(*length),
		HookPack:  *hook,
	}

	id := strings.TrimSpace(*jobID)
	if id == "" {
		id = "job-" + time.Now().UTC().Format("20060102-150405")
	}

	universeID, err := orch.Run(ctx, id, sourceText)
	if err != nil {
		if job, ok := jobs.Get(id); ok {
			log.Printf("job %s failed at stage %s: %s", id, jobstore.StageNames[job.CurrentStage], job.ErrorMessageDev)
		}
		log.Fatal(err)
	}

	job, _ := jobs.Get(id)
	writeJSON(*outDir, "job.json", job)
	if rec, ok := universes.Get(ctx, universeID); ok {
		writeJSON(*outDir, "universe.json", rec)
	}

	log.Printf("universe %s built -> %s", universeID, *outDir)
}

func writeJSON(dir, name string, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	_ = os.WriteFile(filepath.Join(dir, name), b, 0o644)
}
