package app

import (
	"context"
	"strings"
	"testing"

	"storyforge/internal/gateway/config"
	"storyforge/internal/tester"
)

func TestNewLLMClientSelectsGroqWhenOnlyGroqKeyIsSet(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "test-key")

	client, err := newLLMClient(context.Background(), &config.Config{GroqModel: "llama-3.3-70b-versatile"})
	tester.NoErr(t, err)
	defer client.Close()

	tester.True(t, strings.HasPrefix(client.Name(), "Groq:"), "groq client selected, got "+client.Name())
	tester.Eq(t, client.Name(), "Groq:llama-3.3-70b-versatile")
}

func TestNewLLMClientFallsBackToOfflineClient(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	client, err := newLLMClient(context.Background(), &config.Config{})
	tester.NoErr(t, err)
	defer client.Close()

	tester.Eq(t, client.Name(), "FakeLLM")
}
