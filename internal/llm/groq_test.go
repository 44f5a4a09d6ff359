package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyforge/internal/tester"
)

func newGroqAgainst(t *testing.T, h http.HandlerFunc) LLMClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewGroqClient("test-key", "llama-3.3-70b-versatile")
	tester.NoErr(t, err)
	g.baseURL = srv.URL
	return g
}

func TestGroqClientReturnsMessageContent(t *testing.T) {
	var gotAuth string
	var gotReq groqChatReq
	client := newGroqAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"title":"The Last Light"}`}},
			},
		})
	})

	raw, err := client.GenerateJSON(context.Background(), "p", map[string]string{"text": "a lighthouse"})
	tester.NoErr(t, err)
	tester.Eq(t, gotAuth, "Bearer test-key")
	tester.Eq(t, gotReq.Model, "llama-3.3-70b-versatile")
	tester.Eq(t, gotReq.ResponseFormat["type"], "json_object")

	var out struct {
		Title string `json:"title"`
	}
	tester.NoErr(t, json.Unmarshal(raw, &out))
	tester.Eq(t, out.Title, "The Last Light")
	tester.Eq(t, client.Name(), "Groq:llama-3.3-70b-versatile")
}

func TestGroqClientSurfacesHTTPErrors(t *testing.T) {
	client := newGroqAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.GenerateJSON(context.Background(), "p", nil)
	tester.True(t, err != nil, "expected an error on non-200")
}

func TestGroqClientRejectsEmptyChoices(t *testing.T) {
	client := newGroqAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.GenerateJSON(context.Background(), "p", nil)
	tester.True(t, errors.Is(err, ErrInvalidJSON), "expected ErrInvalidJSON")
}
