package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storyforge/internal/tester"
)

// recorder appends its label on every call so wrap order is observable.
type recorder struct {
	next  LLMClient
	label string
	trace *[]string
}

func (r *recorder) Name() string { return r.next.Name() }
func (r *recorder) Close() error { return r.next.Close() }
func (r *recorder) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	*r.trace = append(*r.trace, r.label)
	return r.next.GenerateJSON(ctx, prompt, input)
}

func record(label string, trace *[]string) Middleware {
	return func(next LLMClient) LLMClient {
		return &recorder{next: next, label: label, trace: trace}
	}
}

func TestWrapAppliesLeftToRight(t *testing.T) {
	var trace []string
	client := Wrap(NewFakeClient(), record("outer", &trace), record("inner", &trace))

	_, err := client.GenerateJSON(context.Background(), "p", nil)
	tester.NoErr(t, err)
	tester.Eq(t, trace, []string{"outer", "inner"})
}

type flaky struct {
	failures int
	calls    int
}

func (f *flaky) Name() string { return "flaky" }
func (f *flaky) Close() error { return nil }
func (f *flaky) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("transient")
	}
	return json.RawMessage(`{}`), nil
}

func TestRetryRecoversFromTransientErrors(t *testing.T) {
	inner := &flaky{failures: 2}
	client := Wrap(inner, Retry(3, time.Millisecond))

	raw, err := client.GenerateJSON(context.Background(), "p", nil)
	tester.NoErr(t, err)
	tester.Eq(t, string(raw), `{}`)
	tester.Eq(t, inner.calls, 3)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flaky{failures: 10}
	client := Wrap(inner, Retry(2, time.Millisecond))

	_, err := client.GenerateJSON(context.Background(), "p", nil)
	tester.True(t, err != nil, "expected the last error")
	tester.Eq(t, inner.calls, 2)
}

func TestRetryReturnsImmediatelyAfterFinalAttempt(t *testing.T) {
	inner := &flaky{failures: 10}
	client := Wrap(inner, Retry(2, 150*time.Millisecond))

	start := time.Now()
	_, err := client.GenerateJSON(context.Background(), "p", nil)
	elapsed := time.Since(start)

	tester.True(t, err != nil, "expected the last error")
	// One backoff between the two attempts, none after the last failure
	// (the second sleep would add another 300ms).
	tester.True(t, elapsed < 300*time.Millisecond, "final failure slept before returning: "+elapsed.String())
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner := &flaky{failures: 10}
	client := Wrap(inner, Retry(5, time.Millisecond))

	_, err := client.GenerateJSON(ctx, "p", nil)
	tester.True(t, errors.Is(err, context.Canceled), "expected context error")
	tester.Eq(t, inner.calls, 1)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	client := Wrap(NewFakeClient(), RateLimit(0, 0))
	_, err := client.GenerateJSON(context.Background(), "p", nil)
	tester.NoErr(t, err)
	tester.NoErr(t, client.Close())
}

func TestStageContext(t *testing.T) {
	tester.Eq(t, StageFrom(context.Background()), "unknown")
	ctx := WithStage(context.Background(), "plan")
	tester.Eq(t, StageFrom(ctx), "plan")
	// An inner override wins, as stage 2 does for its guardrail call.
	tester.Eq(t, StageFrom(WithStage(ctx, "guardrails")), "guardrails")
}

func TestFakeClientSelectsPayloadByStage(t *testing.T) {
	f := NewFakeClient()

	raw, err := f.GenerateJSON(WithStage(context.Background(), "identity"), "p", nil)
	tester.NoErr(t, err)
	var identity struct {
		Title string `json:"title"`
	}
	tester.NoErr(t, json.Unmarshal(raw, &identity))
	tester.Eq(t, identity.Title, "The Last Light")

	raw, err = f.GenerateJSON(WithStage(context.Background(), "plan"), "p", nil)
	tester.NoErr(t, err)
	var plan struct {
		Cards []json.RawMessage `json:"cards"`
	}
	tester.NoErr(t, json.Unmarshal(raw, &plan))
	tester.Eq(t, len(plan.Cards), 4)
}
