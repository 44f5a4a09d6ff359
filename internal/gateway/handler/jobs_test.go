package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storyforge/internal/artifact"
	"storyforge/internal/jobstore"
	"storyforge/internal/tester"
	"storyforge/internal/universe"
)

func newTestHandlers(t *testing.T) (*JobHandler, *PromptHandler, *jobstore.Store, *universe.Store) {
	t.Helper()
	dir := t.TempDir()
	jobs := jobstore.New(filepath.Join(dir, "jobs.json"))
	universes := universe.New(filepath.Join(dir, "universes.json"))
	runner := func(ctx context.Context, jobID, sourceText string) (string, error) {
		return "", nil
	}
	return NewJobHandler(jobs, universes, runner), NewPromptHandler(universes), jobs, universes
}

func seedUniverse(t *testing.T, universes *universe.Store) (universe.Universe, universe.Card) {
	t.Helper()
	ctx := context.Background()
	u := universe.Universe{
		ID:    "u-last-light-00000001",
		Title: "The Last Light",
		Guardrails: artifact.GuardrailSet{
			Exclusions: []string{"romance"},
		}.Normalized(),
		CreatedAt: time.Now().UTC(),
	}
	tester.NoErr(t, universes.CreateUniverse(ctx, u))
	card := universe.Card{
		ID:         "card-arrival-00000001",
		UniverseID: u.ID,
		DayIndex:   0,
		Title:      "Arrival",
		SceneText:  "Ada climbs the tower steps.",
		PublishAt:  time.Now().UTC(),
	}
	tester.NoErr(t, universes.AddCards(ctx, u.ID, []universe.Card{card}))
	return u, card
}

func TestHandleCreateRejectsMissingSource(t *testing.T) {
	h, _, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	tester.Eq(t, rec.Code, http.StatusBadRequest)

	req = httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	h.HandleCreate(rec, req)
	tester.Eq(t, rec.Code, http.StatusBadRequest)
}

func TestHandleCreateRegistersJob(t *testing.T) {
	h, _, jobs, _ := newTestHandlers(t)

	body := `{"job_id":"job-x","source_text":"Ada climbs the tower."}`
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	tester.Eq(t, rec.Code, http.StatusAccepted)

	var view jobView
	tester.NoErr(t, json.Unmarshal(rec.Body.Bytes(), &view))
	tester.Eq(t, view.JobID, "job-x")
	tester.Eq(t, view.StageStatuses["classify"], "pending")

	job, ok := jobs.Get("job-x")
	tester.True(t, ok, "job persisted")
	tester.Eq(t, job.SourceText, "Ada climbs the tower.")

	// Re-creating the same job is a conflict.
	req = httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader(body))
	rec = httptest.NewRecorder()
	h.HandleCreate(rec, req)
	tester.Eq(t, rec.Code, http.StatusConflict)
}

func TestHandleGetHidesDeveloperError(t *testing.T) {
	h, _, jobs, _ := newTestHandlers(t)
	jobs.Put(jobstore.NewJob("job-x", "text"))
	_, err := jobs.MarkStage("job-x", 1, jobstore.StageFailed, nil, &jobstore.StageError{
		User: "We could not map out this story's structure.",
		Dev:  "connection refused to model backend",
	})
	tester.NoErr(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-x", nil)
	req.SetPathValue("id", "job-x")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	tester.Eq(t, rec.Code, http.StatusOK)

	body := rec.Body.String()
	tester.True(t, strings.Contains(body, "We could not map out this story's structure."), "user message exposed")
	tester.False(t, strings.Contains(body, "connection refused"), "developer detail leaked")
}

func TestHandleGetMissingJob(t *testing.T) {
	h, _, _, _ := newTestHandlers(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	tester.Eq(t, rec.Code, http.StatusNotFound)
}

func TestHandleRetryStates(t *testing.T) {
	h, _, jobs, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/nope/retry", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.HandleRetry(rec, req)
	tester.Eq(t, rec.Code, http.StatusNotFound)

	jobs.Put(jobstore.NewJob("job-run", "text"))
	_, _ = jobs.MarkStage("job-run", 0, jobstore.StageRunning, nil, nil)
	req = httptest.NewRequest(http.MethodPost, "/v1/jobs/job-run/retry", nil)
	req.SetPathValue("id", "job-run")
	rec = httptest.NewRecorder()
	h.HandleRetry(rec, req)
	tester.Eq(t, rec.Code, http.StatusConflict)

	jobs.Put(jobstore.NewJob("job-failed", "text"))
	_, _ = jobs.MarkStage("job-failed", 2, jobstore.StageFailed, nil, nil)
	req = httptest.NewRequest(http.MethodPost, "/v1/jobs/job-failed/retry", nil)
	req.SetPathValue("id", "job-failed")
	rec = httptest.NewRecorder()
	h.HandleRetry(rec, req)
	tester.Eq(t, rec.Code, http.StatusAccepted)
}

func TestHandleUniverse(t *testing.T) {
	h, _, _, universes := newTestHandlers(t)
	u, _ := seedUniverse(t, universes)

	req := httptest.NewRequest(http.MethodGet, "/v1/universes/"+u.ID, nil)
	req.SetPathValue("id", u.ID)
	rec := httptest.NewRecorder()
	h.HandleUniverse(rec, req)
	tester.Eq(t, rec.Code, http.StatusOK)

	var record universe.Record
	tester.NoErr(t, json.Unmarshal(rec.Body.Bytes(), &record))
	tester.Eq(t, record.Universe.Title, "The Last Light")
	tester.Eq(t, len(record.Cards), 1)
}

func TestHandleContinuityWithoutBible(t *testing.T) {
	_, ph, _, universes := newTestHandlers(t)
	u, card := seedUniverse(t, universes)

	body := `{"universe_id":"` + u.ID + `","card_id":"` + card.ID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/continuity/check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ph.HandleContinuity(rec, req)
	tester.Eq(t, rec.Code, http.StatusOK)
	tester.True(t, strings.Contains(rec.Body.String(), "no_bible"), "missing bible is reported")
}

func TestHandleComposeMissingCard(t *testing.T) {
	_, ph, _, universes := newTestHandlers(t)
	u, _ := seedUniverse(t, universes)

	body := `{"universe_id":"` + u.ID + `","card_id":"card-missing","bible":{"version_id":"v1"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/prompts/compose", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ph.HandleCompose(rec, req)
	tester.Eq(t, rec.Code, http.StatusNotFound)
}

func TestHandleComposeReturnsPrompt(t *testing.T) {
	_, ph, _, universes := newTestHandlers(t)
	u, card := seedUniverse(t, universes)

	body := `{"universe_id":"` + u.ID + `","card_id":"` + card.ID + `",` +
		`"bible":{"version_id":"v1","style":{"art_direction":"muted watercolor"}}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/prompts/compose", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ph.HandleCompose(rec, req)
	tester.Eq(t, rec.Code, http.StatusOK)

	out := rec.Body.String()
	tester.True(t, strings.Contains(out, "muted watercolor"), "style directive composed")
	tester.True(t, strings.Contains(out, "v1"), "bible version carried")
}
