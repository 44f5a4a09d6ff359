package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"storyforge/internal/jobstore"
	"storyforge/internal/universe"
)

// Runner executes (or resumes) the pipeline for one job. Wired to the
// orchestrator in the composition root; replaced by stubs in tests.
type Runner func(ctx context.Context, jobID, sourceText string) (string, error)

type JobHandler struct {
	jobs      *jobstore.Store
	universes *universe.Store
	run       Runner
}

func NewJobHandler(jobs *jobstore.Store, universes *universe.Store, run Runner) *JobHandler {
	return &JobHandler{jobs: jobs, universes: universes, run: run}
}

type createJobRequest struct {
	JobID      string `json:"job_id,omitempty"`
	SourceText string `json:"source_text"`
}

// jobView is the client-facing job snapshot. The developer error detail is
// persisted but never leaves the server; clients only get the safe message.
type jobView struct {
	JobID            string                 `json:"job_id"`
	Status           jobstore.Status        `json:"status"`
	CurrentStage     string                 `json:"current_stage"`
	StageStatuses    map[string]string      `json:"stage_statuses"`
	Artifacts        jobstore.Artifacts     `json:"artifacts"`
	OutputUniverseID string                 `json:"output_universe_id,omitempty"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func viewOf(j jobstore.Job) jobView {
	statuses := make(map[string]string, jobstore.NumStages)
	for i, name := range jobstore.StageNames {
		statuses[name] = string(j.StageStatuses[i])
	}
	return jobView{
		JobID:            j.ID,
		Status:           j.Status,
		CurrentStage:     jobstore.StageNames[j.CurrentStage],
		StageStatuses:    statuses,
		Artifacts:        j.Artifacts,
		OutputUniverseID: j.OutputUniverseID,
		ErrorMessage:     j.ErrorMessageUser,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

// HandleCreate accepts a source text, registers the job, and starts the
// pipeline in the background. Responds immediately with the queued snapshot.
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.SourceText) == "" {
		writeError(w, http.StatusBadRequest, "source_text is required")
		return
	}
	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		jobID = newJobID()
	}
	if _, exists := h.jobs.Get(jobID); exists {
		writeError(w, http.StatusConflict, "job already exists")
		return
	}
	job := jobstore.NewJob(jobID, req.SourceText)
	h.jobs.Put(job)

	go func() {
		if _, err := h.run(context.Background(), jobID, req.SourceText); err != nil {
			log.Printf("job %s failed: %v", jobID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, viewOf(job))
}

func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	job, ok := h.jobs.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(job))
}

// HandleRetry resumes a failed job from its first non-done stage. Artifacts
// of stages that already finished are reused as-is.
func (h *JobHandler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job, ok := h.jobs.Get(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if job.Status == jobstore.StatusRunning {
		writeError(w, http.StatusConflict, "job is already running")
		return
	}
	if job.Status == jobstore.StatusCompleted {
		writeJSON(w, http.StatusOK, viewOf(job))
		return
	}

	go func() {
		if _, err := h.run(context.Background(), jobID, ""); err != nil {
			log.Printf("job %s retry failed: %v", jobID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, viewOf(job))
}

func (h *JobHandler) HandleUniverse(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.universes.Get(r.Context(), r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "universe not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
