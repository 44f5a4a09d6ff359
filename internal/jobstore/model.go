package jobstore

import (
	"strings"
	"time"

	"storyforge/internal/artifact"
)

// Status is the top-level lifecycle of a transformation job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// StageStatus is the lifecycle of one pipeline stage within a job.
type StageStatus string

const (
	StagePending StageStatus = "pending"
	StageRunning StageStatus = "running"
	StageDone    StageStatus = "done"
	StageFailed  StageStatus = "failed"
)

// NumStages is the fixed length of the pipeline.
const NumStages = 6

// StageNames indexes the six stages; artifacts are keyed by these names.
var StageNames = [NumStages]string{"classify", "structure", "identity", "world", "plan", "materialize"}

// Artifacts is the accumulated per-stage output record. One fixed field per
// stage instead of an open map, so a partial job still unmarshals into
// something typed. Merge semantics: non-nil incoming fields overwrite, nil
// fields leave prior output untouched.
type Artifacts struct {
	Classify    *artifact.ClassifyOut    `json:"classify,omitempty"`
	Structure   *artifact.StructureOut   `json:"structure,omitempty"`
	Identity    *artifact.IdentityOut    `json:"identity,omitempty"`
	World       *artifact.WorldOut       `json:"world,omitempty"`
	Plan        *artifact.PlanOut        `json:"plan,omitempty"`
	Materialize *artifact.MaterializeOut `json:"materialize,omitempty"`
}

// Merge folds the non-nil fields of patch into a.
func (a *Artifacts) Merge(patch Artifacts) {
	if patch.Classify != nil {
		a.Classify = patch.Classify
	}
	if patch.Structure != nil {
		a.Structure = patch.Structure
	}
	if patch.Identity != nil {
		a.Identity = patch.Identity
	}
	if patch.World != nil {
		a.World = patch.World
	}
	if patch.Plan != nil {
		a.Plan = patch.Plan
	}
	if patch.Materialize != nil {
		a.Materialize = patch.Materialize
	}
}

// StageError carries the user-safe and developer-detail halves of a stage
// failure. Both are persisted on the job, never mixed.
type StageError struct {
	User string `json:"user"`
	Dev  string `json:"dev"`
}

// Job is one pipeline run: status, progress, per-stage statuses, and the
// accumulated artifact record. Mutated only through the store's MarkStage /
// Complete / ResetFrom transition functions, so a concurrent reader polling
// the store always sees a consistent, monotonically advancing view.
type Job struct {
	ID               string                  `json:"job_id"`
	Status           Status                  `json:"status"`
	CurrentStage     int                     `json:"current_stage"`
	StageStatuses    [NumStages]StageStatus  `json:"stage_statuses"`
	Artifacts        Artifacts               `json:"artifacts"`
	SourceText       string                  `json:"source_text,omitempty"`
	OutputUniverseID string                  `json:"output_universe_id,omitempty"`
	ErrorMessageUser string                  `json:"error_message_user,omitempty"`
	ErrorMessageDev  string                  `json:"error_message_dev,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// NewJob returns a queued job with all stages pending.
func NewJob(id, sourceText string) Job {
	j := Job{
		ID:         strings.TrimSpace(id),
		Status:     StatusQueued,
		SourceText: sourceText,
		CreatedAt:  time.Now().UTC(),
	}
	for i := range j.StageStatuses {
		j.StageStatuses[i] = StagePending
	}
	j.UpdatedAt = j.CreatedAt
	return j
}

func normalizeJob(j Job) Job {
	j.ID = strings.TrimSpace(j.ID)
	if j.Status == "" {
		j.Status = StatusQueued
	}
	for i := range j.StageStatuses {
		if j.StageStatuses[i] == "" {
			j.StageStatuses[i] = StagePending
		}
	}
	if j.CurrentStage < 0 {
		j.CurrentStage = 0
	}
	if j.CurrentStage >= NumStages {
		j.CurrentStage = NumStages - 1
	}
	return j
}
