package jobstore

import (
	"fmt"
	"strings"
)

const genericUserError = "Something went wrong while building this story. Please retry."

// MarkStage is the single transition function through which every stage
// status change flows. It merges (never replaces) the six-slot status record
// and the artifact record, and sets the current stage, so a reader polling
// the job at any time sees which stages are pending/running/done/failed plus
// the partial artifacts produced so far.
//
// Side effects on the top-level status: 'running' marks the job running,
// 'failed' marks the job failed and records both error messages (falling
// back to generic text when the stage supplied none). 'done' changes no
// top-level status; advancing is the orchestrator's call.
func (s *Store) MarkStage(jobID string, stage int, status StageStatus, arts *Artifacts, stageErr *StageError) (Job, error) {
	if stage < 0 || stage >= NumStages {
		return Job{}, fmt.Errorf("jobstore: stage %d out of range", stage)
	}
	job, ok := s.Update(jobID, func(j *Job) {
		j.StageStatuses[stage] = status
		j.CurrentStage = stage
		if arts != nil {
			j.Artifacts.Merge(*arts)
		}
		switch status {
		case StageRunning:
			j.Status = StatusRunning
		case StageFailed:
			j.Status = StatusFailed
			userMsg, devMsg := genericUserError, ""
			if stageErr != nil {
				if strings.TrimSpace(stageErr.User) != "" {
					userMsg = stageErr.User
				}
				devMsg = stageErr.Dev
			}
			if devMsg == "" {
				devMsg = fmt.Sprintf("stage %s failed with no detail", StageNames[stage])
			}
			j.ErrorMessageUser = userMsg
			j.ErrorMessageDev = devMsg
		}
	})
	if !ok {
		return Job{}, fmt.Errorf("jobstore: job %q not found", jobID)
	}
	return job, nil
}

// Complete marks the job completed and records the produced universe id.
// Artifacts are retained permanently for audit.
func (s *Store) Complete(jobID, universeID string) (Job, error) {
	job, ok := s.Update(jobID, func(j *Job) {
		j.Status = StatusCompleted
		j.OutputUniverseID = universeID
		j.ErrorMessageUser = ""
		j.ErrorMessageDev = ""
	})
	if !ok {
		return Job{}, fmt.Errorf("jobstore: job %q not found", jobID)
	}
	return job, nil
}

// ResetFrom prepares a retry: stage statuses from the given stage onward go
// back to pending and the error fields clear. Artifacts of earlier stages
// stay untouched; later-stage artifacts are left in place to be overwritten
// when their stage re-runs.
func (s *Store) ResetFrom(jobID string, stage int) (Job, error) {
	if stage < 0 {
		stage = 0
	}
	job, ok := s.Update(jobID, func(j *Job) {
		for i := stage; i < NumStages; i++ {
			j.StageStatuses[i] = StagePending
		}
		j.Status = StatusRunning
		j.CurrentStage = stage
		j.OutputUniverseID = ""
		j.ErrorMessageUser = ""
		j.ErrorMessageDev = ""
	})
	if !ok {
		return Job{}, fmt.Errorf("jobstore: job %q not found", jobID)
	}
	return job, nil
}
