package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"storyforge/internal/blob"
	"storyforge/internal/jobstore"
	"storyforge/internal/llm"
	"storyforge/internal/universe"
)

// Orchestrator drives one job through the six stages in order, persisting
// every transition so a crashed or failed run resumes from the first stage
// that is not done. Snapshots is optional; when set, each stage's output is
// also archived as a blob.
type Orchestrator struct {
	LLM       llm.LLMClient
	Jobs      *jobstore.Store
	Universes *universe.Store
	Snapshots blob.Store
	Length    StoryLength
	HookPack  int
	Now       func() time.Time
}

type stageDef struct {
	userErr string
	run     func(ctx context.Context, j jobstore.Job) (jobstore.Artifacts, error)
}

// Run executes the pipeline for jobID. A missing job is created from
// sourceText; an existing one resumes from its first non-done stage with all
// earlier artifacts reused as-is. Returns the produced universe id.
func (o *Orchestrator) Run(ctx context.Context, jobID, sourceText string) (string, error) {
	if o.Jobs == nil {
		return "", fmt.Errorf("pipeline: job store is nil")
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return "", fmt.Errorf("pipeline: job id is required")
	}

	job, ok := o.Jobs.Get(jobID)
	if !ok {
		if strings.TrimSpace(sourceText) == "" {
			return "", fmt.Errorf("pipeline: job %q not found and no source text given", jobID)
		}
		job = jobstore.NewJob(jobID, sourceText)
		o.Jobs.Put(job)
		o.snapshot(ctx, jobID, "source.txt", []byte(sourceText))
	}
	if job.Status == jobstore.StatusCompleted && job.OutputUniverseID != "" {
		return job.OutputUniverseID, nil
	}

	start := 0
	for start < jobstore.NumStages && job.StageStatuses[start] == jobstore.StageDone {
		start++
	}
	if start == jobstore.NumStages {
		// Every stage done but the job never finished; close it out.
		if job.Artifacts.Materialize == nil {
			start = jobstore.NumStages - 1
		} else {
			done, err := o.Jobs.Complete(jobID, job.Artifacts.Materialize.UniverseID)
			if err != nil {
				return "", err
			}
			return done.OutputUniverseID, nil
		}
	}
	job, err := o.Jobs.ResetFrom(jobID, start)
	if err != nil {
		return "", err
	}

	stages := o.stages(jobID)
	for i := start; i < jobstore.NumStages; i++ {
		name := jobstore.StageNames[i]
		if _, err := o.Jobs.MarkStage(jobID, i, jobstore.StageRunning, nil, nil); err != nil {
			return "", err
		}
		patch, err := stages[i].run(llm.WithStage(ctx, name), job)
		if err != nil {
			_, _ = o.Jobs.MarkStage(jobID, i, jobstore.StageFailed, nil, &jobstore.StageError{
				User: stages[i].userErr,
				Dev:  err.Error(),
			})
			return "", fmt.Errorf("pipeline: stage %s: %w", name, err)
		}
		job, err = o.Jobs.MarkStage(jobID, i, jobstore.StageDone, &patch, nil)
		if err != nil {
			return "", err
		}
		o.snapshotJSON(ctx, jobID, name+".json", patch)
	}

	if job.Artifacts.Materialize == nil {
		return "", fmt.Errorf("pipeline: materialize produced no output")
	}
	done, err := o.Jobs.Complete(jobID, job.Artifacts.Materialize.UniverseID)
	if err != nil {
		return "", err
	}
	return done.OutputUniverseID, nil
}

func (o *Orchestrator) stages(jobID string) [jobstore.NumStages]stageDef {
	return [jobstore.NumStages]stageDef{
		{
			userErr: "We could not read this source text.",
			run: func(ctx context.Context, j jobstore.Job) (jobstore.Artifacts, error) {
				out, err := (&S0{}).Run(ctx, j.SourceText)
				if err != nil {
					return jobstore.Artifacts{}, err
				}
				return jobstore.Artifacts{Classify: &out}, nil
			},
		},
		{
			userErr: "We could not map out this story's structure.",
			run: func(ctx context.Context, j jobstore.Job) (jobstore.Artifacts, error) {
				if j.Artifacts.Classify == nil {
					return jobstore.Artifacts{}, fmt.Errorf("missing classify output")
				}
				out, err := (&S1{LLM: o.LLM}).Run(ctx, S1In{Source: *j.Artifacts.Classify})
				if err != nil {
					return jobstore.Artifacts{}, err
				}
				return jobstore.Artifacts{Structure: &out}, nil
			},
		},
		{
			userErr: "We could not shape this story's identity.",
			run: func(ctx context.Context, j jobstore.Job) (jobstore.Artifacts, error) {
				if j.Artifacts.Classify == nil || j.Artifacts.Structure == nil {
					return jobstore.Artifacts{}, fmt.Errorf("missing upstream output")
				}
				out, err := (&S2{LLM: o.LLM}).Run(ctx, S2In{
					Source:    *j.Artifacts.Classify,
					Structure: *j.Artifacts.Structure,
				})
				if err != nil {
					return jobstore.Artifacts{}, err
				}
				return jobstore.Artifacts{Identity: &out}, nil
			},
		},
		{
			userErr: "We could not extract this story's characters and places.",
			run: func(ctx context.Context, j jobstore.Job) (jobstore.Artifacts, error) {
				if j.Artifacts.Classify == nil || j.Artifacts.Structure == nil || j.Artifacts.Identity == nil {
					return jobstore.Artifacts{}, fmt.Errorf("missing upstream output")
				}
				out, err := (&S3{LLM: o.LLM}).Run(ctx, S3In{
					Source:    *j.Artifacts.Classify,
					Structure: *j.Artifacts.Structure,
					Identity:  *j.Artifacts.Identity,
				})
				if err != nil {
					return jobstore.Artifacts{}, err
				}
				return jobstore.Artifacts{World: &out}, nil
			},
		},
		{
			userErr: "We could not plan this story's daily moments.",
			run: func(ctx context.Context, j jobstore.Job) (jobstore.Artifacts, error) {
				if j.Artifacts.Classify == nil || j.Artifacts.Structure == nil ||
					j.Artifacts.Identity == nil || j.Artifacts.World == nil {
					return jobstore.Artifacts{}, fmt.Errorf("missing upstream output")
				}
				out, err := (&S4{LLM: o.LLM, Length: o.Length}).Run(ctx, S4In{
					Source:    *j.Artifacts.Classify,
					Structure: *j.Artifacts.Structure,
					Identity:  *j.Artifacts.Identity,
					World:     *j.Artifacts.World,
				})
				if err != nil {
					return jobstore.Artifacts{}, err
				}
				return jobstore.Artifacts{Plan: &out}, nil
			},
		},
		{
			userErr: "We could not assemble this story's universe.",
			run: func(ctx context.Context, j jobstore.Job) (jobstore.Artifacts, error) {
				if j.Artifacts.Classify == nil || j.Artifacts.Structure == nil ||
					j.Artifacts.Identity == nil || j.Artifacts.World == nil || j.Artifacts.Plan == nil {
					return jobstore.Artifacts{}, fmt.Errorf("missing upstream output")
				}
				out, err := (&S5{
					LLM:       o.LLM,
					Universes: o.Universes,
					HookPack:  o.HookPack,
					Now:       o.Now,
				}).Run(ctx, S5In{
					JobID:     jobID,
					Source:    *j.Artifacts.Classify,
					Structure: *j.Artifacts.Structure,
					Identity:  *j.Artifacts.Identity,
					World:     *j.Artifacts.World,
					Plan:      *j.Artifacts.Plan,
				})
				if err != nil {
					return jobstore.Artifacts{}, err
				}
				return jobstore.Artifacts{Materialize: &out}, nil
			},
		},
	}
}

// snapshot archival is best effort; a blob failure never fails the run.
func (o *Orchestrator) snapshot(ctx context.Context, jobID, name string, content []byte) {
	if o.Snapshots == nil {
		return
	}
	if err := o.Snapshots.Put(ctx, jobID, name, content); err != nil {
		log.Printf("pipeline: snapshot %s/%s failed: %v", jobID, name, err)
	}
}

func (o *Orchestrator) snapshotJSON(ctx context.Context, jobID, name string, v any) {
	if o.Snapshots == nil {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	o.snapshot(ctx, jobID, name, data)
}
