package jobstore

import (
	"path/filepath"
	"testing"

	"storyforge/internal/artifact"
	"storyforge/internal/tester"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "jobs.json"))
}

func TestNewJobStartsQueued(t *testing.T) {
	j := NewJob("job-1", "some text")
	tester.Eq(t, j.Status, StatusQueued)
	tester.Eq(t, j.SourceText, "some text")
	for i := 0; i < NumStages; i++ {
		tester.Eq(t, j.StageStatuses[i], StagePending)
	}
}

func TestMarkStageRunningMarksJobRunning(t *testing.T) {
	s := newTestStore(t)
	s.Put(NewJob("job-1", "text"))

	job, err := s.MarkStage("job-1", 0, StageRunning, nil, nil)
	tester.NoErr(t, err)
	tester.Eq(t, job.Status, StatusRunning)
	tester.Eq(t, job.StageStatuses[0], StageRunning)
	tester.Eq(t, job.CurrentStage, 0)
}

func TestMarkStageDoneMergesArtifacts(t *testing.T) {
	s := newTestStore(t)
	s.Put(NewJob("job-1", "text"))

	classify := &artifact.ClassifyOut{SourceType: artifact.SourceArticle, NormalizedText: "text", OutlineCount: 1}
	job, err := s.MarkStage("job-1", 0, StageDone, &Artifacts{Classify: classify}, nil)
	tester.NoErr(t, err)
	tester.Eq(t, job.Artifacts.Classify, classify)
	// A later patch for another stage must not clear earlier artifacts.
	structure := &artifact.StructureOut{Summary: "a story"}
	job, err = s.MarkStage("job-1", 1, StageDone, &Artifacts{Structure: structure}, nil)
	tester.NoErr(t, err)
	tester.Eq(t, job.Artifacts.Classify, classify)
	tester.Eq(t, job.Artifacts.Structure, structure)
	// 'done' never changes the top-level status by itself.
	tester.Eq(t, job.Status, StatusQueued)
}

func TestMarkStageFailedRecordsBothMessages(t *testing.T) {
	s := newTestStore(t)
	s.Put(NewJob("job-1", "text"))

	job, err := s.MarkStage("job-1", 2, StageFailed, nil, &StageError{
		User: "We could not shape this story's identity.",
		Dev:  "model returned invalid JSON",
	})
	tester.NoErr(t, err)
	tester.Eq(t, job.Status, StatusFailed)
	tester.Eq(t, job.ErrorMessageUser, "We could not shape this story's identity.")
	tester.Eq(t, job.ErrorMessageDev, "model returned invalid JSON")
}

func TestMarkStageFailedFallsBackToGenericMessage(t *testing.T) {
	s := newTestStore(t)
	s.Put(NewJob("job-1", "text"))

	job, err := s.MarkStage("job-1", 3, StageFailed, nil, nil)
	tester.NoErr(t, err)
	tester.Eq(t, job.ErrorMessageUser, genericUserError)
	tester.True(t, job.ErrorMessageDev != "", "dev message always has detail")
}

func TestMarkStageRejectsOutOfRange(t *testing.T) {
	s := newTestStore(t)
	s.Put(NewJob("job-1", "text"))

	_, err := s.MarkStage("job-1", NumStages, StageRunning, nil, nil)
	tester.True(t, err != nil, "expected range error")
	_, err = s.MarkStage("missing", 0, StageRunning, nil, nil)
	tester.True(t, err != nil, "expected not-found error")
}

func TestCompleteClearsErrors(t *testing.T) {
	s := newTestStore(t)
	s.Put(NewJob("job-1", "text"))
	_, _ = s.MarkStage("job-1", 1, StageFailed, nil, &StageError{User: "u", Dev: "d"})

	job, err := s.Complete("job-1", "u-last-light-abc12345")
	tester.NoErr(t, err)
	tester.Eq(t, job.Status, StatusCompleted)
	tester.Eq(t, job.OutputUniverseID, "u-last-light-abc12345")
	tester.Eq(t, job.ErrorMessageUser, "")
}

func TestResetFromClearsLaterStagesOnly(t *testing.T) {
	s := newTestStore(t)
	s.Put(NewJob("job-1", "text"))
	for i := 0; i < 4; i++ {
		_, _ = s.MarkStage("job-1", i, StageDone, nil, nil)
	}
	_, _ = s.MarkStage("job-1", 4, StageFailed, nil, &StageError{User: "u", Dev: "d"})

	job, err := s.ResetFrom("job-1", 4)
	tester.NoErr(t, err)
	tester.Eq(t, job.Status, StatusRunning)
	for i := 0; i < 4; i++ {
		tester.Eq(t, job.StageStatuses[i], StageDone)
	}
	tester.Eq(t, job.StageStatuses[4], StagePending)
	tester.Eq(t, job.StageStatuses[5], StagePending)
	tester.Eq(t, job.ErrorMessageUser, "")
}

func TestFileBackendSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	s := New(path)
	s.Put(NewJob("job-1", "the source"))
	_, err := s.MarkStage("job-1", 0, StageDone, &Artifacts{
		Classify: &artifact.ClassifyOut{SourceType: artifact.SourceScript, NormalizedText: "the source", OutlineCount: 3},
	}, nil)
	tester.NoErr(t, err)

	reloaded := New(path)
	job, ok := reloaded.Get("job-1")
	tester.True(t, ok, "job survives reload")
	tester.Eq(t, job.SourceText, "the source")
	tester.Eq(t, job.StageStatuses[0], StageDone)
	tester.True(t, job.Artifacts.Classify != nil, "artifacts survive reload")
	tester.Eq(t, job.Artifacts.Classify.OutlineCount, 3)
}
