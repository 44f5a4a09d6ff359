package jobstore

import (
	"encoding/json"
	"strings"
	"time"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS transformation_jobs (
  job_id TEXT PRIMARY KEY,
  status TEXT NOT NULL DEFAULT 'queued',
  current_stage INT NOT NULL DEFAULT 0,
  stage_statuses JSONB NOT NULL DEFAULT '[]',
  artifacts JSONB NOT NULL DEFAULT '{}',
  source_text TEXT NOT NULL DEFAULT '',
  output_universe_id TEXT NOT NULL DEFAULT '',
  error_message_user TEXT NOT NULL DEFAULT '',
  error_message_dev TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transformation_jobs_status ON transformation_jobs (status);
`)
	})
	return s.schemaErr
}

func scanJobDB(row rowScanner) (Job, bool) {
	var job Job
	var stageStatuses, artifacts []byte
	err := row.Scan(
		&job.ID,
		&job.Status,
		&job.CurrentStage,
		&stageStatuses,
		&artifacts,
		&job.SourceText,
		&job.OutputUniverseID,
		&job.ErrorMessageUser,
		&job.ErrorMessageDev,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return Job{}, false
	}
	_ = json.Unmarshal(stageStatuses, &job.StageStatuses)
	_ = json.Unmarshal(artifacts, &job.Artifacts)
	return normalizeJob(job), true
}

type rowScanner interface {
	Scan(dest ...any) error
}

const jobColumns = `job_id, status, current_stage, stage_statuses, artifacts, source_text,
output_universe_id, error_message_user, error_message_dev, created_at, updated_at`

func (s *Store) getDB(jobID string) (Job, bool) {
	if err := s.ensureSchema(); err != nil {
		return Job{}, false
	}
	id := strings.TrimSpace(jobID)
	if id == "" {
		return Job{}, false
	}
	row := s.db.QueryRow(`SELECT `+jobColumns+` FROM transformation_jobs WHERE job_id = $1`, id)
	return scanJobDB(row)
}

func (s *Store) putDB(job Job) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeJob(job)
	if n.ID == "" {
		return
	}
	stageStatuses, _ := json.Marshal(n.StageStatuses)
	artifacts, _ := json.Marshal(n.Artifacts)
	_, _ = s.db.Exec(`
INSERT INTO transformation_jobs (
  job_id, status, current_stage, stage_statuses, artifacts, source_text,
  output_universe_id, error_message_user, error_message_dev, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (job_id)
DO UPDATE SET status=EXCLUDED.status,
  current_stage=EXCLUDED.current_stage,
  stage_statuses=EXCLUDED.stage_statuses,
  artifacts=EXCLUDED.artifacts,
  source_text=EXCLUDED.source_text,
  output_universe_id=EXCLUDED.output_universe_id,
  error_message_user=EXCLUDED.error_message_user,
  error_message_dev=EXCLUDED.error_message_dev,
  updated_at=EXCLUDED.updated_at`,
		n.ID, n.Status, n.CurrentStage, stageStatuses, artifacts, n.SourceText,
		n.OutputUniverseID, n.ErrorMessageUser, n.ErrorMessageDev, n.CreatedAt, n.UpdatedAt)
}

func (s *Store) updateDB(jobID string, fn func(*Job)) (Job, bool) {
	if err := s.ensureSchema(); err != nil {
		return Job{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return Job{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(jobID)
	row := tx.QueryRow(`SELECT `+jobColumns+` FROM transformation_jobs WHERE job_id = $1 FOR UPDATE`, id)
	cur, ok := scanJobDB(row)
	if !ok {
		return Job{}, false
	}
	fn(&cur)
	cur.ID = id
	cur.UpdatedAt = time.Now().UTC()
	cur = normalizeJob(cur)

	stageStatuses, _ := json.Marshal(cur.StageStatuses)
	artifacts, _ := json.Marshal(cur.Artifacts)
	_, err = tx.Exec(`
UPDATE transformation_jobs SET status=$2, current_stage=$3, stage_statuses=$4,
  artifacts=$5, source_text=$6, output_universe_id=$7, error_message_user=$8,
  error_message_dev=$9, updated_at=$10
WHERE job_id=$1`,
		cur.ID, cur.Status, cur.CurrentStage, stageStatuses, artifacts, cur.SourceText,
		cur.OutputUniverseID, cur.ErrorMessageUser, cur.ErrorMessageDev, cur.UpdatedAt)
	if err != nil {
		return Job{}, false
	}
	if err := tx.Commit(); err != nil {
		return Job{}, false
	}
	return cur, true
}
