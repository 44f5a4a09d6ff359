package jobstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Job
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeJob(row)
		}
	})
}

func (s *Store) saveFileLocked() {
	rows := make([]Job, 0, len(s.byID))
	for _, job := range s.byID {
		rows = append(rows, job)
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(jobID string) (Job, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(jobID)
	if id == "" {
		return Job{}, false
	}
	s.mu.RLock()
	job, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return Job{}, false
	}
	return normalizeJob(job), true
}

func (s *Store) putFile(job Job) {
	s.ensureLoadedFile()
	normalized := normalizeJob(job)
	if normalized.ID == "" {
		return
	}
	s.mu.Lock()
	s.byID[normalized.ID] = normalized
	s.saveFileLocked()
	s.mu.Unlock()
}

func (s *Store) updateFile(jobID string, fn func(*Job)) (Job, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(jobID)
	if id == "" {
		return Job{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.byID[id]
	if !ok {
		return Job{}, false
	}
	fn(&job)
	job.ID = id
	job.UpdatedAt = time.Now().UTC()
	job = normalizeJob(job)
	s.byID[id] = job
	s.saveFileLocked()
	return job, true
}
