package jobstore

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store persists transformation jobs. Backend is a JSON file by default and
// Postgres when a DSN is configured, mirroring how project state is stored
// elsewhere in the system. All mutations go through Update's
// read-modify-write so stage transitions never clobber each other.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Job

	schemaOnce sync.Once
	schemaErr  error
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Job),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewFromEnv prefers Postgres via JOB_STORE_PG_DSN and falls back to the
// file backend at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("JOB_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Get(jobID string) (Job, bool) {
	if s == nil {
		return Job{}, false
	}
	if s.db != nil {
		return s.getDB(jobID)
	}
	return s.getFile(jobID)
}

func (s *Store) Put(job Job) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(job)
		return
	}
	s.putFile(job)
}

// Update applies fn to the current job under the backend's write lock and
// persists the result. Returns false if the job does not exist.
func (s *Store) Update(jobID string, fn func(*Job)) (Job, bool) {
	if s == nil {
		return Job{}, false
	}
	if s.db != nil {
		return s.updateDB(jobID, fn)
	}
	return s.updateFile(jobID, fn)
}
