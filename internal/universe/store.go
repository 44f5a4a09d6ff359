package universe

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const readCacheSize = 128

// Store persists materialized universes. File backend by default, Postgres
// when a DSN is configured. Reads go through a small LRU keyed by universe
// id; any write for a universe invalidates its entry.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Record

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, Record]
}

func New(path string) *Store {
	cache, _ := lru.New[string, Record](readCacheSize)
	return &Store{
		path:  path,
		byID:  make(map[string]Record),
		cache: cache,
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
	cache, _ := lru.New[string, Record](readCacheSize)
	return &Store{db: db, cache: cache}, nil
}

// NewFromEnv prefers Postgres via UNIVERSE_STORE_PG_DSN and falls back to
// the file backend at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("UNIVERSE_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

// CreateUniverse persists the root entity with empty child lists.
func (s *Store) CreateUniverse(ctx context.Context, u Universe) error {
	if s == nil {
		return fmt.Errorf("universe: store is nil")
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("universe: id is required")
	}
	defer s.cache.Remove(u.ID)
	if s.db != nil {
		return s.createUniverseDB(ctx, u)
	}
	return s.createUniverseFile(u)
}

func (s *Store) AddCharacters(ctx context.Context, universeID string, cs []Character) error {
	if s == nil {
		return fmt.Errorf("universe: store is nil")
	}
	defer s.cache.Remove(universeID)
	if s.db != nil {
		return s.addCharactersDB(ctx, universeID, cs)
	}
	return s.addCharactersFile(universeID, cs)
}

func (s *Store) AddLocations(ctx context.Context, universeID string, ls []Location) error {
	if s == nil {
		return fmt.Errorf("universe: store is nil")
	}
	defer s.cache.Remove(universeID)
	if s.db != nil {
		return s.addLocationsDB(ctx, universeID, ls)
	}
	return s.addLocationsFile(universeID, ls)
}

func (s *Store) AddCards(ctx context.Context, universeID string, cards []Card) error {
	if s == nil {
		return fmt.Errorf("universe: store is nil")
	}
	defer s.cache.Remove(universeID)
	if s.db != nil {
		return s.addCardsDB(ctx, universeID, cards)
	}
	return s.addCardsFile(universeID, cards)
}

// Get returns a full universe record, served from the LRU when warm.
func (s *Store) Get(ctx context.Context, universeID string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	id := strings.TrimSpace(universeID)
	if id == "" {
		return Record{}, false
	}
	if rec, ok := s.cache.Get(id); ok {
		return rec, true
	}
	var rec Record
	var ok bool
	if s.db != nil {
		rec, ok = s.getDB(ctx, id)
	} else {
		rec, ok = s.getFile(id)
	}
	if ok {
		s.cache.Add(id, rec)
	}
	return rec, ok
}
