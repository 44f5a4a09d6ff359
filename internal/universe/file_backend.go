package universe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Record
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.Universe.ID)
			if id == "" {
				continue
			}
			s.byID[id] = row
		}
	})
}

func (s *Store) saveFileLocked() {
	rows := make([]Record, 0, len(s.byID))
	for _, rec := range s.byID {
		rows = append(rows, rec)
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) createUniverseFile(u Universe) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[u.ID] = Record{Universe: u}
	s.saveFileLocked()
	return nil
}

func (s *Store) addCharactersFile(universeID string, cs []Character) error {
	return s.mutateFile(universeID, func(rec *Record) {
		rec.Characters = append(rec.Characters, cs...)
	})
}

func (s *Store) addLocationsFile(universeID string, ls []Location) error {
	return s.mutateFile(universeID, func(rec *Record) {
		rec.Locations = append(rec.Locations, ls...)
	})
}

func (s *Store) addCardsFile(universeID string, cards []Card) error {
	return s.mutateFile(universeID, func(rec *Record) {
		rec.Cards = append(rec.Cards, cards...)
	})
}

func (s *Store) mutateFile(universeID string, fn func(*Record)) error {
	s.ensureLoadedFile()
	id := strings.TrimSpace(universeID)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("universe: %q not found", universeID)
	}
	fn(&rec)
	s.byID[id] = rec
	s.saveFileLocked()
	return nil
}

func (s *Store) getFile(universeID string) (Record, bool) {
	s.ensureLoadedFile()
	s.mu.RLock()
	rec, ok := s.byID[universeID]
	s.mu.RUnlock()
	return rec, ok
}
