package universe

import (
	"context"
	"encoding/json"
	"strings"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS universes (
  universe_id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  theme TEXT NOT NULL DEFAULT '',
  tone_tags JSONB NOT NULL DEFAULT '[]',
  genre TEXT NOT NULL DEFAULT '',
  audience TEXT NOT NULL DEFAULT '',
  logline TEXT NOT NULL DEFAULT '',
  source_type TEXT NOT NULL DEFAULT '',
  guardrails JSONB NOT NULL DEFAULT '{}',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS characters (
  character_id TEXT PRIMARY KEY,
  universe_id TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  system_prompt TEXT NOT NULL DEFAULT '',
  secrets_json TEXT NOT NULL DEFAULT '',
  chat_profile_json TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_characters_universe_id ON characters (universe_id);

CREATE TABLE IF NOT EXISTS locations (
  location_id TEXT PRIMARY KEY,
  universe_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  mood TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_locations_universe_id ON locations (universe_id);

CREATE TABLE IF NOT EXISTS cards (
  card_id TEXT PRIMARY KEY,
  universe_id TEXT NOT NULL,
  day_index INT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  scene_text TEXT NOT NULL DEFAULT '',
  captions_json TEXT NOT NULL DEFAULT '',
  image_generation JSONB NOT NULL DEFAULT '{}',
  publish_at TIMESTAMP WITH TIME ZONE,
  bible_version_id TEXT NOT NULL DEFAULT '',
  UNIQUE (universe_id, day_index)
);
CREATE INDEX IF NOT EXISTS idx_cards_universe_id ON cards (universe_id);
`)
	})
	return s.schemaErr
}

func (s *Store) createUniverseDB(ctx context.Context, u Universe) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	toneTags, _ := json.Marshal(u.ToneTags)
	guardrails, _ := json.Marshal(u.Guardrails)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO universes (universe_id, title, theme, tone_tags, genre, audience, logline, source_type, guardrails, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (universe_id)
DO UPDATE SET title=EXCLUDED.title, theme=EXCLUDED.theme, tone_tags=EXCLUDED.tone_tags,
  genre=EXCLUDED.genre, audience=EXCLUDED.audience, logline=EXCLUDED.logline,
  source_type=EXCLUDED.source_type, guardrails=EXCLUDED.guardrails`,
		u.ID, u.Title, u.Theme, toneTags, u.Genre, u.Audience, u.Logline, u.SourceType, guardrails, u.CreatedAt)
	return err
}

func (s *Store) addCharactersDB(ctx context.Context, universeID string, cs []Character) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, c := range cs {
		_, err := tx.ExecContext(ctx, `
INSERT INTO characters (character_id, universe_id, name, role, description, system_prompt, secrets_json, chat_profile_json)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (character_id)
DO UPDATE SET name=EXCLUDED.name, role=EXCLUDED.role, description=EXCLUDED.description,
  system_prompt=EXCLUDED.system_prompt, secrets_json=EXCLUDED.secrets_json,
  chat_profile_json=EXCLUDED.chat_profile_json`,
			c.ID, universeID, c.Name, c.Role, c.Description, c.SystemPrompt, c.SecretsJSON, c.ChatProfileJSON)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) addLocationsDB(ctx context.Context, universeID string, ls []Location) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, l := range ls {
		_, err := tx.ExecContext(ctx, `
INSERT INTO locations (location_id, universe_id, name, description, mood)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (location_id)
DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description, mood=EXCLUDED.mood`,
			l.ID, universeID, l.Name, l.Description, l.Mood)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) addCardsDB(ctx context.Context, universeID string, cards []Card) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, c := range cards {
		imageGen, _ := json.Marshal(c.ImageGeneration)
		_, err := tx.ExecContext(ctx, `
INSERT INTO cards (card_id, universe_id, day_index, title, scene_text, captions_json, image_generation, publish_at, bible_version_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (card_id)
DO UPDATE SET day_index=EXCLUDED.day_index, title=EXCLUDED.title, scene_text=EXCLUDED.scene_text,
  captions_json=EXCLUDED.captions_json, image_generation=EXCLUDED.image_generation,
  publish_at=EXCLUDED.publish_at, bible_version_id=EXCLUDED.bible_version_id`,
			c.ID, universeID, c.DayIndex, c.Title, c.SceneText, c.CaptionsJSON, imageGen, c.PublishAt, c.BibleVersionID)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) getDB(ctx context.Context, universeID string) (Record, bool) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false
	}
	var rec Record
	var toneTags, guardrails []byte
	u := &rec.Universe
	row := s.db.QueryRowContext(ctx, `
SELECT universe_id, title, theme, tone_tags, genre, audience, logline, source_type, guardrails, created_at
FROM universes WHERE universe_id = $1`, universeID)
	if err := row.Scan(&u.ID, &u.Title, &u.Theme, &toneTags, &u.Genre, &u.Audience, &u.Logline, &u.SourceType, &guardrails, &u.CreatedAt); err != nil {
		return Record{}, false
	}
	_ = json.Unmarshal(toneTags, &u.ToneTags)
	_ = json.Unmarshal(guardrails, &u.Guardrails)

	charRows, err := s.db.QueryContext(ctx, `
SELECT character_id, universe_id, name, role, description, system_prompt, secrets_json, chat_profile_json
FROM characters WHERE universe_id = $1 ORDER BY name`, universeID)
	if err != nil {
		return Record{}, false
	}
	defer charRows.Close()
	for charRows.Next() {
		var c Character
		if err := charRows.Scan(&c.ID, &c.UniverseID, &c.Name, &c.Role, &c.Description, &c.SystemPrompt, &c.SecretsJSON, &c.ChatProfileJSON); err != nil {
			return Record{}, false
		}
		rec.Characters = append(rec.Characters, c)
	}

	locRows, err := s.db.QueryContext(ctx, `
SELECT location_id, universe_id, name, description, mood
FROM locations WHERE universe_id = $1 ORDER BY name`, universeID)
	if err != nil {
		return Record{}, false
	}
	defer locRows.Close()
	for locRows.Next() {
		var l Location
		if err := locRows.Scan(&l.ID, &l.UniverseID, &l.Name, &l.Description, &l.Mood); err != nil {
			return Record{}, false
		}
		rec.Locations = append(rec.Locations, l)
	}

	cardRows, err := s.db.QueryContext(ctx, `
SELECT card_id, universe_id, day_index, title, scene_text, captions_json, image_generation, publish_at, bible_version_id
FROM cards WHERE universe_id = $1 ORDER BY day_index`, universeID)
	if err != nil {
		return Record{}, false
	}
	defer cardRows.Close()
	for cardRows.Next() {
		var c Card
		var imageGen []byte
		if err := cardRows.Scan(&c.ID, &c.UniverseID, &c.DayIndex, &c.Title, &c.SceneText, &c.CaptionsJSON, &imageGen, &c.PublishAt, &c.BibleVersionID); err != nil {
			return Record{}, false
		}
		_ = json.Unmarshal(imageGen, &c.ImageGeneration)
		rec.Cards = append(rec.Cards, c)
	}

	if strings.TrimSpace(rec.Universe.ID) == "" {
		return Record{}, false
	}
	return rec, true
}
