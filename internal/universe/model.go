package universe

import (
	"time"

	"storyforge/internal/artifact"
)

// Universe is the root entity created by stage 5. The guardrail set is
// copied onto it so every later generative call against this universe can
// be grounded without re-reading the job record.
type Universe struct {
	ID         string                `json:"universe_id"`
	Title      string                `json:"title"`
	Theme      string                `json:"theme"`
	ToneTags   []string              `json:"tone_tags"`
	Genre      string                `json:"genre"`
	Audience   string                `json:"audience"`
	Logline    string                `json:"logline,omitempty"`
	SourceType artifact.SourceType   `json:"source_type"`
	Guardrails artifact.GuardrailSet `json:"guardrails"`
	CreatedAt  time.Time             `json:"created_at"`
}

// Character carries the grounded chat persona. SystemPrompt is consumed
// verbatim by the conversational collaborator; SecretsJSON and
// ChatProfileJSON are its side channels.
type Character struct {
	ID              string `json:"character_id"`
	UniverseID      string `json:"universe_id"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	Description     string `json:"description"`
	SystemPrompt    string `json:"system_prompt"`
	SecretsJSON     string `json:"secrets_json,omitempty"`
	ChatProfileJSON string `json:"chat_profile_json,omitempty"`
}

type Location struct {
	ID          string `json:"location_id"`
	UniverseID  string `json:"universe_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Mood        string `json:"mood,omitempty"`
}

// Card is one scheduled playable moment. DayIndex is unique within a
// universe and increases with PublishAt.
type Card struct {
	ID              string             `json:"card_id"`
	UniverseID      string             `json:"universe_id"`
	DayIndex        int                `json:"day_index"`
	Title           string             `json:"title"`
	SceneText       string             `json:"scene_text"`
	CaptionsJSON    string             `json:"captions_json,omitempty"`
	ImageGeneration artifact.ImagePlan `json:"image_generation"`
	PublishAt       time.Time          `json:"publish_at"`
	BibleVersionID  string             `json:"bible_version_id,omitempty"`
}

// Record is a full universe read: the root entity plus everything under it.
type Record struct {
	Universe   Universe    `json:"universe"`
	Characters []Character `json:"characters"`
	Locations  []Location  `json:"locations"`
	Cards      []Card      `json:"cards"`
}
