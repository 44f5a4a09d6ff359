package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per stage for
// offline runs and tests. The payload is selected by the stage name carried
// in the context.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var obj any
	switch StageFrom(ctx) {
	case "structure":
		obj = map[string]any{
			"summary":         "A keeper tends a remote lighthouse while a storm closes in.",
			"narrative_voice": "third person limited",
			"acts":            []string{"Arrival", "The Storm", "Aftermath"},
			"key_beats": []any{
				map[string]any{"title": "Arrival", "description": "Ada reaches the lighthouse.", "position": "early"},
				map[string]any{"title": "The lamp fails", "description": "The light goes dark mid-storm.", "position": "middle"},
				map[string]any{"title": "Dawn", "description": "The storm passes.", "position": "late"},
			},
			"pacing": "slow burn",
		}
	case "identity":
		obj = map[string]any{
			"title":     "The Last Light",
			"theme":     "duty against isolation",
			"tone_tags": []string{"quiet", "tense", "windswept"},
			"genre":     "drama",
			"audience":  "adult",
			"logline":   "A lighthouse keeper fights to keep the lamp burning through the worst storm in years.",
		}
	case "guardrails":
		obj = map[string]any{
			"core_themes":         []string{"duty", "isolation"},
			"tone_constraints":    []string{"quiet", "tense"},
			"factual_boundaries":  []string{"the lighthouse stands on a rocky island", "the storm lasts one night"},
			"exclusions":          []string{"romance", "supernatural"},
			"quotable_elements":   []string{"keep the light"},
			"sensitive_topics":    []string{},
			"creative_latitude":   "moderate",
			"grounding_statement": "A story about a keeper, a lighthouse, and one storm; nothing more.",
		}
	case "world":
		obj = map[string]any{
			"characters": []any{
				map[string]any{"name": "Ada", "role": "protagonist", "description": "The lighthouse keeper.", "traits": []string{"steadfast"}},
				map[string]any{"name": "Tomas", "role": "supporting", "description": "The supply boat pilot.", "traits": []string{"wry"}},
			},
			"locations": []any{
				map[string]any{"name": "The Lighthouse", "description": "A lamp tower on a rocky island.", "mood": "lonely"},
			},
			"world_rules": []string{"the lamp must never go out"},
			"era":         "",
		}
	case "plan":
		obj = map[string]any{
			"cards": []any{
				map[string]any{
					"day_index": 0, "title": "Arrival", "scene_text": "Ada climbs the tower steps for the first time.",
					"captions": []string{"Day one."}, "characters": []string{"Ada"}, "location": "The Lighthouse",
					"image": map[string]any{"prompt": "a keeper at the tower door", "shot_type": "wide", "lighting": "overcast"},
				},
				map[string]any{
					"day_index": 1, "title": "Supplies", "scene_text": "Tomas hands over crates and weather warnings.",
					"captions": []string{"Storm's coming."}, "characters": []string{"Ada", "Tomas"}, "location": "The Lighthouse",
					"image": map[string]any{"prompt": "a boat at the landing", "shot_type": "medium", "lighting": "grey morning"},
				},
				map[string]any{
					"day_index": 2, "title": "The lamp fails", "scene_text": "The light gutters out as the storm peaks.",
					"captions": []string{"Keep the light."}, "characters": []string{"Ada"}, "location": "The Lighthouse",
					"image": map[string]any{"prompt": "a dark lamp room in a storm", "shot_type": "close-up", "lighting": "lightning"},
				},
				map[string]any{
					"day_index": 3, "title": "Dawn", "scene_text": "Ada watches the sea flatten at first light.",
					"captions": []string{"Still here."}, "characters": []string{"Ada"}, "location": "The Lighthouse",
					"image": map[string]any{"prompt": "calm sea at dawn from the gallery", "shot_type": "wide", "lighting": "golden hour"},
				},
			},
		}
	case "persona":
		obj = map[string]any{
			"system_prompt": "You are a character in The Last Light. Speak only from the events of this story. " +
				"If asked about anything outside this story, deflect in character instead of inventing an answer.",
			"secrets": []string{"doubts the lamp will last the winter"},
			"goals":   []string{"keep the light burning"},
			"voice":   map[string]any{"style": "clipped", "vocabulary": "plain", "quirks": "speaks to the lamp"},
		}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
