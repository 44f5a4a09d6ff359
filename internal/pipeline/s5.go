package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"storyforge/internal/artifact"
	"storyforge/internal/llm"
	"storyforge/internal/llmtool"
	"storyforge/internal/universe"
	"storyforge/internal/util/jsonutil"
)

// DefaultHookPack is how many leading cards release immediately when no
// hook-pack size is configured.
const DefaultHookPack = 3

// S5 turns the accumulated pipeline output into persisted entities: the
// universe (with the guardrail set copied onto it), grounded character
// personas, locations, and scheduled cards.
type S5 struct {
	LLM       llm.LLMClient
	Universes *universe.Store
	HookPack  int
	Now       func() time.Time
}

type S5In struct {
	JobID     string
	Source    artifact.ClassifyOut
	Structure artifact.StructureOut
	Identity  artifact.IdentityOut
	World     artifact.WorldOut
	Plan      artifact.PlanOut
}

var personaPromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose: "Write the chat persona for one character of this story universe.",
	Background: "The system prompt you produce is used verbatim by a conversational model. " +
		"It must embed the knowledge-limit boundary from the guardrails and the mandatory deflection rule: " +
		"when asked about anything outside the grounding set, the character answers with an in-character refusal " +
		"rather than inventing content.",
	OutputFields: llmtool.MustFieldsFromStruct(artifact.PersonaOut{}),
	Constraints: []string{
		"system_prompt must restate the guardrail exclusions as things the character knows nothing about.",
		"secrets and goals come from the source-grounded description only.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetGrounded())

func (p *S5) Run(ctx context.Context, in S5In) (artifact.MaterializeOut, error) {
	if p.Universes == nil {
		return artifact.MaterializeOut{}, fmt.Errorf("s5: universe store is nil")
	}
	if strings.TrimSpace(in.JobID) == "" {
		return artifact.MaterializeOut{}, fmt.Errorf("s5: job id is required")
	}
	now := time.Now().UTC()
	if p.Now != nil {
		now = p.Now().UTC()
	}
	hook := p.HookPack
	if hook <= 0 {
		hook = DefaultHookPack
	}

	guardrails := in.Identity.Guardrails.Normalized()
	u := universe.Universe{
		ID:         universe.NewID("u", in.Identity.Title, in.JobID),
		Title:      in.Identity.Title,
		Theme:      in.Identity.Theme,
		ToneTags:   in.Identity.ToneTags,
		Genre:      in.Identity.Genre,
		Audience:   in.Identity.Audience,
		Logline:    in.Identity.Logline,
		SourceType: in.Source.SourceType,
		Guardrails: guardrails,
		CreatedAt:  now,
	}
	if err := p.Universes.CreateUniverse(ctx, u); err != nil {
		return artifact.MaterializeOut{}, fmt.Errorf("s5: create universe: %w", err)
	}

	out := artifact.MaterializeOut{UniverseID: u.ID, HookPack: hook}

	var characters []universe.Character
	for _, seed := range in.World.Characters {
		persona := p.generatePersona(ctx, seed, guardrails, in.Identity.Title)
		secrets, _ := json.Marshal(persona.Secrets)
		profile, _ := json.Marshal(map[string]any{"goals": persona.Goals, "voice": persona.Voice})
		c := universe.Character{
			ID:              universe.NewID("ch", seed.Name, u.ID),
			UniverseID:      u.ID,
			Name:            seed.Name,
			Role:            seed.Role,
			Description:     seed.Description,
			SystemPrompt:    persona.SystemPrompt,
			SecretsJSON:     string(secrets),
			ChatProfileJSON: string(profile),
		}
		characters = append(characters, c)
		out.CharacterIDs = append(out.CharacterIDs, c.ID)
	}
	if err := p.Universes.AddCharacters(ctx, u.ID, characters); err != nil {
		return artifact.MaterializeOut{}, fmt.Errorf("s5: persist characters: %w", err)
	}

	var locations []universe.Location
	for _, seed := range in.World.Locations {
		l := universe.Location{
			ID:          universe.NewID("loc", seed.Name, u.ID),
			UniverseID:  u.ID,
			Name:        seed.Name,
			Description: seed.Description,
			Mood:        seed.Mood,
		}
		locations = append(locations, l)
		out.LocationIDs = append(out.LocationIDs, l.ID)
	}
	if err := p.Universes.AddLocations(ctx, u.ID, locations); err != nil {
		return artifact.MaterializeOut{}, fmt.Errorf("s5: persist locations: %w", err)
	}

	cards := scheduleCards(u.ID, in.Plan.Cards, hook, now)
	for _, c := range cards {
		out.CardIDs = append(out.CardIDs, c.ID)
	}
	if err := p.Universes.AddCards(ctx, u.ID, cards); err != nil {
		return artifact.MaterializeOut{}, fmt.Errorf("s5: persist cards: %w", err)
	}

	return out, nil
}

// generatePersona issues one grounded persona request per character and
// falls back to a safe structural default on any generation or parse
// failure. Persona failures never fail the stage.
func (p *S5) generatePersona(ctx context.Context, seed artifact.CharacterSeed, g artifact.GuardrailSet, title string) artifact.PersonaOut {
	input := map[string]any{
		"universe_title":      title,
		"character":           seed,
		"guardrails":          g,
		"deflection_behavior": artifact.DeflectionRule,
	}
	prompt, err := llmtool.BuildStructuredPrompt(personaPromptSpec, input)
	if err != nil {
		return artifact.FallbackPersona(seed, g)
	}
	raw, err := p.LLM.GenerateJSON(llm.WithStage(ctx, "persona"), prompt, input)
	if err != nil {
		log.Printf("s5: persona generation failed for %s, using fallback: %v", seed.Name, err)
		return artifact.FallbackPersona(seed, g)
	}
	var persona artifact.PersonaOut
	if err := jsonutil.UnmarshalRaw(raw, &persona); err != nil {
		log.Printf("s5: persona parse failed for %s, using fallback: %v", seed.Name, err)
		return artifact.FallbackPersona(seed, g)
	}
	if strings.TrimSpace(persona.SystemPrompt) == "" {
		return artifact.FallbackPersona(seed, g)
	}
	if persona.Secrets == nil {
		persona.Secrets = []string{}
	}
	if persona.Goals == nil {
		persona.Goals = []string{}
	}
	return persona
}

// scheduleCards assigns release times: the first hook cards publish
// immediately, every later card gets a strictly increasing day offset.
func scheduleCards(universeID string, plans []artifact.CardPlan, hook int, now time.Time) []universe.Card {
	cards := make([]universe.Card, 0, len(plans))
	for i, plan := range plans {
		captions, _ := json.Marshal(plan.Captions)
		publishAt := now
		if i >= hook {
			publishAt = now.Add(time.Duration(i-hook+1) * 24 * time.Hour)
		}
		cards = append(cards, universe.Card{
			ID:              universe.NewID("card", plan.Title, fmt.Sprintf("%s:%d", universeID, plan.DayIndex)),
			UniverseID:      universeID,
			DayIndex:        plan.DayIndex,
			Title:           plan.Title,
			SceneText:       plan.SceneText,
			CaptionsJSON:    string(captions),
			ImageGeneration: plan.Image,
			PublishAt:       publishAt,
		})
	}
	return cards
}
