package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"storyforge/internal/artifact"
	"storyforge/internal/llm"
	"storyforge/internal/llmtool"
	"storyforge/internal/util/jsonutil"
)

// StoryLength selects the target card-count range for the release plan.
type StoryLength string

const (
	LengthShort  StoryLength = "short"
	LengthMedium StoryLength = "medium"
	LengthLong   StoryLength = "long"
)

func cardRange(length StoryLength) (int, int) {
	switch length {
	case LengthShort:
		return 5, 8
	case LengthLong:
		return 15, 21
	default:
		return 9, 14
	}
}

// S4 breaks the narrative into the ordered card plan. The guardrail set is
// embedded inline as prompt constraints so the planner cannot introduce
// facts outside the grounding set.
type S4 struct {
	LLM    llm.LLMClient
	Length StoryLength
}

type S4In struct {
	Source    artifact.ClassifyOut
	Structure artifact.StructureOut
	Identity  artifact.IdentityOut
	World     artifact.WorldOut
}

func (p *S4) Run(ctx context.Context, in S4In) (artifact.PlanOut, error) {
	minCards, maxCards := cardRange(p.Length)

	spec := llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
		Purpose:      "Break the narrative into an ordered plan of playable daily cards, each one discrete moment.",
		Background:   "The input carries the text excerpt plus everything derived so far. Cards release one per day.",
		OutputFields: llmtool.MustFieldsFromStruct(artifact.PlanOut{}),
		Constraints: append([]string{
			fmt.Sprintf("Produce between %d and %d cards.", minCards, maxCards),
			"day_index starts at 0 and increases by 1 per card.",
			"Every card's characters must come from the provided character list.",
		}, in.Identity.Guardrails.InlineConstraints()...),
		OutputFormat: "JSON only.",
		Language:     "English",
	}, llmtool.PresetStrictJSON(), llmtool.PresetGrounded())

	names := make([]string, 0, len(in.World.Characters))
	for _, c := range in.World.Characters {
		names = append(names, c.Name)
	}
	input := map[string]any{
		"title":      in.Identity.Title,
		"summary":    in.Structure.Summary,
		"key_beats":  in.Structure.KeyBeats,
		"characters": names,
		"text":       excerpt(in.Source.NormalizedText),
	}
	prompt, err := llmtool.BuildStructuredPrompt(spec, input)
	if err != nil {
		return artifact.PlanOut{}, err
	}
	raw, err := p.LLM.GenerateJSON(ctx, prompt, input)
	if err != nil {
		return artifact.PlanOut{}, err
	}
	var out artifact.PlanOut
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return artifact.PlanOut{}, fmt.Errorf("s4: JSON invalid: %w\nraw: %s", err, string(raw))
	}
	out = normalizePlan(out)
	if len(out.Cards) == 0 {
		return artifact.PlanOut{}, fmt.Errorf("s4: planner returned no usable cards")
	}
	return out, nil
}

// normalizePlan drops empty cards and reassigns day indexes into a dense
// 0..n-1 sequence preserving the planner's order, so day_index is unique
// and increasing no matter what the model produced.
func normalizePlan(out artifact.PlanOut) artifact.PlanOut {
	var cards []artifact.CardPlan
	for _, c := range out.Cards {
		if strings.TrimSpace(c.SceneText) == "" {
			continue
		}
		if strings.TrimSpace(c.Title) == "" {
			c.Title = fmt.Sprintf("Moment %d", c.DayIndex+1)
		}
		cards = append(cards, c)
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].DayIndex < cards[j].DayIndex })
	for i := range cards {
		cards[i].DayIndex = i
	}
	out.Cards = cards
	return out
}
