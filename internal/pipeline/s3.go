package pipeline

import (
	"context"
	"fmt"
	"strings"

	"storyforge/internal/artifact"
	"storyforge/internal/llm"
	"storyforge/internal/llmtool"
	"storyforge/internal/util/jsonutil"
)

// S3 extracts characters, locations, and world rules. One generation call,
// narrowed by everything stages 1-2 already derived.
type S3 struct{ LLM llm.LLMClient }

type S3In struct {
	Source    artifact.ClassifyOut
	Structure artifact.StructureOut
	Identity  artifact.IdentityOut
}

var worldPromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Extract the characters, locations, and world rules this narrative establishes.",
	Background:   "The input carries the text excerpt plus the identity and structure already derived.",
	OutputFields: llmtool.MustFieldsFromStruct(artifact.WorldOut{}),
	Constraints: []string{
		"Only characters the text names or unmistakably identifies.",
		"world_rules are rules the text states, not genre conventions.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetGrounded(), llmtool.PresetCautious())

func (p *S3) Run(ctx context.Context, in S3In) (artifact.WorldOut, error) {
	input := map[string]any{
		"title":   in.Identity.Title,
		"theme":   in.Identity.Theme,
		"summary": in.Structure.Summary,
		"acts":    in.Structure.Acts,
		"text":    excerpt(in.Source.NormalizedText),
	}
	prompt, err := llmtool.BuildStructuredPrompt(worldPromptSpec, input)
	if err != nil {
		return artifact.WorldOut{}, err
	}
	raw, err := p.LLM.GenerateJSON(ctx, prompt, input)
	if err != nil {
		return artifact.WorldOut{}, err
	}
	var out artifact.WorldOut
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return artifact.WorldOut{}, fmt.Errorf("s3: JSON invalid: %w\nraw: %s", err, string(raw))
	}
	return worldDefaults(out), nil
}

// worldDefaults drops unusable entries rather than failing; a universe with
// no extractable characters is still materializable.
func worldDefaults(out artifact.WorldOut) artifact.WorldOut {
	var chars []artifact.CharacterSeed
	for _, c := range out.Characters {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		if strings.TrimSpace(c.Role) == "" {
			c.Role = "supporting"
		}
		chars = append(chars, c)
	}
	out.Characters = chars

	var locs []artifact.LocationSeed
	for _, l := range out.Locations {
		if strings.TrimSpace(l.Name) == "" {
			continue
		}
		locs = append(locs, l)
	}
	out.Locations = locs
	return out
}
