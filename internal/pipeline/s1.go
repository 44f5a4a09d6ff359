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

// S1 reads narrative structure, voice, and key beats out of the normalized
// text. One generation call.
type S1 struct{ LLM llm.LLMClient }

type S1In struct {
	Source artifact.ClassifyOut
}

var structurePromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Read a narrative source and describe its structure, voice, and key beats.",
	Background:   "The input carries the detected source type and an excerpt of the normalized text.",
	OutputFields: llmtool.MustFieldsFromStruct(artifact.StructureOut{}),
	Constraints: []string{
		"key_beats must follow source order.",
		"acts should be short labels, not summaries.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetGrounded(), llmtool.PresetCautious())

func (p *S1) Run(ctx context.Context, in S1In) (artifact.StructureOut, error) {
	input := map[string]any{
		"source_type": in.Source.SourceType,
		"text":        excerpt(in.Source.NormalizedText),
	}
	prompt, err := llmtool.BuildStructuredPrompt(structurePromptSpec, input)
	if err != nil {
		return artifact.StructureOut{}, err
	}
	raw, err := p.LLM.GenerateJSON(ctx, prompt, input)
	if err != nil {
		return artifact.StructureOut{}, err
	}
	var out artifact.StructureOut
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return artifact.StructureOut{}, fmt.Errorf("s1: JSON invalid: %w\nraw: %s", err, string(raw))
	}
	return structureDefaults(out), nil
}

// structureDefaults fills conservative fallbacks for missing non-critical
// fields; only a total parse failure fails the stage.
func structureDefaults(out artifact.StructureOut) artifact.StructureOut {
	if strings.TrimSpace(out.Summary) == "" {
		out.Summary = "An untitled narrative."
	}
	if strings.TrimSpace(out.NarrativeVoice) == "" {
		out.NarrativeVoice = "third person"
	}
	if len(out.Acts) == 0 && len(out.KeyBeats) > 0 {
		for _, b := range out.KeyBeats {
			if strings.TrimSpace(b.Title) != "" {
				out.Acts = append(out.Acts, b.Title)
			}
		}
	}
	return out
}
