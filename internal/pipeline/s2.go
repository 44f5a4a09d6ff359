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

// S2 derives the universe identity and, in a second extraction-only call,
// the guardrail set that grounds every later generative call.
type S2 struct{ LLM llm.LLMClient }

type S2In struct {
	Source    artifact.ClassifyOut
	Structure artifact.StructureOut
}

var identityPromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Name the story universe this narrative would become: title, theme, tone, genre, audience.",
	Background:   "The input carries the text excerpt plus the structural read from the previous step.",
	OutputFields: llmtool.MustFieldsFromStruct(artifact.IdentityOut{}),
	Constraints: []string{
		"title should come from the text when it names itself; otherwise derive it from the central subject.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetGrounded())

var guardrailPromptSpec = llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose: "Extract the grounding contract for this source: what later generation may build on and what it must never introduce.",
	Background: "Everything in the output must be literally present in the source text. " +
		"The exclusions list names topics ABSENT from the text that future elaboration must not invent.",
	OutputFields: llmtool.MustFieldsFromStruct(artifact.GuardrailSet{}),
	Constraints: []string{
		"Do not soften or editorialize; extract, never interpret.",
		"quotable_elements must be verbatim quotes.",
		"creative_latitude must be strict, moderate, or liberal.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, llmtool.PresetStrictJSON(), llmtool.PresetGrounded(), llmtool.PresetCautious())

func (p *S2) Run(ctx context.Context, in S2In) (artifact.IdentityOut, error) {
	input := map[string]any{
		"source_type": in.Source.SourceType,
		"summary":     in.Structure.Summary,
		"tone_hint":   in.Structure.NarrativeVoice,
		"text":        excerpt(in.Source.NormalizedText),
	}
	prompt, err := llmtool.BuildStructuredPrompt(identityPromptSpec, input)
	if err != nil {
		return artifact.IdentityOut{}, err
	}
	raw, err := p.LLM.GenerateJSON(llm.WithStage(ctx, "identity"), prompt, input)
	if err != nil {
		return artifact.IdentityOut{}, err
	}
	var out artifact.IdentityOut
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return artifact.IdentityOut{}, fmt.Errorf("s2: identity JSON invalid: %w\nraw: %s", err, string(raw))
	}
	out = identityDefaults(out)

	// Second, guardrail-specific call over the same excerpt. A failure here
	// fails the stage: the rest of the pipeline must not run ungrounded.
	guardInput := map[string]any{
		"text": excerpt(in.Source.NormalizedText),
	}
	guardPrompt, err := llmtool.BuildStructuredPrompt(guardrailPromptSpec, guardInput)
	if err != nil {
		return artifact.IdentityOut{}, err
	}
	guardRaw, err := p.LLM.GenerateJSON(llm.WithStage(ctx, "guardrails"), guardPrompt, guardInput)
	if err != nil {
		return artifact.IdentityOut{}, err
	}
	var guardrails artifact.GuardrailSet
	if err := jsonutil.UnmarshalRaw(guardRaw, &guardrails); err != nil {
		return artifact.IdentityOut{}, fmt.Errorf("s2: guardrail JSON invalid: %w\nraw: %s", err, string(guardRaw))
	}
	out.Guardrails = guardrails.Normalized()
	return out, nil
}

func identityDefaults(out artifact.IdentityOut) artifact.IdentityOut {
	if strings.TrimSpace(out.Title) == "" {
		out.Title = "Untitled Universe"
	}
	if strings.TrimSpace(out.Genre) == "" {
		out.Genre = "drama"
	}
	if strings.TrimSpace(out.Audience) == "" {
		out.Audience = "general"
	}
	return out
}
