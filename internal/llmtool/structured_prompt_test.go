package llmtool

import (
	"strings"
	"testing"

	"storyforge/internal/tester"
)

type sampleOut struct {
	Title    string   `json:"title" prompt_desc:"the universe title"`
	ToneTags []string `json:"tone_tags"`
	Logline  string   `json:"logline" prompt:"optional"`
	Internal string   `json:"internal" prompt:"-"`
	hidden   string
}

func TestFieldsFromStruct(t *testing.T) {
	fields, err := FieldsFromStruct(sampleOut{})
	tester.NoErr(t, err)
	tester.Eq(t, len(fields), 3)

	tester.Eq(t, fields[0], PromptField{Name: "title", Type: "string", Required: true, Description: "the universe title"})
	tester.Eq(t, fields[1], PromptField{Name: "tone_tags", Type: "[]string", Required: true})
	tester.Eq(t, fields[2], PromptField{Name: "logline", Type: "string", Required: false})
}

func TestFieldsFromStructRejectsNonStruct(t *testing.T) {
	_, err := FieldsFromStruct(42)
	tester.True(t, err != nil, "expected error for non-struct")
}

func TestBuildStructuredPromptSections(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "Name the story universe.",
		Background:   "The input is an excerpt.",
		OutputFields: MustFieldsFromStruct(sampleOut{}),
		Constraints:  []string{"Stay grounded."},
		OutputFormat: "JSON only.",
		Language:     "English",
	}
	prompt, err := BuildStructuredPrompt(spec, map[string]any{"text": "a lighthouse"})
	tester.NoErr(t, err)

	for _, section := range []string{"[PURPOSE]", "[BACKGROUND]", "[INPUT]", "[OUTPUT]", "[CONSTRAINTS]", "[OUTPUT_FORMAT]", "[LANGUAGE]"} {
		tester.True(t, strings.Contains(prompt, section), section+" missing")
	}
	tester.True(t, strings.Contains(prompt, "- title (string, required): the universe title"), "field line missing")
	tester.True(t, strings.Contains(prompt, "- logline (string, optional)"), "optional field line missing")
	tester.False(t, strings.Contains(prompt, "internal"), "skipped field leaked")
	tester.True(t, strings.Contains(prompt, `"text": "a lighthouse"`), "input JSON missing")
}

func TestBuildStructuredPromptRequiresPurposeAndFields(t *testing.T) {
	_, err := BuildStructuredPrompt(StructuredPromptSpec{OutputFields: MustFieldsFromStruct(sampleOut{})}, nil)
	tester.True(t, err != nil, "missing purpose must fail")

	_, err = BuildStructuredPrompt(StructuredPromptSpec{Purpose: "p"}, nil)
	tester.True(t, err != nil, "missing output fields must fail")
}

func TestApplyPresetsPrepends(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:     "p",
		Constraints: []string{"own constraint"},
	}
	out := ApplyPresets(spec, PresetStrictJSON(), PresetGrounded(), PresetCautious())

	tester.Eq(t, out.Constraints[0], "Return strict JSON only.")
	tester.Eq(t, out.Constraints[len(out.Constraints)-1], "own constraint")
	tester.Eq(t, len(out.Rules), 1)
}
