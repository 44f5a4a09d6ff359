package artifact

import (
	"fmt"
	"strings"
)

// CreativeLatitude bounds how far later generative calls may elaborate
// beyond the literal source text.
type CreativeLatitude string

const (
	LatitudeStrict   CreativeLatitude = "strict"
	LatitudeModerate CreativeLatitude = "moderate"
	LatitudeLiberal  CreativeLatitude = "liberal"
)

// GuardrailSet is the grounding contract derived once, in stage 2, from the
// source text. Every field must be extractable from the literal text alone;
// nothing here may be inferred or invented. The set is stored on the job
// artifacts and copied onto the created universe so that every later
// generative call touching that universe can be held to it.
type GuardrailSet struct {
	CoreThemes         []string         `json:"core_themes" prompt_desc:"themes literally present in the source text"`
	ToneConstraints    []string         `json:"tone_constraints" prompt_desc:"tonal qualities the text actually exhibits; later generation must stay within them"`
	FactualBoundaries  []string         `json:"factual_boundaries" prompt_desc:"concrete facts the text states; generation must not contradict them"`
	Exclusions         []string         `json:"exclusions" prompt_desc:"topics absent from the text that future elaboration must not introduce"`
	QuotableElements   []string         `json:"quotable_elements" prompt_desc:"memorable phrases quoted verbatim from the text"`
	SensitiveTopics    []string         `json:"sensitive_topics" prompt_desc:"topics the text touches that need careful handling"`
	CreativeLatitude   CreativeLatitude `json:"creative_latitude" prompt_desc:"strict, moderate, or liberal"`
	GroundingStatement string           `json:"grounding_statement" prompt_desc:"one sentence stating what this story is and is not about, per the text"`
}

// Normalized fills structural defaults for fields the model left empty.
func (g GuardrailSet) Normalized() GuardrailSet {
	switch g.CreativeLatitude {
	case LatitudeStrict, LatitudeModerate, LatitudeLiberal:
	default:
		g.CreativeLatitude = LatitudeModerate
	}
	if strings.TrimSpace(g.GroundingStatement) == "" {
		g.GroundingStatement = "Stay within the events, people, and places of the source text."
	}
	return g
}

// InlineConstraints renders the set as prompt constraints so a planning or
// persona call cannot introduce facts outside the grounding set.
func (g GuardrailSet) InlineConstraints() []string {
	g = g.Normalized()
	out := []string{
		"Grounding: " + g.GroundingStatement,
		fmt.Sprintf("Creative latitude is %s; invent nothing beyond what that allows.", g.CreativeLatitude),
	}
	if len(g.CoreThemes) > 0 {
		out = append(out, "Core themes: "+strings.Join(g.CoreThemes, "; ")+".")
	}
	if len(g.ToneConstraints) > 0 {
		out = append(out, "Keep the tone within: "+strings.Join(g.ToneConstraints, "; ")+".")
	}
	if len(g.FactualBoundaries) > 0 {
		out = append(out, "Do not contradict: "+strings.Join(g.FactualBoundaries, "; ")+".")
	}
	if len(g.Exclusions) > 0 {
		out = append(out, "Never introduce these excluded topics: "+strings.Join(g.Exclusions, "; ")+".")
	}
	if len(g.SensitiveTopics) > 0 {
		out = append(out, "Handle with care, without elaboration: "+strings.Join(g.SensitiveTopics, "; ")+".")
	}
	return out
}

// ExclusionHits returns the excluded topics that literally appear in text,
// case-insensitively. Used to flag drift in generated content.
func (g GuardrailSet) ExclusionHits(text string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, ex := range g.Exclusions {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(ex)) {
			hits = append(hits, ex)
		}
	}
	return hits
}
