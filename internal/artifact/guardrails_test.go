package artifact

import (
	"strings"
	"testing"

	"storyforge/internal/tester"
)

func TestNormalizedFillsDefaults(t *testing.T) {
	g := GuardrailSet{}.Normalized()
	tester.Eq(t, g.CreativeLatitude, LatitudeModerate)
	tester.True(t, g.GroundingStatement != "", "grounding statement default")

	g = GuardrailSet{CreativeLatitude: "wild"}.Normalized()
	tester.Eq(t, g.CreativeLatitude, LatitudeModerate)

	g = GuardrailSet{CreativeLatitude: LatitudeStrict, GroundingStatement: "only the storm"}.Normalized()
	tester.Eq(t, g.CreativeLatitude, LatitudeStrict)
	tester.Eq(t, g.GroundingStatement, "only the storm")
}

func TestInlineConstraintsCoverEverySetField(t *testing.T) {
	g := GuardrailSet{
		CoreThemes:        []string{"duty"},
		ToneConstraints:   []string{"quiet"},
		FactualBoundaries: []string{"the storm lasts one night"},
		Exclusions:        []string{"romance"},
		SensitiveTopics:   []string{"drowning"},
	}
	joined := strings.Join(g.InlineConstraints(), "\n")
	for _, want := range []string{"duty", "quiet", "the storm lasts one night", "romance", "drowning", "Grounding:"} {
		tester.True(t, strings.Contains(joined, want), want+" missing from constraints")
	}
}

func TestExclusionHits(t *testing.T) {
	g := GuardrailSet{Exclusions: []string{"romance", "supernatural", ""}}

	tester.Eq(t, g.ExclusionHits("A quiet Romance by the lamp"), []string{"romance"})
	tester.True(t, g.ExclusionHits("Ada trims the wick") == nil, "no hits expected")
}

func TestFallbackPersonaCarriesDeflectionAndExclusions(t *testing.T) {
	seed := CharacterSeed{Name: "Ada", Description: "The lighthouse keeper."}
	g := GuardrailSet{Exclusions: []string{"romance"}}

	p := FallbackPersona(seed, g)
	tester.True(t, strings.Contains(p.SystemPrompt, "Ada"), "name in prompt")
	tester.True(t, strings.Contains(p.SystemPrompt, "romance"), "exclusions in prompt")
	tester.True(t, strings.Contains(p.SystemPrompt, "deflect in character"), "deflection rule in prompt")
	tester.Eq(t, p.Secrets, []string{})
	tester.Eq(t, p.Goals, []string{})
}
