package bible

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyforge/internal/artifact"
	"storyforge/internal/universe"
)

func testBible() ProjectBible {
	return ProjectBible{
		VersionID: "v2",
		Style: StyleBible{
			ArtDirection: "muted watercolor",
			Palette:      "slate blue and storm grey",
			Medium:       "digital painting",
			Negative:     []string{"photorealism", "Watermark"},
		},
		World: WorldBible{
			Setting:        "a lighthouse on a rocky island",
			VisualLanguage: "long shadows, wet stone",
			Tone:           "quiet and tense",
			Era:            "1920s",
		},
		Characters: []CharacterBibleEntry{
			{
				Name:         "Ada",
				Aliases:      []string{"the keeper"},
				Physical:     "weathered face, grey braid",
				Wardrobe:     "oilskin coat",
				LockedTraits: []string{"always wears the brass whistle"},
			},
			{
				Name:     "Tomas",
				Physical: "broad shoulders, sun-bleached cap",
				Wardrobe: "fisherman's sweater",
			},
		},
	}
}

func testCard() universe.Card {
	return universe.Card{
		ID:         "card-1",
		UniverseID: "u-1",
		DayIndex:   2,
		Title:      "The lamp fails",
		SceneText:  "Ada fights the wind on the gallery as the light gutters out.",
		ImageGeneration: artifact.ImagePlan{
			Prompt:   "a dark lamp room in a storm",
			ShotType: "close-up",
			Lighting: "lightning",
		},
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	b, card := testBible(), testCard()
	first := Compose(b, card, []string{"Ada"})
	second := Compose(b, card, []string{"Ada"})
	assert.Equal(t, first, second)
}

func TestComposePrecedenceOrder(t *testing.T) {
	out := Compose(testBible(), testCard(), []string{"Ada"})

	styleAt := strings.Index(out.FullPrompt, "muted watercolor")
	worldAt := strings.Index(out.FullPrompt, "a lighthouse on a rocky island")
	charAt := strings.Index(out.FullPrompt, "weathered face")
	cardAt := strings.Index(out.FullPrompt, "a dark lamp room")
	sceneAt := strings.Index(out.FullPrompt, "fights the wind")

	require.GreaterOrEqual(t, styleAt, 0)
	assert.Less(t, styleAt, worldAt)
	assert.Less(t, worldAt, charAt)
	assert.Less(t, charAt, cardAt)
	assert.Less(t, cardAt, sceneAt)
}

func TestComposeSelectsCharactersInScene(t *testing.T) {
	out := Compose(testBible(), testCard(), nil)

	// Ada is named in the scene text; Tomas is not and was not listed.
	assert.Len(t, out.CharacterDescriptions, 1)
	assert.Contains(t, out.CharacterDescriptions[0], "Ada")
	assert.NotContains(t, out.FullPrompt, "fisherman's sweater")
}

func TestComposeMatchesAliases(t *testing.T) {
	card := testCard()
	card.SceneText = "The keeper climbs toward the dark lamp."
	out := Compose(testBible(), card, nil)

	require.Len(t, out.CharacterDescriptions, 1)
	assert.Contains(t, out.CharacterDescriptions[0], "Ada")
}

func TestComposeKeepsLockedConstraintsOutOfPrompt(t *testing.T) {
	out := Compose(testBible(), testCard(), []string{"Ada"})

	require.Len(t, out.LockedConstraints, 1)
	assert.Equal(t, "Ada: always wears the brass whistle", out.LockedConstraints[0])
	assert.NotContains(t, out.FullPrompt, "brass whistle")
}

func TestComposeNegativePromptDedupes(t *testing.T) {
	b := testBible()
	b.Style.Negative = append(b.Style.Negative, "watermark", "WATERMARK")
	out := Compose(b, testCard(), nil)

	assert.Equal(t, 1, strings.Count(strings.ToLower(out.NegativePrompt), "watermark"))
	assert.Contains(t, out.NegativePrompt, "on-screen text")
}

func TestComposeNegativePromptNeverEmpty(t *testing.T) {
	out := Compose(ProjectBible{}, universe.Card{}, nil)
	assert.NotEmpty(t, out.NegativePrompt)
}

func TestComposeCarriesBibleVersion(t *testing.T) {
	out := Compose(testBible(), testCard(), nil)
	assert.Equal(t, "v2", out.BibleVersionID)
}

func TestBuildVisualPromptLayersGuide(t *testing.T) {
	guide := DesignGuide{
		StyleSummary:   "ink wash, heavy grain",
		Palette:        "bone white and ink black",
		CameraDefaults: "35mm, eye level",
		ReferenceNotes: []string{"match the tower silhouette from card one"},
	}
	out := BuildVisualPrompt(guide, testCard(), []string{"Ada: grey braid"})

	styleAt := strings.Index(out.Prompt, "ink wash")
	cardAt := strings.Index(out.Prompt, "a dark lamp room")
	noteAt := strings.Index(out.Prompt, "grey braid")
	refAt := strings.Index(out.Prompt, "tower silhouette")

	require.GreaterOrEqual(t, styleAt, 0)
	assert.Less(t, styleAt, cardAt)
	assert.Less(t, cardAt, noteAt)
	assert.Less(t, noteAt, refAt)
	assert.NotEmpty(t, out.NegativePrompt)
}

func TestBuildVisualPromptCameraFragmentPerField(t *testing.T) {
	card := testCard()
	card.ImageGeneration.ShotType = ""
	card.ImageGeneration.Lighting = "lightning"
	out := BuildVisualPrompt(DesignGuide{}, card, nil)
	assert.Contains(t, out.Prompt, "lightning")
	assert.NotContains(t, out.Prompt, "shot")

	card.ImageGeneration.ShotType = "close-up"
	card.ImageGeneration.Lighting = ""
	out = BuildVisualPrompt(DesignGuide{}, card, nil)
	assert.Contains(t, out.Prompt, "close-up shot")
	assert.NotContains(t, out.Prompt, "close-up shot,")

	card.ImageGeneration.Lighting = "lightning"
	out = BuildVisualPrompt(DesignGuide{}, card, nil)
	assert.Contains(t, out.Prompt, "close-up shot, lightning")
}
