package bible

import (
	"strings"

	"storyforge/internal/universe"
)

// VisualPrompt is the lower-level composition result for universes that
// carry only a DesignGuide, no bible.
type VisualPrompt struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
}

// BuildVisualPrompt layers the same precedence order as Compose, against
// the simpler guide: universe style first, card scene next, character
// visual notes next, reference-asset notes last. Negative assembly is
// always last and always non-empty.
func BuildVisualPrompt(guide DesignGuide, card universe.Card, characterNotes []string) VisualPrompt {
	var sections []string
	appendNonEmpty(&sections, guide.StyleSummary)
	appendNonEmpty(&sections, guide.Palette)
	appendNonEmpty(&sections, guide.CameraDefaults)
	appendNonEmpty(&sections, strings.TrimSpace(card.ImageGeneration.Prompt))
	appendNonEmpty(&sections, cameraFragment(card.ImageGeneration.ShotType, card.ImageGeneration.Lighting))
	appendNonEmpty(&sections, strings.TrimSpace(card.SceneText))
	for _, note := range characterNotes {
		appendNonEmpty(&sections, note)
	}
	for _, note := range guide.ReferenceNotes {
		appendNonEmpty(&sections, note)
	}
	return VisualPrompt{
		Prompt:         strings.Join(sections, "\n"),
		NegativePrompt: joinNegatives(guide.NegativeBaseline, negativeBaseline),
	}
}

// cameraFragment renders whichever camera fields are set. A missing field
// never leaves a dangling "shot," or trailing comma behind.
func cameraFragment(shot, lighting string) string {
	shot = strings.TrimSpace(shot)
	lighting = strings.TrimSpace(lighting)
	switch {
	case shot != "" && lighting != "":
		return shot + " shot, " + lighting
	case shot != "":
		return shot + " shot"
	default:
		return lighting
	}
}
