package bible

import (
	"strings"

	"storyforge/internal/universe"
)

// negativeBaseline always rides along with any composed prompt: generated
// frames must never contain embedded text or branding.
var negativeBaseline = []string{"on-screen text", "watermark", "logo", "caption overlay"}

// Composed is the full hand-off payload for the external image/video
// collaborator. LockedConstraints stay out of FullPrompt on purpose.
type Composed struct {
	FullPrompt            string   `json:"full_prompt"`
	NegativePrompt        string   `json:"negative_prompt"`
	CharacterDescriptions []string `json:"character_descriptions"`
	WorldContext          string   `json:"world_context"`
	StyleDirectives       string   `json:"style_directives"`
	LockedConstraints     []string `json:"locked_constraints"`
	BibleVersionID        string   `json:"bible_version_id"`
}

// Compose builds a grounded generation prompt from the bible, the card, and
// the characters in scene. Pure function: identical inputs yield identical
// output. Precedence is fixed: style, world, characters, card content.
func Compose(b ProjectBible, card universe.Card, charactersInScene []string) Composed {
	out := Composed{BibleVersionID: b.VersionID}

	var styleParts []string
	appendNonEmpty(&styleParts, b.Style.ArtDirection)
	appendNonEmpty(&styleParts, b.Style.Palette)
	appendNonEmpty(&styleParts, b.Style.Medium)
	out.StyleDirectives = strings.Join(styleParts, ". ")

	var worldParts []string
	appendNonEmpty(&worldParts, b.World.Setting)
	appendNonEmpty(&worldParts, b.World.VisualLanguage)
	appendNonEmpty(&worldParts, b.World.Tone)
	appendNonEmpty(&worldParts, b.World.Era)
	out.WorldContext = strings.Join(worldParts, ". ")

	for _, entry := range b.Characters {
		if !characterInCard(entry, card, charactersInScene) {
			continue
		}
		var desc []string
		appendNonEmpty(&desc, entry.Physical)
		appendNonEmpty(&desc, entry.Wardrobe)
		if len(desc) > 0 {
			out.CharacterDescriptions = append(out.CharacterDescriptions, entry.Name+": "+strings.Join(desc, ". "))
		}
		for _, lt := range entry.LockedTraits {
			lt = strings.TrimSpace(lt)
			if lt != "" {
				out.LockedConstraints = append(out.LockedConstraints, entry.Name+": "+lt)
			}
		}
	}

	var sections []string
	appendNonEmpty(&sections, out.StyleDirectives)
	appendNonEmpty(&sections, out.WorldContext)
	sections = append(sections, out.CharacterDescriptions...)
	appendNonEmpty(&sections, strings.TrimSpace(card.ImageGeneration.Prompt))
	appendNonEmpty(&sections, strings.TrimSpace(card.SceneText))
	out.FullPrompt = strings.Join(sections, "\n")

	out.NegativePrompt = joinNegatives(b.Style.Negative, negativeBaseline)
	return out
}

// characterInCard matches a bible entry either by the explicit scene list or
// by case-insensitive substring presence in the card's title/content.
func characterInCard(entry CharacterBibleEntry, card universe.Card, charactersInScene []string) bool {
	names := append([]string{entry.Name}, entry.Aliases...)
	for _, listed := range charactersInScene {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(listed), strings.TrimSpace(name)) {
				return true
			}
		}
	}
	haystack := strings.ToLower(card.Title + " " + card.SceneText)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" && strings.Contains(haystack, name) {
			return true
		}
	}
	return false
}

// joinNegatives deduplicates all negative fragments (case-insensitively)
// before joining. The result is never empty.
func joinNegatives(groups ...[]string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, frag := range group {
			frag = strings.TrimSpace(frag)
			if frag == "" {
				continue
			}
			key := strings.ToLower(frag)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, frag)
		}
	}
	if len(out) == 0 {
		out = append(out, negativeBaseline...)
	}
	return strings.Join(out, ", ")
}

func appendNonEmpty(parts *[]string, s string) {
	if strings.TrimSpace(s) != "" {
		*parts = append(*parts, strings.TrimSpace(s))
	}
}
