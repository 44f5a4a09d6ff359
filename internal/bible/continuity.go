package bible

import (
	"fmt"
	"strings"

	"storyforge/internal/artifact"
	"storyforge/internal/universe"
)

// Warning severities. No rule currently produces "error": the checker
// surfaces drift for a human or a later stage to act on, it does not block.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

const (
	WarnNoBible          = "no_bible"
	WarnStaleVersion     = "stale_bible_version"
	WarnUnknownCharacter = "unknown_character"
	WarnExcludedTopic    = "excluded_topic"
)

type Warning struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

type Report struct {
	IsValid           bool      `json:"is_valid"`
	Warnings          []Warning `json:"warnings"`
	UnknownCharacters []string  `json:"unknown_characters"`
	Suggestions       []string  `json:"suggestions"`
}

// Generic story-structure words and pronouns that start sentences; a
// capitalized token matching these is never a character candidate.
var stopWords = map[string]struct{}{
	"The": {}, "A": {}, "An": {}, "And": {}, "But": {}, "Or": {}, "So": {},
	"He": {}, "She": {}, "They": {}, "It": {}, "We": {}, "You": {}, "I": {},
	"His": {}, "Her": {}, "Their": {}, "Its": {}, "Our": {}, "Your": {}, "My": {},
	"This": {}, "That": {}, "These": {}, "Those": {}, "There": {}, "Then": {},
	"When": {}, "Where": {}, "While": {}, "What": {}, "Who": {}, "Why": {}, "How": {},
	"After": {}, "Before": {}, "During": {}, "At": {}, "In": {}, "On": {}, "As": {},
	"If": {}, "Not": {}, "No": {}, "Yes": {}, "Now": {}, "Here": {}, "With": {},
	"Chapter": {}, "Scene": {}, "Act": {}, "Part": {}, "Day": {}, "Night": {},
	"Meanwhile": {}, "Later": {}, "Suddenly": {}, "Finally": {}, "Once": {},
}

// Check evaluates the advisory continuity rules independently; any rule can
// fire regardless of the others. assetBibleVersion is the version the
// card's existing media was generated against; empty means no asset yet.
func Check(b *ProjectBible, card universe.Card, assetBibleVersion string) Report {
	report := Report{IsValid: true}

	if b == nil {
		report.Warnings = append(report.Warnings, Warning{
			Type:       WarnNoBible,
			Severity:   SeverityInfo,
			Message:    "No project bible exists for this universe yet.",
			Suggestion: "Generate a project bible to enable continuity checks.",
		})
		return report
	}

	if v := strings.TrimSpace(assetBibleVersion); v != "" && v != b.VersionID {
		report.Warnings = append(report.Warnings, Warning{
			Type:     WarnStaleVersion,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Card media was generated against bible version %s; current version is %s.",
				v, b.VersionID),
			Suggestion: "Regenerate the card's media against the current bible.",
		})
	}

	known := knownNames(b)
	for _, candidate := range candidateNames(card.Title + " " + card.SceneText) {
		if _, ok := known[strings.ToLower(candidate)]; ok {
			continue
		}
		report.UnknownCharacters = append(report.UnknownCharacters, candidate)
		report.Warnings = append(report.Warnings, Warning{
			Type:       WarnUnknownCharacter,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("%q appears in the card but is not in the bible's character list.", candidate),
			Suggestion: fmt.Sprintf("Add %q to the project bible if this is a character.", candidate),
		})
		report.Suggestions = append(report.Suggestions, fmt.Sprintf("Add %q to the bible", candidate))
	}

	for _, w := range report.Warnings {
		if w.Severity == SeverityError {
			report.IsValid = false
			break
		}
	}
	return report
}

// CheckExclusions flags card content that literally contains a topic the
// guardrail set excludes. Advisory, like the other rules.
func CheckExclusions(g artifact.GuardrailSet, card universe.Card) []Warning {
	var out []Warning
	for _, hit := range g.ExclusionHits(card.Title + " " + card.SceneText) {
		out = append(out, Warning{
			Type:       WarnExcludedTopic,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("Card content mentions %q, which the guardrails exclude.", hit),
			Suggestion: "Rewrite the card without the excluded topic.",
		})
	}
	return out
}

func knownNames(b *ProjectBible) map[string]struct{} {
	known := make(map[string]struct{})
	for _, entry := range b.Characters {
		for _, name := range append([]string{entry.Name}, entry.Aliases...) {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			known[strings.ToLower(name)] = struct{}{}
			// Multi-word names also register each part, so "Ada Voss"
			// covers a card that says just "Voss".
			for _, part := range strings.Fields(name) {
				known[strings.ToLower(part)] = struct{}{}
			}
		}
	}
	return known
}

// candidateNames scans for capitalized multi-letter tokens that survive the
// stop-word filter. A heuristic: it will both over- and under-report, which
// is why every hit is advisory.
func candidateNames(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range strings.Fields(text) {
		tok := strings.Trim(raw, ".,;:!?\"'()[]“”‘’")
		if len(tok) < 2 {
			continue
		}
		first := rune(tok[0])
		if first < 'A' || first > 'Z' {
			continue
		}
		if !isWordToken(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

func isWordToken(tok string) bool {
	for _, r := range tok {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r == '-' || r == '\'') {
			return false
		}
	}
	return true
}
