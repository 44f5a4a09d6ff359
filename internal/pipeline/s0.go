package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"storyforge/internal/artifact"
)

// S0 classifies and normalizes the raw source text. Pure heuristics, no
// generation call, so it is the cheapest stage to retry.
type S0 struct{}

var (
	sceneHeadingRe = regexp.MustCompile(`(?m)^\s*(INT\.|EXT\.|INT/EXT\.?|I/E\.|SCENE\b)`)
	chapterRe      = regexp.MustCompile(`(?mi)^\s*(chapter\s+\d+|chapter\s+[ivxlc]+|part\s+\d+|#{1,3}\s+\S)`)
	speakerLabelRe = regexp.MustCompile(`(?m)^\s*[A-Z][A-Za-z .'-]{1,40}:\s`)
)

func (S0) Run(_ context.Context, raw string) (artifact.ClassifyOut, error) {
	normalized := normalizeText(raw)
	if normalized == "" {
		return artifact.ClassifyOut{}, fmt.Errorf("s0: source text is empty")
	}

	lines := strings.Split(normalized, "\n")
	nonEmpty := 0
	for _, ln := range lines {
		if strings.TrimSpace(ln) != "" {
			nonEmpty++
		}
	}

	sceneCount := len(sceneHeadingRe.FindAllString(normalized, -1))
	chapterCount := len(chapterRe.FindAllString(normalized, -1))
	speakerCount := len(speakerLabelRe.FindAllString(normalized, -1))

	out := artifact.ClassifyOut{NormalizedText: normalized}
	switch {
	case sceneCount > 0:
		out.SourceType = artifact.SourceScript
		out.OutlineCount = sceneCount
	// A handful of "Name:" lines is normal prose punctuation; a transcript
	// is mostly speaker turns.
	case speakerCount >= 3 && speakerCount*2 >= nonEmpty:
		out.SourceType = artifact.SourceTranscript
		out.OutlineCount = speakerCount
	case chapterCount > 0:
		out.SourceType = artifact.SourceArticle
		out.OutlineCount = chapterCount
	default:
		out.SourceType = artifact.SourceArticle
		out.OutlineCount = nonEmpty
	}
	return out, nil
}

// normalizeText unifies line endings, strips trailing whitespace per line,
// and collapses runs of blank lines.
func normalizeText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")
	var out []string
	blanks := 0
	for _, ln := range lines {
		ln = strings.TrimRight(ln, " \t")
		if strings.TrimSpace(ln) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0
		out = append(out, ln)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// excerpt bounds the text sent with a generation request so a long source
// cannot blow the request size limit.
const maxExcerptChars = 24000

func excerpt(text string) string {
	if len(text) <= maxExcerptChars {
		return text
	}
	return text[:maxExcerptChars]
}
