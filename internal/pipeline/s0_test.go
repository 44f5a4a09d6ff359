package pipeline

import (
	"context"
	"strings"
	"testing"

	"storyforge/internal/artifact"
	"storyforge/internal/tester"
)

func TestS0ClassifiesScript(t *testing.T) {
	raw := "INT. LIGHTHOUSE - NIGHT\n\nAda climbs the stairs.\n\nEXT. LANDING - DAY\n\nTomas ties up the boat.\n"
	out, err := S0{}.Run(context.Background(), raw)
	tester.NoErr(t, err)
	tester.Eq(t, out.SourceType, artifact.SourceScript)
	tester.Eq(t, out.OutlineCount, 2)
}

func TestS0ClassifiesTranscript(t *testing.T) {
	raw := "HOST: Welcome back.\nGUEST: Thanks for having me.\nHOST: Tell us about the storm.\nGUEST: It lasted one night.\n"
	out, err := S0{}.Run(context.Background(), raw)
	tester.NoErr(t, err)
	tester.Eq(t, out.SourceType, artifact.SourceTranscript)
	tester.Eq(t, out.OutlineCount, 4)
}

func TestS0ClassifiesChapteredArticle(t *testing.T) {
	raw := "Chapter 1\n\nThe keeper arrives.\n\nChapter 2\n\nThe storm hits.\n"
	out, err := S0{}.Run(context.Background(), raw)
	tester.NoErr(t, err)
	tester.Eq(t, out.SourceType, artifact.SourceArticle)
	tester.Eq(t, out.OutlineCount, 2)
}

func TestS0DefaultsToArticleWithLineCount(t *testing.T) {
	// Plain prose with no structural markers falls back to article, with
	// the outline count equal to the non-empty line count.
	var b strings.Builder
	for i := 0; i < 25; i++ {
		b.WriteString("The sea was flat and grey that morning.\n")
	}
	out, err := S0{}.Run(context.Background(), b.String())
	tester.NoErr(t, err)
	tester.Eq(t, out.SourceType, artifact.SourceArticle)
	tester.Eq(t, out.OutlineCount, 25)
}

func TestS0RejectsEmptySource(t *testing.T) {
	_, err := S0{}.Run(context.Background(), "   \n\n\t\n")
	tester.True(t, err != nil, "expected error for empty source")
}

func TestS0NormalizesText(t *testing.T) {
	raw := "line one  \r\n\r\n\r\n\r\nline two\t\n"
	out, err := S0{}.Run(context.Background(), raw)
	tester.NoErr(t, err)
	tester.Eq(t, out.NormalizedText, "line one\n\nline two")
}
