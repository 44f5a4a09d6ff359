package jsonutil

import (
	"encoding/json"
	"testing"

	"storyforge/internal/tester"
)

type payload struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestUnmarshalRawDirect(t *testing.T) {
	var p payload
	err := UnmarshalRaw(json.RawMessage(`{"title":"The Last Light","tags":["quiet"]}`), &p)
	tester.NoErr(t, err)
	tester.Eq(t, p.Title, "The Last Light")
	tester.Eq(t, p.Tags, []string{"quiet"})
}

func TestUnmarshalFlexUnwrapsQuotedPayload(t *testing.T) {
	// Some model responses arrive as a JSON string containing JSON.
	raw := []byte(`"{\"title\": \"The Last Light\", \"tags\": []}"`)
	var p payload
	err := UnmarshalFlex(raw, &p)
	tester.NoErr(t, err)
	tester.Eq(t, p.Title, "The Last Light")
}

func TestUnmarshalFlexRejectsGarbage(t *testing.T) {
	var p payload
	err := UnmarshalFlex([]byte("not json at all"), &p)
	tester.True(t, err != nil, "expected parse error")
}

func TestMarshalNoEscapeKeepsAngleBrackets(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"k": "a <b> & c"})
	tester.NoErr(t, err)
	tester.Eq(t, string(b), `{"k":"a <b> & c"}`)
}
