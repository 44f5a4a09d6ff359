package artifact

import (
	"fmt"
	"strings"
)

// VoiceProfile describes how a character speaks in chat.
type VoiceProfile struct {
	Style      string `json:"style" prompt_desc:"speech style, e.g. clipped, florid, deadpan"`
	Vocabulary string `json:"vocabulary" prompt_desc:"register and word choice"`
	Quirks     string `json:"quirks,omitempty" prompt:"optional" prompt_desc:"verbal tics, if the text shows any"`
}

// PersonaOut is the per-character stage 5 generation result. The system
// prompt must embed the guardrail knowledge boundary and the mandatory
// in-character deflection rule.
type PersonaOut struct {
	SystemPrompt string       `json:"system_prompt" prompt_desc:"complete chat system prompt for this character"`
	Secrets      []string     `json:"secrets" prompt_desc:"things the character knows but hides, from the text only"`
	Goals        []string     `json:"goals" prompt_desc:"what the character wants, from the text only"`
	Voice        VoiceProfile `json:"voice" prompt_desc:"speech profile"`
}

// FallbackPersona builds a safe structural default when persona generation
// or parsing fails. The deflection rule is mandatory even on fallback.
func FallbackPersona(c CharacterSeed, g GuardrailSet) PersonaOut {
	g = g.Normalized()
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s\n", c.Name, strings.TrimSpace(c.Description))
	b.WriteString("Speak only from the events of this story. ")
	b.WriteString(g.GroundingStatement)
	b.WriteString("\n")
	if len(g.Exclusions) > 0 {
		fmt.Fprintf(&b, "You know nothing about: %s.\n", strings.Join(g.Exclusions, "; "))
	}
	b.WriteString(DeflectionRule)
	return PersonaOut{
		SystemPrompt: b.String(),
		Secrets:      []string{},
		Goals:        []string{},
		Voice:        VoiceProfile{Style: "plain", Vocabulary: "everyday"},
	}
}

// DeflectionRule is the mandatory behavior when a chat wanders outside the
// grounding set: refuse in character, never invent.
const DeflectionRule = "If asked about anything outside this story, deflect in character " +
	"(for example: \"That's not something I can speak to.\") instead of inventing an answer."
