package artifact

// IdentityOut is the stage 2 artifact: the universe identity plus the
// guardrail set. Guardrails come from a second, extraction-only call and are
// attached here rather than asked for in the identity request.
type IdentityOut struct {
	Title      string       `json:"title" prompt_desc:"working title for the story universe, taken or derived from the text"`
	Theme      string       `json:"theme" prompt_desc:"the central theme"`
	ToneTags   []string     `json:"tone_tags" prompt_desc:"three to six short tone descriptors"`
	Genre      string       `json:"genre" prompt_desc:"primary genre"`
	Audience   string       `json:"audience" prompt_desc:"intended audience"`
	Logline    string       `json:"logline,omitempty" prompt:"optional" prompt_desc:"one-sentence pitch"`
	Guardrails GuardrailSet `json:"guardrails" prompt:"-"`
}
