package artifact

// KeyBeat is one pivotal moment in the source, in source order.
type KeyBeat struct {
	Title       string `json:"title" prompt_desc:"short name for the beat"`
	Description string `json:"description" prompt_desc:"what happens, one or two sentences"`
	Position    string `json:"position" prompt_desc:"rough position in the narrative: early, middle, or late"`
}

// StructureOut is the stage 1 artifact: narrative structure, voice, and beats.
type StructureOut struct {
	Summary        string    `json:"summary" prompt_desc:"two to three sentence synopsis of the narrative arc"`
	NarrativeVoice string    `json:"narrative_voice" prompt_desc:"point of view and narration style observed in the text"`
	Acts           []string  `json:"acts" prompt_desc:"ordered structural segments (acts, chapters, or scenes) as short labels"`
	KeyBeats       []KeyBeat `json:"key_beats" prompt_desc:"pivotal moments in source order"`
	Pacing         string    `json:"pacing,omitempty" prompt:"optional" prompt_desc:"overall pacing: slow burn, steady, breakneck, etc."`
}
