package bible

// ProjectBible is the versioned, independently maintained rule set used for
// long-term visual and persona consistency. Media generated against an
// older VersionID is flagged stale by the continuity checker.
type ProjectBible struct {
	VersionID  string                `json:"version_id"`
	Style      StyleBible            `json:"style"`
	World      WorldBible            `json:"world"`
	Characters []CharacterBibleEntry `json:"characters"`
}

// StyleBible holds global visual directives applied before anything else.
type StyleBible struct {
	ArtDirection string   `json:"art_direction"`
	Palette      string   `json:"palette"`
	Medium       string   `json:"medium"`
	Negative     []string `json:"negative,omitempty"`
}

// WorldBible holds setting-level context layered after style.
type WorldBible struct {
	Setting        string `json:"setting"`
	VisualLanguage string `json:"visual_language"`
	Tone           string `json:"tone"`
	Era            string `json:"era,omitempty"`
}

// CharacterBibleEntry describes one character's visual contract. Locked
// traits are consistency invariants a downstream image model must be told
// never to vary, so they are surfaced separately from free prompt text.
type CharacterBibleEntry struct {
	Name         string   `json:"name"`
	Aliases      []string `json:"aliases,omitempty"`
	Physical     string   `json:"physical"`
	Wardrobe     string   `json:"wardrobe"`
	LockedTraits []string `json:"locked_traits,omitempty"`
}

// DesignGuide is the simpler per-universe style contract used by
// experiences that predate bible support.
type DesignGuide struct {
	StyleSummary     string   `json:"style_summary"`
	Palette          string   `json:"palette"`
	CameraDefaults   string   `json:"camera_defaults,omitempty"`
	NegativeBaseline []string `json:"negative_baseline,omitempty"`
	ReferenceNotes   []string `json:"reference_notes,omitempty"`
}
