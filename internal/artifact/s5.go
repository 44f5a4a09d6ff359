package artifact

// MaterializeOut is the stage 5 artifact: identifiers of everything the
// materializer persisted, kept on the job for audit.
type MaterializeOut struct {
	UniverseID   string   `json:"universe_id"`
	CharacterIDs []string `json:"character_ids"`
	LocationIDs  []string `json:"location_ids"`
	CardIDs      []string `json:"card_ids"`
	HookPack     int      `json:"hook_pack"`
}
