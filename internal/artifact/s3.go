package artifact

// CharacterSeed is an extracted character, before persona generation.
type CharacterSeed struct {
	Name          string   `json:"name" prompt_desc:"character name as written in the text"`
	Role          string   `json:"role" prompt_desc:"narrative role: protagonist, antagonist, supporting, etc."`
	Description   string   `json:"description" prompt_desc:"who they are, grounded in the text"`
	Traits        []string `json:"traits" prompt_desc:"traits evidenced by the text"`
	Relationships []string `json:"relationships,omitempty" prompt:"optional" prompt_desc:"relationships to other named characters"`
}

// LocationSeed is an extracted location.
type LocationSeed struct {
	Name        string `json:"name" prompt_desc:"location name as written in the text"`
	Description string `json:"description" prompt_desc:"what the text says about this place"`
	Mood        string `json:"mood,omitempty" prompt:"optional" prompt_desc:"atmosphere of the place per the text"`
}

// WorldOut is the stage 3 artifact: entities and world rules.
type WorldOut struct {
	Characters []CharacterSeed `json:"characters" prompt_desc:"named characters found in the text"`
	Locations  []LocationSeed  `json:"locations" prompt_desc:"named or clearly described places"`
	WorldRules []string        `json:"world_rules" prompt_desc:"rules of the world the text establishes"`
	Era        string          `json:"era,omitempty" prompt:"optional" prompt_desc:"time period, if stated"`
}
