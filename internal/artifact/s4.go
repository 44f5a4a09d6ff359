package artifact

// ImagePlan is the visual brief attached to a card, consumed later by the
// prompt composer.
type ImagePlan struct {
	Prompt   string `json:"prompt" prompt_desc:"what the image should show, grounded in the scene"`
	ShotType string `json:"shot_type" prompt_desc:"wide, medium, close-up, etc."`
	Lighting string `json:"lighting" prompt_desc:"lighting direction for the shot"`
}

// CardPlan is one discrete playable moment in the ordered release plan.
type CardPlan struct {
	DayIndex   int       `json:"day_index" prompt_desc:"release order, starting at 0"`
	Title      string    `json:"title" prompt_desc:"short card title"`
	SceneText  string    `json:"scene_text" prompt_desc:"the playable moment, written from source material only"`
	Captions   []string  `json:"captions" prompt_desc:"one to three short captions"`
	Characters []string  `json:"characters" prompt_desc:"names of characters present in this moment"`
	Location   string    `json:"location,omitempty" prompt:"optional" prompt_desc:"where the moment takes place"`
	Image      ImagePlan `json:"image" prompt_desc:"visual brief for the card"`
}

// PlanOut is the stage 4 artifact: the ordered card plan.
type PlanOut struct {
	Cards []CardPlan `json:"cards" prompt_desc:"ordered playable moments covering the narrative"`
}
