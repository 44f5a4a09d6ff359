package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"storyforge/internal/bible"
	"storyforge/internal/universe"
)

// PromptHandler serves the prompt-composition and continuity endpoints.
// Bibles travel in the request; only universes and cards are server state.
type PromptHandler struct {
	universes *universe.Store
}

func NewPromptHandler(universes *universe.Store) *PromptHandler {
	return &PromptHandler{universes: universes}
}

func (h *PromptHandler) findCard(r *http.Request, universeID, cardID string) (universe.Card, bool) {
	rec, ok := h.universes.Get(r.Context(), universeID)
	if !ok {
		return universe.Card{}, false
	}
	for _, c := range rec.Cards {
		if c.ID == cardID {
			return c, true
		}
	}
	return universe.Card{}, false
}

type composeRequest struct {
	UniverseID        string             `json:"universe_id"`
	CardID            string             `json:"card_id"`
	Bible             bible.ProjectBible `json:"bible"`
	CharactersInScene []string           `json:"characters_in_scene,omitempty"`
}

func (h *PromptHandler) HandleCompose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	card, ok := h.findCard(r, req.UniverseID, req.CardID)
	if !ok {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	writeJSON(w, http.StatusOK, bible.Compose(req.Bible, card, req.CharactersInScene))
}

type visualRequest struct {
	UniverseID     string            `json:"universe_id"`
	CardID         string            `json:"card_id"`
	Guide          bible.DesignGuide `json:"guide"`
	CharacterNotes []string          `json:"character_notes,omitempty"`
}

func (h *PromptHandler) HandleVisual(w http.ResponseWriter, r *http.Request) {
	var req visualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	card, ok := h.findCard(r, req.UniverseID, req.CardID)
	if !ok {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	writeJSON(w, http.StatusOK, bible.BuildVisualPrompt(req.Guide, card, req.CharacterNotes))
}

type continuityRequest struct {
	UniverseID        string              `json:"universe_id"`
	CardID            string              `json:"card_id"`
	Bible             *bible.ProjectBible `json:"bible,omitempty"`
	AssetBibleVersion string              `json:"asset_bible_version,omitempty"`
}

// HandleContinuity runs the advisory continuity rules plus the guardrail
// exclusion scan against one card.
func (h *PromptHandler) HandleContinuity(w http.ResponseWriter, r *http.Request) {
	var req continuityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rec, ok := h.universes.Get(r.Context(), strings.TrimSpace(req.UniverseID))
	if !ok {
		writeError(w, http.StatusNotFound, "universe not found")
		return
	}
	var card universe.Card
	found := false
	for _, c := range rec.Cards {
		if c.ID == req.CardID {
			card, found = c, true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	report := bible.Check(req.Bible, card, req.AssetBibleVersion)
	report.Warnings = append(report.Warnings, bible.CheckExclusions(rec.Universe.Guardrails, card)...)
	writeJSON(w, http.StatusOK, report)
}
