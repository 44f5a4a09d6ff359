package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Universe holds the schema definition for the Universe entity.
type Universe struct {
	ent.Schema
}

// Fields of the Universe.
func (Universe) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("universe_id").
			Unique().
			Immutable(),
		field.String("title").
			Default("Untitled Universe"),
		field.String("theme").
			Default(""),
		field.JSON("tone_tags", []string{}).
			Optional(),
		field.String("genre").
			Default(""),
		field.String("audience").
			Default(""),
		field.Text("logline").
			Default(""),
		field.String("source_type").
			Default("article"),
		field.JSON("guardrails", map[string]any{}).
			Optional(),
		field.Time("created_at"),
	}
}

// Edges of the Universe.
func (Universe) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("characters", Character.Type),
		edge.To("locations", Location.Type),
		edge.To("cards", Card.Type),
	}
}
