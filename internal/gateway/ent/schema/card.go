package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Card holds the schema definition for the Card entity.
type Card struct {
	ent.Schema
}

// Fields of the Card.
func (Card) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("card_id").
			Unique().
			Immutable(),
		field.String("universe_id"),
		field.Int("day_index"),
		field.String("title").
			Default(""),
		field.Text("scene_text").
			Default(""),
		field.Text("captions_json").
			Default(""),
		field.JSON("image_generation", map[string]any{}).
			Optional(),
		field.Time("publish_at"),
		field.String("bible_version_id").
			Default(""),
	}
}

// Edges of the Card.
func (Card) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("universe", Universe.Type).
			Ref("cards").
			Unique(),
	}
}

// Indexes of the Card. day_index is unique per universe.
func (Card) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("universe_id", "day_index").
			Unique(),
	}
}
