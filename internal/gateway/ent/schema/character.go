package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Character holds the schema definition for the Character entity.
type Character struct {
	ent.Schema
}

// Fields of the Character.
func (Character) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("character_id").
			Unique().
			Immutable(),
		field.String("name"),
		field.String("role").
			Default("supporting"),
		field.Text("description").
			Default(""),
		field.Text("system_prompt").
			Default(""),
		field.Text("secrets_json").
			Default(""),
		field.Text("chat_profile_json").
			Default(""),
	}
}

// Edges of the Character.
func (Character) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("universe", Universe.Type).
			Ref("characters").
			Unique(),
	}
}
