package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Location holds the schema definition for the Location entity.
type Location struct {
	ent.Schema
}

// Fields of the Location.
func (Location) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("location_id").
			Unique().
			Immutable(),
		field.String("name"),
		field.Text("description").
			Default(""),
		field.String("mood").
			Default(""),
	}
}

// Edges of the Location.
func (Location) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("universe", Universe.Type).
			Ref("locations").
			Unique(),
	}
}
