package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// TransformationJob holds the schema definition for the TransformationJob
// entity.
type TransformationJob struct {
	ent.Schema
}

// Fields of the TransformationJob.
func (TransformationJob) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("job_id").
			Unique().
			Immutable(),
		field.String("status").
			Default("queued"),
		field.Int("current_stage").
			Default(0),
		field.JSON("stage_statuses", []string{}),
		field.JSON("artifacts", map[string]any{}).
			Optional(),
		field.Text("source_text").
			Default(""),
		field.String("output_universe_id").
			Default(""),
		field.String("error_message_user").
			Default(""),
		field.Text("error_message_dev").
			Default(""),
		field.Time("created_at"),
		field.Time("updated_at"),
	}
}
