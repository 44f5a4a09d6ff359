package artifact

// SourceType is the detected shape of the raw narrative input.
type SourceType string

const (
	SourceScript     SourceType = "script"
	SourceTranscript SourceType = "transcript"
	SourceArticle    SourceType = "article"
)

// ClassifyOut is the stage 0 artifact. Stage 0 is pure text heuristics and
// never calls the generation client, so this artifact is the cheapest to
// recompute on retry.
type ClassifyOut struct {
	SourceType     SourceType `json:"source_type"`
	NormalizedText string     `json:"normalized_text"`
	OutlineCount   int        `json:"outline_count"`
}
