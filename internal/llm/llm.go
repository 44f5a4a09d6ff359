package llm

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// LLMClient is the generation client contract used by every pipeline stage:
// structured prompt in, JSON text out, error on transport or quota failure.
// Clients are constructed explicitly and injected so pipelines can run
// against a fake.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}
