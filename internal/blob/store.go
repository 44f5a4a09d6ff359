package blob

import "context"

// Store archives per-job blobs: the raw source text and each stage's
// artifact snapshot, keyed by job id and a short name.
type Store interface {
	Put(ctx context.Context, jobID, name string, content []byte) error
	Get(ctx context.Context, jobID, name string) ([]byte, error)
	List(ctx context.Context, jobID string) ([]string, error)
}
