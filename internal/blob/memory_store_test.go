package blob

import (
	"context"
	"testing"

	"storyforge/internal/tester"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	tester.NoErr(t, s.Put(ctx, "job-1", "source.txt", []byte("the source")))
	tester.NoErr(t, s.Put(ctx, "job-1", "classify.json", []byte(`{}`)))
	tester.NoErr(t, s.Put(ctx, "job-2", "source.txt", []byte("other")))

	b, err := s.Get(ctx, "job-1", "source.txt")
	tester.NoErr(t, err)
	tester.Eq(t, string(b), "the source")

	names, err := s.List(ctx, "job-1")
	tester.NoErr(t, err)
	tester.Eq(t, names, []string{"classify.json", "source.txt"})

	_, err = s.Get(ctx, "job-1", "missing.json")
	tester.True(t, err != nil, "missing blob must error")
}

func TestMemoryStoreRequiresKeys(t *testing.T) {
	s := NewMemoryStore()
	err := s.Put(context.Background(), "", "name", nil)
	tester.True(t, err != nil, "empty job id rejected")
	err = s.Put(context.Background(), "job-1", " ", nil)
	tester.True(t, err != nil, "empty name rejected")
}

func TestMemoryStoreCopiesContent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("abc")
	tester.NoErr(t, s.Put(ctx, "job-1", "a", buf))
	buf[0] = 'z'

	got, err := s.Get(ctx, "job-1", "a")
	tester.NoErr(t, err)
	tester.Eq(t, string(got), "abc")
}
