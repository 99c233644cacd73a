package llm

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
)

type stubEmbedder struct {
	calls [][]string
	fail  bool
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, texts)
	if s.fail {
		return nil, errors.New("model offline")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i]))}
	}
	return out, nil
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

type mapCache struct {
	entries map[string][]float32
	getErr  error
}

func (m *mapCache) Get(_ context.Context, text string) ([]float32, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.entries[text]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, text string, vector []float32) error {
	m.entries[text] = vector
	return nil
}

func TestEmbedOnlyCallsInnerForMisses(t *testing.T) {
	inner := &stubEmbedder{}
	cache := &mapCache{entries: map[string][]float32{"cached": {9}}}
	embedder := NewCachedEmbedder(inner, cache, slog.Default())

	got, err := embedder.Embed(context.Background(), []string{"cached", "fresh"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if !reflect.DeepEqual(got[0], []float32{9}) {
		t.Fatalf("expected cached vector, got %v", got[0])
	}
	if len(inner.calls) != 1 || !reflect.DeepEqual(inner.calls[0], []string{"fresh"}) {
		t.Fatalf("expected inner called only for miss, got %v", inner.calls)
	}
	if _, ok := cache.entries["fresh"]; !ok {
		t.Fatalf("expected miss written back to cache")
	}
}

func TestEmbedSkipsInnerWhenAllCached(t *testing.T) {
	inner := &stubEmbedder{fail: true}
	cache := &mapCache{entries: map[string][]float32{"a": {1}, "b": {2}}}
	embedder := NewCachedEmbedder(inner, cache, slog.Default())

	got, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(got) != 2 || len(inner.calls) != 0 {
		t.Fatalf("expected full cache hit without inner call")
	}
}

func TestEmbedTreatsCacheErrorAsMiss(t *testing.T) {
	inner := &stubEmbedder{}
	cache := &mapCache{entries: map[string][]float32{}, getErr: errors.New("redis down")}
	embedder := NewCachedEmbedder(inner, cache, slog.Default())

	got, err := embedder.Embed(context.Background(), []string{"q"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(got) != 1 || len(inner.calls) != 1 {
		t.Fatalf("expected fall-through to inner on cache error")
	}
}

func TestEmbedQueryPropagatesInnerError(t *testing.T) {
	inner := &stubEmbedder{fail: true}
	cache := &mapCache{entries: map[string][]float32{}}
	embedder := NewCachedEmbedder(inner, cache, slog.Default())

	if _, err := embedder.EmbedQuery(context.Background(), "q"); err == nil {
		t.Fatalf("expected error from inner embedder")
	}
}
