package llm

import (
	"context"
	"log/slog"

	"github.com/scholara/answer-engine/internal/core/ports"
)

// CachedEmbedder wraps an embedder with a read-through vector cache. Cache
// failures are logged and ignored; the inner embedder remains the source of
// truth.
type CachedEmbedder struct {
	inner  ports.Embedder
	cache  ports.EmbeddingCache
	logger *slog.Logger
}

func NewCachedEmbedder(inner ports.Embedder, cache ports.EmbeddingCache, logger *slog.Logger) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache, logger: logger}
}

func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	missing := make([]string, 0, len(texts))
	missingIdx := make([]int, 0, len(texts))

	for i, text := range texts {
		vector, ok, err := e.cache.Get(ctx, text)
		if err != nil {
			e.logger.Warn("embedding cache read failed", "error", err)
		}
		if ok {
			out[i] = vector
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := e.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, idx := range missingIdx {
		out[idx] = vectors[j]
		if err := e.cache.Set(ctx, missing[j], vectors[j]); err != nil {
			e.logger.Warn("embedding cache write failed", "error", err)
		}
	}
	return out, nil
}

func (e *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
