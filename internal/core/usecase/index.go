package usecase

import (
	"context"
	"log/slog"
	"sort"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

const rrfK = 60

// VectorIndex performs similarity search over the vector database. Native
// distances are converted to similarities via sim = 1/(1+distance) so every
// score surfaced to the pipeline is higher-is-better in [0,1]. An unavailable
// store degrades to an empty result instead of an error.
type VectorIndex struct {
	embedder ports.Embedder
	store    ports.VectorStore
	logger   *slog.Logger
}

func NewVectorIndex(embedder ports.Embedder, store ports.VectorStore, logger *slog.Logger) *VectorIndex {
	return &VectorIndex{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

func (idx *VectorIndex) Search(ctx context.Context, query, collection string, limit int, filter domain.SearchFilter) []domain.Passage {
	return idx.MultiQuerySearch(ctx, []domain.RankedQuery{{
		Text:   query,
		Weight: 1.0,
		Origin: domain.OriginOriginal,
	}}, collection, limit, filter)
}

type fusedPassage struct {
	passage   domain.Passage
	fused     float64
	bestSim   float64
	firstSeen int
}

// MultiQuerySearch runs one nearest-neighbor query per ranked query and fuses
// the rankings with weighted Reciprocal Rank Fusion: a passage at rank r in
// the results of a query with weight w contributes w/(k+r+1), summed across
// queries. The fused score orders the output, but the score surfaced on each
// passage is the maximum raw similarity seen across queries so downstream
// quality filters keep working on a 0-1 similarity scale.
func (idx *VectorIndex) MultiQuerySearch(ctx context.Context, queries []domain.RankedQuery, collection string, limit int, filter domain.SearchFilter) []domain.Passage {
	if len(queries) == 0 || limit <= 0 {
		return nil
	}

	texts := make([]string, len(queries))
	for i, q := range queries {
		texts[i] = q.Text
	}
	vectors, err := idx.embedder.Embed(ctx, texts)
	if err != nil || len(vectors) != len(queries) {
		idx.logger.Warn("vector index degraded: embed queries failed",
			"collection", collection, "queries", len(queries), "error", err)
		return nil
	}

	acc := make(map[string]*fusedPassage)
	seen := 0
	for i, query := range queries {
		points, err := idx.store.Query(ctx, collection, vectors[i], limit, filter)
		if err != nil {
			idx.logger.Warn("vector index degraded: search failed",
				"collection", collection, "query", query.Text, "error", err)
			continue
		}
		for rank, point := range points {
			sim := clamp01(1.0 / (1.0 + point.Distance))
			entry, ok := acc[point.ID]
			if !ok {
				entry = &fusedPassage{
					passage: domain.Passage{
						ID:       point.ID,
						Text:     point.Text,
						Source:   collection,
						Metadata: point.Metadata,
					},
					firstSeen: seen,
				}
				acc[point.ID] = entry
				seen++
			}
			entry.fused += query.Weight / float64(rrfK+rank+1)
			if sim > entry.bestSim {
				entry.bestSim = sim
			}
		}
	}

	out := make([]*fusedPassage, 0, len(acc))
	for _, entry := range acc {
		entry.passage.Score = entry.bestSim
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].fused != out[j].fused {
			return out[i].fused > out[j].fused
		}
		return out[i].firstSeen < out[j].firstSeen
	})

	if len(out) > limit {
		out = out[:limit]
	}
	passages := make([]domain.Passage, len(out))
	for i, entry := range out {
		passages[i] = entry.passage
	}
	return passages
}
