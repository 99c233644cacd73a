package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

// sequenceStore replays one result set per Query call, in order.
type sequenceStore struct {
	sets [][]ports.ScoredPoint
	call int
}

func (s *sequenceStore) Query(_ context.Context, _ string, _ []float32, _ int, _ domain.SearchFilter) ([]ports.ScoredPoint, error) {
	if s.call >= len(s.sets) {
		return nil, nil
	}
	set := s.sets[s.call]
	s.call++
	return set, nil
}

func TestMultiQuerySearchFusesAcrossQueries(t *testing.T) {
	// "everywhere" tops every query's ranking; "once" appears only in the
	// lowest-weight query. Fusion must put "everywhere" first.
	store := &sequenceStore{sets: [][]ports.ScoredPoint{
		{
			{ID: "everywhere", Text: "consistent hit", Distance: 0.2},
			{ID: "filler", Text: "other passage", Distance: 0.5},
		},
		{
			{ID: "everywhere", Text: "consistent hit", Distance: 0.25},
			{ID: "filler", Text: "other passage", Distance: 0.6},
		},
		{
			{ID: "once", Text: "lucky passage", Distance: 0.05},
			{ID: "everywhere", Text: "consistent hit", Distance: 0.3},
		},
	}}
	index := NewVectorIndex(&hashEmbedder{}, store, testLogger())

	queries := []domain.RankedQuery{
		{Text: "original question", Weight: 1.0, Origin: domain.OriginOriginal},
		{Text: "expanded question", Weight: 0.85, Origin: domain.OriginExpanded},
		{Text: "focused question", Weight: 0.65, Origin: domain.OriginExpanded},
	}
	passages := index.MultiQuerySearch(context.Background(), queries, domain.CollectionPassages, 10, domain.SearchFilter{})

	if len(passages) != 3 {
		t.Fatalf("expected 3 fused passages, got %d", len(passages))
	}
	if passages[0].ID != "everywhere" {
		t.Fatalf("expected consistently ranked passage first, got %q", passages[0].ID)
	}
	// Surfaced score is the max raw similarity, not the fused RRF sum.
	wantSim := 1.0 / (1.0 + 0.2)
	if math.Abs(passages[0].Score-wantSim) > 1e-9 {
		t.Fatalf("expected best similarity %v surfaced, got %v", wantSim, passages[0].Score)
	}
}

func TestMultiQuerySearchScoresStayInUnitRange(t *testing.T) {
	store := &sequenceStore{sets: [][]ports.ScoredPoint{
		{
			{ID: "zero", Text: "exact match", Distance: 0},
			{ID: "far", Text: "distant match", Distance: 9.5},
		},
	}}
	index := NewVectorIndex(&hashEmbedder{}, store, testLogger())

	passages := index.Search(context.Background(), "anything", domain.CollectionPassages, 10, domain.SearchFilter{})
	for _, p := range passages {
		if p.Score < 0 || p.Score > 1 {
			t.Fatalf("similarity out of range: %v", p.Score)
		}
	}
	if passages[0].Score != 1 {
		t.Fatalf("zero distance expected similarity 1, got %v", passages[0].Score)
	}
}

func TestMultiQuerySearchDegradesOnEmbedderFailure(t *testing.T) {
	index := NewVectorIndex(&hashEmbedder{fail: true}, &fakeStore{}, testLogger())
	passages := index.Search(context.Background(), "anything", domain.CollectionPassages, 10, domain.SearchFilter{})
	if passages != nil {
		t.Fatalf("expected nil on embedder failure, got %v", passages)
	}
}

func TestMultiQuerySearchSkipsFailedStoreQueries(t *testing.T) {
	store := &fakeStore{err: errors.New("store down")}
	index := NewVectorIndex(&hashEmbedder{}, store, testLogger())
	passages := index.MultiQuerySearch(context.Background(), []domain.RankedQuery{
		{Text: "q1", Weight: 1.0, Origin: domain.OriginOriginal},
		{Text: "q2", Weight: 0.8, Origin: domain.OriginExpanded},
	}, domain.CollectionPassages, 10, domain.SearchFilter{})
	if len(passages) != 0 {
		t.Fatalf("expected empty result when every store query fails, got %d", len(passages))
	}
}

func TestMultiQuerySearchHonorsLimit(t *testing.T) {
	points := []ports.ScoredPoint{}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		points = append(points, ports.ScoredPoint{ID: id, Text: "passage " + id, Distance: 0.4})
	}
	store := &fakeStore{points: map[string][]ports.ScoredPoint{domain.CollectionPassages: points}}
	index := NewVectorIndex(&hashEmbedder{}, store, testLogger())

	passages := index.Search(context.Background(), "anything", domain.CollectionPassages, 3, domain.SearchFilter{})
	if len(passages) != 3 {
		t.Fatalf("expected limit respected, got %d", len(passages))
	}
}
