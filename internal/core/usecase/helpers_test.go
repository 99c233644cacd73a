package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// hashEmbedder produces deterministic vectors from token overlap so cosine
// similarity behaves sensibly in tests without a real model.
type hashEmbedder struct {
	fail bool
}

func (e *hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.fail {
		return nil, errors.New("embedder offline")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text)
	}
	return out, nil
}

func (e *hashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func hashVector(text string) []float32 {
	const dim = 64
	v := make([]float32, dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := 0
		for _, r := range token {
			h = h*31 + int(r)
		}
		if h < 0 {
			h = -h
		}
		v[h%dim]++
	}
	return v
}

// fakeStore returns canned points per collection, recording queries.
type fakeStore struct {
	mu      sync.Mutex
	points  map[string][]ports.ScoredPoint
	err     error
	queries int
}

func (s *fakeStore) Query(_ context.Context, collection string, _ []float32, limit int, _ domain.SearchFilter) ([]ports.ScoredPoint, error) {
	s.mu.Lock()
	s.queries++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	points := s.points[collection]
	if len(points) > limit {
		points = points[:limit]
	}
	return points, nil
}

type fakeWeb struct {
	results []ports.WebResult
	err     error
	calls   int
}

func (w *fakeWeb) Search(_ context.Context, _ string) ([]ports.WebResult, error) {
	w.calls++
	if w.err != nil {
		return nil, w.err
	}
	return w.results, nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	messages map[string][]domain.SessionMessage
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{messages: map[string][]domain.SessionMessage{}}
}

func (s *fakeSessionStore) Append(sessionID string, msg domain.SessionMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.messages[sessionID], msg)
	if len(msgs) > domain.MaxSessionMessages {
		msgs = msgs[len(msgs)-domain.MaxSessionMessages:]
	}
	s.messages[sessionID] = msgs
}

func (s *fakeSessionStore) Recent(sessionID string, limit int) []domain.SessionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[sessionID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.SessionMessage, len(msgs))
	copy(out, msgs)
	return out
}

func (s *fakeSessionStore) Evict(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, sessionID)
}

type fakeFetcher struct {
	text string
	err  error
}

func (f *fakeFetcher) FetchText(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []ports.AnswerPublished
}

func (p *capturingPublisher) PublishAnswer(_ context.Context, event ports.AnswerPublished) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func scoredPassage(id, text string, score float64) domain.PassageScore {
	return domain.PassageScore{
		Passage:           domain.Passage{ID: id, Text: text, Source: domain.CollectionPassages, Score: score},
		VectorScore:       score,
		CrossEncoderScore: score,
		FinalScore:        score,
	}
}
