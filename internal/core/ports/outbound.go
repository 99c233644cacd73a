package ports

import (
	"context"

	"github.com/scholara/answer-engine/internal/core/domain"
)

// Embedder turns text into fixed-dimension vectors. The underlying model is
// loaded lazily; the first caller pays the warm-up cost and a load failure is
// returned to every caller.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache stores query vectors keyed by text. Implementations must be
// safe for concurrent use; a miss is (nil, false, nil).
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool, error)
	Set(ctx context.Context, text string, vector []float32) error
}

// ScoredPoint is one raw nearest-neighbor hit. Distance is the vector
// database's native distance, lower is closer; the vector index converts it
// to a similarity.
type ScoredPoint struct {
	ID       string
	Text     string
	Distance float64
	Metadata map[string]string
}

// VectorStore performs nearest-neighbor search over named collections.
type VectorStore interface {
	Query(ctx context.Context, collection string, vector []float32, limit int, filter domain.SearchFilter) ([]ScoredPoint, error)
}

// WebResult is one hit from the web-search fallback provider.
type WebResult struct {
	Title   string
	Snippet string
	URL     string
}

// WebSearcher is the external web-search provider.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]WebResult, error)
}

// DocumentFetcher retrieves an externally supplied document by URL and
// extracts its plain text, used only in on-demand mode.
type DocumentFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// SessionStore keeps per-session rolling message history. Implementations
// must preserve the per-session message cap and serialize concurrent writers
// for the same session id.
type SessionStore interface {
	Append(sessionID string, msg domain.SessionMessage)
	Recent(sessionID string, limit int) []domain.SessionMessage
	Evict(sessionID string)
}

// FeedbackStore persists caller-submitted answer feedback.
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, fb domain.Feedback) error
}

// AnswerPublished is the event emitted after every completed answer.
type AnswerPublished struct {
	AnswerID   string  `json:"answer_id"`
	SessionID  string  `json:"session_id"`
	Format     string  `json:"format"`
	Confidence float64 `json:"confidence"`
	Rating     string  `json:"rating"`
	DurationMS int64   `json:"duration_ms"`
}

// EventPublisher pushes answer events to downstream consumers. Publishing is
// best effort; failures must not affect the response.
type EventPublisher interface {
	PublishAnswer(ctx context.Context, event AnswerPublished) error
}
