package ports

import (
	"context"

	"github.com/scholara/answer-engine/internal/core/domain"
)

// QuestionAnswerer is the inbound contract for the answer-synthesis pipeline.
// ResourceURL, when set, scopes retrieval to that single document (on-demand
// mode). The returned envelope is always well formed, even on internal
// failure.
type QuestionAnswerer interface {
	ProcessQuestion(ctx context.Context, question, sessionID, resourceURL string) *domain.FinalResponse
}

// FeedbackCollector is the inbound contract for answer feedback.
type FeedbackCollector interface {
	Submit(ctx context.Context, answerID string, helpful bool, comment string) (*domain.Feedback, error)
}
