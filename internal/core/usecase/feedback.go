package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

type FeedbackUseCase struct {
	store ports.FeedbackStore
}

func NewFeedbackUseCase(store ports.FeedbackStore) *FeedbackUseCase {
	return &FeedbackUseCase{store: store}
}

func (uc *FeedbackUseCase) Submit(ctx context.Context, answerID string, helpful bool, comment string) (*domain.Feedback, error) {
	answerID = strings.TrimSpace(answerID)
	if answerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit feedback", fmt.Errorf("answer id is required"))
	}

	fb := domain.Feedback{
		ID:       uuid.NewString(),
		AnswerID: answerID,
		Helpful:  helpful,
		Comment:  strings.TrimSpace(comment),
	}
	if err := uc.store.SaveFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	return &fb, nil
}
