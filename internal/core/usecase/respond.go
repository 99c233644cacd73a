package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/scholara/answer-engine/internal/core/domain"
)

const maxRelatedQuestions = 3

// ResponseFormatter assembles the client-facing envelope from the pipeline's
// intermediate results. It never fails; missing pieces degrade to safe
// defaults.
type ResponseFormatter struct {
	feedbackEnabled bool
}

func NewResponseFormatter(feedbackEnabled bool) *ResponseFormatter {
	return &ResponseFormatter{feedbackEnabled: feedbackEnabled}
}

type responseInput struct {
	AnswerID   string
	Question   string
	Intent     domain.IntentResult
	Analysis   domain.QuestionAnalysis
	Format     domain.FormatDecision
	Generation domain.GenerationResult
	Quality    domain.QualityScore
	Optimized  domain.OptimizedContext
	DurationMS int64
}

func (f *ResponseFormatter) Format(in responseInput) *domain.FinalResponse {
	confidence := clamp01(in.Generation.Confidence)
	return &domain.FinalResponse{
		Answer:           in.Generation.Answer,
		Format:           in.Format.Format,
		Confidence:       confidence,
		ConfidenceLevel:  confidenceLevel(confidence),
		Sources:          in.Generation.Sources,
		RelatedQuestions: relatedQuestions(in.Analysis, in.Intent),
		RelatedURL:       searchURL(in.Question),
		SuggestUpload:    len(in.Generation.Sources) == 0 && in.Intent.Intent != domain.IntentGreeting,
		FeedbackEnabled:  f.feedbackEnabled,
		Metadata: domain.ResponseMetadata{
			AnswerID:         in.AnswerID,
			GenerationTimeMS: in.DurationMS,
			QualityRating:    in.Quality.Rating,
			IntentLabel:      in.Intent.Intent,
			QualityFlagged:   in.Quality.Flagged,
			CoverageLevel:    in.Optimized.Coverage,
			DiversityScore:   in.Optimized.Diversity,
		},
	}
}

// ErrorResponse is the safe envelope returned when the pipeline fails in a
// way that could not be degraded stage-locally.
func (f *ResponseFormatter) ErrorResponse(answerID string) *domain.FinalResponse {
	return &domain.FinalResponse{
		Answer:           "I encountered an error while processing your question. Please try again.",
		Format:           domain.FormatNarrative,
		Confidence:       0,
		ConfidenceLevel:  "low",
		Sources:          []domain.Source{},
		RelatedQuestions: []string{},
		SuggestUpload:    false,
		FeedbackEnabled:  f.feedbackEnabled,
		Metadata: domain.ResponseMetadata{
			AnswerID:      answerID,
			QualityRating: domain.QualityLow,
		},
	}
}

func confidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.7:
		return "high"
	case confidence >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

// relatedQuestions derives follow-ups from detected topics with fixed
// templates, keeping the output deterministic.
func relatedQuestions(analysis domain.QuestionAnalysis, intent domain.IntentResult) []string {
	questions := []string{}
	for _, topic := range analysis.Topics {
		if len(questions) >= maxRelatedQuestions {
			break
		}
		switch intent.QuestionType {
		case domain.QuestionHow:
			questions = append(questions, fmt.Sprintf("What is %s?", topic))
		case domain.QuestionCompare:
			questions = append(questions, fmt.Sprintf("How does %s work?", topic))
		default:
			questions = append(questions, fmt.Sprintf("Can you explain %s in more detail?", topic))
		}
	}

	if len(questions) == 0 && intent.QuestionType == domain.QuestionHow {
		questions = append(questions, "What are common mistakes to avoid here?")
	}
	return questions
}

func searchURL(question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return ""
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(question)
}
