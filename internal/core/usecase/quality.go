package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

// QualityScorer estimates relevance, groundedness and hallucination risk of
// a synthesized answer. Groundedness is the share of the answer's significant
// words literally present in the retrieved context.
type QualityScorer struct {
	embedder ports.Embedder
	vocab    *Vocabulary
	logger   *slog.Logger
}

func NewQualityScorer(embedder ports.Embedder, vocab *Vocabulary, logger *slog.Logger) *QualityScorer {
	return &QualityScorer{
		embedder: embedder,
		vocab:    vocab,
		logger:   logger,
	}
}

func (s *QualityScorer) Score(ctx context.Context, question string, passages []domain.PassageScore, answer string) domain.QualityScore {
	relevance := s.relevance(ctx, question, answer)
	confidence := s.groundedness(passages, answer)

	risk := 100 - confidence
	if len(strings.TrimSpace(answer)) < 20 {
		risk += 20
	}
	risk = clamp0100(risk)

	score := domain.QualityScore{
		Relevance:         relevance,
		Confidence:        confidence,
		HallucinationRisk: risk,
	}

	switch {
	case relevance > 70 && confidence > 70 && risk < 30:
		score.Rating = domain.QualityHigh
	case relevance > 50 && confidence > 50:
		score.Rating = domain.QualityMedium
	default:
		score.Rating = domain.QualityLow
	}

	switch {
	case confidence < 40:
		score.Flagged = true
		score.FlagReason = "answer poorly grounded in retrieved context"
	case risk > 60:
		score.Flagged = true
		score.FlagReason = "high hallucination risk"
	}
	return score
}

// relevance is the cosine similarity of question and answer embeddings on a
// 0-100 scale. An unavailable embedder degrades to a neutral 50 instead of
// failing the request.
func (s *QualityScorer) relevance(ctx context.Context, question, answer string) float64 {
	vectors, err := s.embedder.Embed(ctx, []string{question, answer})
	if err != nil || len(vectors) != 2 {
		s.logger.Warn("quality scorer degraded: embed failed", "error", err)
		return 50
	}
	return clamp0100(cosineSimilarity(vectors[0], vectors[1]) * 100)
}

func (s *QualityScorer) groundedness(passages []domain.PassageScore, answer string) float64 {
	contextWords := make(map[string]struct{})
	for _, p := range passages {
		for _, token := range splitAlphaNumLower(p.Text) {
			contextWords[token] = struct{}{}
		}
	}

	significant := 0
	grounded := 0
	for _, token := range splitAlphaNumLower(answer) {
		if len(token) <= 3 || s.vocab.IsStopWord(token) {
			continue
		}
		significant++
		if _, ok := contextWords[token]; ok {
			grounded++
		}
	}
	if significant == 0 {
		return 0
	}
	return clamp0100(float64(grounded) / float64(significant) * 100)
}
