package usecase

import (
	"context"
	"testing"

	"github.com/scholara/answer-engine/internal/core/domain"
)

func newQualityScorer(embedder *hashEmbedder) *QualityScorer {
	return NewQualityScorer(embedder, NewVocabulary(), testLogger())
}

func TestScoreFullyGroundedAnswer(t *testing.T) {
	scorer := newQualityScorer(&hashEmbedder{})
	passages := []domain.PassageScore{
		scoredPassage("a", "consensus requires a majority quorum among voting replicas", 0.9),
	}
	answer := "consensus requires quorum among voting replicas"

	score := scorer.Score(context.Background(), "how does consensus work?", passages, answer)

	if score.Confidence != 100 {
		t.Fatalf("every significant word appears in context, expected 100, got %v", score.Confidence)
	}
	if score.HallucinationRisk != 0 {
		t.Fatalf("grounded long answer should carry zero risk, got %v", score.HallucinationRisk)
	}
	if score.Flagged {
		t.Fatalf("grounded answer must not be flagged: %+v", score)
	}
}

func TestScoreUngroundedAnswerIsFlagged(t *testing.T) {
	scorer := newQualityScorer(&hashEmbedder{})
	passages := []domain.PassageScore{
		scoredPassage("a", "photosynthesis converts light into chemical energy", 0.9),
	}
	answer := "quantum entanglement correlates measurement outcomes instantly"

	score := scorer.Score(context.Background(), "unrelated question", passages, answer)

	if score.Confidence != 0 {
		t.Fatalf("expected zero groundedness, got %v", score.Confidence)
	}
	if !score.Flagged || score.FlagReason != "answer poorly grounded in retrieved context" {
		t.Fatalf("expected grounding flag, got %+v", score)
	}
	if score.Rating != domain.QualityLow {
		t.Fatalf("expected low rating, got %q", score.Rating)
	}
}

func TestScoreShortAnswerRiskPenalty(t *testing.T) {
	scorer := newQualityScorer(&hashEmbedder{})
	passages := []domain.PassageScore{
		scoredPassage("a", "completely different context text here", 0.9),
	}

	score := scorer.Score(context.Background(), "question?", passages, "nope")
	// Zero groundedness gives risk 100; the short-answer penalty clamps there.
	if score.HallucinationRisk != 100 {
		t.Fatalf("expected clamped risk 100, got %v", score.HallucinationRisk)
	}
}

func TestScoreDegradesWhenEmbedderFails(t *testing.T) {
	scorer := newQualityScorer(&hashEmbedder{fail: true})
	passages := []domain.PassageScore{
		scoredPassage("a", "replicas acknowledge writes before commit", 0.9),
	}

	score := scorer.Score(context.Background(), "how do writes commit?", passages, "replicas acknowledge writes before commit")
	if score.Relevance != 50 {
		t.Fatalf("embed failure should degrade relevance to 50, got %v", score.Relevance)
	}
	if score.Rating != domain.QualityLow {
		t.Fatalf("neutral relevance of 50 misses the medium threshold, got %q", score.Rating)
	}
}

func TestScoreHighRating(t *testing.T) {
	scorer := newQualityScorer(&hashEmbedder{})
	text := "vector clocks order events across distributed processes"
	passages := []domain.PassageScore{scoredPassage("a", text, 0.9)}

	// Identical question and answer give cosine 1; every significant word is
	// grounded, so all three thresholds clear.
	score := scorer.Score(context.Background(), text, passages, text)
	if score.Rating != domain.QualityHigh {
		t.Fatalf("expected high rating, got %+v", score)
	}
}
