package usecase

import (
	"sort"

	"github.com/scholara/answer-engine/internal/core/domain"
)

const (
	nearDuplicateThreshold = 0.85
	similarThreshold       = 0.70
	nearDuplicatePenalty   = 0.70
	similarPenalty         = 0.85
)

// PassageReranker rescales retrieval scores and applies diversity boosting so
// near-duplicate passages stop crowding the context window. The retrieval
// similarity is used directly as the vector score; no cross-encoder model is
// involved.
type PassageReranker struct{}

func NewPassageReranker() *PassageReranker {
	return &PassageReranker{}
}

func (r *PassageReranker) Rerank(query string, passages []domain.Passage, topK int, diversityBoost bool) []domain.PassageScore {
	if len(passages) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = len(passages)
	}

	scored := make([]domain.PassageScore, len(passages))
	for i, p := range passages {
		sim := clamp01(p.Score)
		scored[i] = domain.PassageScore{
			Passage:           p,
			VectorScore:       sim,
			CrossEncoderScore: sim,
			FinalScore:        sim,
		}
	}

	// Consider passages best-first so the strongest copy of any duplicate
	// group keeps its full score.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].VectorScore > scored[j].VectorScore
	})

	if diversityBoost {
		applyDiversityPenalties(scored)
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].FinalScore > scored[j].FinalScore
		})
	}

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// applyDiversityPenalties multiplies each passage's score by 0.7 for every
// already-considered near duplicate (Jaccard > 0.85) and by 0.85 for every
// merely similar one (0.7-0.85). Penalties accumulate across comparisons.
func applyDiversityPenalties(scored []domain.PassageScore) {
	wordSets := make([]map[string]struct{}, len(scored))
	for i := range scored {
		wordSets[i] = toWordSet(scored[i].Text)
	}

	for i := 1; i < len(scored); i++ {
		for j := 0; j < i; j++ {
			sim := jaccardSimilarity(wordSets[i], wordSets[j])
			switch {
			case sim > nearDuplicateThreshold:
				scored[i].FinalScore *= nearDuplicatePenalty
			case sim >= similarThreshold:
				scored[i].FinalScore *= similarPenalty
			}
		}
		scored[i].FinalScore = clamp01(scored[i].FinalScore)
	}
}
