package usecase

import (
	"github.com/scholara/answer-engine/internal/core/domain"
)

const (
	minPassageScore     = 0.15
	redundancyThreshold = 0.8
	dissimilarityWeight = 0.6
	ownScoreWeight      = 0.4
)

// ContextOptimizer filters low-quality passages, removes redundancy and
// selects a bounded working set that balances passage quality against topic
// coverage. Selection is diversity aware, not a plain top-N cut.
type ContextOptimizer struct{}

func NewContextOptimizer() *ContextOptimizer {
	return &ContextOptimizer{}
}

func (o *ContextOptimizer) Optimize(passages []domain.PassageScore, question string, maxPassages int) domain.OptimizedContext {
	if maxPassages <= 0 {
		maxPassages = 5
	}

	filtered := make([]domain.PassageScore, 0, len(passages))
	for _, p := range passages {
		if p.FinalScore > minPassageScore {
			filtered = append(filtered, p)
		}
	}

	filtered = dropRedundant(filtered)
	selected := selectDiverse(filtered, maxPassages)

	return domain.OptimizedContext{
		Passages:  selected,
		Coverage:  coverageLabel(selected),
		Quality:   averageScore(selected),
		Diversity: diversityScore(selected),
	}
}

// dropRedundant removes passages whose Jaccard similarity to an earlier
// passage exceeds the redundancy threshold, keeping the first occurrence.
func dropRedundant(passages []domain.PassageScore) []domain.PassageScore {
	kept := make([]domain.PassageScore, 0, len(passages))
	keptSets := make([]map[string]struct{}, 0, len(passages))

	for _, p := range passages {
		words := toWordSet(p.Text)
		redundant := false
		for _, existing := range keptSets {
			if jaccardSimilarity(words, existing) > redundancyThreshold {
				redundant = true
				break
			}
		}
		if redundant {
			continue
		}
		kept = append(kept, p)
		keptSets = append(keptSets, words)
	}
	return kept
}

// selectDiverse greedily picks passages maximizing a 60/40 mix of average
// dissimilarity to the already-selected set and the passage's own score.
func selectDiverse(passages []domain.PassageScore, maxPassages int) []domain.PassageScore {
	if len(passages) <= maxPassages {
		return passages
	}

	wordSets := make([]map[string]struct{}, len(passages))
	for i := range passages {
		wordSets[i] = toWordSet(passages[i].Text)
	}

	selected := make([]domain.PassageScore, 0, maxPassages)
	selectedSets := make([]map[string]struct{}, 0, maxPassages)
	used := make([]bool, len(passages))

	for len(selected) < maxPassages {
		bestIdx := -1
		bestValue := -1.0
		for i := range passages {
			if used[i] {
				continue
			}
			dissimilarity := 1.0
			if len(selectedSets) > 0 {
				total := 0.0
				for _, set := range selectedSets {
					total += 1.0 - jaccardSimilarity(wordSets[i], set)
				}
				dissimilarity = total / float64(len(selectedSets))
			}
			value := dissimilarityWeight*dissimilarity + ownScoreWeight*passages[i].FinalScore
			if value > bestValue {
				bestValue = value
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		used[bestIdx] = true
		selected = append(selected, passages[bestIdx])
		selectedSets = append(selectedSets, wordSets[bestIdx])
	}
	return selected
}

func coverageLabel(selected []domain.PassageScore) string {
	avg := averageScore(selected)
	switch {
	case len(selected) >= 5 && avg > 0.7:
		return "high"
	case len(selected) >= 3 && avg > 0.5:
		return "medium"
	default:
		return "low"
	}
}

func averageScore(selected []domain.PassageScore) float64 {
	if len(selected) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range selected {
		total += p.FinalScore
	}
	return total / float64(len(selected))
}

// diversityScore is one minus the mean pairwise Jaccard similarity across the
// selected set; a single passage counts as fully diverse.
func diversityScore(selected []domain.PassageScore) float64 {
	if len(selected) < 2 {
		if len(selected) == 0 {
			return 0
		}
		return 1
	}

	wordSets := make([]map[string]struct{}, len(selected))
	for i := range selected {
		wordSets[i] = toWordSet(selected[i].Text)
	}

	total := 0.0
	pairs := 0
	for i := 0; i < len(selected); i++ {
		for j := i + 1; j < len(selected); j++ {
			total += jaccardSimilarity(wordSets[i], wordSets[j])
			pairs++
		}
	}
	return clamp01(1.0 - total/float64(pairs))
}
