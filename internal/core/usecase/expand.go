package usecase

import (
	"sort"
	"strings"

	"github.com/scholara/answer-engine/internal/core/domain"
)

const (
	weightOriginal    = 1.0
	weightExpansion   = 0.85
	weightDecomposed  = 0.75
	weightEntityFocus = 0.70
	weightTopicFocus  = 0.65

	minQueryScore    = 0.4
	maxRankedQueries = 10

	topicMatchBonus   = 0.05
	subjectMatchBonus = 0.08
	questionWordBonus = 0.05
	shortQueryPenalty = 0.15
	idealLengthBonus  = 0.10
)

// QueryReranker generates and scores alternate phrasings of the question for
// retrieval fan-out. The original question always survives with weight 1.0.
type QueryReranker struct {
	vocab *Vocabulary
}

func NewQueryReranker(vocab *Vocabulary) *QueryReranker {
	return &QueryReranker{vocab: vocab}
}

func (r *QueryReranker) Rerank(question string, analysis domain.QuestionAnalysis) []domain.RankedQuery {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	candidates := []domain.RankedQuery{{
		Text:   question,
		Weight: weightOriginal,
		Origin: domain.OriginOriginal,
	}}

	for _, expansion := range analysis.Expansions {
		candidates = append(candidates, domain.RankedQuery{
			Text:   expansion,
			Weight: weightExpansion,
			Origin: domain.OriginSynonym,
		})
	}

	for _, sub := range decomposeQuestion(question, analysis) {
		candidates = append(candidates, domain.RankedQuery{
			Text:   sub,
			Weight: weightDecomposed,
			Origin: domain.OriginDecomposed,
		})
	}

	for _, entity := range mergeUnique(analysis.Topics, analysis.Subjects) {
		candidates = append(candidates, domain.RankedQuery{
			Text:   entity + " " + question,
			Weight: weightEntityFocus,
			Origin: domain.OriginExpanded,
		})
	}

	if lead := leadWord(question); lead != "" {
		for _, topic := range analysis.Topics {
			candidates = append(candidates, domain.RankedQuery{
				Text:   lead + " " + topic,
				Weight: weightTopicFocus,
				Origin: domain.OriginExpanded,
			})
		}
	}

	for i := range candidates {
		candidates[i].Weight = r.adjustScore(candidates[i], analysis)
	}
	// The original query keeps weight 1.0 no matter what the adjustments say.
	candidates[0].Weight = weightOriginal

	deduped := dedupeQueries(candidates)

	kept := deduped[:0]
	for _, q := range deduped {
		if q.Weight > minQueryScore {
			kept = append(kept, q)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Weight != kept[j].Weight {
			return kept[i].Weight > kept[j].Weight
		}
		return kept[i].Text < kept[j].Text
	})

	if len(kept) > maxRankedQueries {
		kept = kept[:maxRankedQueries]
	}
	return kept
}

func (r *QueryReranker) adjustScore(query domain.RankedQuery, analysis domain.QuestionAnalysis) float64 {
	score := query.Weight
	lower := strings.ToLower(query.Text)
	words := strings.Fields(lower)

	for _, topic := range analysis.Topics {
		if strings.Contains(lower, strings.ToLower(topic)) {
			score += topicMatchBonus
		}
	}
	for _, subject := range analysis.Subjects {
		if strings.Contains(lower, strings.ToLower(subject)) {
			score += subjectMatchBonus
		}
	}
	if len(words) > 0 && isQuestionWord(words[0]) {
		score += questionWordBonus
	}
	if len(words) < 3 {
		score -= shortQueryPenalty
	}
	if len(words) >= 5 && len(words) <= 15 {
		score += idealLengthBonus
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// decomposeQuestion splits compound questions into focused sub-queries.
func decomposeQuestion(question string, analysis domain.QuestionAnalysis) []string {
	lower := strings.ToLower(question)
	subs := []string{}

	if analysis.IsComparison {
		subs = append(subs, splitComparison(question, lower)...)
	}

	if analysis.IsProcedural {
		core := stripQuestionPrefix(lower)
		if core != "" {
			subs = append(subs,
				"steps to "+core,
				core+" tutorial",
				core+" guide",
			)
		}
	}

	// Multi-part questions joined by "and" decompose at the conjunction.
	if !analysis.IsComparison && strings.Contains(lower, " and ") &&
		analysis.Complexity == domain.ComplexityComplex {
		for _, part := range strings.Split(question, " and ") {
			part = strings.TrimSpace(part)
			if len(strings.Fields(part)) >= 3 {
				subs = append(subs, part)
			}
		}
	}
	return subs
}

var comparisonSeparators = []string{" vs ", " vs. ", " versus ", " compared to "}

func splitComparison(question, lower string) []string {
	for _, sep := range comparisonSeparators {
		idx := strings.Index(lower, sep)
		if idx < 0 {
			continue
		}
		left := strings.TrimSpace(question[:idx])
		right := strings.TrimSpace(question[idx+len(sep):])
		left = strings.TrimRight(left, "?")
		right = strings.TrimRight(right, "?")
		if left == "" || right == "" {
			return nil
		}
		return []string{left, right}
	}

	if idx := strings.Index(lower, "difference between "); idx >= 0 {
		rest := question[idx+len("difference between "):]
		parts := strings.SplitN(rest, " and ", 2)
		if len(parts) == 2 {
			left := strings.TrimSpace(strings.TrimRight(parts[0], "?"))
			right := strings.TrimSpace(strings.TrimRight(parts[1], "?"))
			if left != "" && right != "" {
				return []string{left, right}
			}
		}
	}
	return nil
}

// dedupeQueries drops case-insensitive duplicates, keeping the higher score.
func dedupeQueries(queries []domain.RankedQuery) []domain.RankedQuery {
	best := make(map[string]domain.RankedQuery, len(queries))
	order := make([]string, 0, len(queries))
	for _, q := range queries {
		key := strings.ToLower(strings.TrimSpace(q.Text))
		if key == "" {
			continue
		}
		existing, seen := best[key]
		if !seen {
			best[key] = q
			order = append(order, key)
			continue
		}
		if q.Weight > existing.Weight {
			best[key] = q
		}
	}

	out := make([]domain.RankedQuery, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func mergeUnique(lists ...[]string) []string {
	out := []string{}
	for _, list := range lists {
		for _, item := range list {
			out = appendUnique(out, item)
		}
	}
	return out
}

func leadWord(question string) string {
	fields := strings.Fields(strings.ToLower(question))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isQuestionWord(word string) bool {
	switch strings.ToLower(word) {
	case "what", "how", "why", "when", "where", "who", "which", "can", "does", "is", "are":
		return true
	default:
		return false
	}
}
