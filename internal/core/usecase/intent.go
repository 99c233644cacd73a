package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

// intentPrototypes describe each label for zero-shot matching. The question
// embedding is compared against these by cosine similarity.
var intentPrototypes = map[string]string{
	domain.IntentScholaraHelp: "help using the study platform, uploading documents, account and app features",
	domain.IntentResourceQA:   "a question about the content of a study document, textbook chapter or uploaded resource",
	domain.IntentWebSearch:    "current events, recent news, latest releases or anything requiring fresh web information",
	domain.IntentGreeting:     "a greeting or small talk like hello, hi, good morning, how are you",
	domain.IntentGeneral:      "a general academic or factual question",
}

// IntentClassifier performs zero-shot intent classification over a fixed
// label set. Label prototype vectors are embedded once on first use; if the
// embedder is unavailable the classifier degrades to the general intent with
// zero confidence instead of failing the pipeline.
type IntentClassifier struct {
	embedder ports.Embedder
	logger   *slog.Logger

	mu         sync.Mutex
	prototypes map[string][]float32
}

func NewIntentClassifier(embedder ports.Embedder, logger *slog.Logger) *IntentClassifier {
	return &IntentClassifier{
		embedder: embedder,
		logger:   logger,
	}
}

func (c *IntentClassifier) Classify(ctx context.Context, question string) domain.IntentResult {
	result := domain.IntentResult{
		Intent:       domain.IntentGeneral,
		QuestionType: detectQuestionType(question),
	}

	labels, err := c.labelVectors(ctx)
	if err != nil {
		c.logger.Warn("intent classifier degraded", "error", err)
		return result
	}

	questionVector, err := c.embedder.EmbedQuery(ctx, question)
	if err != nil {
		c.logger.Warn("intent classifier degraded", "error", err)
		return result
	}

	ordered := make([]string, 0, len(labels))
	for label := range labels {
		ordered = append(ordered, label)
	}
	sort.Strings(ordered)

	var best, second string
	var bestScore, secondScore float64
	for _, label := range ordered {
		score := clamp01(cosineSimilarity(questionVector, labels[label]))
		if best == "" || score > bestScore {
			second, secondScore = best, bestScore
			best, bestScore = label, score
			continue
		}
		if second == "" || score > secondScore {
			second, secondScore = label, score
		}
	}

	result.Intent = best
	result.Confidence = bestScore
	result.MultipleIntents = bestScore-secondScore < 0.1
	return result
}

// labelVectors embeds the label prototypes on first use. A failed attempt is
// not memoized so a recovered embedder re-enables classification.
func (c *IntentClassifier) labelVectors(ctx context.Context) (map[string][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prototypes != nil {
		return c.prototypes, nil
	}

	labels := make([]string, 0, len(intentPrototypes))
	texts := make([]string, 0, len(intentPrototypes))
	for label, prototype := range intentPrototypes {
		labels = append(labels, label)
		texts = append(texts, prototype)
	}

	vectors, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("embed labels: got %d vectors for %d labels", len(vectors), len(labels))
	}

	prototypes := make(map[string][]float32, len(labels))
	for i, label := range labels {
		prototypes[label] = vectors[i]
	}
	c.prototypes = prototypes
	return c.prototypes, nil
}

func detectQuestionType(question string) string {
	lower := strings.ToLower(strings.TrimSpace(question))
	switch {
	case lower == "":
		return domain.QuestionOther
	case isComparisonQuestion(lower):
		return domain.QuestionCompare
	case isListQuestion(lower):
		return domain.QuestionList
	case strings.HasPrefix(lower, "define ") || strings.Contains(lower, "definition of") ||
		strings.Contains(lower, "meaning of"):
		return domain.QuestionDefinition
	case strings.HasPrefix(lower, "what"):
		return domain.QuestionWhat
	case strings.HasPrefix(lower, "how"):
		return domain.QuestionHow
	case strings.HasPrefix(lower, "why"):
		return domain.QuestionWhy
	default:
		return domain.QuestionOther
	}
}
