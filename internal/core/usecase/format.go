package usecase

import (
	"regexp"
	"strings"

	"github.com/scholara/answer-engine/internal/core/domain"
)

// FormatSelector scores the five presentation formats from question and
// passage features and picks the winner. Identical inputs always produce the
// same decision.
type FormatSelector struct {
	vocab *Vocabulary
}

func NewFormatSelector(vocab *Vocabulary) *FormatSelector {
	return &FormatSelector{vocab: vocab}
}

type questionFeatures struct {
	entityCount int
	comparative bool
	procedural  bool
	listing     bool
	explanatory bool
	hasLanguage bool
}

type contentFeatures struct {
	keyValueRatio     float64
	parallelism       float64
	uniformity        float64
	temporalDensity   float64
	actionVerbDensity float64
	sequenceDensity   float64
	explanatoryTerms  float64
	technicalDensity  float64
	hasCodeBlocks     bool
}

func (s *FormatSelector) DetectFormat(question string, passages []domain.Passage) domain.FormatDecision {
	qf := s.questionFeatures(question)
	cf := s.contentFeatures(passages)

	scores := map[string]float64{
		domain.FormatTable:     s.scoreTable(qf, cf),
		domain.FormatSteps:     s.scoreSteps(qf, cf),
		domain.FormatBullets:   s.scoreBullets(qf, cf),
		domain.FormatCode:      s.scoreCode(qf, cf),
		domain.FormatNarrative: s.scoreNarrative(qf, cf),
	}

	// Fixed evaluation order keeps ties deterministic; narrative wins a
	// dead heat as the safest default.
	order := []string{
		domain.FormatNarrative,
		domain.FormatTable,
		domain.FormatSteps,
		domain.FormatBullets,
		domain.FormatCode,
	}
	best := order[0]
	second := 0.0
	for _, format := range order[1:] {
		if scores[format] > scores[best] {
			second = scores[best]
			best = format
		} else if scores[format] > second {
			second = scores[format]
		}
	}

	gap := scores[best] - second
	confidence := scores[best] * (0.5 + gap)
	if confidence > 1.0 {
		confidence = 1.0
	}

	return domain.FormatDecision{
		Format:     best,
		Confidence: clamp01(confidence),
		Scores:     scores,
	}
}

func (s *FormatSelector) scoreTable(qf questionFeatures, cf contentFeatures) float64 {
	score := 0.20*cf.keyValueRatio + 0.15*cf.parallelism + 0.10*cf.uniformity
	if qf.comparative {
		score += 0.45
	}
	if qf.entityCount >= 2 {
		score += 0.10
	}
	return score
}

func (s *FormatSelector) scoreSteps(qf questionFeatures, cf contentFeatures) float64 {
	score := 0.30*cf.sequenceDensity + 0.15*cf.actionVerbDensity + 0.10*cf.temporalDensity
	if qf.procedural {
		score += 0.45
	}
	return score
}

func (s *FormatSelector) scoreBullets(qf questionFeatures, cf contentFeatures) float64 {
	score := 0.25*cf.parallelism + 0.20*cf.uniformity
	if qf.listing {
		score += 0.40
	}
	if qf.entityCount >= 3 {
		score += 0.15
	}
	return score
}

func (s *FormatSelector) scoreCode(qf questionFeatures, cf contentFeatures) float64 {
	score := 0.15 * cf.technicalDensity
	if cf.hasCodeBlocks {
		score += 0.55
	}
	if qf.hasLanguage {
		score += 0.30
	}
	return score
}

func (s *FormatSelector) scoreNarrative(qf questionFeatures, cf contentFeatures) float64 {
	score := 0.25 + 0.20*cf.explanatoryTerms + 0.10*(1.0-cf.uniformity)
	if qf.explanatory {
		score += 0.30
	}
	return score
}

func (s *FormatSelector) questionFeatures(question string) questionFeatures {
	lower := strings.ToLower(question)
	qf := questionFeatures{
		comparative: isComparisonQuestion(lower),
		procedural:  isProceduralQuestion(lower),
		listing:     isListQuestion(lower),
	}

	qf.explanatory = strings.HasPrefix(lower, "why") || strings.HasPrefix(lower, "explain") ||
		strings.Contains(lower, "what is") || strings.Contains(lower, "describe")

	for _, token := range splitAlphaNumLower(question) {
		if s.vocab.IsSubject(token) || s.vocab.IsTechnicalTerm(token) {
			qf.entityCount++
		}
		if s.vocab.IsLanguageName(token) {
			qf.hasLanguage = true
		}
	}
	return qf
}

var (
	keyValueLine = regexp.MustCompile(`^\s*[\w .()/-]{2,40}:\s+\S`)
	codeFence    = regexp.MustCompile("(?s)```.+?```")
	numberedLine = regexp.MustCompile(`^\s*(\d+[.)]|Step\s+\d+)`)
)

func (s *FormatSelector) contentFeatures(passages []domain.Passage) contentFeatures {
	cf := contentFeatures{}
	if len(passages) == 0 {
		return cf
	}

	totalWords := 0
	markerCounts := struct{ temporal, action, sequence, explanatory, technical int }{}
	lineCount := 0
	keyValueLines := 0
	numberedLines := 0
	lengths := make([]int, 0, len(passages))

	for _, p := range passages {
		if codeFence.MatchString(p.Text) {
			cf.hasCodeBlocks = true
		}
		lengths = append(lengths, len(p.Text))

		for _, line := range strings.Split(p.Text, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			lineCount++
			if keyValueLine.MatchString(line) {
				keyValueLines++
			}
			if numberedLine.MatchString(line) {
				numberedLines++
			}
		}

		for _, token := range splitAlphaNumLower(p.Text) {
			totalWords++
			switch {
			case s.vocab.IsSequenceMarker(token):
				markerCounts.sequence++
			case s.vocab.IsTemporalMarker(token):
				markerCounts.temporal++
			case s.vocab.IsActionVerb(token):
				markerCounts.action++
			case s.vocab.IsTechnicalTerm(token):
				markerCounts.technical++
			}
			switch token {
			case "because", "therefore", "means", "essentially", "consequently", "thus":
				markerCounts.explanatory++
			}
		}
	}

	if lineCount > 0 {
		cf.keyValueRatio = float64(keyValueLines) / float64(lineCount)
		cf.parallelism = float64(numberedLines+keyValueLines) / float64(lineCount)
	}
	if totalWords > 0 {
		scale := func(count int) float64 {
			return clamp01(float64(count) / float64(totalWords) * 20.0)
		}
		cf.temporalDensity = scale(markerCounts.temporal)
		cf.actionVerbDensity = scale(markerCounts.action)
		cf.sequenceDensity = scale(markerCounts.sequence)
		cf.explanatoryTerms = scale(markerCounts.explanatory)
		cf.technicalDensity = scale(markerCounts.technical)
	}
	cf.uniformity = lengthUniformity(lengths)
	return cf
}

// lengthUniformity is 1 when every passage has the same length and falls
// toward 0 as lengths diverge.
func lengthUniformity(lengths []int) float64 {
	if len(lengths) < 2 {
		return 1
	}
	mean := 0.0
	for _, l := range lengths {
		mean += float64(l)
	}
	mean /= float64(len(lengths))
	if mean == 0 {
		return 1
	}

	variance := 0.0
	for _, l := range lengths {
		d := float64(l) - mean
		variance += d * d
	}
	variance /= float64(len(lengths))
	spread := variance / (mean * mean)
	return clamp01(1.0 - spread)
}
