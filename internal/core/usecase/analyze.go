package usecase

import (
	"strings"
	"unicode"

	"github.com/scholara/answer-engine/internal/core/domain"
)

// QuestionAnalyzer extracts entities, topics and structural characteristics
// from the raw question text. It is deterministic and never fails; an empty
// question simply yields an empty analysis.
type QuestionAnalyzer struct {
	vocab *Vocabulary
}

func NewQuestionAnalyzer(vocab *Vocabulary) *QuestionAnalyzer {
	return &QuestionAnalyzer{vocab: vocab}
}

func (a *QuestionAnalyzer) Analyze(question string) domain.QuestionAnalysis {
	analysis := domain.QuestionAnalysis{
		Entities:   []string{},
		Topics:     []string{},
		Subjects:   []string{},
		Expansions: []string{},
	}
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		analysis.Complexity = domain.ComplexitySimple
		return analysis
	}

	words := strings.Fields(trimmed)
	tokens := splitAlphaNumLower(trimmed)

	analysis.Entities = a.extractEntities(words, tokens)
	for _, token := range tokens {
		if a.vocab.IsSubject(token) {
			analysis.Subjects = appendUnique(analysis.Subjects, token)
			analysis.Topics = appendUnique(analysis.Topics, token)
		}
		if a.vocab.IsTechnicalTerm(token) || a.vocab.IsLanguageName(token) {
			analysis.Topics = appendUnique(analysis.Topics, token)
		}
	}

	lower := strings.ToLower(trimmed)
	analysis.IsComparison = isComparisonQuestion(lower)
	analysis.IsProcedural = isProceduralQuestion(lower)
	analysis.IsList = isListQuestion(lower)
	analysis.Complexity = classifyComplexity(len(words), analysis)
	analysis.Expansions = a.buildExpansions(trimmed, lower, analysis)

	return analysis
}

// extractEntities keeps capitalized non-leading words and any word the
// vocabulary recognizes as a subject.
func (a *QuestionAnalyzer) extractEntities(words, tokens []string) []string {
	entities := []string{}
	for i, word := range words {
		cleaned := strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if cleaned == "" {
			continue
		}
		if i > 0 && unicode.IsUpper([]rune(cleaned)[0]) {
			entities = appendUnique(entities, cleaned)
		}
	}
	for _, token := range tokens {
		if a.vocab.IsSubject(token) {
			entities = appendUnique(entities, token)
		}
	}
	return entities
}

func (a *QuestionAnalyzer) buildExpansions(original, lower string, analysis domain.QuestionAnalysis) []string {
	expansions := []string{}

	if stripped := stripQuestionPrefix(lower); stripped != "" && stripped != lower {
		expansions = appendUnique(expansions, stripped)
	}
	if strings.Contains(lower, " vs ") {
		expansions = appendUnique(expansions, strings.ReplaceAll(lower, " vs ", " versus "))
	}
	if analysis.IsProcedural {
		if core := stripQuestionPrefix(lower); core != "" {
			expansions = appendUnique(expansions, core+" explained")
		}
	}
	return expansions
}

var questionPrefixes = []string{
	"what is ", "what are ", "how do i ", "how do you ", "how to ", "how does ",
	"how can i ", "why is ", "why does ", "explain ", "define ", "describe ",
	"tell me about ",
}

func stripQuestionPrefix(lower string) string {
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimRight(strings.TrimSpace(strings.TrimPrefix(lower, prefix)), "?")
		}
	}
	return strings.TrimRight(lower, "?")
}

func isComparisonQuestion(lower string) bool {
	if strings.Contains(lower, " vs ") || strings.Contains(lower, " vs. ") ||
		strings.Contains(lower, " versus ") || strings.Contains(lower, "compared to") ||
		strings.Contains(lower, "difference between") {
		return true
	}
	return strings.HasPrefix(lower, "compare ") || strings.Contains(lower, " compare ")
}

func isProceduralQuestion(lower string) bool {
	for _, marker := range []string{
		"how do i", "how do you", "how to", "how can i", "steps to",
		"step by step", "guide to", "tutorial", "process of", "procedure",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isListQuestion(lower string) bool {
	for _, marker := range []string{
		"list of", "list the", "examples of", "types of", "kinds of",
		"name some", "what are the", "enumerate",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return strings.HasPrefix(lower, "list ")
}

// classifyComplexity combines word count with compound signals. Two or more
// structural signals, or a long question, reads as complex.
func classifyComplexity(wordCount int, analysis domain.QuestionAnalysis) domain.Complexity {
	signals := 0
	if analysis.IsComparison {
		signals++
	}
	if analysis.IsProcedural {
		signals++
	}
	if analysis.IsList {
		signals++
	}

	switch {
	case wordCount > 15 || signals >= 2:
		return domain.ComplexityComplex
	case wordCount >= 8 || signals == 1:
		return domain.ComplexityModerate
	default:
		return domain.ComplexitySimple
	}
}

func appendUnique(dst []string, value string) []string {
	for _, existing := range dst {
		if strings.EqualFold(existing, value) {
			return dst
		}
	}
	return append(dst, value)
}
