package domain

const (
	IntentScholaraHelp = "scholara-help"
	IntentResourceQA   = "resource-qa"
	IntentWebSearch    = "web-search"
	IntentGreeting     = "greeting"
	IntentGeneral      = "general"
)

const (
	QuestionWhat       = "what"
	QuestionHow        = "how"
	QuestionWhy        = "why"
	QuestionCompare    = "compare"
	QuestionList       = "list"
	QuestionDefinition = "definition"
	QuestionOther      = "other"
)

// IntentResult is the zero-shot classification outcome for a question.
// MultipleIntents is set when the top two label scores are within 0.1.
type IntentResult struct {
	Intent          string  `json:"intent"`
	Confidence      float64 `json:"confidence"`
	QuestionType    string  `json:"question_type"`
	MultipleIntents bool    `json:"multiple_intents"`
}

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// QuestionAnalysis carries entities, topics and structural characteristics
// extracted from the question text.
type QuestionAnalysis struct {
	Entities     []string   `json:"entities"`
	Topics       []string   `json:"topics"`
	Subjects     []string   `json:"subjects"`
	Expansions   []string   `json:"expansions"`
	IsComparison bool       `json:"is_comparison"`
	IsProcedural bool       `json:"is_procedural"`
	IsList       bool       `json:"is_list"`
	Complexity   Complexity `json:"complexity"`
}
