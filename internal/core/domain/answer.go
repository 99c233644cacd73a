package domain

const (
	FormatTable     = "table"
	FormatBullets   = "bullet_points"
	FormatSteps     = "step_by_step"
	FormatCode      = "code"
	FormatNarrative = "narrative"
)

// FormatDecision records which presentation format won and by how much.
type FormatDecision struct {
	Format     string             `json:"format"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
}

// Snippet is one paragraph-level unit of cleaned content. Header snippets are
// promoted "Label:" prefixes; list snippets came from inline enumerations.
type Snippet struct {
	Text     string `json:"text"`
	IsHeader bool   `json:"is_header"`
	IsList   bool   `json:"is_list"`
}

// CleanedContent is the structured view of the retrieved passages after
// artifact repair and segmentation. Snippet order follows passage order.
type CleanedContent struct {
	Snippets   []Snippet           `json:"snippets"`
	Topics     map[string][]string `json:"topics"`
	TopicOrder []string            `json:"topic_order"`
	CodeBlocks []string            `json:"code_blocks"`
	Steps      []string            `json:"steps"`
}

// Source identifies one passage surfaced to the caller. Title and URL are
// optional depending on where the passage came from.
type Source struct {
	ID        string  `json:"id"`
	Title     string  `json:"title,omitempty"`
	Preview   string  `json:"preview,omitempty"`
	URL       string  `json:"url,omitempty"`
	Relevance float64 `json:"relevance"`
}

// GenerationResult is the synthesized answer. Confidence derives solely from
// passage scores and snippet coverage, never from answer length.
type GenerationResult struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Sources    []Source `json:"sources"`
	Snippets   []string `json:"snippets"`
	Method     string   `json:"method"`
}

const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// QualityScore is the post-hoc answer assessment. Relevance, Confidence and
// HallucinationRisk are percentages in [0,100].
type QualityScore struct {
	Relevance         float64 `json:"relevance"`
	Confidence        float64 `json:"confidence"`
	HallucinationRisk float64 `json:"hallucination_risk"`
	Rating            string  `json:"rating"`
	Flagged           bool    `json:"flagged"`
	FlagReason        string  `json:"flag_reason,omitempty"`
}

// FinalResponse is the client-facing envelope. It is always produced, even on
// internal failure, degrading to a safe fallback answer.
type FinalResponse struct {
	Answer           string           `json:"answer"`
	Format           string           `json:"format"`
	Confidence       float64          `json:"confidence"`
	ConfidenceLevel  string           `json:"confidenceLevel"`
	Sources          []Source         `json:"sources"`
	RelatedQuestions []string         `json:"relatedQuestions"`
	RelatedURL       string           `json:"relatedUrl,omitempty"`
	SuggestUpload    bool             `json:"suggestUpload"`
	FeedbackEnabled  bool             `json:"feedbackEnabled"`
	Metadata         ResponseMetadata `json:"metadata"`
}

type ResponseMetadata struct {
	AnswerID         string  `json:"answerId"`
	GenerationTimeMS int64   `json:"generationTime"`
	QualityRating    string  `json:"qualityRating"`
	IntentLabel      string  `json:"intent,omitempty"`
	QualityFlagged   bool    `json:"qualityFlagged,omitempty"`
	CoverageLevel    string  `json:"coverage,omitempty"`
	DiversityScore   float64 `json:"diversity,omitempty"`
}

// Feedback is one caller-submitted verdict on a produced answer.
type Feedback struct {
	ID       string `json:"id"`
	AnswerID string `json:"answer_id"`
	Helpful  bool   `json:"helpful"`
	Comment  string `json:"comment,omitempty"`
}
