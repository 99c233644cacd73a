package domain

// CollectionPassages is the primary knowledge collection; CollectionDocs holds
// product documentation. SourceWeb tags the web-search fallback passage.
const (
	CollectionPassages = "passages"
	CollectionDocs     = "documentation"

	SourceWeb = "web"
)

type SearchFilter struct {
	ResourceID string
	Category   string
}

// Passage is one retrievable unit of text. Score is a similarity in [0,1],
// higher is better, regardless of which source produced it.
type Passage struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Source   string            `json:"source"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type QueryOrigin string

const (
	OriginOriginal   QueryOrigin = "original"
	OriginExpanded   QueryOrigin = "expanded"
	OriginDecomposed QueryOrigin = "decomposed"
	OriginSynonym    QueryOrigin = "synonym"
)

// RankedQuery is one question variant used for retrieval fan-out. The original
// question is always present with Weight 1.0.
type RankedQuery struct {
	Text   string      `json:"text"`
	Weight float64     `json:"weight"`
	Origin QueryOrigin `json:"origin"`
}

// PassageScore carries a passage through reranking. CrossEncoderScore aliases
// VectorScore here; no separate cross-encoder model is involved.
type PassageScore struct {
	Passage
	VectorScore       float64 `json:"vector_score"`
	CrossEncoderScore float64 `json:"cross_encoder_score"`
	FinalScore        float64 `json:"final_score"`
}

// RetrievalResult is the merged output of the multi-source retriever.
type RetrievalResult struct {
	Passages           []Passage      `json:"passages"`
	SourceDistribution map[string]int `json:"source_distribution"`
}

// OptimizedContext is the bounded working set selected for synthesis.
type OptimizedContext struct {
	Passages  []PassageScore `json:"passages"`
	Coverage  string         `json:"coverage"`
	Quality   float64        `json:"quality"`
	Diversity float64        `json:"diversity"`
}
