package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

const (
	onDemandChunkSize = 1000
	onDemandChunkCap  = 100
	onDemandSource    = "resource"
)

type PipelineConfig struct {
	RetrieveLimit int
	RerankTopK    int
	MaxPassages   int
	HistoryDepth  int
	StageTimeout  time.Duration
}

func (c PipelineConfig) normalize() PipelineConfig {
	if c.RetrieveLimit <= 0 {
		c.RetrieveLimit = 10
	}
	if c.RerankTopK <= 0 {
		c.RerankTopK = 8
	}
	if c.MaxPassages <= 0 {
		c.MaxPassages = 5
	}
	if c.HistoryDepth <= 0 {
		c.HistoryDepth = 10
	}
	if c.StageTimeout <= 0 {
		c.StageTimeout = 10 * time.Second
	}
	return c
}

// AnswerPipeline drives one question through the fixed stage sequence:
// history, intent, analysis, retrieval (on-demand or global), format
// detection, rerank, optimize, synthesize, quality, memory, response.
// Stages never branch back; any failure a stage cannot degrade locally is
// caught once at this boundary and converted into a safe error envelope.
type AnswerPipeline struct {
	classifier  *IntentClassifier
	analyzer    *QuestionAnalyzer
	expander    *QueryReranker
	retriever   *MultiSourceRetriever
	reranker    *PassageReranker
	optimizer   *ContextOptimizer
	selector    *FormatSelector
	synthesizer *AnswerSynthesizer
	scorer      *QualityScorer
	memory      *ConversationMemory
	formatter   *ResponseFormatter
	fetcher     ports.DocumentFetcher
	events      ports.EventPublisher
	logger      *slog.Logger
	cfg         PipelineConfig
}

func NewAnswerPipeline(
	classifier *IntentClassifier,
	analyzer *QuestionAnalyzer,
	expander *QueryReranker,
	retriever *MultiSourceRetriever,
	reranker *PassageReranker,
	optimizer *ContextOptimizer,
	selector *FormatSelector,
	synthesizer *AnswerSynthesizer,
	scorer *QualityScorer,
	memory *ConversationMemory,
	formatter *ResponseFormatter,
	fetcher ports.DocumentFetcher,
	events ports.EventPublisher,
	logger *slog.Logger,
	cfg PipelineConfig,
) *AnswerPipeline {
	return &AnswerPipeline{
		classifier:  classifier,
		analyzer:    analyzer,
		expander:    expander,
		retriever:   retriever,
		reranker:    reranker,
		optimizer:   optimizer,
		selector:    selector,
		synthesizer: synthesizer,
		scorer:      scorer,
		memory:      memory,
		formatter:   formatter,
		fetcher:     fetcher,
		events:      events,
		logger:      logger,
		cfg:         cfg.normalize(),
	}
}

func (p *AnswerPipeline) ProcessQuestion(ctx context.Context, question, sessionID, resourceURL string) (resp *domain.FinalResponse) {
	started := time.Now()
	answerID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panic recovered",
				"answer_id", answerID, "session_id", sessionID, "panic", r)
			resp = p.formatter.ErrorResponse(answerID)
		}
	}()

	if strings.TrimSpace(question) == "" {
		return p.formatter.ErrorResponse(answerID)
	}

	history := p.memory.Context(sessionID, p.cfg.HistoryDepth)
	resolved := p.memory.ResolveReferences(question, history)

	intent := p.classifyIntent(ctx, resolved)
	analysis := p.analyzer.Analyze(resolved)

	var passages []domain.Passage
	if resourceURL != "" {
		passages = p.onDemandPassages(ctx, resourceURL)
	} else {
		ranked := p.expander.Rerank(resolved, analysis)
		retrieveCtx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
		result := p.retriever.Retrieve(retrieveCtx, resolved, ranked, intent, p.cfg.RetrieveLimit)
		cancel()
		passages = result.Passages
	}

	// Format detection runs on the raw retrieval so structural signals
	// survive the diversity filtering below.
	decision := p.selector.DetectFormat(resolved, passages)

	scored := p.reranker.Rerank(resolved, passages, p.cfg.RerankTopK, true)
	optimized := p.optimizer.Optimize(scored, resolved, p.cfg.MaxPassages)
	generation := p.synthesizer.Generate(resolved, optimized.Passages, decision.Format)

	scoreCtx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	quality := p.scorer.Score(scoreCtx, resolved, optimized.Passages, generation.Answer)
	cancel()

	p.memory.Store(sessionID, domain.RoleUser, question, nil)
	p.memory.Store(sessionID, domain.RoleAssistant, generation.Answer, map[string]string{
		"format":  decision.Format,
		"quality": quality.Rating,
	})

	duration := time.Since(started)
	resp = p.formatter.Format(responseInput{
		AnswerID:   answerID,
		Question:   question,
		Intent:     intent,
		Analysis:   analysis,
		Format:     decision,
		Generation: generation,
		Quality:    quality,
		Optimized:  optimized,
		DurationMS: duration.Milliseconds(),
	})

	p.publishAnswer(ctx, ports.AnswerPublished{
		AnswerID:   answerID,
		SessionID:  sessionID,
		Format:     decision.Format,
		Confidence: resp.Confidence,
		Rating:     quality.Rating,
		DurationMS: duration.Milliseconds(),
	})
	return resp
}

func (p *AnswerPipeline) classifyIntent(ctx context.Context, question string) domain.IntentResult {
	intentCtx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()
	return p.classifier.Classify(intentCtx, question)
}

// onDemandPassages fetches one externally supplied document, chunks it and
// returns pseudo-passages with score 1.0; the reranker and optimizer do the
// real discrimination afterwards. Fetch or parse failures degrade to an
// empty list.
func (p *AnswerPipeline) onDemandPassages(ctx context.Context, resourceURL string) []domain.Passage {
	if p.fetcher == nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	text, err := p.fetcher.FetchText(fetchCtx, resourceURL)
	if err != nil {
		p.logger.Warn("on-demand fetch failed", "url", resourceURL, "error", err)
		return nil
	}

	chunks := chunkDocument(text)
	passages := make([]domain.Passage, 0, len(chunks))
	for i, chunk := range chunks {
		passages = append(passages, domain.Passage{
			ID:     onDemandSource + ":" + strconv.Itoa(i),
			Text:   chunk,
			Source: onDemandSource,
			Score:  1.0,
			Metadata: map[string]string{
				"url": resourceURL,
			},
		})
	}
	return passages
}

// chunkDocument strips page-break markers, splits on paragraph boundaries and
// sub-splits anything over the chunk size, capped at 100 chunks.
func chunkDocument(text string) []string {
	text = strings.ReplaceAll(text, "\f", "\n\n")
	text = pageMarkerRe.ReplaceAllString(text, "")

	chunks := []string{}
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for _, piece := range subSplit(para, onDemandChunkSize) {
			chunks = append(chunks, piece)
			if len(chunks) >= onDemandChunkCap {
				return chunks
			}
		}
	}
	return chunks
}

func subSplit(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	out := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func (p *AnswerPipeline) publishAnswer(ctx context.Context, event ports.AnswerPublished) {
	if p.events == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.events.PublishAnswer(publishCtx, event); err != nil {
		p.logger.Warn("answer event publish failed", "answer_id", event.AnswerID, "error", err)
	}
}
