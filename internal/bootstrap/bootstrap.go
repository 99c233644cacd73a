package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scholara/answer-engine/internal/config"
	"github.com/scholara/answer-engine/internal/core/ports"
	"github.com/scholara/answer-engine/internal/core/usecase"
	redisCache "github.com/scholara/answer-engine/internal/infrastructure/cache/redis"
	"github.com/scholara/answer-engine/internal/infrastructure/document"
	"github.com/scholara/answer-engine/internal/infrastructure/llm"
	"github.com/scholara/answer-engine/internal/infrastructure/llm/ollama"
	"github.com/scholara/answer-engine/internal/infrastructure/queue/nats"
	"github.com/scholara/answer-engine/internal/infrastructure/repository/postgres"
	"github.com/scholara/answer-engine/internal/infrastructure/resilience"
	"github.com/scholara/answer-engine/internal/infrastructure/session/memstore"
	"github.com/scholara/answer-engine/internal/infrastructure/vector/qdrant"
	"github.com/scholara/answer-engine/internal/infrastructure/websearch"
	"github.com/scholara/answer-engine/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	Answerer ports.QuestionAnswerer
	Feedback ports.FeedbackCollector

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	const service = "answer-engine"

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	feedbackRepo := postgres.NewFeedbackRepository(db)
	if err := feedbackRepo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	serverMetrics := metrics.NewHTTPServerMetrics(service)
	executor := resilience.NewExecutor(resilience.DefaultConfig())

	var embedder ports.Embedder = ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel, executor)
	var embeddingCache *redisCache.EmbeddingCache
	if cfg.RedisAddr != "" {
		embeddingCache, err = redisCache.NewEmbeddingCache(redisCache.Config{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Database: cfg.RedisDB,
			Model:    cfg.OllamaEmbedModel,
		})
		if err != nil {
			logger.Warn("embedding cache disabled", "error", err)
		} else {
			embedder = llm.NewCachedEmbedder(embedder, embeddingCache, logger)
		}
	}

	vectorStore := qdrant.New(cfg.QdrantURL)
	index := usecase.NewVectorIndex(embedder, vectorStore, logger)

	var web ports.WebSearcher
	if cfg.WebSearchEnabled {
		web = websearch.NewDuckDuckGo()
	}
	retriever := usecase.NewMultiSourceRetriever(index, web, logger)
	retriever.SetWebFallbackHook(func() {
		serverMetrics.RecordWebFallback(service)
	})

	var events ports.EventPublisher
	publisher, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		logger.Warn("answer events disabled", "error", err)
	} else {
		events = publisher
	}

	sessions := memstore.New(cfg.MaxSessions)
	sessions.SetEvictionHook(func() {
		serverMetrics.RecordSessionEviction(service)
	})

	vocab := usecase.NewVocabulary()
	pipeline := usecase.NewAnswerPipeline(
		usecase.NewIntentClassifier(embedder, logger),
		usecase.NewQuestionAnalyzer(vocab),
		usecase.NewQueryReranker(vocab),
		retriever,
		usecase.NewPassageReranker(),
		usecase.NewContextOptimizer(),
		usecase.NewFormatSelector(vocab),
		usecase.NewAnswerSynthesizer(usecase.NewContentCleaner()),
		usecase.NewQualityScorer(embedder, vocab, logger),
		usecase.NewConversationMemory(sessions),
		usecase.NewResponseFormatter(cfg.FeedbackEnabled),
		document.NewFetcher(),
		events,
		logger,
		usecase.PipelineConfig{
			RetrieveLimit: cfg.RetrieveLimit,
			RerankTopK:    cfg.RerankTopK,
			MaxPassages:   cfg.MaxContextPassages,
			HistoryDepth:  cfg.HistoryDepth,
			StageTimeout:  time.Duration(cfg.StageTimeoutSeconds) * time.Second,
		},
	)

	return &App{
		Config:   cfg,
		Metrics:  serverMetrics,
		Answerer: pipeline,
		Feedback: usecase.NewFeedbackUseCase(feedbackRepo),

		closeFn: func() {
			if publisher != nil {
				publisher.Close()
			}
			if embeddingCache != nil {
				_ = embeddingCache.Close()
			}
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
