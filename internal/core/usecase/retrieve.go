package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

const (
	dedupPrefixLen   = 100
	webFallbackFloor = 3
)

// MultiSourceRetriever fans ranked queries out across the passage and
// documentation collections and falls back to web search when the index comes
// up short. Per-source failures are logged, never propagated: retrieval
// always returns a (possibly empty) result set.
type MultiSourceRetriever struct {
	index  *VectorIndex
	web    ports.WebSearcher
	logger *slog.Logger

	onWebFallback func()
}

func NewMultiSourceRetriever(index *VectorIndex, web ports.WebSearcher, logger *slog.Logger) *MultiSourceRetriever {
	return &MultiSourceRetriever{
		index:  index,
		web:    web,
		logger: logger,
	}
}

// SetWebFallbackHook registers a callback fired whenever a web passage is
// merged into the result set. Used for metrics; set before traffic starts.
func (r *MultiSourceRetriever) SetWebFallbackHook(fn func()) {
	r.onWebFallback = fn
}

func (r *MultiSourceRetriever) Retrieve(ctx context.Context, query string, rankedQueries []domain.RankedQuery, intent domain.IntentResult, limit int) domain.RetrievalResult {
	if limit <= 0 {
		limit = 10
	}
	if len(rankedQueries) == 0 {
		rankedQueries = []domain.RankedQuery{{Text: query, Weight: 1.0, Origin: domain.OriginOriginal}}
	}

	// The two collections are independent reads, so they run concurrently.
	var wg sync.WaitGroup
	var primary, docs []domain.Passage
	wg.Add(2)
	go func() {
		defer wg.Done()
		primary = r.index.MultiQuerySearch(ctx, rankedQueries, domain.CollectionPassages, limit, domain.SearchFilter{})
	}()
	go func() {
		defer wg.Done()
		docs = r.index.MultiQuerySearch(ctx, rankedQueries, domain.CollectionDocs, limit, domain.SearchFilter{})
	}()
	wg.Wait()

	merged := dedupePassages(append(primary, docs...))

	if len(merged) < webFallbackFloor || intent.Intent == domain.IntentWebSearch {
		if webPassage, ok := r.searchWeb(ctx, query); ok {
			merged = dedupePassages(append(merged, webPassage))
			if r.onWebFallback != nil {
				r.onWebFallback()
			}
		}
	}

	distribution := make(map[string]int, 3)
	for _, p := range merged {
		distribution[p.Source]++
	}
	return domain.RetrievalResult{
		Passages:           merged,
		SourceDistribution: distribution,
	}
}

// searchWeb synthesizes at most one passage from the web-search provider.
func (r *MultiSourceRetriever) searchWeb(ctx context.Context, query string) (domain.Passage, bool) {
	if r.web == nil {
		return domain.Passage{}, false
	}
	results, err := r.web.Search(ctx, query)
	if err != nil {
		r.logger.Warn("web search fallback failed", "query", query, "error", err)
		return domain.Passage{}, false
	}
	if len(results) == 0 {
		return domain.Passage{}, false
	}

	var b strings.Builder
	url := ""
	title := ""
	for i, res := range results {
		snippet := strings.TrimSpace(res.Snippet)
		if snippet == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(snippet)
		if url == "" {
			url = res.URL
			title = res.Title
		}
		if i >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return domain.Passage{}, false
	}

	return domain.Passage{
		ID:     "web:" + query,
		Text:   b.String(),
		Source: domain.SourceWeb,
		Score:  0.5,
		Metadata: map[string]string{
			"title": title,
			"url":   url,
		},
	}, true
}

// dedupePassages drops passages sharing the first 100 characters of
// normalized text, keeping the first occurrence.
func dedupePassages(passages []domain.Passage) []domain.Passage {
	seen := make(map[string]struct{}, len(passages))
	out := make([]domain.Passage, 0, len(passages))
	for _, p := range passages {
		key := normalizedPrefix(p.Text, dedupPrefixLen)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func normalizedPrefix(text string, n int) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	runes := []rune(normalized)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
