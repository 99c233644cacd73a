package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/scholara/answer-engine/internal/core/ports"
)

const (
	defaultEndpoint = "https://api.duckduckgo.com"
	maxResults      = 5
	maxCacheEntries = 500
	cacheTTL        = 5 * time.Minute
	userAgent       = "Mozilla/5.0 (compatible; AnswerEngine/1.0)"
)

type cacheEntry struct {
	results   []ports.WebResult
	expiresAt time.Time
}

// DuckDuckGo queries the instant-answer API. Results come from the abstract
// plus related topics; queries without an instant answer return no results,
// which the retriever treats the same as an offline provider.
type DuckDuckGo struct {
	endpoint   string
	httpClient *http.Client

	cacheMu sync.Mutex
	cache   map[string]cacheEntry
}

func NewDuckDuckGo() *DuckDuckGo {
	return NewDuckDuckGoWithEndpoint(defaultEndpoint)
}

func NewDuckDuckGoWithEndpoint(endpoint string) *DuckDuckGo {
	return &DuckDuckGo{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      make(map[string]cacheEntry),
	}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]ports.WebResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if results, ok := d.cached(query); ok {
		return results, nil
	}

	reqURL := fmt.Sprintf("%s/?q=%s&format=json&no_html=1", d.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo status: %s", resp.Status)
	}

	var ddg struct {
		AbstractText  string `json:"AbstractText"`
		AbstractURL   string `json:"AbstractURL"`
		Heading       string `json:"Heading"`
		RelatedTopics []struct {
			FirstURL string `json:"FirstURL"`
			Text     string `json:"Text"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ddg); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]ports.WebResult, 0, maxResults)
	if ddg.AbstractText != "" && ddg.AbstractURL != "" {
		results = append(results, ports.WebResult{
			Title:   ddg.Heading,
			Snippet: ddg.AbstractText,
			URL:     ddg.AbstractURL,
		})
	}
	for _, topic := range ddg.RelatedTopics {
		if len(results) >= maxResults {
			break
		}
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		results = append(results, ports.WebResult{
			Title:   topicTitle(topic.Text),
			Snippet: topic.Text,
			URL:     topic.FirstURL,
		})
	}

	d.store(query, results)
	return results, nil
}

func topicTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= 100 {
		return text
	}
	return string(runes[:100])
}

func (d *DuckDuckGo) cached(query string) ([]ports.WebResult, bool) {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	entry, ok := d.cache[query]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.results, true
}

func (d *DuckDuckGo) store(query string, results []ports.WebResult) {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	now := time.Now()
	for key, entry := range d.cache {
		if now.After(entry.expiresAt) {
			delete(d.cache, key)
		}
	}
	if len(d.cache) >= maxCacheEntries {
		// Full even after expiry sweep; drop the soonest-to-expire entry.
		var oldestKey string
		var oldestAt time.Time
		for key, entry := range d.cache {
			if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.expiresAt
			}
		}
		delete(d.cache, oldestKey)
	}
	d.cache[query] = cacheEntry{results: results, expiresAt: now.Add(cacheTTL)}
}
