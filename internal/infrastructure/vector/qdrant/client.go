package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

// Client is a read-only search client over Qdrant's HTTP API. Collections are
// provisioned by the ingestion service; this process never creates or writes
// points.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Query(
	ctx context.Context,
	collection string,
	vector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]ports.ScoredPoint, error) {
	reqBody := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	if cond := buildFilter(filter); cond != nil {
		reqBody["filter"] = cond
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return nil, fmt.Errorf("qdrant search status: %s: %s", resp.Status, msg)
		}
		return nil, fmt.Errorf("qdrant search status: %s", resp.Status)
	}

	var searchResp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]ports.ScoredPoint, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		out = append(out, ports.ScoredPoint{
			ID:       fmt.Sprintf("%v", r.ID),
			Text:     getStringPayload(r.Payload, "text"),
			Distance: cosineDistance(r.Score),
			Metadata: payloadMetadata(r.Payload),
		})
	}
	return out, nil
}

// cosineDistance converts Qdrant's cosine similarity score into a distance
// where lower is closer.
func cosineDistance(score float64) float64 {
	d := 1 - score
	if d < 0 {
		return 0
	}
	return d
}

func buildFilter(filter domain.SearchFilter) map[string]any {
	var must []map[string]any
	if filter.ResourceID != "" {
		must = append(must, matchCondition("resource_id", filter.ResourceID))
	}
	if filter.Category != "" {
		must = append(must, matchCondition("category", filter.Category))
	}
	if len(must) == 0 {
		return nil
	}
	return map[string]any{"must": must}
}

func matchCondition(key, value string) map[string]any {
	return map[string]any{
		"key": key,
		"match": map[string]any{
			"value": value,
		},
	}
}

func payloadMetadata(payload map[string]any) map[string]string {
	if len(payload) == 0 {
		return nil
	}
	meta := make(map[string]string, len(payload))
	for key, v := range payload {
		if key == "text" {
			continue
		}
		if s, ok := v.(string); ok {
			meta[key] = s
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
