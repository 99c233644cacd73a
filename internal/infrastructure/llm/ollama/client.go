package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/scholara/answer-engine/internal/infrastructure/resilience"
)

// Client talks to the Ollama embedding API. The embedding model is loaded
// lazily: the first caller triggers a warm-up call and every concurrent
// caller waits on the same one-shot result, so a load failure surfaces to
// all of them exactly once.
type Client struct {
	baseURL    string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor

	warmOnce sync.Once
	warmErr  error
}

func New(baseURL, embedModel string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := c.warm(ctx); err != nil {
		return nil, err
	}

	var vectors [][]float32
	call := func(ctx context.Context) error {
		out, err := c.embed(ctx, texts)
		if err != nil {
			return err
		}
		vectors = out
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, resilience.OpEmbed, call, classifyOllamaError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("embed", err)
	}
	return vectors, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

// warm performs the one-shot model load check. The result is memoized: a
// failed load is fatal for this handle rather than retried per request.
func (c *Client) warm(ctx context.Context) error {
	c.warmOnce.Do(func() {
		if _, err := c.embed(ctx, []string{"warm-up"}); err != nil {
			c.warmErr = fmt.Errorf("load embedding model %q: %w", c.embedModel, err)
		}
	})
	return c.warmErr
}

func (c *Client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	request := map[string]any{
		"model": c.embedModel,
		"input": texts,
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := c.postJSON(ctx, "/api/embed", request, &response, "embed"); err != nil {
		return nil, err
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d inputs", len(response.Embeddings), len(texts))
	}
	return response.Embeddings, nil
}
