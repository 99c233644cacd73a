package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/scholara/answer-engine/internal/core/domain"
)

const maxDocumentBytes = 20 << 20

// Fetcher downloads an externally supplied resource and extracts its plain
// text. Only UTF-8 text and PDF are supported; anything else is rejected
// rather than half-decoded.
type Fetcher struct {
	httpClient *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create fetch request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.ErrSourceOffline, "fetch resource", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch resource status: %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("read resource body: %w", err)
	}
	if len(raw) > maxDocumentBytes {
		return "", fmt.Errorf("resource exceeds %d bytes", maxDocumentBytes)
	}

	if isPDF(resp.Header.Get("Content-Type"), raw) {
		return extractPDFText(raw)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("unsupported binary format: %s", resp.Header.Get("Content-Type"))
	}
	return strings.TrimSpace(string(raw)), nil
}

func isPDF(contentType string, raw []byte) bool {
	if strings.Contains(contentType, "application/pdf") {
		return true
	}
	return bytes.HasPrefix(raw, []byte("%PDF-"))
}

func extractPDFText(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(string(text)), nil
}
