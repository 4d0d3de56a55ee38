package extractor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"mediawatch/internal/domain"
	"mediawatch/internal/extract"
)

// Readability extracts the main article content using the readability
// heuristic. First in the chain: best quality on mainstream layouts.
type Readability struct {
	client    *http.Client
	userAgent string
}

var _ extract.Strategy = (*Readability)(nil)

// NewReadability wires an HTTP client with a bounded timeout.
func NewReadability(timeout time.Duration, userAgent string) *Readability {
	return &Readability{client: newClient(timeout), userAgent: userAgent}
}

// Name identifies the strategy in diagnostics.
func (r *Readability) Name() string {
	return "readability"
}

// Extract downloads the page and runs the readability parser over it.
func (r *Readability) Extract(ctx context.Context, articleURL string) (extract.Result, error) {
	body, err := fetchHTML(ctx, r.client, articleURL, r.userAgent)
	if err != nil {
		return extract.Result{}, err
	}

	pageURL, err := url.Parse(articleURL)
	if err != nil {
		return extract.Result{}, fmt.Errorf("%w: invalid url %s: %v", domain.ErrExtractionFailed, articleURL, err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return extract.Result{}, fmt.Errorf("%w: readability: %v", domain.ErrExtractionFailed, err)
	}

	return extract.Result{Text: article.TextContent}, nil
}
