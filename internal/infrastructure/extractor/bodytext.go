package extractor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mediawatch/internal/domain"
	"mediawatch/internal/extract"
)

// BodyText is the last resort: strip scripts and styles and take whatever
// text the body element holds. Produces noisy output, so it sits at the
// end of the chain behind the minimum-length gate.
type BodyText struct {
	client    *http.Client
	userAgent string
}

var _ extract.Strategy = (*BodyText)(nil)

// NewBodyText wires an HTTP client with a bounded timeout.
func NewBodyText(timeout time.Duration, userAgent string) *BodyText {
	return &BodyText{client: newClient(timeout), userAgent: userAgent}
}

// Name identifies the strategy in diagnostics.
func (b *BodyText) Name() string {
	return "bodytext"
}

// Extract returns the visible text of the page body.
func (b *BodyText) Extract(ctx context.Context, articleURL string) (extract.Result, error) {
	body, err := fetchHTML(ctx, b.client, articleURL, b.userAgent)
	if err != nil {
		return extract.Result{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return extract.Result{}, fmt.Errorf("%w: parse document: %v", domain.ErrExtractionFailed, err)
	}

	doc.Find("script, style, noscript, nav, header, footer").Remove()
	text := doc.Find("body").Text()
	if text == "" {
		return extract.Result{}, fmt.Errorf("%w: empty body in %s", domain.ErrExtractionFailed, articleURL)
	}

	return extract.Result{Text: text}, nil
}
