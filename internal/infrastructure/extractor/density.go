package extractor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mediawatch/internal/domain"
	"mediawatch/internal/extract"
)

// Density falls back to a paragraph-density heuristic: it picks the
// container holding the most paragraph text. Cruder than readability but
// survives layouts the readability parser rejects.
type Density struct {
	client    *http.Client
	userAgent string
}

var _ extract.Strategy = (*Density)(nil)

// NewDensity wires an HTTP client with a bounded timeout.
func NewDensity(timeout time.Duration, userAgent string) *Density {
	return &Density{client: newClient(timeout), userAgent: userAgent}
}

// Name identifies the strategy in diagnostics.
func (d *Density) Name() string {
	return "density"
}

// Extract selects the densest of article/main/body containers and joins
// its paragraphs. Also recovers the publish date from article meta tags.
func (d *Density) Extract(ctx context.Context, articleURL string) (extract.Result, error) {
	body, err := fetchHTML(ctx, d.client, articleURL, d.userAgent)
	if err != nil {
		return extract.Result{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return extract.Result{}, fmt.Errorf("%w: parse document: %v", domain.ErrExtractionFailed, err)
	}

	var best string
	for _, selector := range []string{"article", "main", "body"} {
		text := paragraphText(doc.Find(selector).First())
		if len(text) > len(best) {
			best = text
		}
	}

	if best == "" {
		return extract.Result{}, fmt.Errorf("%w: no paragraph content in %s", domain.ErrExtractionFailed, articleURL)
	}

	return extract.Result{
		Text:        best,
		PublishedAt: publishedFromMeta(doc),
	}, nil
}

func paragraphText(sel *goquery.Selection) string {
	var paragraphs []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n")
}

func publishedFromMeta(doc *goquery.Document) time.Time {
	for _, selector := range []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[itemprop="datePublished"]`,
	} {
		if value, ok := doc.Find(selector).First().Attr("content"); ok {
			if t := parsePublishedMeta(value); !t.IsZero() {
				return t
			}
		}
	}
	return time.Time{}
}
