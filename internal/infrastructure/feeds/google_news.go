// Package feeds implements the Google News RSS fetchers.
package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"mediawatch/internal/domain"
	"mediawatch/internal/fetch"
)

const defaultBaseURL = "https://news.google.com/rss/search"

// GoogleNews fetches candidate articles from the public Google News RSS
// search feed. It needs no API key, which makes it the always-available
// baseline source.
type GoogleNews struct {
	parser  *gofeed.Parser
	baseURL string
	logger  *slog.Logger
}

var _ fetch.Fetcher = (*GoogleNews)(nil)

// NewGoogleNews wires a feed parser over the shared HTTP client.
func NewGoogleNews(client *http.Client, userAgent string, logger *slog.Logger) *GoogleNews {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &GoogleNews{parser: parser, baseURL: defaultBaseURL, logger: logger}
}

// Name identifies the fetcher in logs and diagnostics.
func (g *GoogleNews) Name() string {
	return "google-news"
}

// Fetch runs one RSS search query and normalizes the entries.
func (g *GoogleNews) Fetch(ctx context.Context, req fetch.Request) ([]domain.ArticleRecord, error) {
	return g.search(ctx, req.Query, req.Limit)
}

func (g *GoogleNews) search(ctx context.Context, query string, limit int) ([]domain.ArticleRecord, error) {
	feedURL := g.baseURL + "?q=" + url.QueryEscape(query)

	feed, err := g.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: google news rss: %v", domain.ErrFetchUnavailable, err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	records := make([]domain.ArticleRecord, 0, len(items))
	for _, item := range items {
		title, source := splitSourceFromTitle(item.Title)
		if source == "" {
			source = hostOf(item.Link)
		}
		if source == "" {
			source = "Google News"
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		}

		records = append(records, domain.ArticleRecord{
			Title:       title,
			URL:         item.Link,
			SourceName:  source,
			PublishedAt: publishedAt,
		})
	}

	if g.logger != nil {
		g.logger.Debug("feed fetched", "query", query, "records", len(records))
	}
	return records, nil
}

// splitSourceFromTitle peels the " - Source" suffix Google News appends to
// every entry title.
func splitSourceFromTitle(title string) (string, string) {
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
	}
	return strings.TrimSpace(title), ""
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
