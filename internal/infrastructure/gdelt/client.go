// Package gdelt implements the GDELT DOC 2.0 fetcher for broader,
// machine-translated global coverage. Needs no API key.
package gdelt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"mediawatch/internal/domain"
	"mediawatch/internal/fetch"
)

const (
	defaultBaseURL = "https://api.gdeltproject.org"
	seenDateLayout = "20060102T150405Z"
)

// Client talks to the GDELT DOC 2.0 API in ArtList mode.
type Client struct {
	http *resty.Client
}

var _ fetch.Fetcher = (*Client)(nil)

// NewClient builds a client with a bounded request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(timeout)
	return &Client{http: httpClient}
}

// Name identifies the fetcher in logs and diagnostics.
func (c *Client) Name() string {
	return "gdelt"
}

type apiResponse struct {
	Articles []apiArticle `json:"articles"`
}

type apiArticle struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Domain   string `json:"domain"`
	SeenDate string `json:"seendate"`
}

// Fetch queries the rolling window newest-first.
func (c *Client) Fetch(ctx context.Context, req fetch.Request) ([]domain.ArticleRecord, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":      req.Query,
			"mode":       "ArtList",
			"maxrecords": strconv.Itoa(limit),
			"format":     "json",
			"sort":       "datedesc",
			"timespan":   "7d",
		}).
		SetResult(&out).
		Get("/api/v2/doc/doc")
	if err != nil {
		return nil, fmt.Errorf("%w: gdelt: %v", domain.ErrFetchUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: gdelt returned %s", domain.ErrFetchUnavailable, resp.Status())
	}

	records := make([]domain.ArticleRecord, 0, len(out.Articles))
	for _, art := range out.Articles {
		source := art.Domain
		if source == "" {
			source = "GDELT"
		}

		var publishedAt time.Time
		if art.SeenDate != "" {
			if t, parseErr := time.Parse(seenDateLayout, art.SeenDate); parseErr == nil {
				publishedAt = t.UTC()
			}
		}

		records = append(records, domain.ArticleRecord{
			Title:       art.Title,
			URL:         art.URL,
			SourceName:  source,
			PublishedAt: publishedAt,
		})
	}

	return records, nil
}
