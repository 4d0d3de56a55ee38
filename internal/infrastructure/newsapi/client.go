// Package newsapi implements the NewsAPI /v2/everything fetcher, used when
// an API key is configured.
package newsapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"mediawatch/internal/domain"
	"mediawatch/internal/fetch"
)

const defaultBaseURL = "https://newsapi.org"

// Client talks to NewsAPI over its JSON API.
type Client struct {
	http   *resty.Client
	apiKey string
}

var _ fetch.Fetcher = (*Client)(nil)

// NewClient builds a client with a bounded request timeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(timeout)
	return &Client{http: httpClient, apiKey: apiKey}
}

// Name identifies the fetcher in logs and diagnostics.
func (c *Client) Name() string {
	return "newsapi"
}

type apiResponse struct {
	Status   string       `json:"status"`
	Articles []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Fetch queries /v2/everything sorted by publication date. Domain
// restrictions map onto the comma-separated domains parameter.
func (c *Client) Fetch(ctx context.Context, req fetch.Request) ([]domain.ArticleRecord, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	params := map[string]string{
		"q":        req.Query,
		"language": "en",
		"sortBy":   "publishedAt",
		"pageSize": strconv.Itoa(limit),
		"apiKey":   c.apiKey,
	}
	if len(req.Domains) > 0 {
		params["domains"] = strings.Join(req.Domains, ",")
	}

	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("%w: newsapi: %v", domain.ErrFetchUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: newsapi returned %s", domain.ErrFetchUnavailable, resp.Status())
	}
	if out.Status != "ok" {
		return nil, fmt.Errorf("%w: newsapi status %q", domain.ErrFetchUnavailable, out.Status)
	}

	records := make([]domain.ArticleRecord, 0, len(out.Articles))
	for _, art := range out.Articles {
		var publishedAt time.Time
		if art.PublishedAt != "" {
			if t, parseErr := time.Parse(time.RFC3339, art.PublishedAt); parseErr == nil {
				publishedAt = t.UTC()
			}
		}

		records = append(records, domain.ArticleRecord{
			Title:       art.Title,
			URL:         art.URL,
			SourceName:  art.Source.Name,
			PublishedAt: publishedAt,
		})
	}

	return records, nil
}
