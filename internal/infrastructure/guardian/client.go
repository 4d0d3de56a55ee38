// Package guardian implements the Guardian Open Platform fetcher. The API
// returns the article body directly, so records from this source skip the
// extraction chain entirely.
package guardian

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"mediawatch/internal/domain"
	"mediawatch/internal/fetch"
)

const (
	defaultBaseURL = "https://content.guardianapis.com"
	sourceName     = "The Guardian"
)

// Client talks to the Guardian content API.
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
	return "guardian"
}

type apiResponse struct {
	Response struct {
		Status  string      `json:"status"`
		Results []apiResult `json:"results"`
	} `json:"response"`
}

type apiResult struct {
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	WebPublicationDate string `json:"webPublicationDate"`
	Fields             struct {
		Body      string `json:"body"`
		TrailText string `json:"trailText"`
	} `json:"fields"`
}

// Fetch searches the Guardian archive newest-first, requesting the body
// field so no scraping is needed afterwards.
func (c *Client) Fetch(ctx context.Context, req fetch.Request) ([]domain.ArticleRecord, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           req.Query,
			"api-key":     c.apiKey,
			"page-size":   strconv.Itoa(limit),
			"order-by":    "newest",
			"show-fields": "body,trailText",
		}).
		SetResult(&out).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("%w: guardian: %v", domain.ErrFetchUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: guardian returned %s", domain.ErrFetchUnavailable, resp.Status())
	}

	records := make([]domain.ArticleRecord, 0, len(out.Response.Results))
	for _, item := range out.Response.Results {
		var publishedAt time.Time
		if item.WebPublicationDate != "" {
			if t, parseErr := time.Parse(time.RFC3339, item.WebPublicationDate); parseErr == nil {
				publishedAt = t.UTC()
			}
		}

		records = append(records, domain.ArticleRecord{
			Title:       item.WebTitle,
			URL:         item.WebURL,
			SourceName:  sourceName,
			PublishedAt: publishedAt,
			BodyText:    htmlToText(item.Fields.Body),
		})
	}

	return records, nil
}

// htmlToText flattens the API's HTML body into plain text.
func htmlToText(htmlBody string) string {
	if htmlBody == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return ""
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return strings.Join(paragraphs, "\n")
}
