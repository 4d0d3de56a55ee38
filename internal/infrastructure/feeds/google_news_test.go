package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediawatch/internal/domain"
	"mediawatch/internal/fetch"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>"copper" - Google News</title>
    <item>
      <title>Copper prices climb on supply worries - Reuters</title>
      <link>https://example.com/copper-climbs</link>
      <pubDate>Mon, 10 Mar 2025 09:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Miners expand output - Mining Weekly</title>
      <link>https://example.com/miners-expand</link>
      <pubDate>Sun, 09 Mar 2025 08:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Untitled entry without separator</title>
      <link>https://news.example.org/entry</link>
    </item>
  </channel>
</rss>`

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGoogleNewsFetch(t *testing.T) {
	t.Parallel()

	server := feedServer(t, sampleFeed)
	g := NewGoogleNews(server.Client(), "test-agent", nil)
	g.baseURL = server.URL

	records, err := g.Fetch(context.Background(), fetch.Request{Query: "copper", Limit: 10})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Title != "Copper prices climb on supply worries" {
		t.Fatalf("source suffix not stripped: %q", first.Title)
	}
	if first.SourceName != "Reuters" {
		t.Fatalf("unexpected source: %q", first.SourceName)
	}
	want := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("published = %v, want %v", first.PublishedAt, want)
	}

	// No " - Source" suffix: the source degrades to the link host.
	if records[2].SourceName != "news.example.org" {
		t.Fatalf("expected host fallback, got %q", records[2].SourceName)
	}
	if !records[2].PublishedAt.IsZero() {
		t.Fatalf("missing pubDate should stay zero, got %v", records[2].PublishedAt)
	}
}

func TestGoogleNewsFetchLimit(t *testing.T) {
	t.Parallel()

	server := feedServer(t, sampleFeed)
	g := NewGoogleNews(server.Client(), "test-agent", nil)
	g.baseURL = server.URL

	records, err := g.Fetch(context.Background(), fetch.Request{Query: "copper", Limit: 1})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("limit not applied: got %d records", len(records))
	}
}

func TestGoogleNewsFetchUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewGoogleNews(server.Client(), "test-agent", nil)
	g.baseURL = server.URL

	_, err := g.Fetch(context.Background(), fetch.Request{Query: "copper"})
	if !errors.Is(err, domain.ErrFetchUnavailable) {
		t.Fatalf("expected ErrFetchUnavailable, got %v", err)
	}
}

func TestBuildSiteQuery(t *testing.T) {
	t.Parallel()

	got := buildSiteQuery("AI startups", "reuters.com", 7)
	want := "AI startups site:reuters.com when:7d"
	if got != want {
		t.Fatalf("buildSiteQuery = %q, want %q", got, want)
	}

	// Empty keyword still produces a valid domain-scoped query.
	got = buildSiteQuery("", "ft.com", 3)
	if got != "site:ft.com when:3d" {
		t.Fatalf("buildSiteQuery = %q", got)
	}
}

func TestSiteSearchFetch(t *testing.T) {
	t.Parallel()

	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	g := NewGoogleNews(server.Client(), "test-agent", nil)
	g.baseURL = server.URL
	s := NewSiteSearch(g, 7)

	records, err := s.Fetch(context.Background(), fetch.Request{
		Query:   "copper",
		Domains: []string{"reuters.com", "miningweekly.com"},
		Limit:   5,
	})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("expected 3 records per domain, got %d", len(records))
	}
	if len(queries) != 2 {
		t.Fatalf("expected one request per domain, got %d", len(queries))
	}
	for i, domainName := range []string{"reuters.com", "miningweekly.com"} {
		want := fmt.Sprintf("copper site:%s when:7d", domainName)
		if queries[i] != want {
			t.Fatalf("query %d = %q, want %q", i, queries[i], want)
		}
	}
}

func TestSiteSearchNoDomains(t *testing.T) {
	t.Parallel()

	g := NewGoogleNews(http.DefaultClient, "test-agent", nil)
	s := NewSiteSearch(g, 7)

	records, err := s.Fetch(context.Background(), fetch.Request{Query: "copper"})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if records != nil {
		t.Fatalf("expected no records without domains, got %d", len(records))
	}
}
