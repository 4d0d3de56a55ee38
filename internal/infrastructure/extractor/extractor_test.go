package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediawatch/internal/domain"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Copper prices climb</title>
  <meta property="article:published_time" content="2025-03-10T09:30:00Z">
</head>
<body>
  <nav>Home | Markets | Commodities</nav>
  <article>
    <h1>Copper prices climb on supply worries</h1>
    <p>Copper prices rose for a third straight session on Monday as traders
    weighed fresh disruptions at two of the largest mines in South America
    against softening demand signals from manufacturing surveys.</p>
    <p>Analysts said the supply picture had tightened faster than expected,
    with inventories at exchange warehouses falling to their lowest level
    in over a year while smelter maintenance season approaches.</p>
    <p>The metal, widely viewed as a barometer for the global economy,
    has gained more than eight percent since the start of the quarter.</p>
  </article>
  <script>trackPageView();</script>
  <footer>Contact us</footer>
</body>
</html>`

func sampleServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDensityExtract(t *testing.T) {
	t.Parallel()

	server := sampleServer(t)
	strategy := NewDensity(5*time.Second, "test-agent")

	res, err := strategy.Extract(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if !strings.Contains(res.Text, "Copper prices rose") {
		t.Fatalf("missing paragraph text: %q", res.Text)
	}
	if strings.Contains(res.Text, "trackPageView") {
		t.Fatalf("script content leaked into text: %q", res.Text)
	}

	want := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	if !res.PublishedAt.Equal(want) {
		t.Fatalf("published date = %v, want %v", res.PublishedAt, want)
	}
}

func TestBodyTextExtractStripsChrome(t *testing.T) {
	t.Parallel()

	server := sampleServer(t)
	strategy := NewBodyText(5*time.Second, "test-agent")

	res, err := strategy.Extract(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if !strings.Contains(res.Text, "supply picture had tightened") {
		t.Fatalf("missing body text: %q", res.Text)
	}
	for _, stripped := range []string{"trackPageView", "Contact us", "Home | Markets"} {
		if strings.Contains(res.Text, stripped) {
			t.Fatalf("%q should have been stripped: %q", stripped, res.Text)
		}
	}
}

func TestReadabilityExtract(t *testing.T) {
	t.Parallel()

	server := sampleServer(t)
	strategy := NewReadability(5*time.Second, "test-agent")

	res, err := strategy.Extract(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !strings.Contains(res.Text, "barometer for the global economy") {
		t.Fatalf("missing article text: %q", res.Text)
	}
}

func TestExtractRejectsNonHTML(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"not":"html"}`))
	}))
	defer server.Close()

	strategy := NewDensity(5*time.Second, "test-agent")
	_, err := strategy.Extract(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractRejectsHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	strategy := NewBodyText(5*time.Second, "test-agent")
	_, err := strategy.Extract(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}
