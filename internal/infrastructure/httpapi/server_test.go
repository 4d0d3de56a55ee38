package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mediawatch/internal/config"
	"mediawatch/internal/domain"
	"mediawatch/internal/fetch"
	"mediawatch/internal/logging"
	"mediawatch/internal/score"
	"mediawatch/internal/usecase"
)

type staticFetcher struct {
	records []domain.ArticleRecord
}

func (s *staticFetcher) Name() string { return "static" }

func (s *staticFetcher) Fetch(ctx context.Context, req fetch.Request) ([]domain.ArticleRecord, error) {
	out := make([]domain.ArticleRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()

	registry := fetch.NewRegistry()
	registry.Register(&staticFetcher{records: []domain.ArticleRecord{
		{Title: "Copper climbs", URL: "https://example.com/copper", SourceName: "Reuters", PublishedAt: time.Now().Add(-2 * time.Hour)},
		{Title: "Junk post", URL: "https://spam.example.com/x", SourceName: "Spam Daily"},
	}})

	table := score.NewReputationTable([]config.ReputationEntry{
		{Name: "Reuters", Score: 1.0, Tier: "top"},
		{Name: "Spam Daily", Score: 0.0, Tier: "excluded"},
	}, 0.3, domain.TierTrade)
	scorer := score.NewScorer(table, score.Policy{
		RecencyWindow:   7 * 24 * time.Hour,
		UnknownRecency:  0.2,
		RecencyWeight:   0.5,
		AuthorityWeight: 0.5,
	})

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetchers: registry,
		Scorer:   scorer,
	})

	return NewServer(pipeline, nil, logging.New("error"))
}

func postJSON(t *testing.T, s *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func runSearch(t *testing.T, s *Server) domain.MonitorRun {
	t.Helper()
	rec := postJSON(t, s, "/api/searches", map[string]any{"keywords": []string{"copper"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("search returned %d: %s", rec.Code, rec.Body.String())
	}
	var run domain.MonitorRun
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	return run
}

func TestSearchAndGetRun(t *testing.T) {
	s := testServer(t)
	run := runSearch(t, s)

	if len(run.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(run.Articles))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/searches/"+run.ID, nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get run returned %d", rec.Code)
	}
}

func TestSelectionToggle(t *testing.T) {
	s := testServer(t)
	run := runSearch(t, s)

	included := false
	body, _ := json.Marshal(map[string]any{"url": "https://example.com/copper", "included": &included})
	req := httptest.NewRequest(http.MethodPatch, "/api/searches/"+run.ID+"/articles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("selection returned %d: %s", rec.Code, rec.Body.String())
	}

	var art domain.ArticleRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &art); err != nil {
		t.Fatalf("decode article: %v", err)
	}
	if art.Included {
		t.Fatal("article should be deselected")
	}
}

func TestReportDownload(t *testing.T) {
	s := testServer(t)
	run := runSearch(t, s)

	rec := postJSON(t, s, "/api/searches/"+run.ID+"/report", map[string]any{"include_sentiment": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("report returned %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() == 0 {
		t.Fatal("report body is empty")
	}
	if disposition := rec.Header().Get("Content-Disposition"); disposition == "" {
		t.Fatal("missing attachment disposition")
	}
}

func TestConcurrentSelectionAndReport(t *testing.T) {
	s := testServer(t)
	run := runSearch(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		included := i%2 == 0

		wg.Add(2)
		go func(included bool) {
			defer wg.Done()
			body, _ := json.Marshal(map[string]any{"url": "https://example.com/copper", "included": &included})
			req := httptest.NewRequest(http.MethodPatch, "/api/searches/"+run.ID+"/articles", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.engine.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("selection returned %d", rec.Code)
			}
		}(included)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/searches/"+run.ID+"/report", bytes.NewReader([]byte(`{}`)))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.engine.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("report returned %d", rec.Code)
			}
		}()
	}
	wg.Wait()
}

func TestUnknownRun(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/searches/nope", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
