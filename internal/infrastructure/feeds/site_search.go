package feeds

import (
	"context"
	"fmt"
	"strings"

	"mediawatch/internal/domain"
	"mediawatch/internal/fetch"
)

// SiteSearch restricts Google News RSS queries to specific outlet domains
// using the site: and when: search operators.
type SiteSearch struct {
	google     *GoogleNews
	windowDays int
}

var _ fetch.Fetcher = (*SiteSearch)(nil)

// NewSiteSearch layers domain restriction over a GoogleNews fetcher.
// windowDays bounds results to recent coverage per domain.
func NewSiteSearch(google *GoogleNews, windowDays int) *SiteSearch {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &SiteSearch{google: google, windowDays: windowDays}
}

// Name identifies the fetcher in logs and diagnostics.
func (s *SiteSearch) Name() string {
	return "site-search"
}

// Fetch queries each requested domain separately. A domain that fails is
// skipped; the fetcher only reports the source unavailable when every
// domain failed.
func (s *SiteSearch) Fetch(ctx context.Context, req fetch.Request) ([]domain.ArticleRecord, error) {
	if len(req.Domains) == 0 {
		return nil, nil
	}

	var (
		records []domain.ArticleRecord
		failed  int
	)
	for _, siteDomain := range req.Domains {
		query := buildSiteQuery(req.Query, siteDomain, s.windowDays)
		found, err := s.google.search(ctx, query, req.Limit)
		if err != nil {
			failed++
			continue
		}
		records = append(records, found...)
	}

	if failed == len(req.Domains) {
		return nil, fmt.Errorf("%w: all %d site feeds failed", domain.ErrFetchUnavailable, failed)
	}
	return records, nil
}

func buildSiteQuery(query, siteDomain string, windowDays int) string {
	parts := make([]string, 0, 3)
	if q := strings.TrimSpace(query); q != "" {
		parts = append(parts, q)
	}
	if d := strings.TrimSpace(siteDomain); d != "" {
		parts = append(parts, "site:"+d)
	}
	parts = append(parts, fmt.Sprintf("when:%dd", windowDays))
	return strings.Join(parts, " ")
}
