package fetch

import (
	"context"

	"mediawatch/internal/domain"
)

// Request carries all parameters required to query one source.
type Request struct {
	Query   string
	Domains []string
	Limit   int
}

// Fetcher captures a single source adapter (Google News RSS, NewsAPI, etc.).
// A fetcher that cannot reach its source fails with domain.ErrFetchUnavailable;
// the pipeline then proceeds with zero records from that source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.ArticleRecord, error)
}

// Registry keeps the ordered list of fetchers a search fans out to.
type Registry struct {
	fetchers []Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a fetcher; order determines fetch order, which in turn
// decides the survivor on deduplication ties.
func (r *Registry) Register(f Fetcher) {
	if f == nil {
		return
	}
	r.fetchers = append(r.fetchers, f)
}

// All returns the registered fetchers in registration order.
func (r *Registry) All() []Fetcher {
	return r.fetchers
}
