package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediawatch/internal/config"
	"mediawatch/internal/dedup"
	"mediawatch/internal/domain"
	"mediawatch/internal/extract"
	"mediawatch/internal/fetch"
	"mediawatch/internal/ports"
	"mediawatch/internal/score"
	"mediawatch/internal/sentiment"
)

// PipelineDeps wires all driven adapters into the monitoring pipeline.
type PipelineDeps struct {
	Fetchers   *fetch.Registry
	Chain      *extract.Chain
	Scorer     *score.Scorer
	Tagger     *sentiment.Tagger // nil disables sentiment tagging
	Repository ports.RunRepository
	Aliases    map[string][]string // publication name -> domains
	Logger     *slog.Logger
}

// Pipeline implements one keyword search: fetch from every source, dedup,
// extract missing bodies, score, and optionally tag sentiment. Failures
// are isolated to the smallest unit and never abort the overall search.
type Pipeline struct {
	fetchers   *fetch.Registry
	chain      *extract.Chain
	scorer     *score.Scorer
	tagger     *sentiment.Tagger
	repository ports.RunRepository
	aliases    map[string][]string
	logger     *slog.Logger
}

// SearchRequest describes one user-initiated (or scheduled) search.
type SearchRequest struct {
	Keywords []string
	Domains  []string // publication names or bare domains
	Limit    int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Pipeline{
		fetchers:   deps.Fetchers,
		chain:      deps.Chain,
		scorer:     deps.Scorer,
		tagger:     deps.Tagger,
		repository: deps.Repository,
		aliases:    deps.Aliases,
		logger:     deps.Logger,
	}
}

// Search runs the full pipeline and returns a completed run. The only
// errors it returns are context cancellation and having no usable input;
// per-source and per-article failures degrade and are aggregated.
func (p *Pipeline) Search(ctx context.Context, req SearchRequest) (*domain.MonitorRun, error) {
	keywords := cleanKeywords(req.Keywords)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords provided")
	}
	domains := config.ExpandDomains(p.aliases, req.Domains)

	run := &domain.MonitorRun{
		ID:        uuid.NewString(),
		Keywords:  keywords,
		StartedAt: time.Now().UTC(),
	}

	records := p.fetchAll(ctx, keywords, domains, req.Limit)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records = dedup.Collapse(records)

	records, failures, err := p.extractBodies(ctx, records)
	if err != nil {
		return nil, err
	}
	run.ExtractionFailures = failures

	records = p.scorer.Score(records)
	if p.tagger != nil {
		records = p.tagger.Tag(records)
	}
	run.Articles = records

	if failures > 0 {
		p.logger.Info("articles degraded to headline-only", "run", run.ID, "count", failures)
	}

	if p.repository != nil {
		if saveErr := p.repository.SaveRun(ctx, *run); saveErr != nil {
			p.logger.Warn("run not persisted", "run", run.ID, "error", saveErr)
		}
	}

	return run, nil
}

// fetchAll fans out every keyword to every registered fetcher. A failing
// source is skipped, never fatal to the search.
func (p *Pipeline) fetchAll(ctx context.Context, keywords, domains []string, limit int) []domain.ArticleRecord {
	var records []domain.ArticleRecord
	for _, keyword := range keywords {
		req := fetch.Request{Query: keyword, Domains: domains, Limit: limit}
		for _, fetcher := range p.fetchers.All() {
			if ctx.Err() != nil {
				return records
			}
			found, err := fetcher.Fetch(ctx, req)
			if err != nil {
				p.logger.Warn("source skipped", "source", fetcher.Name(), "keyword", keyword, "error", err)
				continue
			}
			for i := range found {
				found[i].Included = true
			}
			records = append(records, found...)
		}
	}
	return records
}

// extractBodies fills missing body text through the chain. Records that
// cannot be extracted are retained as headline-only.
func (p *Pipeline) extractBodies(ctx context.Context, records []domain.ArticleRecord) ([]domain.ArticleRecord, int, error) {
	if p.chain == nil {
		return records, 0, nil
	}

	failures := 0
	for i := range records {
		rec := &records[i]
		if rec.BodyText != "" || rec.URL == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		res, by, err := p.chain.Run(ctx, rec.URL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			failures++
			continue
		}

		rec.BodyText = res.Text
		rec.ExtractedBy = by
		if rec.PublishedAt.IsZero() && !res.PublishedAt.IsZero() {
			rec.PublishedAt = res.PublishedAt
		}
	}

	return records, failures, nil
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
