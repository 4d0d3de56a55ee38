// Package storage persists monitoring run history to Postgres. The
// repository is optional: a nil database degrades every call to a no-op so
// the pipeline works without persistence configured.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"mediawatch/internal/domain"
	"mediawatch/internal/ports"
)

// PostgresRepository stores run summaries and article snapshots.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun inserts the run summary and one row per scored article. Bodies
// are not stored; the history is for audit and trend review, not re-display.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.MonitorRun) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRun := r.builder.
		Insert("monitor_runs").
		Columns("id", "keywords", "started_at", "article_count", "extraction_failures").
		Values(run.ID, pq.StringArray(run.Keywords), run.StartedAt, len(run.Articles), run.ExtractionFailures)

	query, args, err := insertRun.ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Articles) > 0 {
		insertArticles := r.builder.
			Insert("run_articles").
			Columns("run_id", "title", "url", "source_name", "published_at",
				"tier", "recency_score", "authority_score", "rank", "sentiment")

		for _, art := range run.Articles {
			var publishedAt any
			if !art.PublishedAt.IsZero() {
				publishedAt = art.PublishedAt
			}
			insertArticles = insertArticles.Values(
				run.ID, art.Title, art.URL, art.SourceName, publishedAt,
				string(art.Tier), art.RecencyScore, art.AuthorityScore, art.Rank,
				string(art.Sentiment),
			)
		}

		query, args, err = insertArticles.ToSql()
		if err != nil {
			return fmt.Errorf("build article insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert articles: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RecentRuns lists the newest run summaries.
func (r *PostgresRepository) RecentRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.builder.
		Select("id", "keywords", "started_at", "article_count").
		From("monitor_runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var summaries []domain.RunSummary
	for rows.Next() {
		var (
			summary  domain.RunSummary
			keywords pq.StringArray
		)
		if err := rows.Scan(&summary.ID, &keywords, &summary.StartedAt, &summary.ArticleCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summary.Keywords = keywords
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return summaries, nil
}
