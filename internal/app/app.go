package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"mediawatch/internal/config"
	"mediawatch/internal/extract"
	"mediawatch/internal/fetch"
	"mediawatch/internal/infrastructure/extractor"
	"mediawatch/internal/infrastructure/feeds"
	"mediawatch/internal/infrastructure/gdelt"
	"mediawatch/internal/infrastructure/guardian"
	"mediawatch/internal/infrastructure/httpapi"
	"mediawatch/internal/infrastructure/newsapi"
	"mediawatch/internal/infrastructure/scheduler"
	"mediawatch/internal/infrastructure/storage"
	"mediawatch/internal/logging"
	"mediawatch/internal/ports"
	"mediawatch/internal/score"
	"mediawatch/internal/sentiment"
	"mediawatch/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	server   *httpapi.Server
	standing *usecase.StandingSearch
	db       *sql.DB
}

// New builds a runnable application instance from the loaded config.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	timeout := time.Duration(cfg.Extraction.TimeoutSeconds) * time.Second
	httpClient := &http.Client{Timeout: timeout}

	google := feeds.NewGoogleNews(httpClient, cfg.Extraction.UserAgent, baseLogger.With("component", "fetch.googlenews"))

	registry := fetch.NewRegistry()
	registry.Register(google)
	registry.Register(feeds.NewSiteSearch(google, cfg.Sources.SiteWindowDays))
	if cfg.Sources.NewsAPIKey != "" {
		registry.Register(newsapi.NewClient(cfg.Sources.NewsAPIKey, timeout))
	}
	if cfg.Sources.GuardianAPIKey != "" {
		registry.Register(guardian.NewClient(cfg.Sources.GuardianAPIKey, timeout))
	}
	if cfg.Sources.GDELTEnabled {
		registry.Register(gdelt.NewClient(timeout))
	}

	chain := extract.NewChain(cfg.Extraction.MinTextLength, baseLogger.With("component", "extract"),
		extractor.NewReadability(timeout, cfg.Extraction.UserAgent),
		extractor.NewDensity(timeout, cfg.Extraction.UserAgent),
		extractor.NewBodyText(timeout, cfg.Extraction.UserAgent),
	)

	table := score.NewReputationTable(cfg.Scoring.Reputation,
		cfg.Scoring.DefaultAuthority, score.TierFromString(cfg.Scoring.DefaultTier))
	scorer := score.NewScorer(table, score.PolicyFromConfig(cfg.Scoring))

	var tagger *sentiment.Tagger
	if cfg.Sentiment.Enabled {
		tagger = sentiment.NewTagger()
	}

	var db *sql.DB
	var repository ports.RunRepository
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		repository = storage.NewPostgresRepository(db)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetchers:   registry,
		Chain:      chain,
		Scorer:     scorer,
		Tagger:     tagger,
		Repository: repository,
		Aliases:    cfg.Publications,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	var standing *usecase.StandingSearch
	if cfg.Scheduler.CronExpression != "" && len(cfg.Scheduler.Keywords) > 0 {
		driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
		standing = usecase.NewStandingSearch(driver, pipeline, usecase.SearchRequest{
			Keywords: cfg.Scheduler.Keywords,
			Domains:  cfg.Scheduler.Domains,
			Limit:    cfg.Sources.MaxArticles,
		})
	}

	server := httpapi.NewServer(pipeline, repository, baseLogger.With("component", "http"))

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: pipeline,
		server:   server,
		standing: standing,
		db:       db,
	}, nil
}

// Run starts the standing search, if configured, and serves the dashboard
// API until the server stops.
func (a *Application) Run(ctx context.Context) error {
	if a.standing != nil {
		if err := a.standing.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() { _ = a.standing.Stop(ctx) }()
	}

	if a.db != nil {
		defer func() { _ = a.db.Close() }()
	}

	a.logger.Info("serving dashboard api", "addr", a.cfg.HTTP.Addr)
	return a.server.Run(a.cfg.HTTP.Addr)
}
