// Package httpapi exposes the dashboard backend: run a search, inspect and
// select its articles, and download the rendered report.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"mediawatch/internal/domain"
	"mediawatch/internal/ports"
	"mediawatch/internal/report"
	"mediawatch/internal/usecase"
)

// Server owns the completed runs shown on the dashboard. Searches are
// request-synchronous; starting a new search supersedes the previous one
// by cancelling its context.
type Server struct {
	engine     *gin.Engine
	pipeline   *usecase.Pipeline
	repository ports.RunRepository
	logger     *slog.Logger

	mu         sync.Mutex
	runs       map[string]*domain.MonitorRun
	cancelPrev context.CancelFunc
}

// NewServer wires the routes.
func NewServer(pipeline *usecase.Pipeline, repository ports.RunRepository, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:     gin.New(),
		pipeline:   pipeline,
		repository: repository,
		logger:     logger,
		runs:       map[string]*domain.MonitorRun{},
	}

	s.engine.Use(gin.Recovery())

	api := s.engine.Group("/api")
	api.POST("/searches", s.handleSearch)
	api.GET("/searches/:id", s.handleGetRun)
	api.PATCH("/searches/:id/articles", s.handleSelection)
	api.POST("/searches/:id/report", s.handleReport)
	api.GET("/history", s.handleHistory)

	return s
}

// Run serves the API until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

type searchPayload struct {
	Keywords []string `json:"keywords" binding:"required"`
	Domains  []string `json:"domains"`
	Limit    int      `json:"limit"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var payload searchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := s.beginRun()

	run, err := s.pipeline.Search(ctx, usecase.SearchRequest{
		Keywords: payload.Keywords,
		Domains:  payload.Domains,
		Limit:    payload.Limit,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.JSON(http.StatusConflict, gin.H{"error": "search superseded by a newer one"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.runs[run.ID] = run
	snapshot := cloneRun(run)
	s.mu.Unlock()

	c.JSON(http.StatusOK, snapshot)
}

// beginRun cancels the context of the previous search and issues a fresh
// one. In-flight fetches of the superseded run are abandoned, not awaited.
func (s *Server) beginRun() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelPrev = cancel
	return ctx
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, ok := s.lookupRun(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown search"})
		return
	}
	c.JSON(http.StatusOK, run)
}

type selectionPayload struct {
	URL      string `json:"url" binding:"required"`
	Included *bool  `json:"included" binding:"required"`
}

func (s *Server) handleSelection(c *gin.Context) {
	var payload selectionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown search"})
		return
	}

	for i := range run.Articles {
		if run.Articles[i].URL == payload.URL {
			run.Articles[i].Included = *payload.Included
			c.JSON(http.StatusOK, run.Articles[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown article"})
}

type reportPayload struct {
	IncludeSentiment bool   `json:"include_sentiment"`
	Title            string `json:"title"`
}

func (s *Server) handleReport(c *gin.Context) {
	// An absent or malformed body means default options.
	var payload reportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		payload = reportPayload{}
	}

	run, ok := s.lookupRun(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown search"})
		return
	}

	dir, err := os.MkdirTemp("", "mediawatch-report-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%v: %v", domain.ErrRenderFailed, err)})
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "report.docx")
	opts := report.Options{
		Title:            payload.Title,
		GeneratedAt:      time.Now(),
		IncludeSentiment: payload.IncludeSentiment,
	}
	if err := report.Render(run.Articles, opts, path); err != nil {
		s.logger.Error("report rendering failed", "run", run.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report rendering failed, retry the request"})
		return
	}

	c.FileAttachment(path, fmt.Sprintf("mediawatch-%s.docx", run.StartedAt.Format("2006-01-02")))
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.repository == nil {
		c.JSON(http.StatusOK, []domain.RunSummary{})
		return
	}

	summaries, err := s.repository.RecentRuns(c.Request.Context(), 20)
	if err != nil {
		s.logger.Error("history lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "run history unavailable"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// lookupRun snapshots a stored run under the mutex. Handlers work on the
// copy so selection writes cannot race report rendering or serialization.
func (s *Server) lookupRun(id string) (domain.MonitorRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return domain.MonitorRun{}, false
	}
	return cloneRun(run), true
}

func cloneRun(run *domain.MonitorRun) domain.MonitorRun {
	out := *run
	out.Articles = make([]domain.ArticleRecord, len(run.Articles))
	copy(out.Articles, run.Articles)
	return out
}
