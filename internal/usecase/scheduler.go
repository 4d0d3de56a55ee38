package usecase

import (
	"context"
	"time"

	"mediawatch/internal/ports"
)

// StandingSearch wires the cron driver to a recurring pipeline search.
type StandingSearch struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	request  SearchRequest
}

// NewStandingSearch returns a helper to start/stop the recurring search.
func NewStandingSearch(driver ports.Scheduler, pipeline *Pipeline, request SearchRequest) *StandingSearch {
	return &StandingSearch{driver: driver, pipeline: pipeline, request: request}
}

// Start registers the search with the provided scheduler.
func (s *StandingSearch) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(time.Time) {
		_, _ = s.pipeline.Search(ctx, s.request)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *StandingSearch) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
