// Package scheduler drives standing searches on a cron expression.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"mediawatch/internal/ports"
)

// CronScheduler runs the registered job on a cron expression in the
// configured timezone.
type CronScheduler struct {
	spec   string
	runner *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler from a cron expression and location.
func NewCronScheduler(spec string, loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{
		spec:   spec,
		runner: cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the job and begins the cron loop.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil || c.spec == "" {
		return nil
	}

	if _, err := c.runner.AddFunc(c.spec, func() { job(time.Now()) }); err != nil {
		return fmt.Errorf("register cron %q: %w", c.spec, err)
	}
	c.runner.Start()

	go func() {
		<-ctx.Done()
		c.runner.Stop()
	}()

	return nil
}

// Stop halts the cron loop, waiting for a running job up to the context
// deadline.
func (c *CronScheduler) Stop(ctx context.Context) error {
	done := c.runner.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
