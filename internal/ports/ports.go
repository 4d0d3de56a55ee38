package ports

import (
	"context"
	"time"

	"mediawatch/internal/domain"
)

// RunRepository persists completed monitoring runs for history and audit.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.MonitorRun) error
	RecentRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// Scheduler controls when standing searches execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
