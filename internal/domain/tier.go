package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TierRun records a completed recalculation for a period.
type TierRun struct {
	ID           string
	Period       string
	Vendors      int
	Updated      int
	Skipped      int
	Failed       int
	RowsAffected int64
	StartedAt    time.Time
	FinishedAt   time.Time
}

type TierRunRepository interface {
	FindRun(ctx context.Context, period Period) (*TierRun, error)
	SaveRun(ctx context.Context, run *TierRun) error
}

// JobScheduler arms a one-shot job for a future instant.
type JobScheduler interface {
	ScheduleAt(ctx context.Context, at time.Time, job func(context.Context))
}

type Tier struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}
