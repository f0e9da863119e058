package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
	commissiondto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/commission"
)

const defaultTierRetryDelay = 15 * time.Minute

type TierUsecase interface {
	RecalculatePeriod(ctx context.Context, period domain.Period) (*commissiondto.TierRunOutput, error)
	RunPeriod(ctx context.Context, period domain.Period) (*commissiondto.TierRunOutput, error)
	RunDue(ctx context.Context) error
	Start(ctx context.Context) error
	Location() *time.Location
}

type DefaultTierUsecase struct {
	SaleRepo  domain.SaleRepository
	TierRuns  domain.TierRunRepository
	Scheduler domain.JobScheduler
	// Notifier is optional; rate assignments are published when set.
	Notifier domain.CommissionNotifier
	Metrics  *metrics.CommissionMetrics
	Logger   *slog.Logger
	Tiers    []domain.Tier
	// ProvisionalRate applies when no tiers are configured.
	ProvisionalRate decimal.Decimal
	Loc             *time.Location
	Now             func() time.Time
	RetryDelay      time.Duration

	mu    sync.Mutex
	newID func() string
}

func NewDefaultTierUsecase(
	saleRepo domain.SaleRepository,
	tierRuns domain.TierRunRepository,
	scheduler domain.JobScheduler,
	notifier domain.CommissionNotifier,
	tierMetrics *metrics.CommissionMetrics,
	logger *slog.Logger,
	tiers []domain.Tier,
	provisionalRate decimal.Decimal,
	loc *time.Location,
) (*DefaultTierUsecase, error) {
	newID, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("failed to init run id generator: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DefaultTierUsecase{
		SaleRepo:        saleRepo,
		TierRuns:        tierRuns,
		Scheduler:       scheduler,
		Notifier:        notifier,
		Metrics:         tierMetrics,
		Logger:          logger,
		Tiers:           SortTiers(tiers),
		ProvisionalRate: provisionalRate,
		Loc:             loc,
		Now:             time.Now,
		RetryDelay:      defaultTierRetryDelay,
		newID:           newID,
	}, nil
}

func (uc *DefaultTierUsecase) Location() *time.Location {
	if uc.Loc == nil {
		return time.UTC
	}
	return uc.Loc
}

// SortTiers returns a copy ordered by threshold, highest first.
func SortTiers(tiers []domain.Tier) []domain.Tier {
	sorted := make([]domain.Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold.GreaterThan(sorted[j].Threshold)
	})
	return sorted
}

// TierFor picks the rate of the highest tier whose threshold the aggregate
// reaches. Thresholds are inclusive. Below every threshold the lowest tier applies;
// with no tiers at all the rate stays at fallback.
func TierFor(tiers []domain.Tier, aggregate, fallback decimal.Decimal) decimal.Decimal {
	if len(tiers) == 0 {
		return fallback
	}
	sorted := SortTiers(tiers)
	for _, tier := range sorted {
		if aggregate.GreaterThanOrEqual(tier.Threshold) {
			return tier.Rate
		}
	}
	return sorted[len(sorted)-1].Rate
}

// RecalculatePeriod assigns every vendor active in period the rate of the tier
// their non-cancelled total reaches. Cancelled records get the rate too.
func (uc *DefaultTierUsecase) RecalculatePeriod(ctx context.Context, period domain.Period) (*commissiondto.TierRunOutput, error) {
	if !uc.mu.TryLock() {
		return nil, domain.ErrTierRunInProgress
	}
	defer uc.mu.Unlock()

	report := &commissiondto.TierRunOutput{
		RunID:     uc.runID(),
		Period:    period.String(),
		StartedAt: uc.Now().UTC(),
	}
	logger := uc.Logger.With("run_id", report.RunID, "period", report.Period)
	logger.Info("tier recalculation started")

	vendorIDs, err := uc.SaleRepo.DistinctVendors(ctx, period)
	if err != nil {
		uc.Metrics.RecordTierRun("failed", uc.Now().Sub(report.StartedAt).Seconds())
		return nil, fmt.Errorf("tier run %s: %w", period, err)
	}
	report.Vendors = len(vendorIDs)

	excluded := []domain.OrderState{domain.OrderStateCancelled}
	for _, vendorID := range vendorIDs {
		if err := ctx.Err(); err != nil {
			uc.Metrics.RecordTierRun("cancelled", uc.Now().Sub(report.StartedAt).Seconds())
			return nil, err
		}

		total, err := uc.SaleRepo.SumAmount(ctx, vendorID, period, excluded)
		if err != nil {
			uc.vendorFailed(logger, report, vendorID, err)
			continue
		}
		// Только отмененные продажи: ставку не трогаем
		if !total.Valid {
			report.Skipped++
			uc.Metrics.RecordTierVendor("skipped")
			continue
		}

		rate := TierFor(uc.Tiers, total.Decimal, uc.ProvisionalRate)
		rows, err := uc.SaleRepo.SetRateForPeriod(ctx, vendorID, period, rate)
		if err != nil {
			uc.vendorFailed(logger, report, vendorID, err)
			continue
		}

		report.Updated++
		report.RowsAffected += rows
		uc.Metrics.RecordTierVendor("updated")
		uc.Metrics.RecordRateAssigned(rate.String(), rows)
		logger.Debug("vendor rate assigned",
			"vendor_id", vendorID,
			"total", total.Decimal.StringFixed(2),
			"rate", rate.String(),
			"rows", rows,
		)
		uc.notify(ctx, logger, domain.CommissionEvent{
			Type:         domain.CommissionEventRateAssigned,
			VendorID:     vendorID,
			Period:       report.Period,
			Rate:         rate.String(),
			RowsAffected: rows,
		})
	}

	report.FinishedAt = uc.Now().UTC()
	outcome := "completed"
	if report.Failed > 0 {
		outcome = "partial"
	}
	uc.Metrics.RecordTierRun(outcome, report.FinishedAt.Sub(report.StartedAt).Seconds())
	logger.Info("tier recalculation finished",
		"vendors", report.Vendors,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"rows", report.RowsAffected,
	)
	return report, nil
}

// RunPeriod recalculates period and records the run in the tier_runs guard.
// A run with failed vendors is not recorded, so the scheduled job retries it.
func (uc *DefaultTierUsecase) RunPeriod(ctx context.Context, period domain.Period) (*commissiondto.TierRunOutput, error) {
	report, err := uc.RecalculatePeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	if report.Failed > 0 {
		return report, fmt.Errorf("%w: %d of %d vendors failed", domain.ErrTierRunPartial, report.Failed, report.Vendors)
	}
	if err := uc.TierRuns.SaveRun(ctx, report.ToDomain()); err != nil {
		return report, err
	}
	return report, nil
}

// RunDue recalculates the month before the current one unless it was already
// recorded, then arms the next trigger. The job is rearmed even when the run
// fails: at the next month start, or after RetryDelay if the store errored.
func (uc *DefaultTierUsecase) RunDue(ctx context.Context) error {
	now := uc.Now().In(uc.Location())
	current := domain.PeriodOf(now)
	due := current.Previous()
	next := current.Next().Start()

	err := uc.runDue(ctx, due)
	if err != nil {
		retryAt := now.Add(uc.retryDelay())
		if retryAt.Before(next) {
			next = retryAt
		}
		uc.Logger.Error("scheduled tier run failed", "period", due.String(), "retry_at", next, "error", err)
	}

	if ctx.Err() == nil {
		uc.Scheduler.ScheduleAt(ctx, next, func(jobCtx context.Context) {
			_ = uc.RunDue(jobCtx)
		})
	}
	return err
}

// Start runs a missed period right away and arms the monthly trigger.
func (uc *DefaultTierUsecase) Start(ctx context.Context) error {
	return uc.RunDue(ctx)
}

func (uc *DefaultTierUsecase) runDue(ctx context.Context, period domain.Period) error {
	run, err := uc.TierRuns.FindRun(ctx, period)
	if err == nil {
		uc.Logger.Debug("tier run already recorded", "period", period.String(), "run_id", run.ID)
		return nil
	}
	if !errors.Is(err, domain.ErrTierRunNotFound) {
		return err
	}
	_, err = uc.RunPeriod(ctx, period)
	return err
}

func (uc *DefaultTierUsecase) vendorFailed(logger *slog.Logger, report *commissiondto.TierRunOutput, vendorID string, err error) {
	report.Failed++
	report.FailedVendors = append(report.FailedVendors, vendorID)
	uc.Metrics.RecordTierVendor("failed")
	logger.Error("tier recalculation failed for vendor", "vendor_id", vendorID, "error", err)
}

func (uc *DefaultTierUsecase) notify(ctx context.Context, logger *slog.Logger, event domain.CommissionEvent) {
	if uc.Notifier == nil {
		return
	}
	if err := uc.Notifier.Notify(ctx, event); err != nil {
		logger.Warn("failed to publish commission event", "type", event.Type, "vendor_id", event.VendorID, "error", err)
	}
}

func (uc *DefaultTierUsecase) runID() string {
	if uc.newID == nil {
		return fmt.Sprintf("tier-%d", uc.Now().UnixNano())
	}
	return uc.newID()
}

func (uc *DefaultTierUsecase) retryDelay() time.Duration {
	if uc.RetryDelay <= 0 {
		return defaultTierRetryDelay
	}
	return uc.RetryDelay
}
