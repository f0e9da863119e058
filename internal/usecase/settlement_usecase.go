package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
)

type SettlementUsecase interface {
	MarkPaid(ctx context.Context, token string, ids []string) (int64, error)
}

type DefaultSettlementUsecase struct {
	SaleRepo   domain.SaleRepository
	Authorizer domain.Authorizer
	Notifier   domain.CommissionNotifier
	Metrics    *metrics.CommissionMetrics
	Logger     *slog.Logger
}

func NewDefaultSettlementUsecase(
	saleRepo domain.SaleRepository,
	authorizer domain.Authorizer,
	notifier domain.CommissionNotifier,
	settlementMetrics *metrics.CommissionMetrics,
	logger *slog.Logger,
) *DefaultSettlementUsecase {
	return &DefaultSettlementUsecase{
		SaleRepo:   saleRepo,
		Authorizer: authorizer,
		Notifier:   notifier,
		Metrics:    settlementMetrics,
		Logger:     logger,
	}
}

// MarkPaid moves the given records to paid in one statement. The caller must
// hold an admin token. Records already paid still count as affected.
func (uc *DefaultSettlementUsecase) MarkPaid(ctx context.Context, token string, ids []string) (int64, error) {
	principal, err := uc.Authorizer.Authorize(ctx, token, domain.RoleAdmin)
	if err != nil {
		uc.Metrics.RecordSettlement("denied", 0)
		return 0, err
	}

	recordIDs := NormalizeRecordIDs(ids)
	if len(recordIDs) == 0 {
		uc.Metrics.RecordSettlement("empty", 0)
		return 0, nil
	}

	rows, err := uc.SaleRepo.MarkPaid(ctx, recordIDs)
	if err != nil {
		uc.Metrics.RecordSettlement("failed", 0)
		return 0, err
	}
	uc.Metrics.RecordSettlement("completed", rows)

	uc.Logger.Info("commissions marked paid",
		"admin", principal.Subject,
		"requested", len(ids),
		"ids", len(recordIDs),
		"rows", rows,
	)

	if uc.Notifier != nil {
		if err := uc.Notifier.Notify(ctx, domain.CommissionEvent{
			Type:         domain.CommissionEventPaid,
			RecordIDs:    recordIDs,
			RowsAffected: rows,
		}); err != nil {
			uc.Logger.Warn("failed to publish commission event", "type", domain.CommissionEventPaid, "error", err)
		}
	}

	return rows, nil
}

// NormalizeRecordIDs trims and de-duplicates ids, dropping anything that is
// not a UUID. Order of first occurrence is kept.
func NormalizeRecordIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		id := parsed.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
