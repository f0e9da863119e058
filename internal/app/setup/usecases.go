package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-commission-service/internal/usecase"
)

type UseCases struct {
	OrderEventUsecase usecase.OrderEventUsecase
	TierUsecase       usecase.TierUsecase
	SettlementUsecase usecase.SettlementUsecase
	LedgerUsecase     usecase.LedgerUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	orderEventUsecase := usecase.NewDefaultOrderEventUsecase(
		deps.Repositories.SaleRepo,
		deps.Repositories.CouponRepo,
		deps.Metrics,
		deps.Logger,
	)

	tierUsecase, err := usecase.NewDefaultTierUsecase(
		deps.Repositories.SaleRepo,
		deps.Repositories.TierRunRepo,
		deps.Scheduler,
		deps.Notifier,
		deps.Metrics,
		deps.Logger,
		deps.Tiers,
		deps.ProvisionalRate,
		deps.Location,
	)
	if err != nil {
		return nil, fmt.Errorf("tier usecase: %w", err)
	}
	tierUsecase.RetryDelay = deps.Config.Ledger.TierRetryDelay

	settlementUsecase := usecase.NewDefaultSettlementUsecase(
		deps.Repositories.SaleRepo,
		deps.Authorizer,
		deps.Notifier,
		deps.Metrics,
		deps.Logger,
	)

	ledgerUsecase := usecase.NewDefaultLedgerUsecase(
		deps.Repositories.SaleRepo,
		deps.Repositories.CouponRepo,
		deps.Location,
	)

	return &UseCases{
		OrderEventUsecase: orderEventUsecase,
		TierUsecase:       tierUsecase,
		SettlementUsecase: settlementUsecase,
		LedgerUsecase:     ledgerUsecase,
	}, nil
}
