package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
	commissiondto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/commission"
)

type OrderEventUsecase interface {
	HandleOrderStatusChanged(ctx context.Context, event domain.OrderStatusChanged) (*commissiondto.IngestOutput, error)
	Register(ctx context.Context, source domain.OrderEventSource) error
}

type DefaultOrderEventUsecase struct {
	SaleRepo domain.SaleRepository
	Coupons  domain.CouponLookup
	Metrics  *metrics.CommissionMetrics
	Logger   *slog.Logger
	Now      func() time.Time
}

func NewDefaultOrderEventUsecase(
	saleRepo domain.SaleRepository,
	coupons domain.CouponLookup,
	orderMetrics *metrics.CommissionMetrics,
	logger *slog.Logger,
) *DefaultOrderEventUsecase {
	return &DefaultOrderEventUsecase{
		SaleRepo: saleRepo,
		Coupons:  coupons,
		Metrics:  orderMetrics,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Register subscribes the ingestor to the order subsystem. Blocks until the
// source stops.
func (uc *DefaultOrderEventUsecase) Register(ctx context.Context, source domain.OrderEventSource) error {
	return source.Subscribe(ctx, func(ctx context.Context, event domain.OrderStatusChanged) error {
		_, err := uc.HandleOrderStatusChanged(ctx, event)
		return err
	})
}

// HandleOrderStatusChanged upserts one ledger record per vendor resolved from
// the order's coupons. Coupons without a vendor are skipped silently; lookup
// and store failures are returned so the delivery can be retried.
func (uc *DefaultOrderEventUsecase) HandleOrderStatusChanged(ctx context.Context, event domain.OrderStatusChanged) (*commissiondto.IngestOutput, error) {
	if strings.TrimSpace(event.OrderID) == "" || event.Order == nil {
		return nil, fmt.Errorf("%w: order reference is missing", domain.ErrInvalidEvent)
	}
	if err := domain.ValidateSaleKey(strings.TrimSpace(event.OrderID), ""); err != nil {
		return nil, err
	}
	if err := domain.ValidateSaleAmount(event.Order.Subtotal()); err != nil {
		return nil, err
	}

	orderState := domain.MapOrderStatus(event.NewStatus)
	paymentState := domain.PaymentStateFor(orderState)
	uc.Metrics.RecordOrderEvent(string(orderState))

	out := &commissiondto.IngestOutput{
		OrderID:      event.OrderID,
		OrderState:   orderState,
		PaymentState: paymentState,
	}

	codes := event.Order.CouponCodes()
	if len(codes) == 0 {
		return out, nil
	}

	subtotal := event.Order.Subtotal()
	now := uc.Now()
	seenCodes := make(map[string]struct{}, len(codes))
	seenVendors := make(map[string]struct{}, len(codes))

	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		key := strings.ToLower(code)
		if _, dup := seenCodes[key]; dup {
			continue
		}
		seenCodes[key] = struct{}{}

		vendorID, ok, err := uc.Coupons.VendorForCoupon(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve coupon %s for order %s: %w", code, event.OrderID, err)
		}
		if !ok {
			uc.Metrics.RecordUnresolvedCoupon()
			out.Unresolved = append(out.Unresolved, code)
			continue
		}
		if err := domain.ValidateSaleKey("", vendorID); err != nil {
			uc.Metrics.RecordRejectedEvent("vendor_id")
			uc.Logger.Warn("coupon vendor cannot be stored, sale skipped",
				"order_id", event.OrderID,
				"coupon", code,
				"error", err,
			)
			out.Rejected = append(out.Rejected, code)
			continue
		}
		// Один upsert на пару (заказ, вендор) за вызов
		if _, dup := seenVendors[vendorID]; dup {
			continue
		}
		seenVendors[vendorID] = struct{}{}

		res, err := uc.SaleRepo.UpsertSale(ctx, domain.SaleUpsert{
			OrderID:      event.OrderID,
			VendorID:     vendorID,
			Amount:       subtotal,
			OrderState:   orderState,
			PaymentState: paymentState,
			CouponCode:   code,
			Now:          now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record sale for order %s vendor %s: %w", event.OrderID, vendorID, err)
		}

		uc.Metrics.RecordUpsert(string(res.Action))
		if res.Action == domain.UpsertSkipped {
			uc.Logger.Warn("order status changed after settlement, paid record left unchanged",
				"order_id", event.OrderID,
				"vendor_id", vendorID,
				"record_id", res.Record.ID,
				"new_status", event.NewStatus,
			)
		} else {
			uc.Logger.Debug("sale recorded",
				"order_id", event.OrderID,
				"vendor_id", vendorID,
				"action", res.Action,
				"order_state", orderState,
			)
		}

		out.Sales = append(out.Sales, commissiondto.IngestedSale{
			VendorID:   vendorID,
			CouponCode: code,
			RecordID:   res.Record.ID,
			Action:     res.Action,
		})
	}

	return out, nil
}
