package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	commissiondto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/commission"
)

type LedgerUsecase interface {
	ListSales(ctx context.Context, input *commissiondto.ListSalesInput) ([]commissiondto.SaleOutput, error)
	VendorSummary(ctx context.Context, vendorID, period string) (*commissiondto.VendorSummaryOutput, error)
	AssignCoupon(ctx context.Context, code, vendorID string) error
	UnassignCoupon(ctx context.Context, code string) error
}

type DefaultLedgerUsecase struct {
	SaleRepo domain.SaleRepository
	Coupons  domain.CouponRepository
	Loc      *time.Location
}

func NewDefaultLedgerUsecase(saleRepo domain.SaleRepository, coupons domain.CouponRepository, loc *time.Location) *DefaultLedgerUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &DefaultLedgerUsecase{
		SaleRepo: saleRepo,
		Coupons:  coupons,
		Loc:      loc,
	}
}

func (uc *DefaultLedgerUsecase) ListSales(ctx context.Context, input *commissiondto.ListSalesInput) ([]commissiondto.SaleOutput, error) {
	filter := domain.SaleFilter{
		VendorID:     strings.TrimSpace(input.VendorID),
		PaymentState: domain.PaymentState(input.PaymentState),
		OrderState:   domain.OrderState(input.OrderState),
		Limit:        input.Limit,
		Offset:       input.Offset,
	}
	if filter.PaymentState != "" && !filter.PaymentState.Valid() {
		return nil, fmt.Errorf("%w: payment_state %q", domain.ErrInvalidFilter, input.PaymentState)
	}
	if filter.OrderState != "" && !filter.OrderState.Valid() {
		return nil, fmt.Errorf("%w: order_state %q", domain.ErrInvalidFilter, input.OrderState)
	}
	if input.Limit < 0 || input.Offset < 0 {
		return nil, fmt.Errorf("%w: negative limit or offset", domain.ErrInvalidFilter)
	}
	if input.Period != "" {
		period, err := domain.ParsePeriod(input.Period, uc.Loc)
		if err != nil {
			return nil, err
		}
		filter.Period = &period
	}

	sales, err := uc.SaleRepo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]commissiondto.SaleOutput, 0, len(sales))
	for _, sale := range sales {
		out = append(out, commissiondto.ToSaleOutput(sale))
	}
	return out, nil
}

func (uc *DefaultLedgerUsecase) VendorSummary(ctx context.Context, vendorID, period string) (*commissiondto.VendorSummaryOutput, error) {
	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		return nil, fmt.Errorf("%w: vendor id is required", domain.ErrInvalidFilter)
	}

	var scope *domain.Period
	if period != "" {
		p, err := domain.ParsePeriod(period, uc.Loc)
		if err != nil {
			return nil, err
		}
		scope = &p
	}

	summaries, err := uc.SaleRepo.Summarize(ctx, vendorID, scope)
	if err != nil {
		return nil, err
	}

	out := &commissiondto.VendorSummaryOutput{
		VendorID: vendorID,
		States:   make([]commissiondto.SummaryOutput, 0, len(summaries)),
	}
	if scope != nil {
		out.Period = scope.String()
	}

	payable, paid := decimal.Zero, decimal.Zero
	for _, s := range summaries {
		switch s.PaymentState {
		case domain.PaymentStateReadyToPay:
			payable = payable.Add(s.Commission)
		case domain.PaymentStatePaid:
			paid = paid.Add(s.Commission)
		}
		out.States = append(out.States, commissiondto.SummaryOutput{
			PaymentState: string(s.PaymentState),
			Count:        s.Count,
			Amount:       s.Amount.StringFixed(2),
			Commission:   s.Commission.StringFixed(2),
		})
	}
	out.Payable = payable.StringFixed(2)
	out.Paid = paid.StringFixed(2)

	return out, nil
}

func (uc *DefaultLedgerUsecase) AssignCoupon(ctx context.Context, code, vendorID string) error {
	if strings.TrimSpace(code) == "" || strings.TrimSpace(vendorID) == "" {
		return fmt.Errorf("%w: code and vendor id are required", domain.ErrInvalidCoupon)
	}
	if utf8.RuneCountInString(strings.TrimSpace(code)) > domain.MaxCouponCodeLength ||
		utf8.RuneCountInString(strings.TrimSpace(vendorID)) > domain.MaxVendorIDLength {
		return fmt.Errorf("%w: code or vendor id too long", domain.ErrInvalidCoupon)
	}
	return uc.Coupons.AssignCoupon(ctx, code, strings.TrimSpace(vendorID))
}

func (uc *DefaultLedgerUsecase) UnassignCoupon(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: code is required", domain.ErrInvalidCoupon)
	}
	return uc.Coupons.UnassignCoupon(ctx, code)
}
