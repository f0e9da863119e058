package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type SaleRepository interface {
	UpsertSale(ctx context.Context, in SaleUpsert) (*UpsertResult, error)
	FindSale(ctx context.Context, orderID, vendorID string) (*SaleRecord, error)
	SumAmount(ctx context.Context, vendorID string, period Period, excludeStates []OrderState) (decimal.NullDecimal, error)
	DistinctVendors(ctx context.Context, period Period) ([]string, error)
	SetRateForPeriod(ctx context.Context, vendorID string, period Period, rate decimal.Decimal) (int64, error)
	MarkPaid(ctx context.Context, ids []string) (int64, error)
	Query(ctx context.Context, filter SaleFilter) ([]*SaleRecord, error)
	Summarize(ctx context.Context, vendorID string, period *Period) ([]*SaleSummary, error)
}

// CouponLookup resolves the vendor a coupon is linked to. ok is false for
// coupons with no vendor configured.
type CouponLookup interface {
	VendorForCoupon(ctx context.Context, code string) (vendorID string, ok bool, err error)
}

type CouponRepository interface {
	CouponLookup
	AssignCoupon(ctx context.Context, code, vendorID string) error
	UnassignCoupon(ctx context.Context, code string) error
}
