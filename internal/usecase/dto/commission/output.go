package commissiondto

import (
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

type IngestedSale struct {
	VendorID   string
	CouponCode string
	RecordID   string
	Action     domain.UpsertAction
}

type IngestOutput struct {
	OrderID      string
	OrderState   domain.OrderState
	PaymentState domain.PaymentState
	Sales        []IngestedSale
	// Coupon codes with no vendor behind them.
	Unresolved []string
	// Coupon codes whose vendor id does not fit the ledger.
	Rejected []string
}

type TierRunOutput struct {
	RunID         string    `json:"run_id"`
	Period        string    `json:"period"`
	Vendors       int       `json:"vendors"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped"`
	Failed        int       `json:"failed"`
	FailedVendors []string  `json:"failed_vendors,omitempty"`
	RowsAffected  int64     `json:"rows_affected"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

func (o *TierRunOutput) ToDomain() *domain.TierRun {
	return &domain.TierRun{
		ID:           o.RunID,
		Period:       o.Period,
		Vendors:      o.Vendors,
		Updated:      o.Updated,
		Skipped:      o.Skipped,
		Failed:       o.Failed,
		RowsAffected: o.RowsAffected,
		StartedAt:    o.StartedAt,
		FinishedAt:   o.FinishedAt,
	}
}

type SaleOutput struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	VendorID       string    `json:"vendor_id"`
	Amount         string    `json:"amount"`
	CommissionRate string    `json:"commission_rate"`
	Commission     string    `json:"commission"`
	Date           time.Time `json:"date"`
	OrderState     string    `json:"order_state"`
	PaymentState   string    `json:"payment_state"`
	CouponCode     string    `json:"coupon_code"`
}

func ToSaleOutput(s *domain.SaleRecord) SaleOutput {
	return SaleOutput{
		ID:             s.ID,
		OrderID:        s.OrderID,
		VendorID:       s.VendorID,
		Amount:         s.Amount.StringFixed(2),
		CommissionRate: s.CommissionRate.StringFixed(2),
		Commission:     s.Commission().StringFixed(2),
		Date:           s.Date,
		OrderState:     string(s.OrderState),
		PaymentState:   string(s.PaymentState),
		CouponCode:     s.CouponCode,
	}
}

type SummaryOutput struct {
	PaymentState string `json:"payment_state"`
	Count        int64  `json:"count"`
	Amount       string `json:"amount"`
	Commission   string `json:"commission"`
}

type VendorSummaryOutput struct {
	VendorID string          `json:"vendor_id"`
	Period   string          `json:"period,omitempty"`
	States   []SummaryOutput `json:"states"`
	// Commission still owed: ready_to_pay rows.
	Payable string `json:"payable"`
	Paid    string `json:"paid"`
}
