package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderState string

const (
	OrderStateProcessing OrderState = "processing"
	OrderStateCompleted  OrderState = "completed"
	OrderStateCancelled  OrderState = "cancelled"
)

func (s OrderState) Valid() bool {
	switch s {
	case OrderStateProcessing, OrderStateCompleted, OrderStateCancelled:
		return true
	}
	return false
}

type PaymentState string

const (
	PaymentStatePendingCompletion PaymentState = "pending_completion"
	PaymentStateReadyToPay        PaymentState = "ready_to_pay"
	PaymentStatePaid              PaymentState = "paid"
	PaymentStateCancelled         PaymentState = "cancelled"
)

func (s PaymentState) Valid() bool {
	switch s {
	case PaymentStatePendingCompletion, PaymentStateReadyToPay, PaymentStatePaid, PaymentStateCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether ingestion must leave a record in this state untouched.
// Only the settlement path can move a record into it.
func (s PaymentState) IsTerminal() bool {
	return s == PaymentStatePaid
}

// ProvisionalRate is the commission percentage stored at ingestion, before the
// monthly tier run has rewritten it.
var ProvisionalRate = decimal.NewFromInt(10)

// SaleRecord is one ledger row: a single order attributed to a single vendor.
type SaleRecord struct {
	ID             string
	OrderID        string
	VendorID       string
	Amount         decimal.Decimal
	CommissionRate decimal.Decimal
	Date           time.Time
	OrderState     OrderState
	PaymentState   PaymentState
	CouponCode     string
}

// Commission is the payable amount for display: amount * rate / 100.
func (s *SaleRecord) Commission() decimal.Decimal {
	return s.Amount.Mul(s.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
}

type UpsertAction string

const (
	UpsertCreated UpsertAction = "created"
	UpsertUpdated UpsertAction = "updated"
	// UpsertUnchanged means a redelivered observation matched the stored record.
	UpsertUnchanged UpsertAction = "unchanged"
	// UpsertSkipped means the existing record is paid and was left as is.
	UpsertSkipped UpsertAction = "skipped"
)

type SaleUpsert struct {
	OrderID      string
	VendorID     string
	Amount       decimal.Decimal
	OrderState   OrderState
	PaymentState PaymentState
	CouponCode   string
	Now          time.Time
}

type UpsertResult struct {
	Record *SaleRecord
	Action UpsertAction
}

type SaleFilter struct {
	VendorID     string
	PaymentState PaymentState
	OrderState   OrderState
	Period       *Period
	Limit        int
	Offset       int
}

// SaleSummary aggregates one vendor's records sharing a payment state.
type SaleSummary struct {
	PaymentState PaymentState
	Count        int64
	Amount       decimal.Decimal
	Commission   decimal.Decimal
}
