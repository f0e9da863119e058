package domain

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Column limits of the sales table.
const (
	MaxOrderIDLength    = 64
	MaxVendorIDLength   = 64
	MaxCouponCodeLength = 50
)

// MaxSaleAmount is the largest amount a decimal(12,2) column holds.
var MaxSaleAmount = decimal.RequireFromString("9999999999.99")

// ValidateSaleKey reports ErrInvalidEvent for identifiers the ledger cannot store.
func ValidateSaleKey(orderID, vendorID string) error {
	if n := utf8.RuneCountInString(orderID); n > MaxOrderIDLength {
		return fmt.Errorf("%w: order_id has %d characters, max %d", ErrInvalidEvent, n, MaxOrderIDLength)
	}
	if n := utf8.RuneCountInString(vendorID); n > MaxVendorIDLength {
		return fmt.Errorf("%w: vendor_id has %d characters, max %d", ErrInvalidEvent, n, MaxVendorIDLength)
	}
	return nil
}

// ValidateSaleAmount rejects amounts that are negative or overflow after rounding to cents.
func ValidateSaleAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative subtotal", ErrInvalidEvent)
	}
	if amount.Round(2).GreaterThan(MaxSaleAmount) {
		return fmt.Errorf("%w: subtotal %s exceeds %s", ErrInvalidEvent, amount.String(), MaxSaleAmount.String())
	}
	return nil
}

// OrderRef is the slice of an order the ledger needs.
type OrderRef interface {
	Subtotal() decimal.Decimal
	CouponCodes() []string
}

type OrderStatusChanged struct {
	OrderID   string
	OldStatus string
	NewStatus string
	Order     OrderRef
}

// OrderStatusHandler reacts to a single status transition.
type OrderStatusHandler func(ctx context.Context, event OrderStatusChanged) error

// OrderEventSource is the order subsystem's notification channel.
// Subscribe blocks, delivering events to handler until ctx is done or the handler fails.
type OrderEventSource interface {
	Subscribe(ctx context.Context, handler OrderStatusHandler) error
}

// StaticOrder is an OrderRef backed by plain values.
type StaticOrder struct {
	SubtotalAmount decimal.Decimal
	Codes          []string
}

func (o StaticOrder) Subtotal() decimal.Decimal { return o.SubtotalAmount }

func (o StaticOrder) CouponCodes() []string { return o.Codes }
