package publisher

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

// OrderStatusEvent is the order subsystem's wire payload on the order status topic.
type OrderStatusEvent struct {
	OrderID     string          `json:"order_id"`
	OldStatus   string          `json:"old_status"`
	NewStatus   string          `json:"new_status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	CouponCodes []string        `json:"coupon_codes"`
}

func DecodeOrderStatusEvent(value []byte) (domain.OrderStatusChanged, error) {
	var event OrderStatusEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return domain.OrderStatusChanged{}, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}
	orderID := strings.TrimSpace(event.OrderID)
	if orderID == "" {
		return domain.OrderStatusChanged{}, fmt.Errorf("%w: missing order_id", domain.ErrInvalidEvent)
	}
	if err := domain.ValidateSaleKey(orderID, ""); err != nil {
		return domain.OrderStatusChanged{}, err
	}
	if err := domain.ValidateSaleAmount(event.Subtotal); err != nil {
		return domain.OrderStatusChanged{}, err
	}
	return event.ToDomain(), nil
}

func (e OrderStatusEvent) ToDomain() domain.OrderStatusChanged {
	return domain.OrderStatusChanged{
		OrderID:   strings.TrimSpace(e.OrderID),
		OldStatus: e.OldStatus,
		NewStatus: e.NewStatus,
		Order: domain.StaticOrder{
			SubtotalAmount: e.Subtotal,
			Codes:          e.CouponCodes,
		},
	}
}
