package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

type SaleModel struct {
	ID             string              `gorm:"primaryKey;type:uuid"`
	OrderID        string              `gorm:"type:varchar(64);not null;uniqueIndex:idx_sales_order_vendor"`
	VendorID       string              `gorm:"type:varchar(64);not null;uniqueIndex:idx_sales_order_vendor;index:idx_sales_vendor_date"`
	Amount         decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	CommissionRate decimal.Decimal     `gorm:"type:decimal(5,2);not null"`
	Date           time.Time           `gorm:"not null;index:idx_sales_vendor_date;index:idx_sales_date"`
	OrderState     domain.OrderState   `gorm:"type:varchar(32);not null"`
	PaymentState   domain.PaymentState `gorm:"type:varchar(32);not null;index:idx_sales_payment_state"`
	CouponCode     string              `gorm:"type:varchar(50);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SaleModel) TableName() string {
	return "sales"
}
