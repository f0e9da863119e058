package models

import "time"

// CouponVendorModel links a coupon code to the vendor earning commission on it.
type CouponVendorModel struct {
	Code      string `gorm:"primaryKey;type:varchar(50)"`
	VendorID  string `gorm:"type:varchar(64);not null;index:idx_coupon_vendors_vendor"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CouponVendorModel) TableName() string {
	return "coupon_vendors"
}
