package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
)

type DefaultCouponRepository struct {
	DB *gorm.DB
}

func NewDefaultCouponRepository(db *gorm.DB) *DefaultCouponRepository {
	return &DefaultCouponRepository{DB: db}
}

// Coupon codes are case-insensitive on the storefront, so they are stored lower-cased.
func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func (r *DefaultCouponRepository) VendorForCoupon(ctx context.Context, code string) (string, bool, error) {
	code = normalizeCode(code)
	if code == "" {
		return "", false, nil
	}

	var mapping models.CouponVendorModel
	err := r.DB.WithContext(ctx).Where("code = ?", code).Take(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to lookup coupon %s: %w", code, err)
	}
	if mapping.VendorID == "" {
		return "", false, nil
	}
	return mapping.VendorID, true, nil
}

func (r *DefaultCouponRepository) AssignCoupon(ctx context.Context, code, vendorID string) error {
	code = normalizeCode(code)
	vendorID = strings.TrimSpace(vendorID)
	if code == "" || vendorID == "" {
		return domain.ErrInvalidCoupon
	}

	mapping := models.CouponVendorModel{Code: code, VendorID: vendorID}
	if err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"vendor_id", "updated_at"}),
	}).Create(&mapping).Error; err != nil {
		return fmt.Errorf("failed to assign coupon %s: %w", code, err)
	}
	return nil
}

func (r *DefaultCouponRepository) UnassignCoupon(ctx context.Context, code string) error {
	code = normalizeCode(code)
	if code == "" {
		return domain.ErrInvalidCoupon
	}
	if err := r.DB.WithContext(ctx).
		Where("code = ?", code).
		Delete(&models.CouponVendorModel{}).Error; err != nil {
		return fmt.Errorf("failed to unassign coupon %s: %w", code, err)
	}
	return nil
}
