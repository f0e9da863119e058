package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

func TestCouponRepositoryAssignLookupUnassign(t *testing.T) {
	ctx := context.Background()
	repo := NewDefaultCouponRepository(newTestDB(t))

	_, ok, err := repo.VendorForCoupon(ctx, "V10")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.AssignCoupon(ctx, " V10 ", "V1"))

	vendorID, ok, err := repo.VendorForCoupon(ctx, "v10")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "V1", vendorID)

	// reassigning moves the coupon to another vendor
	require.NoError(t, repo.AssignCoupon(ctx, "v10", "V2"))
	vendorID, _, err = repo.VendorForCoupon(ctx, "V10")
	require.NoError(t, err)
	assert.Equal(t, "V2", vendorID)

	require.NoError(t, repo.UnassignCoupon(ctx, "V10"))
	_, ok, err = repo.VendorForCoupon(ctx, "V10")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCouponRepositoryRejectsBlank(t *testing.T) {
	ctx := context.Background()
	repo := NewDefaultCouponRepository(newTestDB(t))

	assert.ErrorIs(t, repo.AssignCoupon(ctx, "  ", "V1"), domain.ErrInvalidCoupon)
	assert.ErrorIs(t, repo.AssignCoupon(ctx, "V10", ""), domain.ErrInvalidCoupon)
	assert.ErrorIs(t, repo.UnassignCoupon(ctx, ""), domain.ErrInvalidCoupon)

	_, ok, err := repo.VendorForCoupon(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}
