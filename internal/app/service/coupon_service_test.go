package service

import (
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var couponNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setupCouponServiceTest(t *testing.T) (*couponService, *gorm.DB) {
	testDB := setupTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(testDB)).(*couponService)
	svc.now = func() time.Time { return couponNow }
	return svc, testDB
}

func flat500() CouponInput {
	return CouponInput{
		Code:          "flat500",
		DiscountType:  model.DiscountFixedAmount,
		DiscountValue: 500,
		MinPurchase:   2000,
		IsActive:      true,
		StartsAt:      couponNow.Add(-24 * time.Hour),
		ExpiresAt:     couponNow.Add(24 * time.Hour),
	}
}

func welcome10() CouponInput {
	return CouponInput{
		Code:          "WELCOME10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		MaxDiscount:   floatPtr(200),
		IsActive:      true,
		StartsAt:      couponNow.Add(-24 * time.Hour),
		ExpiresAt:     couponNow.Add(24 * time.Hour),
	}
}

func TestCouponService_CreateCoupon(t *testing.T) {
	couponService, _ := setupCouponServiceTest(t)

	coupon, err := couponService.CreateCoupon(flat500())
	require.NoError(t, err)
	assert.Equal(t, "FLAT500", coupon.Code)

	_, err = couponService.CreateCoupon(flat500())
	assert.ErrorIs(t, err, ErrCouponCodeExists)

	bad := welcome10()
	bad.DiscountValue = 150
	_, err = couponService.CreateCoupon(bad)
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestCouponService_ValidateCoupon(t *testing.T) {
	couponService, _ := setupCouponServiceTest(t)
	_, err := couponService.CreateCoupon(flat500())
	require.NoError(t, err)
	_, err = couponService.CreateCoupon(welcome10())
	require.NoError(t, err)

	preview, err := couponService.ValidateCoupon("FLAT500", 2500)
	require.NoError(t, err)
	assert.Equal(t, 500.0, preview.Discount)
	assert.Equal(t, 2000.0, preview.Total)

	preview, err = couponService.ValidateCoupon(" welcome10 ", 1500)
	require.NoError(t, err)
	assert.Equal(t, 150.0, preview.Discount)
	assert.Equal(t, 1350.0, preview.Total)

	_, err = couponService.ValidateCoupon("FLAT500", 1500)
	assert.ErrorIs(t, err, ErrCouponMinPurchase)

	_, err = couponService.ValidateCoupon("NOPE", 1500)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	couponService.now = func() time.Time { return couponNow.Add(48 * time.Hour) }
	_, err = couponService.ValidateCoupon("FLAT500", 2500)
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestCouponService_UpdateAndDelete(t *testing.T) {
	couponService, testDB := setupCouponServiceTest(t)
	coupon, err := couponService.CreateCoupon(flat500())
	require.NoError(t, err)
	_, err = couponService.CreateCoupon(welcome10())
	require.NoError(t, err)
	require.NoError(t, testDB.Model(coupon).Update("usage_count", 4).Error)

	in := flat500()
	in.DiscountValue = 750
	updated, err := couponService.UpdateCoupon(coupon.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 750.0, updated.DiscountValue)
	assert.Equal(t, 4, updated.UsageCount)

	in.Code = "welcome10"
	_, err = couponService.UpdateCoupon(coupon.ID, in)
	assert.ErrorIs(t, err, ErrCouponCodeExists)

	require.NoError(t, couponService.DeleteCoupon(coupon.ID))
	assert.ErrorIs(t, couponService.DeleteCoupon(coupon.ID), ErrCouponNotFound)
	_, err = couponService.GetCoupon(coupon.ID)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	page, err := couponService.ListCoupons(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestCouponService_DeactivateExpired(t *testing.T) {
	couponService, testDB := setupCouponServiceTest(t)
	_, err := couponService.CreateCoupon(flat500())
	require.NoError(t, err)

	old := welcome10()
	old.Code = "OLD"
	old.StartsAt = couponNow.Add(-72 * time.Hour)
	old.ExpiresAt = couponNow.Add(-time.Hour)
	expired, err := couponService.CreateCoupon(old)
	require.NoError(t, err)

	count, err := couponService.DeactivateExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var stored model.Coupon
	require.NoError(t, testDB.First(&stored, expired.ID).Error)
	assert.False(t, stored.IsActive)

	count, err = couponService.DeactivateExpired()
	require.NoError(t, err)
	assert.Zero(t, count)
}
