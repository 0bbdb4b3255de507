package service

import (
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   model.Coupon
		subtotal float64
		want     float64
	}{
		{
			name:     "fixed amount",
			coupon:   model.Coupon{DiscountType: model.DiscountFixedAmount, DiscountValue: 500},
			subtotal: 2500,
			want:     500,
		},
		{
			name:     "fixed amount capped at subtotal",
			coupon:   model.Coupon{DiscountType: model.DiscountFixedAmount, DiscountValue: 500},
			subtotal: 300,
			want:     300,
		},
		{
			name:     "percentage under cap",
			coupon:   model.Coupon{DiscountType: model.DiscountPercentage, DiscountValue: 10, MaxDiscount: floatPtr(200)},
			subtotal: 1500,
			want:     150,
		},
		{
			name:     "percentage over cap",
			coupon:   model.Coupon{DiscountType: model.DiscountPercentage, DiscountValue: 10, MaxDiscount: floatPtr(200)},
			subtotal: 5000,
			want:     200,
		},
		{
			name:     "percentage without cap",
			coupon:   model.Coupon{DiscountType: model.DiscountPercentage, DiscountValue: 15},
			subtotal: 999.99,
			want:     150,
		},
		{
			name:     "unknown type",
			coupon:   model.Coupon{DiscountType: "BOGUS", DiscountValue: 15},
			subtotal: 100,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CouponDiscount(&tt.coupon, dec(tt.subtotal))
			assert.Equal(t, tt.want, got.InexactFloat64())
		})
	}
}

func TestCheckCouponApplicable(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	valid := func() model.Coupon {
		return model.Coupon{
			Code:          "FLAT500",
			DiscountType:  model.DiscountFixedAmount,
			DiscountValue: 500,
			MinPurchase:   2000,
			IsActive:      true,
			StartsAt:      now.Add(-time.Hour),
			ExpiresAt:     now.Add(time.Hour),
		}
	}

	tests := []struct {
		name     string
		mutate   func(c *model.Coupon)
		subtotal float64
		want     error
	}{
		{"valid", func(c *model.Coupon) {}, 2500, nil},
		{"boundary start is inclusive", func(c *model.Coupon) { c.StartsAt = now }, 2500, nil},
		{"boundary end is inclusive", func(c *model.Coupon) { c.ExpiresAt = now }, 2500, nil},
		{"min purchase met exactly", func(c *model.Coupon) {}, 2000, nil},
		{"inactive", func(c *model.Coupon) { c.IsActive = false }, 2500, ErrCouponInactive},
		{"not started", func(c *model.Coupon) { c.StartsAt = now.Add(time.Minute) }, 2500, ErrCouponNotStarted},
		{"expired", func(c *model.Coupon) { c.ExpiresAt = now.Add(-time.Minute) }, 2500, ErrCouponExpired},
		{"exhausted", func(c *model.Coupon) { c.UsageLimit = intPtr(3); c.UsageCount = 3 }, 2500, ErrCouponExhausted},
		{"under limit", func(c *model.Coupon) { c.UsageLimit = intPtr(3); c.UsageCount = 2 }, 2500, nil},
		{"below minimum", func(c *model.Coupon) {}, 1999.99, ErrCouponMinPurchase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Equal(t, tt.want, CheckCouponApplicable(&c, dec(tt.subtotal), now))
		})
	}
}

func TestPricerQuote(t *testing.T) {
	t.Run("flat coupon with no tax or shipping", func(t *testing.T) {
		p := NewPricer(config.PricingConfig{})
		q := p.Quote(dec(2500), dec(500))
		assert.Equal(t, Quote{Subtotal: 2500, Discount: 500, Total: 2000}, q)
	})

	t.Run("tax on discounted subtotal and flat shipping", func(t *testing.T) {
		p := NewPricer(config.PricingConfig{TaxRate: 0.18, FlatShipping: 99, FreeShippingThreshold: 999})
		q := p.Quote(dec(500), dec(100))
		assert.Equal(t, Quote{Subtotal: 500, Discount: 100, ShippingCost: 99, Tax: 72, Total: 571}, q)
	})

	t.Run("free shipping at threshold", func(t *testing.T) {
		p := NewPricer(config.PricingConfig{FlatShipping: 99, FreeShippingThreshold: 999})
		q := p.Quote(dec(999), decimal.Zero)
		assert.Equal(t, 0.0, q.ShippingCost)
		assert.Equal(t, 999.0, q.Total)
	})
}

func TestValidateCouponConfig(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	base := func() model.Coupon {
		return model.Coupon{
			Code:          "WELCOME10",
			DiscountType:  model.DiscountPercentage,
			DiscountValue: 10,
			StartsAt:      start,
			ExpiresAt:     start.Add(24 * time.Hour),
		}
	}

	tests := []struct {
		name   string
		mutate func(c *model.Coupon)
		ok     bool
	}{
		{"valid", func(c *model.Coupon) {}, true},
		{"percentage above 100", func(c *model.Coupon) { c.DiscountValue = 101 }, false},
		{"zero value", func(c *model.Coupon) { c.DiscountValue = 0 }, false},
		{"unknown type", func(c *model.Coupon) { c.DiscountType = "X" }, false},
		{"window reversed", func(c *model.Coupon) { c.ExpiresAt = start }, false},
		{"non-positive cap", func(c *model.Coupon) { c.MaxDiscount = floatPtr(0) }, false},
		{"fixed amount above 100", func(c *model.Coupon) { c.DiscountType = model.DiscountFixedAmount; c.DiscountValue = 500 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := validateCouponConfig(&c)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidCoupon)
			}
		})
	}
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.0, roundRating(4))
	assert.Equal(t, 4.3, roundRating(13.0/3))
	assert.Equal(t, 4.7, roundRating(14.0/3))
	assert.Equal(t, 0.0, roundRating(0))
}
