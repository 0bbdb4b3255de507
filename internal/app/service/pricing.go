package service

import (
	"time"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Quote is the priced breakdown of an order
type Quote struct {
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	ShippingCost float64 `json:"shipping_cost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
}

// Pricer computes shipping, tax and totals from the store pricing config
type Pricer struct {
	taxRate       decimal.Decimal
	flatShipping  decimal.Decimal
	freeThreshold decimal.Decimal
}

func NewPricer(cfg config.PricingConfig) Pricer {
	return Pricer{
		taxRate:       decimal.NewFromFloat(cfg.TaxRate),
		flatShipping:  decimal.NewFromFloat(cfg.FlatShipping),
		freeThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
	}
}

// Quote prices an order: tax applies to the discounted subtotal and shipping
// is free once the subtotal reaches the threshold.
func (p Pricer) Quote(subtotal, discount decimal.Decimal) Quote {
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	shipping := p.flatShipping
	if subtotal.GreaterThanOrEqual(p.freeThreshold) {
		shipping = decimal.Zero
	}

	tax := taxable.Mul(p.taxRate).Round(2)
	total := taxable.Add(shipping).Add(tax)

	return Quote{
		Subtotal:     subtotal.Round(2).InexactFloat64(),
		Discount:     discount.Round(2).InexactFloat64(),
		ShippingCost: shipping.Round(2).InexactFloat64(),
		Tax:          tax.InexactFloat64(),
		Total:        total.Round(2).InexactFloat64(),
	}
}

// CheckCouponApplicable reports why coupon cannot be used on an order of
// subtotal at now, or nil when it can.
func CheckCouponApplicable(coupon *model.Coupon, subtotal decimal.Decimal, now time.Time) error {
	switch {
	case !coupon.IsActive:
		return ErrCouponInactive
	case now.Before(coupon.StartsAt):
		return ErrCouponNotStarted
	case now.After(coupon.ExpiresAt):
		return ErrCouponExpired
	case coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit:
		return ErrCouponExhausted
	case subtotal.LessThan(decimal.NewFromFloat(coupon.MinPurchase)):
		return ErrCouponMinPurchase
	}
	return nil
}

// CouponDiscount is the amount taken off subtotal. Fixed amounts never exceed
// the subtotal; percentages are capped by MaxDiscount when set.
func CouponDiscount(coupon *model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	value := decimal.NewFromFloat(coupon.DiscountValue)

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case model.DiscountFixedAmount:
		discount = decimal.Min(value, subtotal)
	case model.DiscountPercentage:
		discount = subtotal.Mul(value).Div(hundred)
		if coupon.MaxDiscount != nil {
			discount = decimal.Min(discount, decimal.NewFromFloat(*coupon.MaxDiscount))
		}
	default:
		return decimal.Zero
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount.Round(2)
}

// validateCouponConfig rejects coupons that could never apply sensibly
func validateCouponConfig(coupon *model.Coupon) error {
	if coupon.Code == "" || coupon.DiscountValue <= 0 || coupon.MinPurchase < 0 {
		return ErrInvalidCoupon
	}
	switch coupon.DiscountType {
	case model.DiscountPercentage:
		if coupon.DiscountValue > 100 {
			return ErrInvalidCoupon
		}
	case model.DiscountFixedAmount:
	default:
		return ErrInvalidCoupon
	}
	if coupon.MaxDiscount != nil && *coupon.MaxDiscount <= 0 {
		return ErrInvalidCoupon
	}
	if coupon.UsageLimit != nil && *coupon.UsageLimit < 0 {
		return ErrInvalidCoupon
	}
	if !coupon.ExpiresAt.After(coupon.StartsAt) {
		return ErrInvalidCoupon
	}
	return nil
}

// roundRating rounds a mean rating to one decimal place
func roundRating(avg float64) float64 {
	return decimal.NewFromFloat(avg).Round(1).InexactFloat64()
}
