package repository

import "errors"

var (
	// ErrNegativeStock is returned when a stock change would drop below zero
	ErrNegativeStock = errors.New("stock cannot be negative")
	// ErrCouponUnavailable is returned when a conditional redemption matched no row
	ErrCouponUnavailable = errors.New("coupon is not redeemable")
)
