package model

import "time"

type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

type Coupon struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	Code          string       `gorm:"uniqueIndex;not null" json:"code"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue float64      `gorm:"not null" json:"discount_value"`
	MinPurchase   float64      `gorm:"not null;default:0" json:"min_purchase"`
	MaxDiscount   *float64     `json:"max_discount,omitempty"` // caps percentage discounts
	UsageLimit    *int         `json:"usage_limit,omitempty"`  // nil means unlimited
	UsageCount    int          `gorm:"not null;default:0" json:"usage_count"`
	IsActive      bool         `gorm:"not null;index" json:"is_active"`
	StartsAt      time.Time    `gorm:"not null" json:"starts_at"`
	ExpiresAt     time.Time    `gorm:"not null;index" json:"expires_at"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}
