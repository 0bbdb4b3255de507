package service

import (
	"errors"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CouponInput struct {
	Code          string             `json:"code" binding:"required"`
	Description   string             `json:"description"`
	DiscountType  model.DiscountType `json:"discount_type" binding:"required"`
	DiscountValue float64            `json:"discount_value" binding:"gt=0"`
	MinPurchase   float64            `json:"min_purchase" binding:"gte=0"`
	MaxDiscount   *float64           `json:"max_discount"`
	UsageLimit    *int               `json:"usage_limit"`
	IsActive      bool               `json:"is_active"`
	StartsAt      time.Time          `json:"starts_at" binding:"required"`
	ExpiresAt     time.Time          `json:"expires_at" binding:"required"`
}

func (in CouponInput) apply(coupon *model.Coupon) {
	coupon.Code = repository.NormalizeCouponCode(in.Code)
	coupon.Description = in.Description
	coupon.DiscountType = in.DiscountType
	coupon.DiscountValue = in.DiscountValue
	coupon.MinPurchase = in.MinPurchase
	coupon.MaxDiscount = in.MaxDiscount
	coupon.UsageLimit = in.UsageLimit
	coupon.IsActive = in.IsActive
	coupon.StartsAt = in.StartsAt.UTC()
	coupon.ExpiresAt = in.ExpiresAt.UTC()
}

// CouponPreview is the outcome of applying a code to a subtotal
type CouponPreview struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

type CouponService interface {
	CreateCoupon(input CouponInput) (*model.Coupon, error)
	UpdateCoupon(id uint, input CouponInput) (*model.Coupon, error)
	DeleteCoupon(id uint) error
	GetCoupon(id uint) (*model.Coupon, error)
	ListCoupons(page, limit int) (*PageResult[model.Coupon], error)
	ValidateCoupon(code string, subtotal float64) (*CouponPreview, error)
	DeactivateExpired() (int64, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

func (s *couponService) CreateCoupon(input CouponInput) (*model.Coupon, error) {
	coupon := &model.Coupon{}
	input.apply(coupon)

	logger.Info("Creating coupon", map[string]interface{}{
		"code":          coupon.Code,
		"discount_type": coupon.DiscountType,
	})

	if err := validateCouponConfig(coupon); err != nil {
		return nil, err
	}
	exists, err := s.couponRepo.CodeExists(coupon.Code, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCouponCodeExists
	}

	if err := s.couponRepo.Create(coupon); err != nil {
		logger.Error("Failed to create coupon", err, map[string]interface{}{
			"code": coupon.Code,
		})
		return nil, err
	}
	return coupon, nil
}

// UpdateCoupon keeps the redemption count
func (s *couponService) UpdateCoupon(id uint, input CouponInput) (*model.Coupon, error) {
	coupon, err := s.GetCoupon(id)
	if err != nil {
		return nil, err
	}

	input.apply(coupon)
	if err := validateCouponConfig(coupon); err != nil {
		return nil, err
	}
	exists, err := s.couponRepo.CodeExists(coupon.Code, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCouponCodeExists
	}

	if err := s.couponRepo.Update(coupon); err != nil {
		logger.Error("Failed to update coupon", err, map[string]interface{}{
			"coupon_id": id,
		})
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) DeleteCoupon(id uint) error {
	logger.Info("Deleting coupon", map[string]interface{}{
		"coupon_id": id,
	})

	if err := s.couponRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return nil
}

func (s *couponService) GetCoupon(id uint) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) ListCoupons(page, limit int) (*PageResult[model.Coupon], error) {
	p := repository.NewPage(page, limit, repository.DefaultPageSize)
	coupons, total, err := s.couponRepo.List(p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	return newPageResult(coupons, total, p), nil
}

// ValidateCoupon previews a code against a subtotal without redeeming it
func (s *couponService) ValidateCoupon(code string, subtotal float64) (*CouponPreview, error) {
	coupon, err := s.couponRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	amount := decimal.NewFromFloat(subtotal)
	if err := CheckCouponApplicable(coupon, amount, s.now()); err != nil {
		logger.Debug("Coupon not applicable", map[string]interface{}{
			"code":   coupon.Code,
			"reason": err.Error(),
		})
		return nil, err
	}

	discount := CouponDiscount(coupon, amount)
	return &CouponPreview{
		Code:     coupon.Code,
		Subtotal: amount.Round(2).InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Total:    amount.Sub(discount).Round(2).InexactFloat64(),
	}, nil
}

func (s *couponService) DeactivateExpired() (int64, error) {
	count, err := s.couponRepo.DeactivateExpired(s.now())
	if err != nil {
		logger.Error("Failed to deactivate expired coupons", err)
		return 0, err
	}
	if count > 0 {
		logger.Info("Expired coupons deactivated", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
