package repository

import (
	"strings"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(coupon *model.Coupon) error
	Update(coupon *model.Coupon) error
	Delete(id uint) error
	FindByID(id uint) (*model.Coupon, error)
	FindByCode(code string) (*model.Coupon, error)
	CodeExists(code string, excludeID uint) (bool, error)
	List(offset, limit int) ([]model.Coupon, int64, error)
	DeactivateExpired(now time.Time) (int64, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

// NormalizeCouponCode is the canonical stored form of a code
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *couponRepository) Create(coupon *model.Coupon) error {
	logger.Debug("Creating coupon in database", map[string]interface{}{
		"code": coupon.Code,
	})

	if err := r.db.Create(coupon).Error; err != nil {
		logger.Error("Failed to create coupon in database", err, map[string]interface{}{
			"code": coupon.Code,
		})
		return err
	}
	return nil
}

func (r *couponRepository) Update(coupon *model.Coupon) error {
	if err := r.db.Save(coupon).Error; err != nil {
		logger.Error("Failed to update coupon in database", err, map[string]interface{}{
			"coupon_id": coupon.ID,
		})
		return err
	}
	return nil
}

func (r *couponRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Coupon{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete coupon from database", result.Error, map[string]interface{}{
			"coupon_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *couponRepository) FindByID(id uint) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.First(&coupon, id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) FindByCode(code string) (*model.Coupon, error) {
	logger.Debug("Finding coupon by code in database", map[string]interface{}{
		"code": code,
	})

	var coupon model.Coupon
	if err := r.db.Where("code = ?", NormalizeCouponCode(code)).First(&coupon).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find coupon by code in database", err, map[string]interface{}{
				"code": code,
			})
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) CodeExists(code string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Coupon{}).
		Where("code = ? AND id <> ?", NormalizeCouponCode(code), excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *couponRepository) List(offset, limit int) ([]model.Coupon, int64, error) {
	var total int64
	if err := r.db.Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var coupons []model.Coupon
	query := r.db.Order("created_at DESC, id DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&coupons).Error; err != nil {
		logger.Error("Failed to list coupons", err)
		return nil, 0, err
	}
	return coupons, total, nil
}

// DeactivateExpired switches off active coupons whose window has closed
func (r *couponRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Coupon{}).
		Where("is_active = ? AND expires_at < ?", true, now).
		Update("is_active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate expired coupons", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
