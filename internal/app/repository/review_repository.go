package repository

import (
	"errors"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
)

// ReviewFilter is used by the moderation list. Nil fields are ignored.
type ReviewFilter struct {
	ProductID *uint
	Rating    *int
	Approved  *bool
	Offset    int
	Limit     int
}

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByProductAndUser(productID, userID uint) (*model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error
	FindApprovedByProduct(productID uint, rating *int, offset, limit int) ([]model.Review, int64, error)
	FindByUser(userID uint, offset, limit int) ([]model.Review, int64, error)
	FindWithFilter(filter ReviewFilter) ([]model.Review, int64, error)
	SetApproved(id uint, approved bool) error
	MarkVerified(id uint) error
	HasDeliveredPurchase(userID, productID uint) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"user_id":    review.UserID,
		"product_id": review.ProductID,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"user_id":    review.UserID,
			"product_id": review.ProductID,
		})
		return err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id": review.ID,
	})
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	logger.Debug("Finding review by ID in database", map[string]interface{}{
		"review_id": id,
	})

	var review model.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find review by ID in database", err, map[string]interface{}{
				"review_id": id,
			})
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByProductAndUser(productID, userID uint) (*model.Review, error) {
	logger.Debug("Finding review by product and user in database", map[string]interface{}{
		"product_id": productID,
		"user_id":    userID,
	})

	var review model.Review
	err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find review by product and user in database", err, map[string]interface{}{
				"product_id": productID,
				"user_id":    userID,
			})
		}
		return nil, err
	}
	return &review, nil
}

// Update writes the author-editable fields only
func (r *reviewRepository) Update(review *model.Review) error {
	logger.Debug("Updating review in database", map[string]interface{}{
		"review_id": review.ID,
	})

	err := r.db.Model(review).
		Select("rating", "title", "comment", "is_approved").
		Updates(review).Error
	if err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) Delete(id uint) error {
	logger.Debug("Deleting review from database", map[string]interface{}{
		"review_id": id,
	})

	if err := r.db.Delete(&model.Review{}, id).Error; err != nil {
		logger.Error("Failed to delete review from database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindApprovedByProduct(productID uint, rating *int, offset, limit int) ([]model.Review, int64, error) {
	approved := true
	return r.FindWithFilter(ReviewFilter{
		ProductID: &productID,
		Rating:    rating,
		Approved:  &approved,
		Offset:    offset,
		Limit:     limit,
	})
}

func (r *reviewRepository) FindByUser(userID uint, offset, limit int) ([]model.Review, int64, error) {
	logger.Debug("Finding reviews by user in database", map[string]interface{}{
		"user_id": userID,
		"offset":  offset,
		"limit":   limit,
	})

	var reviews []model.Review
	var total int64

	if err := r.db.Model(&model.Review{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.Error("Failed to count user reviews in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Debug("User reviews found in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(reviews),
		"total":   total,
	})
	return reviews, total, nil
}

func applyReviewFilter(query *gorm.DB, filter ReviewFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}
	if filter.Approved != nil {
		query = query.Where("is_approved = ?", *filter.Approved)
	}
	return query
}

func (r *reviewRepository) FindWithFilter(filter ReviewFilter) ([]model.Review, int64, error) {
	logger.Debug("Finding reviews with filter in database", map[string]interface{}{
		"product_id": filter.ProductID,
		"rating":     filter.Rating,
		"approved":   filter.Approved,
		"offset":     filter.Offset,
		"limit":      filter.Limit,
	})

	var reviews []model.Review
	var total int64

	if err := applyReviewFilter(r.db.Model(&model.Review{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count reviews in database", err)
		return nil, 0, err
	}

	query := applyReviewFilter(r.db.Model(&model.Review{}), filter).
		Preload("User").
		Order("created_at DESC, id DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews with filter in database", err)
		return nil, 0, err
	}

	logger.Debug("Reviews found in database", map[string]interface{}{
		"count": len(reviews),
		"total": total,
	})
	return reviews, total, nil
}

// SetApproved is the moderation override
func (r *reviewRepository) SetApproved(id uint, approved bool) error {
	logger.Debug("Setting review approval in database", map[string]interface{}{
		"review_id": id,
		"approved":  approved,
	})

	result := r.db.Model(&model.Review{}).Where("id = ?", id).Update("is_approved", approved)
	if result.Error != nil {
		logger.Error("Failed to set review approval in database", result.Error, map[string]interface{}{
			"review_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) MarkVerified(id uint) error {
	logger.Debug("Marking review verified in database", map[string]interface{}{
		"review_id": id,
	})

	if err := r.db.Model(&model.Review{}).Where("id = ?", id).Update("is_verified", true).Error; err != nil {
		logger.Error("Failed to mark review verified in database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}
	return nil
}

// HasDeliveredPurchase reports whether the user has a DELIVERED order with
// any variant of the product.
func (r *reviewRepository) HasDeliveredPurchase(userID, productID uint) (bool, error) {
	logger.Debug("Checking delivered purchase in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	var count int64
	err := r.db.Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN product_variants ON product_variants.id = order_items.variant_id").
		Where("orders.user_id = ? AND orders.status = ? AND product_variants.product_id = ?",
			userID, model.OrderStatusDelivered, productID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check delivered purchase in database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}
	return count > 0, nil
}
