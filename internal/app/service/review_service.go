package service

import (
	"errors"
	"strings"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
)

type ReviewInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Title     string `json:"title" binding:"max=200"`
	Comment   string `json:"comment"`
}

type ReviewUpdateInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=200"`
	Comment string `json:"comment"`
}

type ReviewService interface {
	CreateReview(userID uint, input ReviewInput) (*model.Review, error)
	UpdateReview(userID, reviewID uint, input ReviewUpdateInput) (*model.Review, error)
	DeleteReview(userID, reviewID uint) error
	ApproveReview(reviewID uint, approved bool) (*model.Review, error)
	ListProductReviews(productID uint, rating *int, page, limit int) (*PageResult[model.Review], error)
	ListAdminReviews(filter repository.ReviewFilter, page, limit int) (*PageResult[model.Review], error)
	ListUserReviews(userID uint, page, limit int) (*PageResult[model.Review], error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// CreateReview stores a new unapproved review and then flags it verified when
// the author has a delivered order containing the product. The second step is
// informational, so a failure there is logged and the review is still returned.
func (s *reviewService) CreateReview(userID uint, input ReviewInput) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id":    userID,
		"product_id": input.ProductID,
		"rating":     input.Rating,
	})

	if !validRating(input.Rating) {
		return nil, ErrInvalidRating
	}

	product, err := s.productRepo.FindByID(input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	if _, err := s.reviewRepo.FindByProductAndUser(input.ProductID, userID); err == nil {
		return nil, ErrReviewAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Title:     strings.TrimSpace(input.Title),
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		// a concurrent insert of the same pair lost the race
		if apperrors.ParseError(err, "create review").Code == apperrors.ReviewAlreadyExists {
			return nil, ErrReviewAlreadyExists
		}
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": input.ProductID,
		})
		return nil, err
	}

	s.verifyPurchase(review)

	logger.Info("Review created", map[string]interface{}{
		"review_id":   review.ID,
		"is_verified": review.IsVerified,
	})
	return review, nil
}

func (s *reviewService) verifyPurchase(review *model.Review) {
	purchased, err := s.reviewRepo.HasDeliveredPurchase(review.UserID, review.ProductID)
	if err != nil {
		logger.Warn("Failed to check purchase for review", map[string]interface{}{
			"review_id": review.ID,
			"error":     err.Error(),
		})
		return
	}
	if !purchased {
		return
	}
	if err := s.reviewRepo.MarkVerified(review.ID); err != nil {
		logger.Warn("Failed to mark review verified", map[string]interface{}{
			"review_id": review.ID,
			"error":     err.Error(),
		})
		return
	}
	review.IsVerified = true
}

func (s *reviewService) loadOwnReview(userID, reviewID uint, forbidden error) (*model.Review, error) {
	return loadOwned(
		func() (*model.Review, error) { return s.reviewRepo.FindByID(reviewID) },
		func(r *model.Review) uint { return r.UserID },
		userID,
		ErrReviewNotFound,
		forbidden,
	)
}

// UpdateReview edits the author's own review. Edited content goes back
// through moderation.
func (s *reviewService) UpdateReview(userID, reviewID uint, input ReviewUpdateInput) (*model.Review, error) {
	logger.Info("Updating review", map[string]interface{}{
		"user_id":   userID,
		"review_id": reviewID,
	})

	review, err := s.loadOwnReview(userID, reviewID, ErrReviewUpdateForbidden)
	if err != nil {
		return nil, err
	}
	if !validRating(input.Rating) {
		return nil, ErrInvalidRating
	}

	review.Rating = input.Rating
	review.Title = strings.TrimSpace(input.Title)
	review.Comment = strings.TrimSpace(input.Comment)
	review.IsApproved = false

	if err := s.reviewRepo.Update(review); err != nil {
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(userID, reviewID uint) error {
	logger.Info("Deleting review", map[string]interface{}{
		"user_id":   userID,
		"review_id": reviewID,
	})

	if _, err := s.loadOwnReview(userID, reviewID, ErrReviewDeleteForbidden); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(reviewID); err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}
	return nil
}

// ApproveReview is a moderation override with no ownership check
func (s *reviewService) ApproveReview(reviewID uint, approved bool) (*model.Review, error) {
	logger.Info("Moderating review", map[string]interface{}{
		"review_id": reviewID,
		"approved":  approved,
	})

	if err := s.reviewRepo.SetApproved(reviewID, approved); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListProductReviews(productID uint, rating *int, page, limit int) (*PageResult[model.Review], error) {
	if rating != nil && !validRating(*rating) {
		return nil, ErrInvalidRating
	}
	p := repository.NewPage(page, limit, 10)

	reviews, total, err := s.reviewRepo.FindApprovedByProduct(productID, rating, p.Offset(), p.Limit)
	if err != nil {
		logger.Error("Failed to list product reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return newPageResult(reviews, total, p), nil
}

func (s *reviewService) ListAdminReviews(filter repository.ReviewFilter, page, limit int) (*PageResult[model.Review], error) {
	if filter.Rating != nil && !validRating(*filter.Rating) {
		return nil, ErrInvalidRating
	}
	p := repository.NewPage(page, limit, repository.DefaultPageSize)
	filter.Offset = p.Offset()
	filter.Limit = p.Limit

	reviews, total, err := s.reviewRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list reviews for moderation", err)
		return nil, err
	}
	return newPageResult(reviews, total, p), nil
}

func (s *reviewService) ListUserReviews(userID uint, page, limit int) (*PageResult[model.Review], error) {
	p := repository.NewPage(page, limit, 10)

	reviews, total, err := s.reviewRepo.FindByUser(userID, p.Offset(), p.Limit)
	if err != nil {
		logger.Error("Failed to list user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return newPageResult(reviews, total, p), nil
}
