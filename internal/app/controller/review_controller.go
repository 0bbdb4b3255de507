package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type ModerateReviewRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ListProductReviews returns approved reviews, optionally for one rating
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) ListProductReviews(c *gin.Context) {
	productID, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	result, err := ctrl.reviewService.ListProductReviews(productID, queryInt(c, "rating"), page, limit)
	if err != nil {
		respondError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateReview posts a review for moderation
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req service.ReviewInput
	if !bindJSON(c, &req) {
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, req)
	if err != nil {
		respondError(c, err, "create review")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListMyReviews returns the caller's reviews in any moderation state
// GET /api/v1/reviews/me
func (ctrl *ReviewController) ListMyReviews(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	result, err := ctrl.reviewService.ListUserReviews(userID, page, limit)
	if err != nil {
		respondError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, result)
}

// PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	reviewID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.ReviewUpdateInput
	if !bindJSON(c, &req) {
		return
	}

	review, err := ctrl.reviewService.UpdateReview(userID, reviewID, req)
	if err != nil {
		respondError(c, err, "update review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	reviewID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(userID, reviewID); err != nil {
		respondError(c, err, "delete review")
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminListReviews filters by product, rating and approval state
// GET /api/v1/admin/reviews
func (ctrl *ReviewController) AdminListReviews(c *gin.Context) {
	page, limit := pageParams(c)
	filter := repository.ReviewFilter{
		ProductID: queryUint(c, "product_id"),
		Rating:    queryInt(c, "rating"),
		Approved:  queryBool(c, "approved"),
	}

	result, err := ctrl.reviewService.ListAdminReviews(filter, page, limit)
	if err != nil {
		respondError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ModerateReview approves or hides a review
// PATCH /api/v1/admin/reviews/:id
func (ctrl *ReviewController) ModerateReview(c *gin.Context) {
	reviewID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ModerateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := ctrl.reviewService.ApproveReview(reviewID, *req.Approved)
	if err != nil {
		respondError(c, err, "moderate review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}
