package service

import (
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
)

var (
	ErrProductNotFound       = apperrors.NotFoundError(apperrors.ProductNotFound, "product not found")
	ErrProductSlugExists     = apperrors.ConflictError(apperrors.ProductSlugExists, "a product with this slug already exists")
	ErrVariantNotFound       = apperrors.NotFoundError(apperrors.VariantNotFound, "product variant not found")
	ErrVariantSKUExists      = apperrors.ConflictError(apperrors.VariantSKUExists, "a variant with this SKU already exists")
	ErrInvalidProduct        = apperrors.ValidationError(apperrors.ValidationInvalidInput, "product name and a non-negative price are required")
	ErrInvalidStockChange    = apperrors.ValidationError(apperrors.ValidationInvalidRange, "stock cannot drop below zero")
	ErrCategoryNotFound      = apperrors.NotFoundError(apperrors.CategoryNotFound, "category not found")
	ErrSubCategoryNotFound   = apperrors.NotFoundError(apperrors.CategoryNotFound, "subcategory not found")
	ErrCategorySlugExists    = apperrors.ConflictError(apperrors.CategorySlugExists, "a category with this slug already exists")
	ErrSubCategorySlugExists = apperrors.ConflictError(apperrors.SubCategorySlugExists, "a subcategory with this slug already exists in the category")
	ErrCategoryInUse         = apperrors.ConflictError(apperrors.ResourceConflict, "category still has products")
	ErrInvalidCategory       = apperrors.ValidationError(apperrors.ValidationInvalidInput, "category name is required")

	ErrReviewNotFound        = apperrors.NotFoundError(apperrors.ReviewNotFound, "review not found")
	ErrReviewAlreadyExists   = apperrors.ConflictError(apperrors.ReviewAlreadyExists, "you have already reviewed this product")
	ErrInvalidRating         = apperrors.ValidationError(apperrors.ReviewInvalidRating, "rating must be between 1 and 5")
	ErrReviewUpdateForbidden = apperrors.ValidationError(apperrors.ReviewOwnerOnly, "you can only update your own reviews")
	ErrReviewDeleteForbidden = apperrors.ValidationError(apperrors.ReviewOwnerOnly, "you can only delete your own reviews")

	ErrWishlistItemExists = apperrors.ConflictError(apperrors.WishlistItemExists, "product is already in your wishlist")
	ErrAddressNotFound    = apperrors.NotFoundError(apperrors.AddressNotFound, "address not found")

	ErrCartItemNotFound  = apperrors.NotFoundError(apperrors.CartItemNotFound, "cart item not found")
	ErrEmptyCart         = apperrors.ValidationError(apperrors.CartEmpty, "cart is empty")
	ErrInvalidQuantity   = apperrors.ValidationError(apperrors.ValidationInvalidRange, "quantity must be at least 1")
	ErrInsufficientStock = apperrors.ConflictError(apperrors.OrderInsufficientStock, "insufficient stock")

	ErrOrderNotFound           = apperrors.NotFoundError(apperrors.OrderNotFound, "order not found")
	ErrInvalidStatusTransition = apperrors.ValidationError(apperrors.OrderInvalidTransition, "order cannot move to the requested status")
	ErrInvalidOrderStatus      = apperrors.ValidationError(apperrors.ValidationInvalidInput, "unknown order status")

	ErrCouponNotFound    = apperrors.NotFoundError(apperrors.CouponNotFound, "coupon not found")
	ErrCouponInactive    = apperrors.ValidationError(apperrors.CouponInactive, "coupon is not active")
	ErrCouponNotStarted  = apperrors.ValidationError(apperrors.CouponNotStarted, "coupon is not valid yet")
	ErrCouponExpired     = apperrors.ValidationError(apperrors.CouponExpired, "coupon has expired")
	ErrCouponExhausted   = apperrors.ConflictError(apperrors.CouponExhausted, "coupon usage limit reached")
	ErrCouponMinPurchase = apperrors.ValidationError(apperrors.CouponMinPurchase, "order subtotal is below the coupon minimum")
	ErrCouponCodeExists  = apperrors.ConflictError(apperrors.CouponCodeExists, "a coupon with this code already exists")
	ErrInvalidCoupon     = apperrors.ValidationError(apperrors.CouponInvalidConfig, "coupon discount or validity window is invalid")

	ErrInvalidCredentials = apperrors.UnauthorizedError(apperrors.AuthInvalidCredentials, "invalid email or password")
	ErrEmailAlreadyExists = apperrors.ConflictError(apperrors.AuthEmailAlreadyExists, "email is already registered")
	ErrWeakPassword       = apperrors.ValidationError(apperrors.AuthWeakPassword, "password must be at least 8 characters and contain a letter and a digit")
	ErrUserNotFound       = apperrors.NotFoundError(apperrors.ResourceNotFound, "user not found")
	ErrInvalidToken       = apperrors.UnauthorizedError(apperrors.AuthTokenInvalid, "invalid or expired token")
	ErrInvalidMFACode     = apperrors.UnauthorizedError(apperrors.AuthMFAInvalidCode, "invalid verification code")
	ErrMFANotEnabled      = apperrors.ValidationError(apperrors.AuthMFANotEnabled, "two-factor authentication is not enabled")
	ErrMFAAlreadyEnabled  = apperrors.ConflictError(apperrors.AuthMFAAlreadyEnabled, "two-factor authentication is already enabled")
	ErrMFANotSetUp        = apperrors.ValidationError(apperrors.AuthMFANotSetUp, "start two-factor setup before enabling it")

	ErrInvalidDateRange = apperrors.ValidationError(apperrors.ValidationInvalidRange, "end date must not be before start date")
)
