package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a client-safe description of an error
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError converts an error into a stable code and a user facing message.
// Domain errors pass through untouched. Database errors from postgres or
// sqlite are recognised by their text so driver details never leak.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "internal server error"}
	}

	if de, ok := AsDomain(err); ok {
		return ErrorInfo{Status: de.Kind.HTTPStatus(), Code: de.Code, Message: de.Message}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "resource already exists"}
	}

	errLower := strings.ToLower(err.Error())

	// postgres 23505 / sqlite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// postgres 23503 / sqlite FOREIGN KEY
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower, context)
	}

	// postgres 23502 / sqlite NOT NULL
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "a required field is missing"}
	}

	// postgres 23514 / sqlite CHECK
	if strings.Contains(errLower, "check constraint") {
		return parseCheckConstraintError(errLower)
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    InternalExternalAPI,
			Message: "a dependent service is unavailable, please retry shortly",
		}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	conflict := func(code, msg string) ErrorInfo {
		return ErrorInfo{Status: http.StatusConflict, Code: code, Message: msg}
	}

	switch {
	case strings.Contains(errLower, "users.email") || strings.Contains(errLower, "idx_users_email"):
		return conflict(AuthEmailAlreadyExists, "email is already registered")
	case strings.Contains(errLower, "product_variants.sku") || strings.Contains(errLower, "idx_product_variants_sku"):
		return conflict(VariantSKUExists, "a variant with this SKU already exists")
	case strings.Contains(errLower, "products.slug") || strings.Contains(errLower, "idx_products_slug"):
		return conflict(ProductSlugExists, "a product with this slug already exists")
	case strings.Contains(errLower, "sub_categories") || strings.Contains(errLower, "idx_subcategory_slug"):
		return conflict(SubCategorySlugExists, "a subcategory with this slug already exists in the category")
	case strings.Contains(errLower, "categories.slug") || strings.Contains(errLower, "idx_categories_slug"):
		return conflict(CategorySlugExists, "a category with this slug already exists")
	case strings.Contains(errLower, "coupons.code") || strings.Contains(errLower, "idx_coupons_code"):
		return conflict(CouponCodeExists, "a coupon with this code already exists")
	case strings.Contains(errLower, "idx_review_product_user") || strings.Contains(errLower, "reviews.product_id"):
		return conflict(ReviewAlreadyExists, "you have already reviewed this product")
	case strings.Contains(errLower, "idx_wishlist_user_product") || strings.Contains(errLower, "wishlist_items.user_id"):
		return conflict(WishlistItemExists, "product is already in your wishlist")
	}

	return conflict(ResourceAlreadyExists, "resource already exists")
}

func parseForeignKeyError(errLower string, context string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    ResourceConflict,
			Message: "the " + contextNoun(context) + " is still referenced and cannot be deleted",
		}
	}

	switch {
	case strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products"):
		return ErrorInfo{Status: http.StatusNotFound, Code: ProductNotFound, Message: "product not found"}
	case strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories"):
		return ErrorInfo{Status: http.StatusNotFound, Code: CategoryNotFound, Message: "category not found"}
	case strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users"):
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: "user not found"}
	}

	return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: "referenced resource not found"}
}

func parseCheckConstraintError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "rating") {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ReviewInvalidRating, Message: "rating must be between 1 and 5"}
	}
	if strings.Contains(errLower, "stock") {
		return ErrorInfo{Status: http.StatusConflict, Code: OrderInsufficientStock, Message: "insufficient stock"}
	}
	return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "invalid input"}
}

func contextNoun(context string) string {
	for _, noun := range []string{"product", "variant", "category", "coupon", "address", "review", "order", "user"} {
		if strings.Contains(strings.ToLower(context), noun) {
			return noun
		}
	}
	return "resource"
}

func getNotFoundMessage(context string) string {
	return contextNoun(context) + " not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "failed to create " + contextNoun(context) + ", please retry shortly"
	case strings.Contains(contextLower, "update"):
		return "failed to update " + contextNoun(context) + ", please retry shortly"
	case strings.Contains(contextLower, "delete"):
		return "failed to delete " + contextNoun(context) + ", please retry shortly"
	}
	return "internal server error, please retry shortly"
}
