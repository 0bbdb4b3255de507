package errors

// Error code constants returned in the "error" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to localized copy.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthWeakPassword       = "AUTH_WEAK_PASSWORD"
	AuthMFARequired        = "AUTH_MFA_REQUIRED"
	AuthMFAInvalidCode     = "AUTH_MFA_INVALID_CODE"
	AuthMFANotEnabled      = "AUTH_MFA_NOT_ENABLED"
	AuthMFAAlreadyEnabled  = "AUTH_MFA_ALREADY_ENABLED"
	AuthMFANotSetUp        = "AUTH_MFA_NOT_SET_UP"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_/CATEGORY_) ====================
	ProductNotFound       = "PRODUCT_NOT_FOUND"
	ProductSlugExists     = "PRODUCT_SLUG_EXISTS"
	VariantNotFound       = "VARIANT_NOT_FOUND"
	VariantSKUExists      = "VARIANT_SKU_EXISTS"
	CategoryNotFound      = "CATEGORY_NOT_FOUND"
	CategorySlugExists    = "CATEGORY_SLUG_EXISTS"
	SubCategorySlugExists = "SUBCATEGORY_SLUG_EXISTS"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"
	ReviewOwnerOnly     = "REVIEW_OWNER_ONLY"

	// ==================== Wishlist / Address / Cart ====================
	WishlistItemExists = "WISHLIST_ITEM_EXISTS"
	AddressNotFound    = "ADDRESS_NOT_FOUND"
	CartItemNotFound   = "CART_ITEM_NOT_FOUND"
	CartEmpty          = "CART_EMPTY"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInsufficientStock = "ORDER_INSUFFICIENT_STOCK"
	OrderInvalidTransition = "ORDER_INVALID_STATUS_TRANSITION"

	// ==================== Coupons (COUPON_) ====================
	CouponNotFound      = "COUPON_NOT_FOUND"
	CouponInactive      = "COUPON_INACTIVE"
	CouponNotStarted    = "COUPON_NOT_STARTED"
	CouponExpired       = "COUPON_EXPIRED"
	CouponExhausted     = "COUPON_USAGE_LIMIT_REACHED"
	CouponMinPurchase   = "COUPON_MIN_PURCHASE_NOT_MET"
	CouponCodeExists    = "COUPON_CODE_EXISTS"
	CouponInvalidConfig = "COUPON_INVALID_CONFIG"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
