package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/controller"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/middleware"
)

// Controllers groups every handler set the router mounts
type Controllers struct {
	Auth      *controller.AuthController
	Product   *controller.ProductController
	Category  *controller.CategoryController
	Review    *controller.ReviewController
	Cart      *controller.CartController
	Order     *controller.OrderController
	Wishlist  *controller.WishlistController
	Address   *controller.AddressController
	Coupon    *controller.CouponController
	Analytics *controller.AnalyticsController
	Upload    *controller.UploadController
	Feed      *controller.FeedController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Valuva API is running",
		})
	})

	ctl := r.controllers
	authenticate := r.authMiddleware.Authenticate()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", ctl.Auth.Register)
			auth.POST("/login", ctl.Auth.Login)
			auth.POST("/mfa/login", ctl.Auth.CompleteMFALogin)
			auth.POST("/refresh", ctl.Auth.Refresh)
			auth.POST("/logout", authenticate, ctl.Auth.Logout)
			auth.GET("/me", authenticate, ctl.Auth.GetMe)
			auth.PUT("/me", authenticate, ctl.Auth.UpdateMe)

			mfa := auth.Group("/mfa", authenticate)
			{
				mfa.POST("/setup", ctl.Auth.SetupMFA)
				mfa.POST("/enable", ctl.Auth.EnableMFA)
				mfa.POST("/disable", ctl.Auth.DisableMFA)
				mfa.POST("/backup-codes", ctl.Auth.RegenerateBackupCodes)
			}
		}

		products := v1.Group("/products")
		{
			products.GET("", ctl.Product.ListProducts)
			products.GET("/:id", ctl.Product.GetProduct)
			products.GET("/:id/related", ctl.Product.GetRelatedProducts)
			products.GET("/:id/reviews", ctl.Review.ListProductReviews)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", ctl.Category.ListCategories)
			categories.GET("/:slug", ctl.Category.GetCategory)
		}

		v1.POST("/coupons/validate", ctl.Coupon.ValidateCoupon)

		reviews := v1.Group("/reviews", authenticate)
		{
			reviews.POST("", ctl.Review.CreateReview)
			reviews.GET("/me", ctl.Review.ListMyReviews)
			reviews.PUT("/:id", ctl.Review.UpdateReview)
			reviews.DELETE("/:id", ctl.Review.DeleteReview)
		}

		cart := v1.Group("/cart", authenticate)
		{
			cart.GET("", ctl.Cart.GetCart)
			cart.POST("", ctl.Cart.AddToCart)
			cart.PUT("/:id", ctl.Cart.UpdateCartItem)
			cart.DELETE("/:id", ctl.Cart.RemoveFromCart)
			cart.DELETE("", ctl.Cart.ClearCart)
		}

		orders := v1.Group("/orders", authenticate)
		{
			orders.GET("", ctl.Order.ListOrders)
			orders.POST("", ctl.Order.PlaceOrder)
			orders.GET("/:id", ctl.Order.GetOrder)
			orders.POST("/:id/cancel", ctl.Order.CancelOrder)
		}

		wishlist := v1.Group("/wishlist", authenticate)
		{
			wishlist.GET("", ctl.Wishlist.GetWishlist)
			wishlist.POST("", ctl.Wishlist.AddToWishlist)
			wishlist.DELETE("/:productId", ctl.Wishlist.RemoveFromWishlist)
		}

		addresses := v1.Group("/addresses", authenticate)
		{
			addresses.GET("", ctl.Address.ListAddresses)
			addresses.POST("", ctl.Address.CreateAddress)
			addresses.PUT("/:id", ctl.Address.UpdateAddress)
			addresses.DELETE("/:id", ctl.Address.DeleteAddress)
			addresses.PUT("/:id/default", ctl.Address.SetDefaultAddress)
		}

		// every back-office route needs an admin whose session passed MFA
		admin := v1.Group("/admin",
			authenticate,
			r.authMiddleware.RequireRole(model.RoleAdmin),
			r.authMiddleware.RequireMFA(),
		)
		{
			admin.GET("/products", ctl.Product.AdminListProducts)
			admin.POST("/products", ctl.Product.CreateProduct)
			admin.PUT("/products/:id", ctl.Product.UpdateProduct)
			admin.DELETE("/products/:id", ctl.Product.DeactivateProduct)
			admin.POST("/products/:id/variants", ctl.Product.CreateVariant)
			admin.POST("/products/:id/images", ctl.Product.AddImage)
			admin.POST("/products/reconcile", ctl.Product.ReconcileCounters)
			admin.PUT("/variants/:id", ctl.Product.UpdateVariant)
			admin.POST("/variants/:id/stock", ctl.Product.AdjustStock)

			admin.GET("/categories", ctl.Category.AdminListCategories)
			admin.POST("/categories", ctl.Category.CreateCategory)
			admin.PUT("/categories/:id", ctl.Category.UpdateCategory)
			admin.DELETE("/categories/:id", ctl.Category.DeleteCategory)
			admin.POST("/categories/:id/subcategories", ctl.Category.CreateSubCategory)
			admin.PUT("/subcategories/:id", ctl.Category.UpdateSubCategory)

			admin.GET("/reviews", ctl.Review.AdminListReviews)
			admin.PATCH("/reviews/:id", ctl.Review.ModerateReview)

			admin.GET("/orders", ctl.Order.AdminListOrders)
			admin.GET("/orders/:id", ctl.Order.AdminGetOrder)
			admin.PATCH("/orders/:id/status", ctl.Order.UpdateOrderStatus)

			admin.GET("/coupons", ctl.Coupon.ListCoupons)
			admin.POST("/coupons", ctl.Coupon.CreateCoupon)
			admin.GET("/coupons/:id", ctl.Coupon.GetCoupon)
			admin.PUT("/coupons/:id", ctl.Coupon.UpdateCoupon)
			admin.DELETE("/coupons/:id", ctl.Coupon.DeleteCoupon)

			analytics := admin.Group("/analytics")
			{
				analytics.GET("/dashboard", ctl.Analytics.GetDashboard)
				analytics.GET("/sales", ctl.Analytics.GetSalesMetrics)
				analytics.GET("/top-products", ctl.Analytics.GetTopProducts)
				analytics.GET("/trends", ctl.Analytics.GetRevenueTrends)
				analytics.GET("/customers", ctl.Analytics.GetCustomerAnalytics)
				analytics.GET("/inventory", ctl.Analytics.GetInventoryInsights)
				analytics.GET("/categories", ctl.Analytics.GetSalesByCategory)
				analytics.GET("/order-status", ctl.Analytics.GetOrderStatusBreakdown)
				analytics.GET("/export", ctl.Analytics.ExportSalesReport)
			}

			admin.POST("/uploads/presign", ctl.Upload.PresignUpload)

			admin.GET("/feed", ctl.Feed.Connect)
			admin.GET("/feed/stats", ctl.Feed.Stats)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader+", Content-Disposition")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
