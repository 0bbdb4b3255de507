package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/controller"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
	"github.com/mithunreddyy/valuva-sub002/internal/cache"
	"github.com/mithunreddyy/valuva-sub002/internal/db"
	"github.com/mithunreddyy/valuva-sub002/internal/events"
	"github.com/mithunreddyy/valuva-sub002/internal/middleware"
	"github.com/mithunreddyy/valuva-sub002/internal/router"
	"github.com/mithunreddyy/valuva-sub002/internal/scheduler"
	"github.com/mithunreddyy/valuva-sub002/internal/storage"
	ws "github.com/mithunreddyy/valuva-sub002/internal/websocket"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	redispkg "github.com/mithunreddyy/valuva-sub002/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := cfg.Server.LogLevel
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Valuva API server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	gdb := db.GetDB()

	// Redis backs the token blacklist and the analytics cache. Without it
	// logout is a no-op and analytics are cached in process.
	var (
		analyticsCache cache.Cache = cache.NewMemoryCache()
		revoker        service.TokenRevoker
		revocation     middleware.RevocationChecker
	)
	if cfg.Redis.Enabled {
		client, err := redispkg.Init(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer redispkg.Close()

		blacklist := redispkg.NewTokenBlacklist(client)
		revoker, revocation = blacklist, blacklist
		analyticsCache = cache.NewRedisCache(client)
	} else {
		logger.Warn("Redis disabled; token revocation is off and analytics cache is in-process")
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	publishers := events.Fanout{hub}
	if cfg.Kafka.Enabled {
		kafka := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := kafka.Close(); err != nil {
				logger.Error("Failed to close Kafka writer", err)
			}
		}()
		publishers = append(publishers, kafka)
	}

	// Repositories
	userRepo := repository.NewUserRepository(gdb)
	productRepo := repository.NewProductRepository(gdb)
	categoryRepo := repository.NewCategoryRepository(gdb)
	reviewRepo := repository.NewReviewRepository(gdb)
	wishlistRepo := repository.NewWishlistRepository(gdb)
	addressRepo := repository.NewAddressRepository(gdb)
	cartRepo := repository.NewCartRepository(gdb)
	orderRepo := repository.NewOrderRepository(gdb)
	couponRepo := repository.NewCouponRepository(gdb)
	analyticsRepo := repository.NewAnalyticsRepository(gdb)

	// Services
	pricer := service.NewPricer(cfg.Pricing)
	mfaService := service.NewMFAService(userRepo, cfg.MFA)
	authService := service.NewAuthService(userRepo, mfaService, revoker, cfg.JWT)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	addressService := service.NewAddressService(addressRepo)
	cartService := service.NewCartService(cartRepo, productRepo, pricer)
	orderService := service.NewOrderService(orderRepo, cartRepo, addressRepo, gdb, pricer, publishers)
	couponService := service.NewCouponService(couponRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo, analyticsCache, cfg.Analytics.CacheTTL)

	imageStorage := storage.NewS3Storage(ctx, cfg.S3)

	r := router.NewRouter(
		router.Controllers{
			Auth:      controller.NewAuthController(authService, mfaService),
			Product:   controller.NewProductController(productService),
			Category:  controller.NewCategoryController(categoryService),
			Review:    controller.NewReviewController(reviewService),
			Cart:      controller.NewCartController(cartService),
			Order:     controller.NewOrderController(orderService),
			Wishlist:  controller.NewWishlistController(wishlistService),
			Address:   controller.NewAddressController(addressService),
			Coupon:    controller.NewCouponController(couponService),
			Analytics: controller.NewAnalyticsController(analyticsService),
			Upload:    controller.NewUploadController(imageStorage),
			Feed:      controller.NewFeedController(hub, cfg.CORS.AllowedOrigins),
		},
		middleware.NewAuthMiddleware(cfg.JWT.Secret, revocation),
		cfg,
	)

	maintenance := scheduler.NewMaintenanceScheduler(cfg.Scheduler, productService, couponService)
	if err := maintenance.Start(); err != nil {
		logger.Fatal("Failed to start maintenance scheduler", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	maintenance.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	logger.Info("Server stopped successfully")
}
