package db

import (
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.SubCategory{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductImage{},
		&model.Review{},
		&model.WishlistItem{},
		&model.Address{},
		&model.CartItem{},
		&model.Coupon{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(DB); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

func seedInitialData(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	if err := seedCategories(db); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedCategories creates the top-level taxonomy on an empty catalog
func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	categories := []model.Category{
		{Name: "Men", Slug: "men", SortOrder: 1, IsActive: true, SubCategories: []model.SubCategory{
			{Name: "T-Shirts", Slug: "t-shirts", SortOrder: 1, IsActive: true},
			{Name: "Shirts", Slug: "shirts", SortOrder: 2, IsActive: true},
			{Name: "Jeans", Slug: "jeans", SortOrder: 3, IsActive: true},
		}},
		{Name: "Women", Slug: "women", SortOrder: 2, IsActive: true, SubCategories: []model.SubCategory{
			{Name: "T-Shirts", Slug: "t-shirts", SortOrder: 1, IsActive: true},
			{Name: "Dresses", Slug: "dresses", SortOrder: 2, IsActive: true},
		}},
		{Name: "Accessories", Slug: "accessories", SortOrder: 3, IsActive: true},
	}

	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(categories),
	})
	return nil
}
