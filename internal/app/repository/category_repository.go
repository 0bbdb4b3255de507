package repository

import (
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindActive() ([]model.Category, error)
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	SlugExists(slug string, excludeID uint) (bool, error)
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(id uint) error
	CountProducts(categoryID uint) (int64, error)

	FindSubCategoryByID(id uint) (*model.SubCategory, error)
	SubCategorySlugExists(categoryID uint, slug string, excludeID uint) (bool, error)
	CreateSubCategory(sub *model.SubCategory) error
	UpdateSubCategory(sub *model.SubCategory) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// FindActive returns active categories with their active subcategories,
// both ordered by sort order with id as the tie-break.
func (r *categoryRepository) FindActive() ([]model.Category, error) {
	logger.Debug("Finding active categories in database")

	var categories []model.Category
	err := r.db.
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order ASC, id ASC")
		}).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to find active categories in database", err)
		return nil, err
	}

	logger.Debug("Active categories found in database", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to find categories in database", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("SubCategories").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	logger.Debug("Finding category by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var category model.Category
	err := r.db.
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order ASC, id ASC")
		}).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find category by slug in database", err, map[string]interface{}{
				"slug": slug,
			})
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("slug = ? AND id <> ?", slug, excludeID).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"slug": category.Slug,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"slug": category.Slug,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	if err := r.db.Omit("SubCategories").Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.SubCategory{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			logger.Error("Failed to delete category from database", result.Error, map[string]interface{}{
				"category_id": id,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *categoryRepository) CountProducts(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *categoryRepository) FindSubCategoryByID(id uint) (*model.SubCategory, error) {
	var sub model.SubCategory
	if err := r.db.First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *categoryRepository) SubCategorySlugExists(categoryID uint, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.SubCategory{}).
		Where("category_id = ? AND slug = ? AND id <> ?", categoryID, slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) CreateSubCategory(sub *model.SubCategory) error {
	logger.Debug("Creating subcategory in database", map[string]interface{}{
		"category_id": sub.CategoryID,
		"slug":        sub.Slug,
	})

	if err := r.db.Create(sub).Error; err != nil {
		logger.Error("Failed to create subcategory in database", err, map[string]interface{}{
			"category_id": sub.CategoryID,
			"slug":        sub.Slug,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) UpdateSubCategory(sub *model.SubCategory) error {
	if err := r.db.Save(sub).Error; err != nil {
		logger.Error("Failed to update subcategory in database", err, map[string]interface{}{
			"sub_category_id": sub.ID,
		})
		return err
	}
	return nil
}
