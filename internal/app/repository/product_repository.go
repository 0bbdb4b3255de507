package repository

import (
	"strings"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortPopular   ProductSort = "popular"
)

// ParseProductSort falls back to newest for unknown values
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case ProductSortPriceAsc, ProductSortPriceDesc, ProductSortPopular:
		return ProductSort(s)
	}
	return ProductSortNewest
}

// ProductFilter predicates are AND-ed together. Nil/empty fields are ignored.
type ProductFilter struct {
	CategoryID      *uint
	SubCategoryID   *uint
	MinPrice        *float64
	MaxPrice        *float64
	IsFeatured      *bool
	IsNewArrival    *bool
	Search          string
	Size            string
	Color           string
	IncludeInactive bool
	Sort            ProductSort
	Limit           int
	Offset          int
}

// RatingStat aggregates approved review ratings of one product
type RatingStat struct {
	ProductID uint
	Average   float64
	Count     int64
}

// CounterDrift is a product whose denormalized counters disagree with the
// values derived from variants and order items.
type CounterDrift struct {
	ProductID   uint
	StoredStock int
	ActualStock int
	StoredSold  int
	ActualSold  int
}

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindDetailByID(id uint) (*model.Product, error)
	FindDetailBySlug(slug string) (*model.Product, error)
	FindRelated(productID, categoryID uint, limit int) ([]model.Product, error)
	SlugExists(slug string, excludeID uint) (bool, error)
	IncrementViewCount(id uint) error
	RatingStats(productIDs []uint) (map[uint]RatingStat, error)

	CreateVariant(variant *model.ProductVariant) error
	UpdateVariant(variant *model.ProductVariant) error
	FindVariantByID(id uint) (*model.ProductVariant, error)
	SKUExists(sku string, excludeID uint) (bool, error)
	AdjustVariantStock(variantID uint, delta int) (*model.ProductVariant, error)
	AddImage(image *model.ProductImage) error

	FindCounterDrift() ([]CounterDrift, error)
	ReconcileCounters(productID uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"slug":        product.Slug,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	// associations are managed through their own methods
	if err := r.db.Omit(clause.Associations).Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func applyProductFilter(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if !filter.IncludeInactive {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.SubCategoryID != nil {
		query = query.Where("products.sub_category_id = ?", *filter.SubCategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.base_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.base_price <= ?", *filter.MaxPrice)
	}
	if filter.IsFeatured != nil {
		query = query.Where("products.is_featured = ?", *filter.IsFeatured)
	}
	if filter.IsNewArrival != nil {
		query = query.Where("products.is_new_arrival = ?", *filter.IsNewArrival)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.brand) LIKE ?)",
			like, like, like,
		)
	}
	if filter.Size != "" || filter.Color != "" {
		sub := "SELECT 1 FROM product_variants pv WHERE pv.product_id = products.id AND pv.is_active = ? AND pv.stock > 0"
		args := []interface{}{true}
		if filter.Size != "" {
			sub += " AND LOWER(pv.size) = ?"
			args = append(args, strings.ToLower(filter.Size))
		}
		if filter.Color != "" {
			sub += " AND LOWER(pv.color) = ?"
			args = append(args, strings.ToLower(filter.Color))
		}
		query = query.Where("EXISTS ("+sub+")", args...)
	}
	return query
}

func productOrder(sort ProductSort) string {
	switch sort {
	case ProductSortPriceAsc:
		return "products.base_price ASC, products.id ASC"
	case ProductSortPriceDesc:
		return "products.base_price DESC, products.id DESC"
	case ProductSortPopular:
		return "products.total_sold DESC, products.id DESC"
	default:
		return "products.created_at DESC, products.id DESC"
	}
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id":      filter.CategoryID,
		"sub_category_id":  filter.SubCategoryID,
		"search":           filter.Search,
		"size":             filter.Size,
		"color":            filter.Color,
		"sort":             filter.Sort,
		"include_inactive": filter.IncludeInactive,
		"limit":            filter.Limit,
		"offset":           filter.Offset,
	})

	var total int64
	if err := applyProductFilter(r.db.Model(&model.Product{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	query := applyProductFilter(r.db.Model(&model.Product{}), filter).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order(productOrder(filter.Sort))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err)
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) detailQuery() *gorm.DB {
	return r.db.
		Preload("Category").
		Preload("SubCategory").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("id ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_approved = ?", true).Order("created_at DESC, id DESC")
		}).
		Preload("Reviews.User")
}

func (r *productRepository) FindDetailByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product detail by ID", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.detailQuery().First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product detail by ID", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindDetailBySlug(slug string) (*model.Product, error) {
	logger.Debug("Finding product detail by slug", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	if err := r.detailQuery().Where("slug = ?", slug).First(&product).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product detail by slug", err, map[string]interface{}{
				"slug": slug,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindRelated(productID, categoryID uint, limit int) ([]model.Product, error) {
	logger.Debug("Finding related products", map[string]interface{}{
		"product_id":  productID,
		"category_id": categoryID,
		"limit":       limit,
	})

	var products []model.Product
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("category_id = ? AND id <> ? AND is_active = ?", categoryID, productID, true).
		Order("total_sold DESC, id ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find related products", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *productRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *productRepository) RatingStats(productIDs []uint) (map[uint]RatingStat, error) {
	stats := make(map[uint]RatingStat, len(productIDs))
	if len(productIDs) == 0 {
		return stats, nil
	}

	var rows []RatingStat
	err := r.db.Model(&model.Review{}).
		Select("product_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("is_approved = ? AND product_id IN ?", true, productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate review ratings", err, map[string]interface{}{
			"product_count": len(productIDs),
		})
		return nil, err
	}

	for _, row := range rows {
		stats[row.ProductID] = row
	}
	return stats, nil
}

func (r *productRepository) CreateVariant(variant *model.ProductVariant) error {
	logger.Debug("Creating product variant", map[string]interface{}{
		"product_id": variant.ProductID,
		"sku":        variant.SKU,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(variant).Error; err != nil {
			logger.Error("Failed to create product variant", err, map[string]interface{}{
				"sku": variant.SKU,
			})
			return err
		}
		if variant.Stock == 0 {
			return nil
		}
		return tx.Model(&model.Product{}).
			Where("id = ?", variant.ProductID).
			UpdateColumn("total_stock", gorm.Expr("total_stock + ?", variant.Stock)).Error
	})
}

// UpdateVariant saves descriptive fields only. Stock moves through
// AdjustVariantStock or order placement.
func (r *productRepository) UpdateVariant(variant *model.ProductVariant) error {
	logger.Debug("Updating product variant", map[string]interface{}{
		"variant_id": variant.ID,
	})

	err := r.db.Model(variant).
		Select("sku", "size", "color", "color_hex", "price", "is_active").
		Updates(variant).Error
	if err != nil {
		logger.Error("Failed to update product variant", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
	}
	return err
}

func (r *productRepository) FindVariantByID(id uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.Preload("Product").First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) SKUExists(sku string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ProductVariant{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error
	return count > 0, err
}

// AdjustVariantStock applies delta to a variant and its product total in one
// transaction. The stock check constraint rejects a negative result.
func (r *productRepository) AdjustVariantStock(variantID uint, delta int) (*model.ProductVariant, error) {
	logger.Debug("Adjusting variant stock", map[string]interface{}{
		"variant_id": variantID,
		"delta":      delta,
	})

	var variant model.ProductVariant
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&variant, variantID).Error; err != nil {
			return err
		}
		if variant.Stock+delta < 0 {
			return ErrNegativeStock
		}
		if err := tx.Model(&variant).
			UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Product{}).
			Where("id = ?", variant.ProductID).
			UpdateColumn("total_stock", gorm.Expr("total_stock + ?", delta)).Error; err != nil {
			return err
		}
		variant.Stock += delta
		return nil
	})
	if err != nil {
		if err != ErrNegativeStock && err != gorm.ErrRecordNotFound {
			logger.Error("Failed to adjust variant stock", err, map[string]interface{}{
				"variant_id": variantID,
			})
		}
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) AddImage(image *model.ProductImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if image.IsPrimary {
			if err := tx.Model(&model.ProductImage{}).
				Where("product_id = ?", image.ProductID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(image).Error
	})
}

func (r *productRepository) FindCounterDrift() ([]CounterDrift, error) {
	logger.Debug("Checking denormalized product counters")

	var drift []CounterDrift
	err := r.db.Raw(`
		SELECT p.id AS product_id,
		       p.total_stock AS stored_stock,
		       COALESCE(v.stock, 0) AS actual_stock,
		       p.total_sold AS stored_sold,
		       COALESCE(s.sold, 0) AS actual_sold
		FROM products p
		LEFT JOIN (SELECT product_id, SUM(stock) AS stock FROM product_variants GROUP BY product_id) v
		       ON v.product_id = p.id
		LEFT JOIN (SELECT oi.product_id, SUM(oi.quantity) AS sold
		           FROM order_items oi JOIN orders o ON o.id = oi.order_id
		           WHERE o.status <> ?
		           GROUP BY oi.product_id) s
		       ON s.product_id = p.id
		WHERE p.total_stock <> COALESCE(v.stock, 0) OR p.total_sold <> COALESCE(s.sold, 0)
		ORDER BY p.id`, model.OrderStatusCancelled).
		Scan(&drift).Error
	if err != nil {
		logger.Error("Failed to check product counters", err)
		return nil, err
	}
	return drift, nil
}

// ReconcileCounters rewrites totalStock and totalSold from their sources
func (r *productRepository) ReconcileCounters(productID uint) error {
	err := r.db.Exec(`
		UPDATE products SET
		  total_stock = (SELECT COALESCE(SUM(stock), 0) FROM product_variants WHERE product_id = ?),
		  total_sold = (SELECT COALESCE(SUM(oi.quantity), 0)
		                FROM order_items oi JOIN orders o ON o.id = oi.order_id
		                WHERE oi.product_id = ? AND o.status <> ?)
		WHERE id = ?`, productID, productID, model.OrderStatusCancelled, productID).Error
	if err != nil {
		logger.Error("Failed to reconcile product counters", err, map[string]interface{}{
			"product_id": productID,
		})
	}
	return err
}
