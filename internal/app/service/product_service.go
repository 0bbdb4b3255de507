package service

import (
	"errors"
	"strings"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/mithunreddyy/valuva-sub002/pkg/util"
	"gorm.io/gorm"
)

const DefaultRelatedLimit = 8

// ProductSummary is a product with its approved-review rating
type ProductSummary struct {
	model.Product
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type ProductInput struct {
	Name           string         `json:"name" binding:"required"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description"`
	BasePrice      float64        `json:"base_price" binding:"gte=0"`
	CompareAtPrice *float64       `json:"compare_at_price"`
	Brand          string         `json:"brand"`
	Material       string         `json:"material"`
	CategoryID     uint           `json:"category_id" binding:"required"`
	SubCategoryID  *uint          `json:"sub_category_id"`
	IsActive       bool           `json:"is_active"`
	IsFeatured     bool           `json:"is_featured"`
	IsNewArrival   bool           `json:"is_new_arrival"`
	Variants       []VariantInput `json:"variants"`
}

// VariantInput.Stock is only honoured on creation
type VariantInput struct {
	SKU      string  `json:"sku" binding:"required"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
	ColorHex string  `json:"color_hex"`
	Price    float64 `json:"price" binding:"gte=0"`
	Stock    int     `json:"stock" binding:"gte=0"`
	IsActive bool    `json:"is_active"`
}

type ImageInput struct {
	URL       string `json:"url" binding:"required"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter, page, limit int) (*PageResult[ProductSummary], error)
	GetProductByID(id uint) (*ProductSummary, error)
	GetProductBySlug(slug string) (*ProductSummary, error)
	GetRelatedProducts(productID uint, limit int) ([]ProductSummary, error)

	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeactivateProduct(id uint) error
	CreateVariant(productID uint, input VariantInput) (*model.ProductVariant, error)
	UpdateVariant(variantID uint, input VariantInput) (*model.ProductVariant, error)
	AdjustVariantStock(variantID uint, delta int) (*model.ProductVariant, error)
	AddProductImage(productID uint, input ImageInput) (*model.ProductImage, error)
	ReconcileCounters() ([]repository.CounterDrift, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// summarize attaches rating stats from a single aggregate query
func summarize(productRepo repository.ProductRepository, products []model.Product) ([]ProductSummary, error) {
	ids := make([]uint, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	stats, err := productRepo.RatingStats(ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProductSummary, len(products))
	for i := range products {
		stat := stats[products[i].ID]
		summaries[i] = ProductSummary{
			Product:       products[i],
			AverageRating: roundRating(stat.Average),
			ReviewCount:   stat.Count,
		}
	}
	return summaries, nil
}

func (s *productService) ListProducts(filter repository.ProductFilter, page, limit int) (*PageResult[ProductSummary], error) {
	p := repository.NewPage(page, limit, repository.DefaultPageSize)
	filter.Offset = p.Offset()
	filter.Limit = p.Limit

	logger.Debug("Listing products", map[string]interface{}{
		"search":           filter.Search,
		"sort":             filter.Sort,
		"include_inactive": filter.IncludeInactive,
		"page":             p.Page,
		"limit":            p.Limit,
	})

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	summaries, err := summarize(s.productRepo, products)
	if err != nil {
		logger.Error("Failed to attach product ratings", err)
		return nil, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"count": len(summaries),
		"total": total,
	})
	return newPageResult(summaries, total, p), nil
}

func (s *productService) GetProductByID(id uint) (*ProductSummary, error) {
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindDetailByID(id)
	return s.detail(product, err, map[string]interface{}{"product_id": id})
}

func (s *productService) GetProductBySlug(slug string) (*ProductSummary, error) {
	logger.Debug("Fetching product by slug", map[string]interface{}{
		"slug": slug,
	})

	product, err := s.productRepo.FindDetailBySlug(slug)
	return s.detail(product, err, map[string]interface{}{"slug": slug})
}

// detail hides inactive products and bumps the view counter. A failed
// increment never fails the read.
func (s *productService) detail(product *model.Product, err error, fields map[string]interface{}) (*ProductSummary, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", fields)
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, fields)
		return nil, err
	}
	if !product.IsActive {
		logger.Warn("Inactive product requested", fields)
		return nil, ErrProductNotFound
	}

	if err := s.productRepo.IncrementViewCount(product.ID); err != nil {
		logger.Warn("Failed to increment product view count", map[string]interface{}{
			"product_id": product.ID,
			"error":      err.Error(),
		})
	} else {
		product.ViewCount++
	}

	// detail preloads approved reviews only
	summary := ProductSummary{Product: *product}
	if n := len(product.Reviews); n > 0 {
		sum := 0
		for _, r := range product.Reviews {
			sum += r.Rating
		}
		summary.AverageRating = roundRating(float64(sum) / float64(n))
		summary.ReviewCount = int64(n)
	}
	return &summary, nil
}

func (s *productService) GetRelatedProducts(productID uint, limit int) ([]ProductSummary, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	related, err := s.productRepo.FindRelated(product.ID, product.CategoryID, limit)
	if err != nil {
		return nil, err
	}
	return summarize(s.productRepo, related)
}

func (s *productService) validateProduct(input *ProductInput, excludeID uint) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.BasePrice < 0 {
		return ErrInvalidProduct
	}

	input.Slug = util.Slugify(input.Slug)
	if input.Slug == "" {
		input.Slug = util.Slugify(input.Name)
	}
	if input.Slug == "" {
		return ErrInvalidProduct
	}

	exists, err := s.productRepo.SlugExists(input.Slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrProductSlugExists
	}

	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if input.SubCategoryID != nil {
		sub, err := s.categoryRepo.FindSubCategoryByID(*input.SubCategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubCategoryNotFound
			}
			return err
		}
		if sub.CategoryID != input.CategoryID {
			return ErrSubCategoryNotFound
		}
	}
	return nil
}

func (s *productService) validateVariant(input *VariantInput, excludeID uint) error {
	input.SKU = strings.TrimSpace(input.SKU)
	if input.SKU == "" || input.Price < 0 {
		return ErrInvalidProduct
	}
	if input.Stock < 0 {
		return ErrInvalidStockChange
	}
	exists, err := s.productRepo.SKUExists(input.SKU, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrVariantSKUExists
	}
	return nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":        input.Name,
		"category_id": input.CategoryID,
		"variants":    len(input.Variants),
	})

	if err := s.validateProduct(&input, 0); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:           input.Name,
		Slug:           input.Slug,
		Description:    input.Description,
		BasePrice:      input.BasePrice,
		CompareAtPrice: input.CompareAtPrice,
		Brand:          input.Brand,
		Material:       input.Material,
		CategoryID:     input.CategoryID,
		SubCategoryID:  input.SubCategoryID,
		IsActive:       input.IsActive,
		IsFeatured:     input.IsFeatured,
		IsNewArrival:   input.IsNewArrival,
	}

	seen := make(map[string]bool, len(input.Variants))
	for i := range input.Variants {
		v := input.Variants[i]
		if err := s.validateVariant(&v, 0); err != nil {
			return nil, err
		}
		if seen[v.SKU] {
			return nil, ErrVariantSKUExists
		}
		seen[v.SKU] = true

		product.Variants = append(product.Variants, model.ProductVariant{
			SKU:      v.SKU,
			Size:     v.Size,
			Color:    v.Color,
			ColorHex: v.ColorHex,
			Price:    v.Price,
			Stock:    v.Stock,
			IsActive: v.IsActive,
		})
		product.TotalStock += v.Stock
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

// UpdateProduct rewrites descriptive fields. Counters are left untouched.
func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.validateProduct(&input, id); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Slug = input.Slug
	product.Description = input.Description
	product.BasePrice = input.BasePrice
	product.CompareAtPrice = input.CompareAtPrice
	product.Brand = input.Brand
	product.Material = input.Material
	product.CategoryID = input.CategoryID
	product.SubCategoryID = input.SubCategoryID
	product.IsActive = input.IsActive
	product.IsFeatured = input.IsFeatured
	product.IsNewArrival = input.IsNewArrival

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

// DeactivateProduct hides the product from the storefront. Order history
// keeps referencing it so rows are never removed.
func (s *productService) DeactivateProduct(id uint) error {
	logger.Info("Deactivating product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if !product.IsActive {
		return nil
	}

	product.IsActive = false
	return s.productRepo.Update(product)
}

func (s *productService) CreateVariant(productID uint, input VariantInput) (*model.ProductVariant, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if err := s.validateVariant(&input, 0); err != nil {
		return nil, err
	}

	variant := &model.ProductVariant{
		ProductID: productID,
		SKU:       input.SKU,
		Size:      input.Size,
		Color:     input.Color,
		ColorHex:  input.ColorHex,
		Price:     input.Price,
		Stock:     input.Stock,
		IsActive:  input.IsActive,
	}
	if err := s.productRepo.CreateVariant(variant); err != nil {
		return nil, err
	}

	logger.Info("Product variant created", map[string]interface{}{
		"product_id": productID,
		"variant_id": variant.ID,
		"sku":        variant.SKU,
	})
	return variant, nil
}

func (s *productService) UpdateVariant(variantID uint, input VariantInput) (*model.ProductVariant, error) {
	variant, err := s.productRepo.FindVariantByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	input.Stock = 0
	if err := s.validateVariant(&input, variantID); err != nil {
		return nil, err
	}

	variant.SKU = input.SKU
	variant.Size = input.Size
	variant.Color = input.Color
	variant.ColorHex = input.ColorHex
	variant.Price = input.Price
	variant.IsActive = input.IsActive

	if err := s.productRepo.UpdateVariant(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *productService) AdjustVariantStock(variantID uint, delta int) (*model.ProductVariant, error) {
	logger.Info("Adjusting variant stock", map[string]interface{}{
		"variant_id": variantID,
		"delta":      delta,
	})

	variant, err := s.productRepo.AdjustVariantStock(variantID, delta)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrVariantNotFound
		case errors.Is(err, repository.ErrNegativeStock):
			return nil, ErrInvalidStockChange
		}
		return nil, err
	}
	return variant, nil
}

func (s *productService) AddProductImage(productID uint, input ImageInput) (*model.ProductImage, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	image := &model.ProductImage{
		ProductID: productID,
		URL:       strings.TrimSpace(input.URL),
		AltText:   input.AltText,
		IsPrimary: input.IsPrimary,
		SortOrder: input.SortOrder,
	}
	if image.URL == "" {
		return nil, ErrInvalidProduct
	}
	if err := s.productRepo.AddImage(image); err != nil {
		return nil, err
	}
	return image, nil
}

// ReconcileCounters rewrites totalStock and totalSold wherever they drifted
// from variants and order items, and returns the drift found.
func (s *productService) ReconcileCounters() ([]repository.CounterDrift, error) {
	drift, err := s.productRepo.FindCounterDrift()
	if err != nil {
		return nil, err
	}

	for _, d := range drift {
		logger.Warn("Product counters drifted", map[string]interface{}{
			"product_id":   d.ProductID,
			"stored_stock": d.StoredStock,
			"actual_stock": d.ActualStock,
			"stored_sold":  d.StoredSold,
			"actual_sold":  d.ActualSold,
		})
		if err := s.productRepo.ReconcileCounters(d.ProductID); err != nil {
			return drift, err
		}
	}

	logger.Info("Product counters reconciled", map[string]interface{}{
		"drifted": len(drift),
	})
	return drift, nil
}
