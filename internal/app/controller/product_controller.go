package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type StockAdjustmentRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func productFilter(c *gin.Context) repository.ProductFilter {
	return repository.ProductFilter{
		CategoryID:    queryUint(c, "category_id"),
		SubCategoryID: queryUint(c, "sub_category_id"),
		MinPrice:      queryFloat(c, "min_price"),
		MaxPrice:      queryFloat(c, "max_price"),
		IsFeatured:    queryBool(c, "featured"),
		IsNewArrival:  queryBool(c, "new_arrival"),
		Search:        strings.TrimSpace(c.Query("search")),
		Size:          strings.TrimSpace(c.Query("size")),
		Color:         strings.ToLower(strings.TrimSpace(c.Query("color"))),
		Sort:          repository.ParseProductSort(c.Query("sort")),
	}
}

// ListProducts returns active products
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	page, limit := pageParams(c)
	result, err := ctrl.productService.ListProducts(productFilter(c), page, limit)
	if err != nil {
		respondError(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProduct accepts a numeric id or a slug
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	ref := c.Param("id")

	var (
		product *service.ProductSummary
		err     error
	)
	if id, convErr := strconv.ParseUint(ref, 10, 64); convErr == nil {
		product, err = ctrl.productService.GetProductByID(uint(id))
	} else {
		product, err = ctrl.productService.GetProductBySlug(ref)
	}
	if err != nil {
		respondError(c, err, "fetch product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetRelatedProducts returns products from the same category
// GET /api/v1/products/:id/related
func (ctrl *ProductController) GetRelatedProducts(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := ctrl.productService.GetRelatedProducts(id, limit)
	if err != nil {
		respondError(c, err, "fetch related products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// AdminListProducts includes inactive products
// GET /api/v1/admin/products
func (ctrl *ProductController) AdminListProducts(c *gin.Context) {
	filter := productFilter(c)
	filter.IncludeInactive = true
	page, limit := pageParams(c)

	result, err := ctrl.productService.ListProducts(filter, page, limit)
	if err != nil {
		respondError(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateProduct creates a product with its variants
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if !bindJSON(c, &req) {
		return
	}

	product, err := ctrl.productService.CreateProduct(req)
	if err != nil {
		respondError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct replaces the product's editable fields
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.ProductInput
	if !bindJSON(c, &req) {
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, req)
	if err != nil {
		respondError(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeactivateProduct hides a product from the storefront
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeactivateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeactivateProduct(id); err != nil {
		respondError(c, err, "deactivate product")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateVariant adds a variant to a product
// POST /api/v1/admin/products/:id/variants
func (ctrl *ProductController) CreateVariant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.VariantInput
	if !bindJSON(c, &req) {
		return
	}

	variant, err := ctrl.productService.CreateVariant(id, req)
	if err != nil {
		respondError(c, err, "create variant")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"variant": variant})
}

// UpdateVariant edits a variant. Stock changes go through AdjustStock.
// PUT /api/v1/admin/variants/:id
func (ctrl *ProductController) UpdateVariant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.VariantInput
	if !bindJSON(c, &req) {
		return
	}

	variant, err := ctrl.productService.UpdateVariant(id, req)
	if err != nil {
		respondError(c, err, "update variant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"variant": variant})
}

// AdjustStock applies a signed stock delta
// POST /api/v1/admin/variants/:id/stock
func (ctrl *ProductController) AdjustStock(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req StockAdjustmentRequest
	if !bindJSON(c, &req) {
		return
	}

	variant, err := ctrl.productService.AdjustVariantStock(id, req.Delta)
	if err != nil {
		respondError(c, err, "adjust stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"variant": variant})
}

// AddImage attaches an uploaded image to a product
// POST /api/v1/admin/products/:id/images
func (ctrl *ProductController) AddImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.ImageInput
	if !bindJSON(c, &req) {
		return
	}

	image, err := ctrl.productService.AddProductImage(id, req)
	if err != nil {
		respondError(c, err, "add product image")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": image})
}

// ReconcileCounters recomputes denormalized stock and sold counters
// POST /api/v1/admin/products/reconcile
func (ctrl *ProductController) ReconcileCounters(c *gin.Context) {
	drift, err := ctrl.productService.ReconcileCounters()
	if err != nil {
		respondError(c, err, "reconcile counters")
		return
	}
	c.JSON(http.StatusOK, gin.H{"corrected": drift, "count": len(drift)})
}
