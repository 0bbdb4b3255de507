package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories returns the active category tree
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.GetCategories()
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory returns one active category by slug
// GET /api/v1/categories/:slug
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	category, err := ctrl.categoryService.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err, "fetch category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// AdminListCategories includes inactive categories
// GET /api/v1/admin/categories
func (ctrl *CategoryController) AdminListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.GetAllCategories()
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// POST /api/v1/admin/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.CreateCategory(req)
	if err != nil {
		respondError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, req)
	if err != nil {
		respondError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		respondError(c, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/v1/admin/categories/:id/subcategories
func (ctrl *CategoryController) CreateSubCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	sub, err := ctrl.categoryService.CreateSubCategory(id, req)
	if err != nil {
		respondError(c, err, "create subcategory")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subcategory": sub})
}

// PUT /api/v1/admin/subcategories/:id
func (ctrl *CategoryController) UpdateSubCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	sub, err := ctrl.categoryService.UpdateSubCategory(id, req)
	if err != nil {
		respondError(c, err, "update subcategory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategory": sub})
}
