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

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// normalize trims the name and derives the slug from it when none is given
func (in *CategoryInput) normalize() bool {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = util.Slugify(in.Slug)
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Name)
	}
	return in.Name != "" && in.Slug != ""
}

type CategoryService interface {
	GetCategories() ([]model.Category, error)
	GetAllCategories() ([]model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	CreateCategory(input CategoryInput) (*model.Category, error)
	UpdateCategory(id uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(id uint) error
	CreateSubCategory(categoryID uint, input CategoryInput) (*model.SubCategory, error)
	UpdateSubCategory(id uint, input CategoryInput) (*model.SubCategory, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// GetCategories returns active categories and their active subcategories by
// sort order, ties broken by id.
func (s *categoryService) GetCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindActive()
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (s *categoryService) GetAllCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if !category.IsActive {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryService) CreateCategory(input CategoryInput) (*model.Category, error) {
	if !input.normalize() {
		return nil, ErrInvalidCategory
	}

	logger.Info("Creating category", map[string]interface{}{
		"slug": input.Slug,
	})

	exists, err := s.categoryRepo.SlugExists(input.Slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategorySlugExists
	}

	category := &model.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if !input.normalize() {
		return nil, ErrInvalidCategory
	}

	exists, err := s.categoryRepo.SlugExists(input.Slug, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategorySlugExists
	}

	category.Name = input.Name
	category.Slug = input.Slug
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	category.SortOrder = input.SortOrder
	category.IsActive = input.IsActive

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses while products still point at the category
func (s *categoryService) DeleteCategory(id uint) error {
	logger.Info("Deleting category", map[string]interface{}{
		"category_id": id,
	})

	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *categoryService) CreateSubCategory(categoryID uint, input CategoryInput) (*model.SubCategory, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if !input.normalize() {
		return nil, ErrInvalidCategory
	}

	exists, err := s.categoryRepo.SubCategorySlugExists(categoryID, input.Slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSubCategorySlugExists
	}

	sub := &model.SubCategory{
		CategoryID:  categoryID,
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if err := s.categoryRepo.CreateSubCategory(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *categoryService) UpdateSubCategory(id uint, input CategoryInput) (*model.SubCategory, error) {
	sub, err := s.categoryRepo.FindSubCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, err
	}
	if !input.normalize() {
		return nil, ErrInvalidCategory
	}

	exists, err := s.categoryRepo.SubCategorySlugExists(sub.CategoryID, input.Slug, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSubCategorySlugExists
	}

	sub.Name = input.Name
	sub.Slug = input.Slug
	sub.Description = input.Description
	sub.ImageURL = input.ImageURL
	sub.SortOrder = input.SortOrder
	sub.IsActive = input.IsActive

	if err := s.categoryRepo.UpdateSubCategory(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
