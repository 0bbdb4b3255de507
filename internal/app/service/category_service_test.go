package service

import (
	"testing"

	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCategoryServiceTest(t *testing.T) CategoryService {
	testDB := setupTestDB(t)
	return NewCategoryService(repository.NewCategoryRepository(testDB))
}

func TestCategoryService_GetCategoriesIsStable(t *testing.T) {
	categoryService := setupCategoryServiceTest(t)

	for _, in := range []CategoryInput{
		{Name: "Shoes", SortOrder: 2, IsActive: true},
		{Name: "Shirts", SortOrder: 1, IsActive: true},
		{Name: "Hats", SortOrder: 1, IsActive: true},
		{Name: "Archive", SortOrder: 0, IsActive: false},
	} {
		_, err := categoryService.CreateCategory(in)
		require.NoError(t, err)
	}

	first, err := categoryService.GetCategories()
	require.NoError(t, err)
	second, err := categoryService.GetCategories()
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"shirts", "hats", "shoes"}, []string{first[0].Slug, first[1].Slug, first[2].Slug})
}

func TestCategoryService_CRUD(t *testing.T) {
	categoryService := setupCategoryServiceTest(t)

	shirts, err := categoryService.CreateCategory(CategoryInput{Name: "Shirts", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "shirts", shirts.Slug)

	_, err = categoryService.CreateCategory(CategoryInput{Name: "Shirts!"})
	assert.ErrorIs(t, err, ErrCategorySlugExists)

	updated, err := categoryService.UpdateCategory(shirts.ID, CategoryInput{Name: "Shirts", Slug: "tops", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "tops", updated.Slug)

	found, err := categoryService.GetCategoryBySlug("tops")
	require.NoError(t, err)
	assert.Equal(t, shirts.ID, found.ID)

	_, err = categoryService.GetCategoryBySlug("shirts")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = categoryService.UpdateCategory(9999, CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	require.NoError(t, categoryService.DeleteCategory(shirts.ID))
	assert.ErrorIs(t, categoryService.DeleteCategory(shirts.ID), ErrCategoryNotFound)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	testDB := setupTestDB(t)
	categoryService := NewCategoryService(repository.NewCategoryRepository(testDB))
	category := createTestCategory(t, testDB, "shirts")
	createTestProduct(t, testDB, category.ID, "oxford", 100, 1)

	assert.ErrorIs(t, categoryService.DeleteCategory(category.ID), ErrCategoryInUse)
}

func TestCategoryService_SubCategories(t *testing.T) {
	categoryService := setupCategoryServiceTest(t)

	men, err := categoryService.CreateCategory(CategoryInput{Name: "Men", IsActive: true})
	require.NoError(t, err)
	women, err := categoryService.CreateCategory(CategoryInput{Name: "Women", IsActive: true})
	require.NoError(t, err)

	sub, err := categoryService.CreateSubCategory(men.ID, CategoryInput{Name: "Shirts", IsActive: true})
	require.NoError(t, err)

	_, err = categoryService.CreateSubCategory(men.ID, CategoryInput{Name: "Shirts"})
	assert.ErrorIs(t, err, ErrSubCategorySlugExists)

	_, err = categoryService.CreateSubCategory(women.ID, CategoryInput{Name: "Shirts"})
	assert.NoError(t, err, "slug is scoped to the parent category")

	_, err = categoryService.CreateSubCategory(9999, CategoryInput{Name: "Shirts"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	renamed, err := categoryService.UpdateSubCategory(sub.ID, CategoryInput{Name: "Formal Shirts", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "formal-shirts", renamed.Slug)

	found, err := categoryService.GetCategoryBySlug("men")
	require.NoError(t, err)
	require.Len(t, found.SubCategories, 1)
	assert.Equal(t, "formal-shirts", found.SubCategories[0].Slug)
}
