package repository

import (
	"testing"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_FindActiveOrdering(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	b := seedCategory(t, testDB, "b", 1)
	a := seedCategory(t, testDB, "a", 1)
	first := seedCategory(t, testDB, "first", 0)
	inactive := &model.Category{Name: "x", Slug: "x", SortOrder: -1}
	require.NoError(t, repo.Create(inactive))

	require.NoError(t, repo.CreateSubCategory(&model.SubCategory{CategoryID: first.ID, Name: "Shirts", Slug: "shirts", SortOrder: 2, IsActive: true}))
	require.NoError(t, repo.CreateSubCategory(&model.SubCategory{CategoryID: first.ID, Name: "Tees", Slug: "tees", SortOrder: 1, IsActive: true}))
	require.NoError(t, repo.CreateSubCategory(&model.SubCategory{CategoryID: first.ID, Name: "Old", Slug: "old", SortOrder: 0}))

	run := func() []model.Category {
		categories, err := repo.FindActive()
		require.NoError(t, err)
		return categories
	}

	categories := run()
	require.Len(t, categories, 3)
	assert.Equal(t, []uint{first.ID, b.ID, a.ID}, []uint{categories[0].ID, categories[1].ID, categories[2].ID})
	require.Len(t, categories[0].SubCategories, 2)
	assert.Equal(t, "tees", categories[0].SubCategories[0].Slug)

	assert.Equal(t, categories, run())
}

func TestCategoryRepository_SubCategorySlugScope(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)
	men := seedCategory(t, testDB, "men", 0)
	women := seedCategory(t, testDB, "women", 1)

	require.NoError(t, repo.CreateSubCategory(&model.SubCategory{CategoryID: men.ID, Name: "Tops", Slug: "tops", IsActive: true}))

	exists, err := repo.SubCategorySlugExists(men.ID, "tops", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SubCategorySlugExists(women.ID, "tops", 0)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateSubCategory(&model.SubCategory{CategoryID: women.ID, Name: "Tops", Slug: "tops", IsActive: true}))
	assert.Error(t, repo.CreateSubCategory(&model.SubCategory{CategoryID: men.ID, Name: "Tops", Slug: "tops"}))
}

func TestCategoryRepository_DeleteRemovesSubCategories(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)
	men := seedCategory(t, testDB, "men", 0)
	require.NoError(t, repo.CreateSubCategory(&model.SubCategory{CategoryID: men.ID, Name: "Tops", Slug: "tops"}))

	count, err := repo.CountProducts(men.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Delete(men.ID))

	var subs int64
	require.NoError(t, testDB.Model(&model.SubCategory{}).Count(&subs).Error)
	assert.Zero(t, subs)
	assert.Error(t, repo.Delete(men.ID))
}
