package repository

import (
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)

	men := seedCategory(t, testDB, "men", 1)
	women := seedCategory(t, testDB, "women", 2)

	tee := seedProduct(t, testDB, men.ID, "black-tee", 500, 5, 0)
	jeans := seedProduct(t, testDB, men.ID, "slim-jeans", 1500, 0)
	dress := seedProduct(t, testDB, women.ID, "linen-dress", 2500, 3)
	hidden := seedProduct(t, testDB, women.ID, "hidden", 100, 3)
	require.NoError(t, testDB.Model(hidden).Update("is_active", false).Error)
	require.NoError(t, testDB.Model(jeans).Updates(map[string]interface{}{"total_sold": 40, "is_featured": true, "brand": "Denimco"}).Error)
	require.NoError(t, testDB.Model(dress).Update("total_sold", 10).Error)

	minPrice, maxPrice := 400.0, 2000.0
	featured := true

	tests := []struct {
		name    string
		filter  ProductFilter
		wantIDs []uint
	}{
		{"active only, newest first", ProductFilter{}, []uint{dress.ID, jeans.ID, tee.ID}},
		{"include inactive", ProductFilter{IncludeInactive: true}, []uint{hidden.ID, dress.ID, jeans.ID, tee.ID}},
		{"category", ProductFilter{CategoryID: &men.ID}, []uint{jeans.ID, tee.ID}},
		{"price range", ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, Sort: ProductSortPriceAsc}, []uint{tee.ID, jeans.ID}},
		{"price desc", ProductFilter{Sort: ProductSortPriceDesc}, []uint{dress.ID, jeans.ID, tee.ID}},
		{"popular", ProductFilter{Sort: ProductSortPopular}, []uint{jeans.ID, dress.ID, tee.ID}},
		{"featured", ProductFilter{IsFeatured: &featured}, []uint{jeans.ID}},
		{"search is case-insensitive across brand", ProductFilter{Search: "DENIM"}, []uint{jeans.ID}},
		{"search by name", ProductFilter{Search: "tee"}, []uint{tee.ID}},
		{"size with stock", ProductFilter{Size: "S"}, []uint{dress.ID, tee.ID}},
		{"size without stock excluded", ProductFilter{Size: "M"}, nil},
		{"size is case-insensitive", ProductFilter{Size: "s"}, []uint{dress.ID, tee.ID}},
		{"color is case-insensitive", ProductFilter{Color: "black", CategoryID: &women.ID}, []uint{dress.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.FindWithFilter(tt.filter)
			require.NoError(t, err)

			var ids []uint
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, int64(len(tt.wantIDs)), total)
		})
	}

	t.Run("pagination keeps total", func(t *testing.T) {
		products, total, err := repo.FindWithFilter(ProductFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, int64(3), total)
	})
}

func TestProductRepository_RatingStats(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)
	category := seedCategory(t, testDB, "men", 1)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 1)
	other := seedProduct(t, testDB, category.ID, "cap", 200, 1)

	for i, rating := range []int{5, 4, 3, 1} {
		user := seedUser(t, testDB, string(rune('a'+i))+"@example.com")
		require.NoError(t, testDB.Create(&model.Review{
			ProductID:  product.ID,
			UserID:     user.ID,
			Rating:     rating,
			IsApproved: rating != 1,
		}).Error)
	}

	stats, err := repo.RatingStats([]uint{product.ID, other.ID})
	require.NoError(t, err)

	assert.InDelta(t, 4.0, stats[product.ID].Average, 0.0001)
	assert.Equal(t, int64(3), stats[product.ID].Count)
	_, ok := stats[other.ID]
	assert.False(t, ok)

	empty, err := repo.RatingStats(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProductRepository_FindDetailBySlug(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)
	category := seedCategory(t, testDB, "men", 1)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 2, 3)
	require.NoError(t, testDB.Model(&model.ProductVariant{}).Where("id = ?", product.Variants[1].ID).Update("is_active", false).Error)
	require.NoError(t, repo.AddImage(&model.ProductImage{ProductID: product.ID, URL: "a.jpg", IsPrimary: true}))
	require.NoError(t, repo.AddImage(&model.ProductImage{ProductID: product.ID, URL: "b.jpg", IsPrimary: true, SortOrder: 1}))

	found, err := repo.FindDetailBySlug("tee")
	require.NoError(t, err)
	assert.Equal(t, "men", found.Category.Slug)
	assert.Len(t, found.Variants, 1)
	require.Len(t, found.Images, 2)
	assert.False(t, found.Images[0].IsPrimary)
	assert.Equal(t, "b.jpg", found.PrimaryImageURL())

	_, err = repo.FindDetailBySlug("missing")
	assert.Error(t, err)
}

func TestProductRepository_FindRelated(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)
	men := seedCategory(t, testDB, "men", 1)
	women := seedCategory(t, testDB, "women", 2)

	base := seedProduct(t, testDB, men.ID, "base", 100)
	low := seedProduct(t, testDB, men.ID, "low", 100)
	high := seedProduct(t, testDB, men.ID, "high", 100)
	seedProduct(t, testDB, women.ID, "elsewhere", 100)
	require.NoError(t, testDB.Model(high).Update("total_sold", 9).Error)
	require.NoError(t, testDB.Model(low).Update("total_sold", 1).Error)

	related, err := repo.FindRelated(base.ID, men.ID, 8)
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, high.ID, related[0].ID)
	assert.Equal(t, low.ID, related[1].ID)
}

func TestProductRepository_IncrementViewCount(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)
	category := seedCategory(t, testDB, "men", 1)
	product := seedProduct(t, testDB, category.ID, "tee", 500)

	require.NoError(t, repo.IncrementViewCount(product.ID))
	require.NoError(t, repo.IncrementViewCount(product.ID))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.ViewCount)
}

func TestProductRepository_VariantStock(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)
	category := seedCategory(t, testDB, "men", 1)
	product := seedProduct(t, testDB, category.ID, "tee", 500)

	variant := &model.ProductVariant{ProductID: product.ID, SKU: "TEE-M", Size: "M", Price: 500, Stock: 4, IsActive: true}
	require.NoError(t, repo.CreateVariant(variant))

	t.Run("create adds to total stock", func(t *testing.T) {
		found, err := repo.FindByID(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, found.TotalStock)
	})

	t.Run("adjust moves variant and product together", func(t *testing.T) {
		updated, err := repo.AdjustVariantStock(variant.ID, 6)
		require.NoError(t, err)
		assert.Equal(t, 10, updated.Stock)

		found, err := repo.FindByID(product.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, found.TotalStock)
	})

	t.Run("adjust below zero is rejected", func(t *testing.T) {
		_, err := repo.AdjustVariantStock(variant.ID, -11)
		assert.ErrorIs(t, err, ErrNegativeStock)

		found, err := repo.FindVariantByID(variant.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, found.Stock)
	})

	t.Run("update leaves stock alone", func(t *testing.T) {
		variant.Stock = 999
		variant.Color = "Navy"
		require.NoError(t, repo.UpdateVariant(variant))

		found, err := repo.FindVariantByID(variant.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, found.Stock)
		assert.Equal(t, "Navy", found.Color)
	})

	t.Run("sku exists", func(t *testing.T) {
		exists, err := repo.SKUExists("TEE-M", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SKUExists("TEE-M", variant.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestProductRepository_CounterDrift(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewProductRepository(testDB)
	user := seedUser(t, testDB, "buyer@example.com")
	category := seedCategory(t, testDB, "men", 1)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 5, 5)
	clean := seedProduct(t, testDB, category.ID, "cap", 200, 2)

	now := time.Now().UTC()
	seedOrder(t, testDB, user.ID, model.OrderStatusDelivered, now, product.Variants[0], product.Variants[1])
	seedOrder(t, testDB, user.ID, model.OrderStatusCancelled, now, product.Variants[0])
	// stored counters now disagree: stock says 10, sold says 0
	require.NoError(t, testDB.Model(&model.ProductVariant{}).Where("id = ?", product.Variants[0].ID).Update("stock", 3).Error)

	drift, err := repo.FindCounterDrift()
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, CounterDrift{ProductID: product.ID, StoredStock: 10, ActualStock: 8, StoredSold: 0, ActualSold: 2}, drift[0])

	require.NoError(t, repo.ReconcileCounters(product.ID))

	drift, err = repo.FindCounterDrift()
	require.NoError(t, err)
	assert.Empty(t, drift)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, found.TotalStock)
	assert.Equal(t, 2, found.TotalSold)

	untouched, err := repo.FindByID(clean.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, untouched.TotalStock)
}
