package repository

import (
	"bytes"
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReviewRepository_UniquePair(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReviewRepository(testDB)
	user := seedUser(t, testDB, "a@example.com")
	category := seedCategory(t, testDB, "men", 0)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 1)

	require.NoError(t, repo.Create(&model.Review{ProductID: product.ID, UserID: user.ID, Rating: 5}))
	assert.Error(t, repo.Create(&model.Review{ProductID: product.ID, UserID: user.ID, Rating: 4}))

	found, err := repo.FindByProductAndUser(product.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Rating)
}

func TestReviewRepository_Filters(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReviewRepository(testDB)
	category := seedCategory(t, testDB, "men", 0)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 1)

	ratings := []int{5, 5, 3, 1}
	for i, rating := range ratings {
		user := seedUser(t, testDB, string(rune('a'+i))+"@example.com")
		require.NoError(t, repo.Create(&model.Review{
			ProductID:  product.ID,
			UserID:     user.ID,
			Rating:     rating,
			IsApproved: i != 1,
		}))
	}

	reviews, total, err := repo.FindApprovedByProduct(product.ID, nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reviews, 3)
	assert.NotNil(t, reviews[0].User)

	five := 5
	reviews, total, err = repo.FindApprovedByProduct(product.ID, &five, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, reviews, 1)

	unapproved := false
	reviews, total, err = repo.FindWithFilter(ReviewFilter{Approved: &unapproved, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reviews, 1)

	require.NoError(t, repo.SetApproved(reviews[0].ID, true))
	_, total, err = repo.FindApprovedByProduct(product.ID, nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	assert.ErrorIs(t, repo.SetApproved(9999, true), gorm.ErrRecordNotFound)
}

func TestReviewRepository_HasDeliveredPurchase(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReviewRepository(testDB)
	buyer := seedUser(t, testDB, "buyer@example.com")
	pending := seedUser(t, testDB, "pending@example.com")
	category := seedCategory(t, testDB, "men", 0)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 5)
	other := seedProduct(t, testDB, category.ID, "cap", 100, 5)

	now := time.Now().UTC()
	seedOrder(t, testDB, buyer.ID, model.OrderStatusDelivered, now, product.Variants[0])
	seedOrder(t, testDB, pending.ID, model.OrderStatusShipped, now, product.Variants[0])

	tests := []struct {
		name      string
		userID    uint
		productID uint
		want      bool
	}{
		{"delivered order with product", buyer.ID, product.ID, true},
		{"delivered order without product", buyer.ID, other.ID, false},
		{"shipped order only", pending.ID, product.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.HasDeliveredPurchase(tt.userID, tt.productID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReviewRepository_LogsCalls(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReviewRepository(testDB)
	user := seedUser(t, testDB, "a@example.com")
	category := seedCategory(t, testDB, "men", 0)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 1)

	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { logger.Initialize(logger.Config{Level: "info", Format: "console"}) })

	review := &model.Review{ProductID: product.ID, UserID: user.ID, Rating: 5}
	require.NoError(t, repo.Create(review))
	_, err := repo.FindByID(review.ID + 100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Error(t, repo.Create(&model.Review{ProductID: product.ID, UserID: user.ID, Rating: 4}))

	out := buf.String()
	assert.Contains(t, out, "Creating review in database")
	assert.Contains(t, out, "Review created in database")
	assert.Contains(t, out, "Finding review by ID in database")
	assert.NotContains(t, out, "Failed to find review by ID")
	assert.Contains(t, out, "Failed to create review in database")
}
