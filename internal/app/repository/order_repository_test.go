package repository

import (
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrderRepository_FindByIDAndUser(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)
	owner := seedUser(t, testDB, "owner@example.com")
	stranger := seedUser(t, testDB, "stranger@example.com")
	category := seedCategory(t, testDB, "men", 0)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 5, 5)

	order := seedOrder(t, testDB, owner.ID, model.OrderStatusPending, time.Now().UTC(), product.Variants...)

	found, err := repo.FindByIDAndUser(order.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)
	assert.Equal(t, 1000.0, found.Total)

	_, err = repo.FindByIDAndUser(order.ID, stranger.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	full, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	require.NotNil(t, full.User)
	assert.Equal(t, "owner@example.com", full.User.Email)
}

func TestOrderRepository_FindWithFilter(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewOrderRepository(testDB)
	alice := seedUser(t, testDB, "alice@example.com")
	bob := seedUser(t, testDB, "bob@example.com")
	category := seedCategory(t, testDB, "men", 0)
	product := seedProduct(t, testDB, category.ID, "tee", 500, 5)

	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }
	o1 := seedOrder(t, testDB, alice.ID, model.OrderStatusDelivered, day(1), product.Variants[0])
	o2 := seedOrder(t, testDB, alice.ID, model.OrderStatusPending, day(5), product.Variants[0])
	o3 := seedOrder(t, testDB, bob.ID, model.OrderStatusDelivered, day(10), product.Variants[0])

	delivered := model.OrderStatusDelivered
	from, to := day(2), day(31)

	tests := []struct {
		name    string
		filter  OrderFilter
		wantIDs []uint
	}{
		{"all newest first", OrderFilter{}, []uint{o3.ID, o2.ID, o1.ID}},
		{"by user", OrderFilter{UserID: &alice.ID}, []uint{o2.ID, o1.ID}},
		{"by status", OrderFilter{Status: &delivered}, []uint{o3.ID, o1.ID}},
		{"by date", OrderFilter{From: &from, To: &to}, []uint{o3.ID, o2.ID}},
		{"paged", OrderFilter{Offset: 1, Limit: 1}, []uint{o2.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, total, err := repo.FindWithFilter(tt.filter)
			require.NoError(t, err)
			var ids []uint
			for _, o := range orders {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			if tt.filter.Limit == 0 {
				assert.Equal(t, int64(len(tt.wantIDs)), total)
			}
		})
	}

	orders, total, err := repo.FindByUserID(bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders[0].Items, 1)
}
