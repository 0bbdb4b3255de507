package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hashed",
		Name:         "User " + email,
		Role:         model.RoleCustomer,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, gdb *gorm.DB, slug string, sortOrder int) *model.Category {
	t.Helper()
	category := &model.Category{Name: slug, Slug: slug, SortOrder: sortOrder, IsActive: true}
	require.NoError(t, gdb.Create(category).Error)
	return category
}

// seedProduct creates an active product with one variant per stock value
func seedProduct(t *testing.T, gdb *gorm.DB, categoryID uint, slug string, price float64, stocks ...int) *model.Product {
	t.Helper()
	total := 0
	for _, s := range stocks {
		total += s
	}
	product := &model.Product{
		Name:       "Product " + slug,
		Slug:       slug,
		BasePrice:  price,
		CategoryID: categoryID,
		IsActive:   true,
		TotalStock: total,
	}
	require.NoError(t, gdb.Create(product).Error)

	for i, s := range stocks {
		variant := &model.ProductVariant{
			ProductID: product.ID,
			SKU:       fmt.Sprintf("%s-%d", slug, i),
			Size:      []string{"S", "M", "L", "XL"}[i%4],
			Color:     "Black",
			Price:     price,
			Stock:     s,
			IsActive:  true,
		}
		require.NoError(t, gdb.Create(variant).Error)
		product.Variants = append(product.Variants, *variant)
	}
	return product
}

// seedOrder inserts an order with one line per variant, quantity 1 each
func seedOrder(t *testing.T, gdb *gorm.DB, userID uint, status model.OrderStatus, createdAt time.Time, variants ...model.ProductVariant) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber: fmt.Sprintf("ORD-%d-%d", userID, time.Now().UnixNano()),
		UserID:      userID,
		AddressID:   1,
		Status:      status,
		CreatedAt:   createdAt,
	}
	for _, v := range variants {
		order.Items = append(order.Items, model.OrderItem{
			ProductID:   v.ProductID,
			VariantID:   v.ID,
			ProductName: "item",
			SKU:         v.SKU,
			UnitPrice:   v.Price,
			Quantity:    1,
			Subtotal:    v.Price,
		})
		order.Subtotal += v.Price
	}
	order.Total = order.Subtotal
	require.NoError(t, gdb.Create(order).Error)
	return order
}
