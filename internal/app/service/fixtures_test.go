package service

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

func createTestUser(t *testing.T, gdb *gorm.DB, email string) *model.User {
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

func createTestCategory(t *testing.T, gdb *gorm.DB, slug string) *model.Category {
	t.Helper()
	category := &model.Category{Name: slug, Slug: slug, IsActive: true}
	require.NoError(t, gdb.Create(category).Error)
	return category
}

// createTestProduct creates an active product with one variant per stock value
func createTestProduct(t *testing.T, gdb *gorm.DB, categoryID uint, slug string, price float64, stocks ...int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       "Product " + slug,
		Slug:       slug,
		BasePrice:  price,
		CategoryID: categoryID,
		IsActive:   true,
	}
	for _, s := range stocks {
		product.TotalStock += s
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

func createTestAddress(t *testing.T, gdb *gorm.DB, userID uint) *model.Address {
	t.Helper()
	address := &model.Address{
		UserID:       userID,
		FullName:     "Asha Rao",
		Phone:        "9999999999",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "KA",
		PostalCode:   "560001",
		Country:      "IN",
		IsDefault:    true,
	}
	require.NoError(t, gdb.Create(address).Error)
	return address
}

// createDeliveredOrder records a delivered purchase of one unit of variant
func createDeliveredOrder(t *testing.T, gdb *gorm.DB, userID uint, variant model.ProductVariant) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber: fmt.Sprintf("ORD-T-%d", time.Now().UnixNano()),
		UserID:      userID,
		AddressID:   1,
		Status:      model.OrderStatusDelivered,
		Subtotal:    variant.Price,
		Total:       variant.Price,
		Items: []model.OrderItem{{
			ProductID:   variant.ProductID,
			VariantID:   variant.ID,
			ProductName: "item",
			SKU:         variant.SKU,
			UnitPrice:   variant.Price,
			Quantity:    1,
			Subtotal:    variant.Price,
		}},
	}
	require.NoError(t, gdb.Create(order).Error)
	return order
}

func createTestReview(t *testing.T, gdb *gorm.DB, productID, userID uint, rating int, approved bool) *model.Review {
	t.Helper()
	review := &model.Review{ProductID: productID, UserID: userID, Rating: rating, IsApproved: approved}
	require.NoError(t, gdb.Create(review).Error)
	return review
}
