package service

import (
	"testing"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T, pricing config.PricingConfig) (CartService, *gorm.DB) {
	testDB := setupTestDB(t)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	return NewCartService(cartRepo, productRepo, NewPricer(pricing)), testDB
}

func TestCartService_AddToCart(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t, config.PricingConfig{})
	category := createTestCategory(t, testDB, "shirts")
	product := createTestProduct(t, testDB, category.ID, "oxford", 1000, 3)
	user := createTestUser(t, testDB, "u@example.com")
	variantID := product.Variants[0].ID

	require.NoError(t, cartService.AddToCart(user.ID, variantID, 1))
	require.NoError(t, cartService.AddToCart(user.ID, variantID, 2))

	cart, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same variant merges into one line")
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3000.0, cart.Subtotal)
	assert.Equal(t, 3000.0, cart.Total)

	tests := []struct {
		name      string
		variantID uint
		quantity  int
		wantErr   error
	}{
		{"over stock after merge", variantID, 1, ErrInsufficientStock},
		{"zero quantity", variantID, 0, ErrInvalidQuantity},
		{"missing variant", 9999, 1, ErrVariantNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, cartService.AddToCart(user.ID, tt.variantID, tt.quantity), tt.wantErr)
		})
	}

	t.Run("inactive product", func(t *testing.T) {
		hidden := createTestProduct(t, testDB, category.ID, "hidden", 100, 5)
		require.NoError(t, testDB.Model(hidden).Update("is_active", false).Error)
		assert.ErrorIs(t, cartService.AddToCart(user.ID, hidden.Variants[0].ID, 1), ErrVariantNotFound)
	})
}

func TestCartService_PricingAndAvailability(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t, config.PricingConfig{
		TaxRate:               0.1,
		FlatShipping:          50,
		FreeShippingThreshold: 5000,
	})
	category := createTestCategory(t, testDB, "shirts")
	first := createTestProduct(t, testDB, category.ID, "oxford", 1000, 5)
	second := createTestProduct(t, testDB, category.ID, "linen", 400, 5)
	user := createTestUser(t, testDB, "u@example.com")

	require.NoError(t, cartService.AddToCart(user.ID, first.Variants[0].ID, 2))
	require.NoError(t, cartService.AddToCart(user.ID, second.Variants[0].ID, 1))

	cart, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2400.0, cart.Subtotal)
	assert.Equal(t, 50.0, cart.ShippingCost)
	assert.Equal(t, 240.0, cart.Tax)
	assert.Equal(t, 2690.0, cart.Total)

	// stock sold out elsewhere after the item was added
	require.NoError(t, testDB.Model(&second.Variants[0]).Update("stock", 0).Error)
	cart, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2000.0, cart.Subtotal)
	for _, line := range cart.Items {
		assert.Equal(t, line.VariantID == first.Variants[0].ID, line.Available)
	}
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	cartService, testDB := setupCartServiceTest(t, config.PricingConfig{})
	category := createTestCategory(t, testDB, "shirts")
	product := createTestProduct(t, testDB, category.ID, "oxford", 1000, 4, 4)
	user := createTestUser(t, testDB, "u@example.com")
	other := createTestUser(t, testDB, "o@example.com")

	require.NoError(t, cartService.AddToCart(user.ID, product.Variants[0].ID, 1))
	require.NoError(t, cartService.AddToCart(user.ID, product.Variants[1].ID, 1))
	cart, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	require.NoError(t, cartService.UpdateCartItem(user.ID, lineID, 4))
	assert.ErrorIs(t, cartService.UpdateCartItem(user.ID, lineID, 5), ErrInsufficientStock)
	assert.ErrorIs(t, cartService.UpdateCartItem(user.ID, lineID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cartService.UpdateCartItem(other.ID, lineID, 1), ErrCartItemNotFound)

	assert.ErrorIs(t, cartService.RemoveFromCart(other.ID, lineID), ErrCartItemNotFound)
	require.NoError(t, cartService.RemoveFromCart(user.ID, lineID))

	require.NoError(t, cartService.ClearCart(user.ID))
	cart, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)
}
