package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/db"
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
	"github.com/mithunreddyy/valuva-sub002/internal/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

// newTestRouter mimics the production chain. A non-zero userID is injected
// the way Authenticate would.
func newTestRouter(userID uint, role model.UserRole) *gin.Engine {
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	if userID != 0 {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
			c.Set(middleware.UserRoleKey, role)
			c.Next()
		})
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	decode(t, w, &body)
	return body.Error
}

func createTestUser(t *testing.T, gdb *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hashed", Name: "User " + email, Role: model.RoleCustomer}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, gdb *gorm.DB, slug string, price float64, stock int) (*model.Product, *model.ProductVariant) {
	t.Helper()
	category := &model.Category{Name: "Cat " + slug, Slug: "cat-" + slug, IsActive: true}
	require.NoError(t, gdb.Create(category).Error)

	product := &model.Product{
		Name:       "Product " + slug,
		Slug:       slug,
		BasePrice:  price,
		CategoryID: category.ID,
		TotalStock: stock,
		IsActive:   true,
	}
	require.NoError(t, gdb.Create(product).Error)

	variant := &model.ProductVariant{
		ProductID: product.ID,
		SKU:       fmt.Sprintf("%s-M", slug),
		Size:      "M",
		Color:     "Black",
		Price:     price,
		Stock:     stock,
		IsActive:  true,
	}
	require.NoError(t, gdb.Create(variant).Error)
	return product, variant
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
