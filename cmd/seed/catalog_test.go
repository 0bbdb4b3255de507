package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCatalogRows(t *testing.T) {
	rows := [][]string{
		{"SKU", "Name", "Category_Slug", "Price", "Stock", "Size", "Base_Price"},
		{"TEE-S", "Linen Tee", "shirts", "499", "5", "S", "450"},
		{"TEE-M", "Linen Tee", "shirts", "519", "3", "M"},
		{"TEE-M", "Linen Tee", "shirts", "519", "3", "M"},
		{"", "No Sku", "shirts", "10"},
		{"BAD-PRICE", "Cap", "hats", "free"},
		{"BAD-STOCK", "Cap", "hats", "10", "-1"},
		{"CAP-1", "Cap", "hats", "199"},
	}

	products, summary, err := parseCatalogRows(rows)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Rows)
	assert.Equal(t, 4, summary.Skipped)
	require.Len(t, products, 2)

	tee := products[0]
	assert.Equal(t, "shirts", tee.CategorySlug)
	assert.Equal(t, "linen-tee", tee.Input.Slug)
	assert.Equal(t, 450.0, tee.Input.BasePrice)
	assert.True(t, tee.Input.IsActive)
	require.Len(t, tee.Input.Variants, 2)
	assert.Equal(t, "TEE-M", tee.Input.Variants[1].SKU)
	assert.Equal(t, 3, tee.Input.Variants[1].Stock)

	hat := products[1]
	assert.Equal(t, 199.0, hat.Input.BasePrice)
	assert.Equal(t, 0, hat.Input.Variants[0].Stock)
}

func TestParseCatalogRows_MissingColumn(t *testing.T) {
	_, _, err := parseCatalogRows([][]string{{"name", "sku", "price"}})
	assert.ErrorContains(t, err, "category_slug")

	_, _, err = parseCatalogRows(nil)
	assert.Error(t, err)
}

func TestReadCatalogFromXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"product_slug", "name", "category_slug", "sku", "price", "stock"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"denim-jacket", "Denim Jacket", "jackets", "DJ-L", "2999", "4"}))

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	products, summary, err := readCatalogFromXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Rows)
	require.Len(t, products, 1)
	assert.Equal(t, "denim-jacket", products[0].Input.Slug)
	assert.Equal(t, 2999.0, products[0].Input.Variants[0].Price)
}
