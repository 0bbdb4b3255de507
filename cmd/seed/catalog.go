package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
	"github.com/mithunreddyy/valuva-sub002/pkg/util"
	"github.com/xuri/excelize/v2"
)

// The sheet has one row per variant with the header columns product_slug,
// name, category_slug, brand, material, base_price, description, sku, size,
// color, color_hex, price and stock. Rows sharing a product slug (or name
// when the slug is blank) collapse into one product.
type catalogProduct struct {
	CategorySlug string
	Input        service.ProductInput
}

type catalogSummary struct {
	Rows    int
	Skipped int
}

func readCatalogFromXLSX(filePath string) ([]catalogProduct, catalogSummary, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, catalogSummary{}, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, catalogSummary{}, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, catalogSummary{}, fmt.Errorf("failed to read rows: %w", err)
	}
	return parseCatalogRows(rows)
}

// parseCatalogRows maps columns by header name, so column order in the sheet is free
func parseCatalogRows(rows [][]string) ([]catalogProduct, catalogSummary, error) {
	if len(rows) == 0 {
		return nil, catalogSummary{}, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "category_slug", "sku", "price"} {
		if _, ok := index[required]; !ok {
			return nil, catalogSummary{}, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []catalogProduct
	bySlug := make(map[string]int)
	seenSKU := make(map[string]bool)
	summary := catalogSummary{Rows: len(rows) - 1}

	for _, row := range rows[1:] {
		name := cell(row, "name")
		categorySlug := cell(row, "category_slug")
		sku := cell(row, "sku")
		price, priceErr := strconv.ParseFloat(cell(row, "price"), 64)
		if name == "" || categorySlug == "" || sku == "" || priceErr != nil || price < 0 || seenSKU[sku] {
			summary.Skipped++
			continue
		}

		stock := 0
		if raw := cell(row, "stock"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				summary.Skipped++
				continue
			}
			stock = n
		}
		seenSKU[sku] = true

		slug := cell(row, "product_slug")
		if slug == "" {
			slug = util.Slugify(name)
		}

		i, ok := bySlug[slug]
		if !ok {
			basePrice := price
			if raw := cell(row, "base_price"); raw != "" {
				if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
					basePrice = v
				}
			}
			products = append(products, catalogProduct{
				CategorySlug: categorySlug,
				Input: service.ProductInput{
					Name:        name,
					Slug:        slug,
					Description: cell(row, "description"),
					BasePrice:   basePrice,
					Brand:       cell(row, "brand"),
					Material:    cell(row, "material"),
					IsActive:    true,
				},
			})
			i = len(products) - 1
			bySlug[slug] = i
		}

		products[i].Input.Variants = append(products[i].Input.Variants, service.VariantInput{
			SKU:      sku,
			Size:     cell(row, "size"),
			Color:    cell(row, "color"),
			ColorHex: cell(row, "color_hex"),
			Price:    price,
			Stock:    stock,
			IsActive: true,
		})
	}

	return products, summary, nil
}
