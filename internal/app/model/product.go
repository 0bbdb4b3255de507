package model

import "time"

// LowStockThreshold is the inclusive upper bound for a variant to count as low stock
const LowStockThreshold = 10

type Product struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string    `gorm:"type:text" json:"description"`
	BasePrice      float64   `gorm:"not null;index" json:"base_price"`
	CompareAtPrice *float64  `json:"compare_at_price,omitempty"`
	Brand          string    `gorm:"index" json:"brand"`
	Material       string    `json:"material"`
	CategoryID     uint      `gorm:"not null;index" json:"category_id"`
	SubCategoryID  *uint     `gorm:"index" json:"sub_category_id,omitempty"`
	IsActive       bool      `gorm:"not null;index" json:"is_active"`
	IsFeatured     bool      `gorm:"not null" json:"is_featured"`
	IsNewArrival   bool      `gorm:"not null" json:"is_new_arrival"`
	ViewCount      int64     `gorm:"not null;default:0" json:"view_count"`
	TotalStock     int       `gorm:"not null;default:0" json:"total_stock"` // sum of variant stock
	TotalSold      int       `gorm:"not null;default:0" json:"total_sold"`  // units on non-cancelled orders
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Category    *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubCategory *SubCategory     `gorm:"foreignKey:SubCategoryID" json:"sub_category,omitempty"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Images      []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Reviews     []Review         `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// PrimaryImageURL returns the image flagged primary, falling back to the first by sort order
func (p *Product) PrimaryImageURL() string {
	var fallback *ProductImage
	for i := range p.Images {
		img := &p.Images[i]
		if img.IsPrimary {
			return img.URL
		}
		if fallback == nil || img.SortOrder < fallback.SortOrder {
			fallback = img
		}
	}
	if fallback != nil {
		return fallback.URL
	}
	return ""
}

type ProductVariant struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	SKU       string    `gorm:"uniqueIndex;not null" json:"sku"`
	Size      string    `gorm:"index" json:"size"`
	Color     string    `gorm:"index" json:"color"`
	ColorHex  string    `json:"color_hex"`
	Price     float64   `gorm:"not null" json:"price"`
	Stock     int       `gorm:"not null;default:0;check:chk_product_variants_stock,stock >= 0" json:"stock"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null" json:"url"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `gorm:"not null" json:"is_primary"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
