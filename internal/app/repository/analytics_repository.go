package repository

import (
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/analytics"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
)

// AnalyticsRepository fetches the raw rows the analytics folds consume.
// Every method is read-only.
type AnalyticsRepository interface {
	OrdersBetween(start, end time.Time) ([]analytics.OrderRow, error)
	ItemsBetween(start, end time.Time) ([]analytics.ItemRow, error)
	CustomersCreatedBetween(start, end time.Time) ([]analytics.CustomerRow, error)
	Variants() ([]analytics.VariantRow, error)
	CountActiveProducts() (int64, error)
	TotalProductViews() (int64, error)
	TopSellingProducts(limit int) ([]analytics.ProductSales, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) OrdersBetween(start, end time.Time) ([]analytics.OrderRow, error) {
	logger.Debug("Fetching orders for analytics", map[string]interface{}{
		"start": start,
		"end":   end,
	})

	var rows []analytics.OrderRow
	err := r.db.Table("orders").
		Select("orders.id, orders.user_id, users.name AS customer_name, users.email AS customer_email, orders.status, orders.total, orders.created_at").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Where("orders.created_at >= ? AND orders.created_at <= ?", start, end).
		Order("orders.created_at ASC, orders.id ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to fetch orders for analytics", err)
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) ItemsBetween(start, end time.Time) ([]analytics.ItemRow, error) {
	logger.Debug("Fetching order items for analytics", map[string]interface{}{
		"start": start,
		"end":   end,
	})

	var rows []analytics.ItemRow
	err := r.db.Table("order_items").
		Select(`order_items.order_id, order_items.product_id, order_items.product_name,
			products.category_id, categories.name AS category_name,
			order_items.quantity, order_items.subtotal,
			orders.status, orders.created_at AS ordered_at`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("orders.created_at >= ? AND orders.created_at <= ?", start, end).
		Order("order_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to fetch order items for analytics", err)
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) CustomersCreatedBetween(start, end time.Time) ([]analytics.CustomerRow, error) {
	var rows []analytics.CustomerRow
	err := r.db.Model(&model.User{}).
		Select("id, name, email, created_at").
		Where("role = ? AND created_at >= ? AND created_at <= ?", model.RoleCustomer, start, end).
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to fetch customers for analytics", err)
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) Variants() ([]analytics.VariantRow, error) {
	var rows []analytics.VariantRow
	err := r.db.Model(&model.ProductVariant{}).
		Select("product_id, stock, is_active").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to fetch variants for analytics", err)
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) CountActiveProducts() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) TotalProductViews() (int64, error) {
	var total int64
	err := r.db.Model(&model.Product{}).Select("COALESCE(SUM(view_count), 0)").Scan(&total).Error
	return total, err
}

// TopSellingProducts ranks by the denormalized totalSold counter. Revenue is
// summed from order items of revenue-counting orders.
func (r *analyticsRepository) TopSellingProducts(limit int) ([]analytics.ProductSales, error) {
	var rows []analytics.ProductSales
	err := r.db.Raw(`
		SELECT p.id AS product_id, p.name AS name, p.total_sold AS total_sold,
		       COALESCE(s.revenue, 0) AS revenue
		FROM products p
		LEFT JOIN (SELECT oi.product_id, SUM(oi.subtotal) AS revenue
		           FROM order_items oi JOIN orders o ON o.id = oi.order_id
		           WHERE o.status IN ?
		           GROUP BY oi.product_id) s
		       ON s.product_id = p.id
		WHERE p.total_sold > 0
		ORDER BY p.total_sold DESC, p.id ASC
		LIMIT ?`, model.RevenueStatuses, limit).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to fetch top selling products", err)
		return nil, err
	}
	return rows, nil
}
