package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/analytics"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/internal/cache"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultAnalyticsTTL    = 5 * time.Minute
	DefaultTopProductLimit = 10
	DefaultTopCustomers    = 10
)

// Dashboard is the admin overview for one reporting window
type Dashboard struct {
	Range       analytics.Range             `json:"range"`
	Sales       analytics.SalesMetrics      `json:"sales"`
	Trends      []analytics.TrendPoint      `json:"trends"`
	TopProducts []analytics.ProductSales    `json:"top_products"`
	Categories  []analytics.CategorySales   `json:"categories"`
	Statuses    []analytics.StatusCount     `json:"statuses"`
	Customers   analytics.CustomerAnalytics `json:"customers"`
	Inventory   analytics.InventoryInsights `json:"inventory"`
}

type AnalyticsService interface {
	GetSalesMetrics(ctx context.Context, r analytics.Range) (analytics.SalesMetrics, error)
	// GetTopProducts ranks within r, or all time by the sold counter when r is nil
	GetTopProducts(ctx context.Context, r *analytics.Range, limit int) ([]analytics.ProductSales, error)
	GetRevenueTrends(ctx context.Context, r analytics.Range, g analytics.Granularity) ([]analytics.TrendPoint, error)
	GetCustomerAnalytics(ctx context.Context, r analytics.Range, limit int) (analytics.CustomerAnalytics, error)
	GetInventoryInsights(ctx context.Context) (analytics.InventoryInsights, error)
	GetSalesByCategory(ctx context.Context, r analytics.Range) ([]analytics.CategorySales, error)
	GetOrderStatusBreakdown(ctx context.Context, r analytics.Range) ([]analytics.StatusCount, error)
	GetDashboard(ctx context.Context, r analytics.Range) (*Dashboard, error)
	ExportSalesReport(ctx context.Context, r analytics.Range, g analytics.Granularity, w io.Writer) error
}

type analyticsService struct {
	repo  repository.AnalyticsRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewAnalyticsService wraps the folds in a read-through cache. c may be nil
// to always compute.
func NewAnalyticsService(repo repository.AnalyticsRepository, c cache.Cache, ttl time.Duration) AnalyticsService {
	if ttl <= 0 {
		ttl = DefaultAnalyticsTTL
	}
	return &analyticsService{repo: repo, cache: c, ttl: ttl}
}

func checkRange(r analytics.Range) error {
	if r.End.Before(r.Start) {
		return ErrInvalidDateRange
	}
	return nil
}

func (s *analyticsService) GetSalesMetrics(ctx context.Context, r analytics.Range) (analytics.SalesMetrics, error) {
	if err := checkRange(r); err != nil {
		return analytics.SalesMetrics{}, err
	}
	key := cache.Key("sales", r.Start, r.End)
	return cache.Remember(ctx, s.cache, key, s.ttl, func(context.Context) (analytics.SalesMetrics, error) {
		current, err := s.repo.OrdersBetween(r.Start, r.End)
		if err != nil {
			return analytics.SalesMetrics{}, err
		}
		prev := r.Previous()
		previous, err := s.repo.OrdersBetween(prev.Start, prev.End)
		if err != nil {
			return analytics.SalesMetrics{}, err
		}
		views, err := s.repo.TotalProductViews()
		if err != nil {
			return analytics.SalesMetrics{}, err
		}
		return analytics.ComputeSalesMetrics(current, previous, views), nil
	})
}

func (s *analyticsService) GetTopProducts(ctx context.Context, r *analytics.Range, limit int) ([]analytics.ProductSales, error) {
	if limit <= 0 || limit > repository.MaxPageSize {
		limit = DefaultTopProductLimit
	}

	if r == nil {
		key := cache.Key("top_products", nil, limit)
		return cache.Remember(ctx, s.cache, key, s.ttl, func(context.Context) ([]analytics.ProductSales, error) {
			rows, err := s.repo.TopSellingProducts(limit)
			if err != nil {
				return nil, err
			}
			if rows == nil {
				rows = []analytics.ProductSales{}
			}
			return rows, nil
		})
	}

	if err := checkRange(*r); err != nil {
		return nil, err
	}
	key := cache.Key("top_products", r.Start, r.End, limit)
	return cache.Remember(ctx, s.cache, key, s.ttl, func(context.Context) ([]analytics.ProductSales, error) {
		items, err := s.repo.ItemsBetween(r.Start, r.End)
		if err != nil {
			return nil, err
		}
		return analytics.TopProducts(items, limit), nil
	})
}

func (s *analyticsService) GetRevenueTrends(ctx context.Context, r analytics.Range, g analytics.Granularity) ([]analytics.TrendPoint, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	g = analytics.ParseGranularity(string(g))
	key := cache.Key("trends", r.Start, r.End, g)
	return cache.Remember(ctx, s.cache, key, s.ttl, func(context.Context) ([]analytics.TrendPoint, error) {
		orders, err := s.repo.OrdersBetween(r.Start, r.End)
		if err != nil {
			return nil, err
		}
		return analytics.RevenueTrends(orders, g), nil
	})
}

func (s *analyticsService) GetCustomerAnalytics(ctx context.Context, r analytics.Range, limit int) (analytics.CustomerAnalytics, error) {
	if err := checkRange(r); err != nil {
		return analytics.CustomerAnalytics{}, err
	}
	if limit <= 0 || limit > repository.MaxPageSize {
		limit = DefaultTopCustomers
	}
	key := cache.Key("customers", r.Start, r.End, limit)
	return cache.Remember(ctx, s.cache, key, s.ttl, func(context.Context) (analytics.CustomerAnalytics, error) {
		customers, err := s.repo.CustomersCreatedBetween(r.Start, r.End)
		if err != nil {
			return analytics.CustomerAnalytics{}, err
		}
		orders, err := s.repo.OrdersBetween(r.Start, r.End)
		if err != nil {
			return analytics.CustomerAnalytics{}, err
		}
		return analytics.ComputeCustomerAnalytics(customers, orders, limit), nil
	})
}

func (s *analyticsService) GetInventoryInsights(ctx context.Context) (analytics.InventoryInsights, error) {
	return cache.Remember(ctx, s.cache, cache.Key("inventory"), s.ttl, func(context.Context) (analytics.InventoryInsights, error) {
		total, err := s.repo.CountActiveProducts()
		if err != nil {
			return analytics.InventoryInsights{}, err
		}
		variants, err := s.repo.Variants()
		if err != nil {
			return analytics.InventoryInsights{}, err
		}
		return analytics.ComputeInventoryInsights(total, variants), nil
	})
}

func (s *analyticsService) GetSalesByCategory(ctx context.Context, r analytics.Range) ([]analytics.CategorySales, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	key := cache.Key("categories", r.Start, r.End)
	return cache.Remember(ctx, s.cache, key, s.ttl, func(context.Context) ([]analytics.CategorySales, error) {
		items, err := s.repo.ItemsBetween(r.Start, r.End)
		if err != nil {
			return nil, err
		}
		return analytics.SalesByCategory(items), nil
	})
}

func (s *analyticsService) GetOrderStatusBreakdown(ctx context.Context, r analytics.Range) ([]analytics.StatusCount, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	key := cache.Key("statuses", r.Start, r.End)
	return cache.Remember(ctx, s.cache, key, s.ttl, func(context.Context) ([]analytics.StatusCount, error) {
		orders, err := s.repo.OrdersBetween(r.Start, r.End)
		if err != nil {
			return nil, err
		}
		return analytics.OrderStatusBreakdown(orders), nil
	})
}

// GetDashboard combines every metric for the window. Each part is cached on
// its own key, so the dashboard shares entries with the single-metric calls.
func (s *analyticsService) GetDashboard(ctx context.Context, r analytics.Range) (*Dashboard, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	logger.Debug("Building analytics dashboard", map[string]interface{}{
		"start": r.Start,
		"end":   r.End,
	})

	d := &Dashboard{Range: r}
	var err error
	if d.Sales, err = s.GetSalesMetrics(ctx, r); err != nil {
		return nil, err
	}
	if d.Trends, err = s.GetRevenueTrends(ctx, r, analytics.GranularityDay); err != nil {
		return nil, err
	}
	if d.TopProducts, err = s.GetTopProducts(ctx, &r, DefaultTopProductLimit); err != nil {
		return nil, err
	}
	if d.Categories, err = s.GetSalesByCategory(ctx, r); err != nil {
		return nil, err
	}
	if d.Statuses, err = s.GetOrderStatusBreakdown(ctx, r); err != nil {
		return nil, err
	}
	if d.Customers, err = s.GetCustomerAnalytics(ctx, r, DefaultTopCustomers); err != nil {
		return nil, err
	}
	if d.Inventory, err = s.GetInventoryInsights(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// ExportSalesReport writes an XLSX workbook with a summary sheet and one
// sheet each for trends, top products and categories.
func (s *analyticsService) ExportSalesReport(ctx context.Context, r analytics.Range, g analytics.Granularity, w io.Writer) error {
	logger.Info("Exporting sales report", map[string]interface{}{
		"start":       r.Start,
		"end":         r.End,
		"granularity": g,
	})

	d, err := s.GetDashboard(ctx, r)
	if err != nil {
		return err
	}
	trends, err := s.GetRevenueTrends(ctx, r, g)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName(f.GetSheetName(0), summary); err != nil {
		return err
	}
	if err := writeSheet(f, summary, []string{"Metric", "Value"}, [][]interface{}{
		{"Start", r.Start.UTC().Format(time.RFC3339)},
		{"End", r.End.UTC().Format(time.RFC3339)},
		{"Total revenue", d.Sales.TotalRevenue},
		{"Orders", d.Sales.TotalOrders},
		{"Average order value", d.Sales.AverageOrderValue},
		{"Previous period revenue", d.Sales.PreviousRevenue},
		{"Revenue growth %", d.Sales.RevenueGrowth},
		{"Conversion rate %", d.Sales.ConversionRate},
		{"New customers", d.Customers.TotalCustomers},
		{"Retention rate %", d.Customers.RetentionRate},
		{"Stock health score", d.Inventory.StockHealthScore},
	}); err != nil {
		return err
	}

	trendRows := make([][]interface{}, 0, len(trends))
	for _, p := range trends {
		trendRows = append(trendRows, []interface{}{p.Period, p.Orders, p.Revenue})
	}
	if err := addSheet(f, "Trends", []string{"Period", "Orders", "Revenue"}, trendRows); err != nil {
		return err
	}

	productRows := make([][]interface{}, 0, len(d.TopProducts))
	for _, p := range d.TopProducts {
		productRows = append(productRows, []interface{}{p.ProductID, p.Name, p.TotalSold, p.Revenue})
	}
	if err := addSheet(f, "Top Products", []string{"Product ID", "Name", "Units Sold", "Revenue"}, productRows); err != nil {
		return err
	}

	categoryRows := make([][]interface{}, 0, len(d.Categories))
	for _, c := range d.Categories {
		categoryRows = append(categoryRows, []interface{}{c.Name, c.UnitsSold, c.Revenue, c.Share})
	}
	if err := addSheet(f, "Categories", []string{"Category", "Units Sold", "Revenue", "Share %"}, categoryRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		logger.Error("Failed to write sales report", err)
		return err
	}
	return nil
}

func addSheet(f *excelize.File, name string, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeSheet(f, name, header, rows)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
