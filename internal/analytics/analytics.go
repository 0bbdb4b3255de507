package analytics

import (
	"sort"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/shopspring/decimal"
)

type SalesMetrics struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
	PreviousRevenue   float64 `json:"previous_revenue"`
	RevenueGrowth     float64 `json:"revenue_growth"` // 0 when the previous period had no revenue
	ProductViews      int64   `json:"product_views"`
	ConversionRate    float64 `json:"conversion_rate"`
}

type ProductSales struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	TotalSold int     `json:"total_sold"`
	Revenue   float64 `json:"revenue"`
}

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity falls back to day for unknown values
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityWeek, GranularityMonth:
		return Granularity(s)
	}
	return GranularityDay
}

type TrendPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type CustomerSpend struct {
	UserID     uint    `json:"user_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	TotalSpent float64 `json:"total_spent"`
	OrderCount int     `json:"order_count"`
}

type CustomerAnalytics struct {
	TotalCustomers  int             `json:"total_customers"`
	RepeatCustomers int             `json:"repeat_customers"`
	RetentionRate   float64         `json:"retention_rate"`
	TopCustomers    []CustomerSpend `json:"top_customers"`
}

type InventoryInsights struct {
	TotalProducts    int64   `json:"total_products"`
	TotalVariants    int     `json:"total_variants"`
	LowStock         int     `json:"low_stock"`
	OutOfStock       int     `json:"out_of_stock"`
	StockHealthScore float64 `json:"stock_health_score"`
}

type CategorySales struct {
	CategoryID uint    `json:"category_id"`
	Name       string  `json:"name"`
	UnitsSold  int     `json:"units_sold"`
	Revenue    float64 `json:"revenue"`
	Share      float64 `json:"share"` // percent of total revenue
}

type StatusCount struct {
	Status model.OrderStatus `json:"status"`
	Count  int               `json:"count"`
	Total  float64           `json:"total"`
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// percent returns num/den*100 rounded to two places, 0 when den is zero
func percent(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return round2(num.Div(den).Mul(decimal.NewFromInt(100)))
}

func revenueOf(orders []OrderRow) (decimal.Decimal, int) {
	sum := decimal.Zero
	count := 0
	for _, o := range orders {
		if !o.Status.CountsTowardRevenue() {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(o.Total))
		count++
	}
	return sum, count
}

// ComputeSalesMetrics folds the current and previous period orders. Orders
// outside the revenue statuses are ignored.
func ComputeSalesMetrics(current, previous []OrderRow, productViews int64) SalesMetrics {
	revenue, count := revenueOf(current)
	prevRevenue, _ := revenueOf(previous)

	m := SalesMetrics{
		TotalRevenue:    round2(revenue),
		TotalOrders:     count,
		PreviousRevenue: round2(prevRevenue),
		ProductViews:    productViews,
	}
	if count > 0 {
		m.AverageOrderValue = round2(revenue.Div(decimal.NewFromInt(int64(count))))
	}
	if !prevRevenue.IsZero() {
		m.RevenueGrowth = percent(revenue.Sub(prevRevenue), prevRevenue)
	}
	m.ConversionRate = percent(decimal.NewFromInt(int64(count)), decimal.NewFromInt(productViews))
	return m
}

// TopProducts sums item rows whose parent order counts toward revenue and
// ranks by units sold, then revenue, then product id.
func TopProducts(items []ItemRow, limit int) []ProductSales {
	type acc struct {
		name    string
		sold    int
		revenue decimal.Decimal
	}
	byProduct := make(map[uint]*acc)
	for _, it := range items {
		if !it.Status.CountsTowardRevenue() {
			continue
		}
		a, ok := byProduct[it.ProductID]
		if !ok {
			a = &acc{name: it.ProductName, revenue: decimal.Zero}
			byProduct[it.ProductID] = a
		}
		a.sold += it.Quantity
		a.revenue = a.revenue.Add(decimal.NewFromFloat(it.Subtotal))
	}

	out := make([]ProductSales, 0, len(byProduct))
	for id, a := range byProduct {
		out = append(out, ProductSales{ProductID: id, Name: a.name, TotalSold: a.sold, Revenue: round2(a.revenue)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSold != out[j].TotalSold {
			return out[i].TotalSold > out[j].TotalSold
		}
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BucketKey renders t in UTC as the trend bucket it falls into. Weeks start
// on Sunday and are keyed by that Sunday's date.
func BucketKey(t time.Time, g Granularity) string {
	t = t.UTC()
	switch g {
	case GranularityMonth:
		return t.Format("2006-01")
	case GranularityWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, -int(day.Weekday())).Format("2006-01-02")
	default:
		return t.Format("2006-01-02")
	}
}

// RevenueTrends groups revenue orders into buckets sorted by key ascending
func RevenueTrends(orders []OrderRow, g Granularity) []TrendPoint {
	type acc struct {
		revenue decimal.Decimal
		orders  int
	}
	buckets := make(map[string]*acc)
	for _, o := range orders {
		if !o.Status.CountsTowardRevenue() {
			continue
		}
		key := BucketKey(o.CreatedAt, g)
		a, ok := buckets[key]
		if !ok {
			a = &acc{revenue: decimal.Zero}
			buckets[key] = a
		}
		a.revenue = a.revenue.Add(decimal.NewFromFloat(o.Total))
		a.orders++
	}

	out := make([]TrendPoint, 0, len(buckets))
	for key, a := range buckets {
		out = append(out, TrendPoint{Period: key, Revenue: round2(a.revenue), Orders: a.orders})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// ComputeCustomerAnalytics takes the customers created in the range and every
// order placed in it. A customer is repeat when they placed at least one of
// those orders. Top spenders are ranked over revenue orders only.
func ComputeCustomerAnalytics(customers []CustomerRow, orders []OrderRow, limit int) CustomerAnalytics {
	ordered := make(map[uint]bool)
	for _, o := range orders {
		ordered[o.UserID] = true
	}

	repeat := 0
	for _, c := range customers {
		if ordered[c.ID] {
			repeat++
		}
	}

	spend := make(map[uint]*CustomerSpend)
	totals := make(map[uint]decimal.Decimal)
	for _, o := range orders {
		if !o.Status.CountsTowardRevenue() {
			continue
		}
		s, ok := spend[o.UserID]
		if !ok {
			s = &CustomerSpend{UserID: o.UserID, Name: o.CustomerName, Email: o.CustomerEmail}
			spend[o.UserID] = s
			totals[o.UserID] = decimal.Zero
		}
		s.OrderCount++
		totals[o.UserID] = totals[o.UserID].Add(decimal.NewFromFloat(o.Total))
	}

	top := make([]CustomerSpend, 0, len(spend))
	for id, s := range spend {
		s.TotalSpent = round2(totals[id])
		top = append(top, *s)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalSpent != top[j].TotalSpent {
			return top[i].TotalSpent > top[j].TotalSpent
		}
		return top[i].UserID < top[j].UserID
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}

	return CustomerAnalytics{
		TotalCustomers:  len(customers),
		RepeatCustomers: repeat,
		RetentionRate:   percent(decimal.NewFromInt(int64(repeat)), decimal.NewFromInt(int64(len(customers)))),
		TopCustomers:    top,
	}
}

// ComputeInventoryInsights counts active variants by stock level. The health
// score is clamped to [0, 100] since variant counts can exceed the product count.
func ComputeInventoryInsights(totalProducts int64, variants []VariantRow) InventoryInsights {
	in := InventoryInsights{TotalProducts: totalProducts}
	for _, v := range variants {
		if !v.IsActive {
			continue
		}
		in.TotalVariants++
		switch {
		case v.Stock == 0:
			in.OutOfStock++
		case v.Stock <= model.LowStockThreshold:
			in.LowStock++
		}
	}

	if totalProducts > 0 {
		healthy := decimal.NewFromInt(totalProducts - int64(in.OutOfStock) - int64(in.LowStock))
		score := percent(healthy, decimal.NewFromInt(totalProducts))
		switch {
		case score < 0:
			score = 0
		case score > 100:
			score = 100
		}
		in.StockHealthScore = score
	}
	return in
}

// SalesByCategory buckets revenue items by product category, highest revenue first
func SalesByCategory(items []ItemRow) []CategorySales {
	type acc struct {
		name    string
		units   int
		revenue decimal.Decimal
	}
	byCategory := make(map[uint]*acc)
	total := decimal.Zero
	for _, it := range items {
		if !it.Status.CountsTowardRevenue() {
			continue
		}
		a, ok := byCategory[it.CategoryID]
		if !ok {
			a = &acc{name: it.CategoryName, revenue: decimal.Zero}
			byCategory[it.CategoryID] = a
		}
		sub := decimal.NewFromFloat(it.Subtotal)
		a.units += it.Quantity
		a.revenue = a.revenue.Add(sub)
		total = total.Add(sub)
	}

	out := make([]CategorySales, 0, len(byCategory))
	for id, a := range byCategory {
		out = append(out, CategorySales{
			CategoryID: id,
			Name:       a.name,
			UnitsSold:  a.units,
			Revenue:    round2(a.revenue),
			Share:      percent(a.revenue, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

var statusOrder = []model.OrderStatus{
	model.OrderStatusPending,
	model.OrderStatusProcessing,
	model.OrderStatusShipped,
	model.OrderStatusDelivered,
	model.OrderStatusCancelled,
}

// OrderStatusBreakdown counts orders per status. Every status is present,
// in lifecycle order.
func OrderStatusBreakdown(orders []OrderRow) []StatusCount {
	counts := make(map[model.OrderStatus]int)
	totals := make(map[model.OrderStatus]decimal.Decimal)
	for _, o := range orders {
		counts[o.Status]++
		totals[o.Status] = totals[o.Status].Add(decimal.NewFromFloat(o.Total))
	}

	out := make([]StatusCount, 0, len(statusOrder))
	for _, s := range statusOrder {
		out = append(out, StatusCount{Status: s, Count: counts[s], Total: round2(totals[s])})
	}
	return out
}
