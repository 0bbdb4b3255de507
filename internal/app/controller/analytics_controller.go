package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/analytics"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
)

const (
	defaultReportWindow = 30 * 24 * time.Hour
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
	now              func() time.Time
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		now:              time.Now,
	}
}

// reportRange reads start and end, defaulting to the last 30 days
func (ctrl *AnalyticsController) reportRange(c *gin.Context) (analytics.Range, bool) {
	start, ok := queryDate(c, "start", false)
	if !ok {
		return analytics.Range{}, false
	}
	end, ok := queryDate(c, "end", true)
	if !ok {
		return analytics.Range{}, false
	}

	r := analytics.Range{End: ctrl.now().UTC()}
	if end != nil {
		r.End = *end
	}
	r.Start = r.End.Add(-defaultReportWindow)
	if start != nil {
		r.Start = *start
	}
	return r, true
}

func limitParam(c *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

// GET /api/v1/admin/analytics/dashboard
func (ctrl *AnalyticsController) GetDashboard(c *gin.Context) {
	r, ok := ctrl.reportRange(c)
	if !ok {
		return
	}

	dashboard, err := ctrl.analyticsService.GetDashboard(c.Request.Context(), r)
	if err != nil {
		respondError(c, err, "build dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GET /api/v1/admin/analytics/sales
func (ctrl *AnalyticsController) GetSalesMetrics(c *gin.Context) {
	r, ok := ctrl.reportRange(c)
	if !ok {
		return
	}

	metrics, err := ctrl.analyticsService.GetSalesMetrics(c.Request.Context(), r)
	if err != nil {
		respondError(c, err, "compute sales metrics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "metrics": metrics})
}

// GetTopProducts ranks by revenue. all_time=true ignores the window.
// GET /api/v1/admin/analytics/top-products
func (ctrl *AnalyticsController) GetTopProducts(c *gin.Context) {
	var window *analytics.Range
	if allTime := queryBool(c, "all_time"); allTime == nil || !*allTime {
		r, ok := ctrl.reportRange(c)
		if !ok {
			return
		}
		window = &r
	}

	products, err := ctrl.analyticsService.GetTopProducts(c.Request.Context(), window, limitParam(c, service.DefaultTopProductLimit))
	if err != nil {
		respondError(c, err, "rank products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": window, "products": products})
}

// GET /api/v1/admin/analytics/trends?granularity=day|week|month
func (ctrl *AnalyticsController) GetRevenueTrends(c *gin.Context) {
	r, ok := ctrl.reportRange(c)
	if !ok {
		return
	}
	g := analytics.ParseGranularity(c.Query("granularity"))

	points, err := ctrl.analyticsService.GetRevenueTrends(c.Request.Context(), r, g)
	if err != nil {
		respondError(c, err, "compute revenue trends")
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "granularity": g, "trends": points})
}

// GET /api/v1/admin/analytics/customers
func (ctrl *AnalyticsController) GetCustomerAnalytics(c *gin.Context) {
	r, ok := ctrl.reportRange(c)
	if !ok {
		return
	}

	customers, err := ctrl.analyticsService.GetCustomerAnalytics(c.Request.Context(), r, limitParam(c, service.DefaultTopCustomers))
	if err != nil {
		respondError(c, err, "compute customer analytics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "customers": customers})
}

// GET /api/v1/admin/analytics/inventory
func (ctrl *AnalyticsController) GetInventoryInsights(c *gin.Context) {
	insights, err := ctrl.analyticsService.GetInventoryInsights(c.Request.Context())
	if err != nil {
		respondError(c, err, "compute inventory insights")
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": insights})
}

// GET /api/v1/admin/analytics/categories
func (ctrl *AnalyticsController) GetSalesByCategory(c *gin.Context) {
	r, ok := ctrl.reportRange(c)
	if !ok {
		return
	}

	categories, err := ctrl.analyticsService.GetSalesByCategory(c.Request.Context(), r)
	if err != nil {
		respondError(c, err, "compute category sales")
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "categories": categories})
}

// GET /api/v1/admin/analytics/order-status
func (ctrl *AnalyticsController) GetOrderStatusBreakdown(c *gin.Context) {
	r, ok := ctrl.reportRange(c)
	if !ok {
		return
	}

	statuses, err := ctrl.analyticsService.GetOrderStatusBreakdown(c.Request.Context(), r)
	if err != nil {
		respondError(c, err, "compute status breakdown")
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": r, "statuses": statuses})
}

// ExportSalesReport sends the report as an XLSX attachment. The workbook is
// buffered before any header is written.
// GET /api/v1/admin/analytics/export
func (ctrl *AnalyticsController) ExportSalesReport(c *gin.Context) {
	r, ok := ctrl.reportRange(c)
	if !ok {
		return
	}
	g := analytics.ParseGranularity(c.Query("granularity"))

	var buf bytes.Buffer
	if err := ctrl.analyticsService.ExportSalesReport(c.Request.Context(), r, g, &buf); err != nil {
		respondError(c, err, "export sales report")
		return
	}

	filename := fmt.Sprintf("sales-report-%s-%s.xlsx", r.Start.Format(dateLayout), r.End.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
