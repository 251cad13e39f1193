package handler

import (
	"net/http"

	"olist-insights/pkg/analytics"
	"olist-insights/pkg/models"

	"github.com/gin-gonic/gin"
)

// Cap on RFM records returned inline; the distribution and profiles
// always cover the full population.
const maxRFMRecords = 1000

func (a *API) SalesHandler(c *gin.Context) {
	ds, opts, start, end, ok := a.request(c)
	if !ok {
		return
	}
	orders := analytics.FilterOrders(ds.Orders, start, end, "")
	orders = analytics.OrdersForState(orders, ds.CustomerByID, opts.State)
	items := analytics.FilterItemsByCategory(analytics.ItemsForOrders(orders, ds.Items), ds.ProductByID, opts.Category)

	c.JSON(http.StatusOK, gin.H{
		"overview":       analytics.SalesOverview(items),
		"monthly_trend":  analytics.MonthlySales(orders, items),
		"top_categories": analytics.TopCategories(items, ds.ProductByID, a.topN),
	})
}

func (a *API) RFMHandler(c *gin.Context) {
	ds, opts, start, end, ok := a.request(c)
	if !ok {
		return
	}
	delivered := analytics.FilterOrders(ds.Orders, start, end, models.StatusDelivered)
	delivered = analytics.OrdersForState(delivered, ds.CustomerByID, opts.State)

	records := analytics.Segment(delivered, ds.Payments, end)
	if len(records) == 0 {
		c.JSON(http.StatusOK, gin.H{"insufficient_data": true})
		return
	}

	var sumR, sumF, sumM float64
	for _, r := range records {
		sumR += float64(r.RecencyDays)
		sumF += float64(r.Frequency)
		sumM += r.Monetary
	}
	n := float64(len(records))

	shown := records
	if len(shown) > maxRFMRecords {
		shown = shown[:maxRFMRecords]
	}
	c.JSON(http.StatusOK, gin.H{
		"customers":        len(records),
		"avg_recency":      sumR / n,
		"avg_frequency":    sumF / n,
		"avg_monetary":     sumM / n,
		"segments":         analytics.SegmentDistribution(records),
		"segment_profiles": analytics.SegmentProfiles(records),
		"records":          shown,
	})
}

func (a *API) PaymentsHandler(c *gin.Context) {
	ds, opts, start, end, ok := a.request(c)
	if !ok {
		return
	}
	orders := analytics.FilterOrders(ds.Orders, start, end, "")
	orders = analytics.OrdersForState(orders, ds.CustomerByID, opts.State)

	c.JSON(http.StatusOK, gin.H{
		"summary":      analytics.PaymentBreakdown(orders, ds.Payments),
		"installments": analytics.InstallmentAnalysis(orders, ds.Payments),
	})
}

func (a *API) DeliveryHandler(c *gin.Context) {
	ds, opts, start, end, ok := a.request(c)
	if !ok {
		return
	}
	delivered := analytics.FilterOrders(ds.Orders, start, end, models.StatusDelivered)
	delivered = analytics.OrdersForState(delivered, ds.CustomerByID, opts.State)

	metrics, bins := analytics.DeliveryPerformance(delivered)
	if metrics.Orders == 0 {
		c.JSON(http.StatusOK, gin.H{"insufficient_data": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"metrics":      metrics,
		"status_bins":  bins,
		"days_counts":  analytics.DeliveryDaysDistribution(delivered),
	})
}

func (a *API) GeographyHandler(c *gin.Context) {
	ds, opts, start, end, ok := a.request(c)
	if !ok {
		return
	}
	orders := analytics.FilterOrders(ds.Orders, start, end, "")
	orders = analytics.OrdersForState(orders, ds.CustomerByID, opts.State)
	items := analytics.FilterItemsByCategory(analytics.ItemsForOrders(orders, ds.Items), ds.ProductByID, opts.Category)

	resp := gin.H{
		"states":         analytics.CustomersByState(analytics.FilterCustomersByState(ds.Customers, opts.State)),
		"top_categories": analytics.TopCategories(items, ds.ProductByID, a.topN),
		"weekday_matrix": analytics.WeekdayMonthSales(orders, ds.Items),
	}
	if opts.State != "" {
		resp["top_cities"] = analytics.TopCities(ds.Customers, opts.State, a.topN)
	}
	c.JSON(http.StatusOK, resp)
}

func (a *API) ReviewsHandler(c *gin.Context) {
	ds, opts, start, end, ok := a.request(c)
	if !ok {
		return
	}
	orders := analytics.FilterOrders(ds.Orders, start, end, "")
	orders = analytics.OrdersForState(orders, ds.CustomerByID, opts.State)

	summary := analytics.ReviewScores(orders, ds.Reviews)
	if summary.Reviews == 0 {
		c.JSON(http.StatusOK, gin.H{"insufficient_data": true})
		return
	}
	c.JSON(http.StatusOK, summary)
}
