package analytics

import (
	"time"

	"olist-insights/pkg/models"
)

// Report bundles every analysis for one filter selection. It is what the
// report mode prints and mirrors what the API serves per endpoint.
type Report struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Sales         models.SalesOverview         `json:"sales"`
	MonthlyTrend  []models.MonthlySales        `json:"monthly_trend"`
	TopCategories []models.CategorySales       `json:"top_categories"`
	RFM           []models.RFMRecord           `json:"rfm"`
	Segments      []models.SegmentCount        `json:"segments"`
	Profiles      []models.SegmentProfile      `json:"segment_profiles"`
	Payments      []models.PaymentSummary      `json:"payments"`
	Installments  []models.InstallmentStat     `json:"installments"`
	Delivery      models.DeliveryMetrics       `json:"delivery"`
	DeliveryBins  []models.DeliveryStatusCount `json:"delivery_bins"`
	DeliveryDays  []models.DeliveryDaysCount   `json:"delivery_days"`
	States        []models.StateCount          `json:"states"`
	Cities        []models.CityCount           `json:"cities,omitempty"`
	WeekdayMatrix []models.WeekdaySales        `json:"weekday_matrix"`
	Reviews       models.ReviewSummary         `json:"reviews"`
}

// BuildReport re-runs the full pipeline for one filter selection. Filters
// compose by intersection: date window first, then category, then state.
// Every section degrades to empty output on an empty population.
func BuildReport(ds *models.Dataset, opts models.FilterOptions, topN int) *Report {
	minTS, maxTS := ds.PurchaseBounds()
	start, end := ResolveWindow(opts, minTS, maxTS)

	orders := FilterOrders(ds.Orders, start, end, "")
	orders = OrdersForState(orders, ds.CustomerByID, opts.State)
	items := ItemsForOrders(orders, ds.Items)
	items = FilterItemsByCategory(items, ds.ProductByID, opts.Category)

	delivered := FilterOrders(ds.Orders, start, end, models.StatusDelivered)
	delivered = OrdersForState(delivered, ds.CustomerByID, opts.State)

	rfm := Segment(delivered, ds.Payments, end)
	metrics, bins := DeliveryPerformance(delivered)

	r := &Report{
		Start:         start,
		End:           end,
		Sales:         SalesOverview(items),
		MonthlyTrend:  MonthlySales(orders, items),
		TopCategories: TopCategories(items, ds.ProductByID, topN),
		RFM:           rfm,
		Segments:      SegmentDistribution(rfm),
		Profiles:      SegmentProfiles(rfm),
		Payments:      PaymentBreakdown(orders, ds.Payments),
		Installments:  InstallmentAnalysis(orders, ds.Payments),
		Delivery:      metrics,
		DeliveryBins:  bins,
		DeliveryDays:  DeliveryDaysDistribution(delivered),
		States:        CustomersByState(FilterCustomersByState(ds.Customers, opts.State)),
		WeekdayMatrix: WeekdayMonthSales(orders, ds.Items),
		Reviews:       ReviewScores(orders, ds.Reviews),
	}
	if opts.State != "" {
		r.Cities = TopCities(ds.Customers, opts.State, topN)
	}
	return r
}
