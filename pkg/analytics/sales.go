package analytics

import (
	"sort"
	"time"

	"olist-insights/pkg/models"

	"github.com/jinzhu/now"
)

// SalesOverview computes the headline sales metrics over the
// filtered item subset: distinct orders, summed price and average order
// value (0 when there are no orders).
func SalesOverview(items []models.OrderItem) models.SalesOverview {
	orders := map[string]struct{}{}
	total := 0.0
	for _, it := range items {
		orders[it.OrderID] = struct{}{}
		total += it.Price
	}
	ov := models.SalesOverview{TotalOrders: len(orders), TotalSales: total}
	if ov.TotalOrders > 0 {
		ov.AvgOrderValue = total / float64(ov.TotalOrders)
	}
	return ov
}

// MonthlySales sums item prices per calendar month of the owning order's
// purchase timestamp, ascending by month.
func MonthlySales(orders []models.Order, items []models.OrderItem) []models.MonthlySales {
	purchaseByOrder := make(map[string]time.Time, len(orders))
	for _, o := range orders {
		purchaseByOrder[o.ID] = o.PurchaseTimestamp
	}

	totals := map[string]float64{}
	for _, it := range items {
		ts, ok := purchaseByOrder[it.OrderID]
		if !ok || ts.IsZero() {
			continue
		}
		month := now.New(ts).BeginningOfMonth().Format("2006-01")
		totals[month] += it.Price
	}

	out := make([]models.MonthlySales, 0, len(totals))
	for month, total := range totals {
		out = append(out, models.MonthlySales{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopCategories ranks canonical categories by summed item price,
// descending, and keeps the first n. The sort is stable so ties keep
// first-appearance order. Items without a known product drop.
func TopCategories(items []models.OrderItem, products map[string]models.Product, n int) []models.CategorySales {
	totals := map[string]float64{}
	orders := map[string]map[string]struct{}{}
	var appearance []string

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		if _, seen := totals[p.Category]; !seen {
			appearance = append(appearance, p.Category)
			orders[p.Category] = map[string]struct{}{}
		}
		totals[p.Category] += it.Price
		orders[p.Category][it.OrderID] = struct{}{}
	}

	out := make([]models.CategorySales, 0, len(appearance))
	for _, cat := range appearance {
		out = append(out, models.CategorySales{
			Category:   cat,
			Total:      totals[cat],
			OrderCount: len(orders[cat]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
