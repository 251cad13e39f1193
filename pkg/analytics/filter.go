package analytics

import (
	"time"

	"olist-insights/pkg/models"
)

// FilterOrders keeps orders whose purchase timestamp falls inside
// [start, end] and, when status is non-empty, whose status matches.
// An inverted window (start after end) yields an empty result.
// Orders with no purchase timestamp never qualify.
func FilterOrders(orders []models.Order, start, end time.Time, status string) []models.Order {
	if start.After(end) {
		return nil
	}
	var out []models.Order
	for _, o := range orders {
		if o.PurchaseTimestamp.IsZero() {
			continue
		}
		if o.PurchaseTimestamp.Before(start) || o.PurchaseTimestamp.After(end) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out
}

// FilterItemsByCategory keeps items whose product's canonical category
// equals category. Empty category keeps everything. Items referencing an
// unknown product drop, matching inner-join semantics.
func FilterItemsByCategory(items []models.OrderItem, products map[string]models.Product, category string) []models.OrderItem {
	if category == "" {
		return items
	}
	var out []models.OrderItem
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		if p.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// FilterCustomersByState keeps customers in the given 2-letter state.
// Empty state keeps everything.
func FilterCustomersByState(customers []models.Customer, state string) []models.Customer {
	if state == "" {
		return customers
	}
	var out []models.Customer
	for _, c := range customers {
		if c.State == state {
			out = append(out, c)
		}
	}
	return out
}

// ItemsForOrders inner-joins items to the given order subset.
func ItemsForOrders(orders []models.Order, items []models.OrderItem) []models.OrderItem {
	ids := orderIDSet(orders)
	var out []models.OrderItem
	for _, it := range items {
		if _, ok := ids[it.OrderID]; ok {
			out = append(out, it)
		}
	}
	return out
}

// paymentsForOrders inner-joins payments to the given order subset.
func paymentsForOrders(orders []models.Order, payments []models.Payment) []models.Payment {
	ids := orderIDSet(orders)
	var out []models.Payment
	for _, p := range payments {
		if _, ok := ids[p.OrderID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func orderIDSet(orders []models.Order) map[string]struct{} {
	ids := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		ids[o.ID] = struct{}{}
	}
	return ids
}

// ResolveWindow turns a preset or custom range into concrete [start, end]
// bounds. Presets anchor on the dataset's max purchase timestamp, not on
// the wall clock, so identical inputs always resolve identically.
func ResolveWindow(opts models.FilterOptions, minTS, maxTS time.Time) (time.Time, time.Time) {
	switch opts.Range {
	case models.RangeLastYear:
		return maxTS.AddDate(0, 0, -365), maxTS
	case models.RangeLast6Month:
		return maxTS.AddDate(0, 0, -180), maxTS
	case models.RangeLast3Month:
		return maxTS.AddDate(0, 0, -90), maxTS
	case models.RangeCustom:
		return opts.Start, opts.End
	default: // RangeAll and anything unrecognized
		return minTS, maxTS
	}
}
