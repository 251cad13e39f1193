package analytics

import (
	"sort"
	"time"

	"olist-insights/pkg/models"
)

// CustomersByState counts customers per 2-letter state, descending.
func CustomersByState(customers []models.Customer) []models.StateCount {
	counts := map[string]int{}
	for _, c := range customers {
		counts[c.State]++
	}
	out := make([]models.StateCount, 0, len(counts))
	for state, n := range counts {
		out = append(out, models.StateCount{State: state, Customers: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Customers != out[j].Customers {
			return out[i].Customers > out[j].Customers
		}
		return out[i].State < out[j].State
	})
	return out
}

// TopCities counts customers per city within one state, descending,
// keeping the first n.
func TopCities(customers []models.Customer, state string, n int) []models.CityCount {
	counts := map[string]int{}
	for _, c := range customers {
		if c.State != state {
			continue
		}
		counts[c.City]++
	}
	out := make([]models.CityCount, 0, len(counts))
	for city, cnt := range counts {
		out = append(out, models.CityCount{City: city, Customers: cnt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Customers != out[j].Customers {
			return out[i].Customers > out[j].Customers
		}
		return out[i].City < out[j].City
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// OrdersForState keeps orders placed by customers of the given state.
// Empty state keeps everything.
func OrdersForState(orders []models.Order, customers map[string]models.Customer, state string) []models.Order {
	if state == "" {
		return orders
	}
	var out []models.Order
	for _, o := range orders {
		c, ok := customers[o.CustomerID]
		if !ok {
			continue
		}
		if c.State == state {
			out = append(out, o)
		}
	}
	return out
}

// WeekdayMonthSales sums item prices per (calendar month name, weekday)
// cell of the owning order's purchase timestamp, the data behind the
// purchase-pattern heatmap. Cells order by month then weekday.
func WeekdayMonthSales(orders []models.Order, items []models.OrderItem) []models.WeekdaySales {
	joined := ItemsForOrders(orders, items)
	purchase := map[string]int{} // order id -> index into orders
	for i, o := range orders {
		purchase[o.ID] = i
	}

	type cell struct{ month, weekday int }
	totals := map[cell]float64{}
	for _, it := range joined {
		o := orders[purchase[it.OrderID]]
		if o.PurchaseTimestamp.IsZero() {
			continue
		}
		totals[cell{
			month:   int(o.PurchaseTimestamp.Month()),
			weekday: weekdayIndex(o.PurchaseTimestamp.Weekday()),
		}] += it.Price
	}

	cells := make([]cell, 0, len(totals))
	for c := range totals {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].month != cells[j].month {
			return cells[i].month < cells[j].month
		}
		return cells[i].weekday < cells[j].weekday
	})

	out := make([]models.WeekdaySales, 0, len(cells))
	for _, c := range cells {
		out = append(out, models.WeekdaySales{
			Month:   time.Month(c.month).String(),
			Weekday: weekdayNames[c.weekday],
			Total:   totals[c],
		})
	}
	return out
}

// Monday-first ordering for the heatmap axes.
var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func weekdayIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
