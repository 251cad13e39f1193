package analytics

import (
	"testing"
	"time"

	"olist-insights/pkg/models"
)

func TestCustomersByState(t *testing.T) {
	customers := []models.Customer{
		{ID: "A", City: "sao paulo", State: "SP"},
		{ID: "B", City: "campinas", State: "SP"},
		{ID: "C", City: "rio de janeiro", State: "RJ"},
	}
	got := CustomersByState(customers)
	if len(got) != 2 || got[0].State != "SP" || got[0].Customers != 2 {
		t.Fatalf("unexpected state counts: %+v", got)
	}
}

func TestTopCities(t *testing.T) {
	customers := []models.Customer{
		{ID: "A", City: "sao paulo", State: "SP"},
		{ID: "B", City: "sao paulo", State: "SP"},
		{ID: "C", City: "campinas", State: "SP"},
		{ID: "D", City: "rio de janeiro", State: "RJ"},
	}
	got := TopCities(customers, "SP", 1)
	if len(got) != 1 || got[0].City != "sao paulo" || got[0].Customers != 2 {
		t.Fatalf("unexpected city counts: %+v", got)
	}
}

func TestOrdersForState(t *testing.T) {
	customers := map[string]models.Customer{
		"A": {ID: "A", State: "SP"},
		"B": {ID: "B", State: "RJ"},
	}
	orders := []models.Order{
		order("1", "A", models.StatusDelivered, day(2018, 1, 1)),
		order("2", "B", models.StatusDelivered, day(2018, 1, 2)),
		order("3", "ghost", models.StatusDelivered, day(2018, 1, 3)),
	}
	got := OrdersForState(orders, customers, "SP")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected orders: %+v", got)
	}
	if got := OrdersForState(orders, customers, ""); len(got) != 3 {
		t.Fatalf("empty state should keep all orders, got %d", len(got))
	}
}

func TestWeekdayMonthSales(t *testing.T) {
	// 2018-01-01 is a Monday.
	monday := time.Date(2018, 1, 1, 10, 0, 0, 0, time.UTC)
	sunday := time.Date(2018, 1, 7, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		order("1", "A", models.StatusDelivered, monday),
		order("2", "B", models.StatusDelivered, sunday),
	}
	items := []models.OrderItem{
		{OrderID: "1", ProductID: "p1", Price: 10},
		{OrderID: "1", ProductID: "p2", Price: 5},
		{OrderID: "2", ProductID: "p1", Price: 7},
	}

	got := WeekdayMonthSales(orders, items)
	if len(got) != 2 {
		t.Fatalf("got %d cells, want 2: %+v", len(got), got)
	}
	if got[0].Month != "January" || got[0].Weekday != "Monday" || got[0].Total != 15 {
		t.Fatalf("unexpected first cell: %+v", got[0])
	}
	if got[1].Weekday != "Sunday" || got[1].Total != 7 {
		t.Fatalf("unexpected second cell: %+v", got[1])
	}
}

func TestReviewScores(t *testing.T) {
	orders := []models.Order{
		order("1", "A", models.StatusDelivered, day(2018, 1, 1)),
		order("2", "B", models.StatusDelivered, day(2018, 1, 2)),
	}
	reviews := []models.Review{
		{ID: "r1", OrderID: "1", Score: 5},
		{ID: "r2", OrderID: "2", Score: 3},
		{ID: "r3", OrderID: "outside", Score: 1},
	}
	got := ReviewScores(orders, reviews)
	if got.Reviews != 2 || got.AvgScore != 4 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if len(got.ByScore) != 2 || got.ByScore[0].Score != 3 || got.ByScore[1].Score != 5 {
		t.Fatalf("unexpected score counts: %+v", got.ByScore)
	}
}

func TestBuildReport_EmptyWindow(t *testing.T) {
	ds := &models.Dataset{
		Orders:       []models.Order{order("1", "A", models.StatusDelivered, day(2018, 1, 1))},
		Customers:    []models.Customer{{ID: "A", State: "SP"}},
		CustomerByID: map[string]models.Customer{"A": {ID: "A", State: "SP"}},
		ProductByID:  map[string]models.Product{},
	}
	opts := models.FilterOptions{Range: models.RangeCustom, Start: day(2020, 1, 1), End: day(2020, 12, 31)}

	r := BuildReport(ds, opts, 10)
	if r.Sales.TotalOrders != 0 || len(r.RFM) != 0 || len(r.Payments) != 0 || r.Delivery.Orders != 0 {
		t.Fatalf("empty window should degrade to empty sections: %+v", r)
	}
}
