package analytics

import (
	"testing"

	"olist-insights/pkg/models"
)

func TestSalesOverview(t *testing.T) {
	items := []models.OrderItem{
		{OrderID: "1", ProductID: "p1", Price: 30},
		{OrderID: "1", ProductID: "p2", Price: 20},
		{OrderID: "2", ProductID: "p1", Price: 50},
	}
	ov := SalesOverview(items)
	if ov.TotalOrders != 2 || ov.TotalSales != 100 || ov.AvgOrderValue != 50 {
		t.Fatalf("unexpected overview: %+v", ov)
	}
}

func TestSalesOverview_Empty(t *testing.T) {
	ov := SalesOverview(nil)
	if ov.TotalOrders != 0 || ov.TotalSales != 0 || ov.AvgOrderValue != 0 {
		t.Fatalf("empty input should be all zero: %+v", ov)
	}
}

func TestMonthlySales(t *testing.T) {
	orders := []models.Order{
		order("1", "A", models.StatusDelivered, day(2017, 11, 24)),
		order("2", "B", models.StatusDelivered, day(2017, 11, 3)),
		order("3", "C", models.StatusDelivered, day(2017, 12, 25)),
	}
	items := []models.OrderItem{
		{OrderID: "1", ProductID: "p1", Price: 10},
		{OrderID: "2", ProductID: "p1", Price: 15},
		{OrderID: "3", ProductID: "p1", Price: 99},
		{OrderID: "orphan", ProductID: "p1", Price: 1000}, // not in orders, drops
	}

	got := MonthlySales(orders, items)
	if len(got) != 2 {
		t.Fatalf("got %d months, want 2: %+v", len(got), got)
	}
	if got[0].Month != "2017-11" || got[0].Total != 25 {
		t.Fatalf("unexpected first month: %+v", got[0])
	}
	if got[1].Month != "2017-12" || got[1].Total != 99 {
		t.Fatalf("unexpected second month: %+v", got[1])
	}
}

func TestTopCategories_StableTiesAndLimit(t *testing.T) {
	products := map[string]models.Product{
		"p1": {ID: "p1", Category: "toys"},
		"p2": {ID: "p2", Category: "books"},
		"p3": {ID: "p3", Category: "garden"},
	}
	// toys and books tie; toys appears first in the input.
	items := []models.OrderItem{
		{OrderID: "1", ProductID: "p1", Price: 50},
		{OrderID: "2", ProductID: "p2", Price: 50},
		{OrderID: "3", ProductID: "p3", Price: 10},
	}

	got := TopCategories(items, products, 2)
	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2", len(got))
	}
	if got[0].Category != "toys" || got[1].Category != "books" {
		t.Fatalf("tie should keep appearance order: %+v", got)
	}
}

func TestTopCategories_Empty(t *testing.T) {
	if got := TopCategories(nil, nil, 10); len(got) != 0 {
		t.Fatalf("empty input should yield empty ranking, got %+v", got)
	}
}
