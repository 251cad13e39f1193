package analytics

import (
	"testing"
	"time"

	"olist-insights/pkg/models"
)

func TestClassifyDelta(t *testing.T) {
	cases := map[int]string{
		-5: models.DeliveryVeryEarly,
		-3: models.DeliveryVeryEarly,
		-2: models.DeliveryEarly,
		-1: models.DeliveryEarly,
		0:  models.DeliveryOnTime,
		1:  models.DeliveryLate,
		2:  models.DeliveryLate,
		3:  models.DeliveryVeryLate,
		5:  models.DeliveryVeryLate,
	}
	for delta, want := range cases {
		if got := ClassifyDelta(delta); got != want {
			t.Fatalf("delta %d: got %s, want %s", delta, got, want)
		}
	}
}

func deliveredOrder(id string, purchased time.Time, actualDays, estimatedDays int) models.Order {
	return models.Order{
		ID:                    id,
		CustomerID:            "c-" + id,
		Status:                models.StatusDelivered,
		PurchaseTimestamp:     purchased,
		DeliveredCustomerDate: purchased.AddDate(0, 0, actualDays),
		EstimatedDeliveryDate: purchased.AddDate(0, 0, estimatedDays),
	}
}

func TestDeliveryPerformance(t *testing.T) {
	purchased := day(2018, 3, 1)
	orders := []models.Order{
		deliveredOrder("1", purchased, 5, 10),  // 5 days early -> Very Early
		deliveredOrder("2", purchased, 10, 10), // on time
		deliveredOrder("3", purchased, 12, 10), // 2 days late -> Late
	}

	m, bins := DeliveryPerformance(orders)
	if m.Orders != 3 {
		t.Fatalf("got %d orders, want 3", m.Orders)
	}
	if m.AvgActualDays != 9 || m.AvgEstimatedDays != 10 {
		t.Fatalf("unexpected averages: %+v", m)
	}
	// Two of three deliveries arrived on or before the estimate.
	if m.OnTimePct < 66.6 || m.OnTimePct > 66.7 {
		t.Fatalf("unexpected on-time pct: %v", m.OnTimePct)
	}

	want := map[string]int{
		models.DeliveryVeryEarly: 1,
		models.DeliveryOnTime:    1,
		models.DeliveryLate:      1,
	}
	if len(bins) != 3 {
		t.Fatalf("got %d bins, want 3: %+v", len(bins), bins)
	}
	for _, b := range bins {
		if want[b.Status] != b.Count {
			t.Fatalf("bin %s: got %d, want %d", b.Status, b.Count, want[b.Status])
		}
	}
}

func TestDeliveryPerformance_SkipsIncompleteRows(t *testing.T) {
	purchased := day(2018, 3, 1)
	missingActual := deliveredOrder("1", purchased, 5, 10)
	missingActual.DeliveredCustomerDate = time.Time{}
	notDelivered := deliveredOrder("2", purchased, 5, 10)
	notDelivered.Status = models.StatusShipped

	m, bins := DeliveryPerformance([]models.Order{missingActual, notDelivered})
	if m.Orders != 0 || m.OnTimePct != 0 || bins != nil {
		t.Fatalf("expected empty result, got %+v / %+v", m, bins)
	}
}

func TestDeliveryDaysDistribution(t *testing.T) {
	purchased := day(2018, 3, 1)
	orders := []models.Order{
		deliveredOrder("1", purchased, 7, 10),
		deliveredOrder("2", purchased, 7, 10),
		deliveredOrder("3", purchased, 3, 10),
	}
	got := DeliveryDaysDistribution(orders)
	if len(got) != 2 || got[0].Days != 3 || got[1].Days != 7 || got[1].Count != 2 {
		t.Fatalf("unexpected distribution: %+v", got)
	}
}
