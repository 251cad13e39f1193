package analytics

import (
	"math"
	"sort"
	"time"

	"olist-insights/pkg/models"
)

// DeliveryPerformance computes delivery statistics over delivered orders
// that carry both an actual and an estimated delivery date. Returns the
// headline metrics plus the count per delivery-status bin, ordered best
// to worst. Orders missing either date drop; an empty population yields
// zero metrics and no bins.
func DeliveryPerformance(orders []models.Order) (models.DeliveryMetrics, []models.DeliveryStatusCount) {
	var m models.DeliveryMetrics
	counts := map[string]int{}
	onTime := 0
	sumActual, sumEstimated := 0.0, 0.0

	for _, o := range orders {
		if o.Status != models.StatusDelivered {
			continue
		}
		if o.DeliveredCustomerDate.IsZero() || o.EstimatedDeliveryDate.IsZero() {
			continue
		}
		delta := dayDelta(o.EstimatedDeliveryDate, o.DeliveredCustomerDate)
		counts[ClassifyDelta(delta)]++
		if delta <= 0 {
			onTime++
		}
		sumActual += float64(dayDelta(o.PurchaseTimestamp, o.DeliveredCustomerDate))
		sumEstimated += float64(dayDelta(o.PurchaseTimestamp, o.EstimatedDeliveryDate))
		m.Orders++
	}

	if m.Orders > 0 {
		m.AvgActualDays = sumActual / float64(m.Orders)
		m.AvgEstimatedDays = sumEstimated / float64(m.Orders)
		m.OnTimePct = float64(onTime) / float64(m.Orders) * 100
	}

	var bins []models.DeliveryStatusCount
	for _, status := range []string{
		models.DeliveryVeryEarly, models.DeliveryEarly, models.DeliveryOnTime,
		models.DeliveryLate, models.DeliveryVeryLate,
	} {
		if c := counts[status]; c > 0 {
			bins = append(bins, models.DeliveryStatusCount{Status: status, Count: c})
		}
	}
	return m, bins
}

// ClassifyDelta buckets a signed delivery delta (actual minus estimated,
// in days) into the five fixed bins.
func ClassifyDelta(days int) string {
	switch {
	case days <= -3:
		return models.DeliveryVeryEarly
	case days <= -1:
		return models.DeliveryEarly
	case days <= 0:
		return models.DeliveryOnTime
	case days <= 2:
		return models.DeliveryLate
	default:
		return models.DeliveryVeryLate
	}
}

// DeliveryDaysDistribution counts delivered orders per actual delivery
// duration in whole days, ascending, for the duration histogram.
func DeliveryDaysDistribution(orders []models.Order) []models.DeliveryDaysCount {
	counts := map[int]int{}
	for _, o := range orders {
		if o.Status != models.StatusDelivered || o.DeliveredCustomerDate.IsZero() || o.PurchaseTimestamp.IsZero() {
			continue
		}
		counts[dayDelta(o.PurchaseTimestamp, o.DeliveredCustomerDate)]++
	}
	out := make([]models.DeliveryDaysCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, models.DeliveryDaysCount{Days: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	return out
}

// dayDelta is the signed whole-day difference to minus from, floored so
// partial days round toward negative infinity.
func dayDelta(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
