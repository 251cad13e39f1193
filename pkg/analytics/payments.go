package analytics

import (
	"sort"

	"olist-insights/pkg/models"
)

// PaymentBreakdown summarizes payment rows of the filtered orders per
// payment type: total value, distinct orders, share of the grand total
// and average value per order. Rows sort descending by total value.
// Every denominator guards to zero.
func PaymentBreakdown(orders []models.Order, payments []models.Payment) []models.PaymentSummary {
	rows := paymentsForOrders(orders, payments)

	totals := map[string]float64{}
	orderSets := map[string]map[string]struct{}{}
	grand := 0.0
	for _, p := range rows {
		if orderSets[p.Type] == nil {
			orderSets[p.Type] = map[string]struct{}{}
		}
		totals[p.Type] += p.Value
		orderSets[p.Type][p.OrderID] = struct{}{}
		grand += p.Value
	}

	out := make([]models.PaymentSummary, 0, len(totals))
	for ptype, total := range totals {
		s := models.PaymentSummary{
			Type:       ptype,
			TotalValue: total,
			OrderCount: len(orderSets[ptype]),
		}
		if grand > 0 {
			s.Percentage = total / grand * 100
		}
		if s.OrderCount > 0 {
			s.AvgValue = total / float64(s.OrderCount)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalValue != out[j].TotalValue {
			return out[i].TotalValue > out[j].TotalValue
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// InstallmentAnalysis looks at credit-card payments only: transaction
// count and mean payment value per installment count, ascending by
// installments. Empty input yields an empty slice.
func InstallmentAnalysis(orders []models.Order, payments []models.Payment) []models.InstallmentStat {
	rows := paymentsForOrders(orders, payments)

	counts := map[int]int{}
	sums := map[int]float64{}
	for _, p := range rows {
		if p.Type != models.PaymentCreditCard {
			continue
		}
		counts[p.Installments]++
		sums[p.Installments] += p.Value
	}

	out := make([]models.InstallmentStat, 0, len(counts))
	for inst, c := range counts {
		out = append(out, models.InstallmentStat{
			Installments: inst,
			Count:        c,
			AvgValue:     sums[inst] / float64(c),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Installments < out[j].Installments })
	return out
}
