package analytics

import (
	"olist-insights/pkg/models"
)

// ReviewScores summarizes review scores over the filtered order subset:
// total count, mean score and the count per score value 1..5.
func ReviewScores(orders []models.Order, reviews []models.Review) models.ReviewSummary {
	ids := orderIDSet(orders)
	counts := map[int]int{}
	sum := 0
	total := 0
	for _, r := range reviews {
		if _, ok := ids[r.OrderID]; !ok {
			continue
		}
		if r.Score < 1 || r.Score > 5 {
			continue
		}
		counts[r.Score]++
		sum += r.Score
		total++
	}

	summary := models.ReviewSummary{Reviews: total}
	if total > 0 {
		summary.AvgScore = float64(sum) / float64(total)
	}
	for score := 1; score <= 5; score++ {
		if c := counts[score]; c > 0 {
			summary.ByScore = append(summary.ByScore, models.ScoreCount{Score: score, Count: c})
		}
	}
	return summary
}
