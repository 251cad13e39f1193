package analytics

import (
	"sort"
	"time"

	"olist-insights/pkg/models"
)

// Per-metric scoring strategy, picked once before any score is assigned:
// fewer than 5 distinct values neutralizes the metric, duplicate quantile
// edges demote quantile binning to equal-width binning.
type binStrategy int

const (
	neutralScore binStrategy = iota
	quantileBinning
	equalWidthBinning
)

const rfmBuckets = 5

// Segment computes one RFMRecord per customer from delivered orders
// joined with their payments. orders must already be restricted to
// delivered status inside the active window; end is the window's upper
// bound and the recency reference. Orders without payment rows drop
// (inner-join semantics), and an empty joined population yields an empty
// slice, not an error.
func Segment(orders []models.Order, payments []models.Payment, end time.Time) []models.RFMRecord {
	paymentsByOrder := map[string][]models.Payment{}
	for _, p := range payments {
		paymentsByOrder[p.OrderID] = append(paymentsByOrder[p.OrderID], p)
	}

	type agg struct {
		last     time.Time
		orders   map[string]struct{}
		monetary float64
	}
	byCustomer := map[string]*agg{}
	var appearance []string

	for _, o := range orders {
		rows, ok := paymentsByOrder[o.ID]
		if !ok {
			continue
		}
		a := byCustomer[o.CustomerID]
		if a == nil {
			a = &agg{orders: map[string]struct{}{}}
			byCustomer[o.CustomerID] = a
			appearance = append(appearance, o.CustomerID)
		}
		if o.PurchaseTimestamp.After(a.last) {
			a.last = o.PurchaseTimestamp
		}
		a.orders[o.ID] = struct{}{}
		for _, p := range rows {
			a.monetary += p.Value
		}
	}
	if len(appearance) == 0 {
		return nil
	}

	n := len(appearance)
	recency := make([]float64, n)
	frequency := make([]float64, n)
	monetary := make([]float64, n)
	for i, id := range appearance {
		a := byCustomer[id]
		recency[i] = float64(int(end.Sub(a.last).Hours() / 24))
		frequency[i] = float64(len(a.orders))
		monetary[i] = a.monetary
	}

	// Recency bins on raw values (lower is better); frequency and
	// monetary bin on a stable rank transform so quantile edges stay
	// well-defined under heavy ties.
	rScores := scoreMetric(recency, recency, true)
	fScores := scoreMetric(frequency, rankFirst(frequency), false)
	mScores := scoreMetric(monetary, rankFirst(monetary), false)

	records := make([]models.RFMRecord, n)
	for i, id := range appearance {
		composite := rScores[i] + fScores[i] + mScores[i]
		records[i] = models.RFMRecord{
			CustomerID:  id,
			RecencyDays: int(recency[i]),
			Frequency:   int(frequency[i]),
			Monetary:    monetary[i],
			RScore:      rScores[i],
			FScore:      fScores[i],
			MScore:      mScores[i],
			Composite:   composite,
			Segment:     segmentFor(composite),
		}
	}
	return records
}

// segmentFor maps a composite score to its segment using the fixed
// thresholds [0,4] Bronze, (4,8] Silver, (8,12] Gold, (12,15] Platinum.
func segmentFor(composite int) string {
	switch {
	case composite <= 4:
		return models.SegmentBronze
	case composite <= 8:
		return models.SegmentSilver
	case composite <= 12:
		return models.SegmentGold
	default:
		return models.SegmentPlatinum
	}
}

// scoreMetric assigns 1..5 scores for one metric across the whole
// population. raw drives strategy selection and the equal-width fallback;
// binVals (raw or rank-transformed) drives quantile bucketing. With
// lowerBetter the lowest bucket earns score 5, otherwise score 1.
func scoreMetric(raw, binVals []float64, lowerBetter bool) []int {
	n := len(raw)
	scores := make([]int, n)

	switch chooseStrategy(raw, binVals) {
	case neutralScore:
		for i := range scores {
			scores[i] = 3
		}
	case quantileBinning:
		edges := quantileEdges(binVals, rfmBuckets)
		for i, v := range binVals {
			scores[i] = labelFor(bucketByEdges(v, edges), lowerBetter)
		}
	case equalWidthBinning:
		min, max := minMax(raw)
		width := (max - min) / float64(rfmBuckets)
		for i, v := range raw {
			b := 0
			if width > 0 {
				b = int((v - min) / width)
				if b >= rfmBuckets {
					b = rfmBuckets - 1
				}
			}
			scores[i] = labelFor(b, lowerBetter)
		}
	}
	return scores
}

func chooseStrategy(raw, binVals []float64) binStrategy {
	if countDistinct(raw) < rfmBuckets {
		return neutralScore
	}
	if countDistinct(quantileEdges(binVals, rfmBuckets)) < rfmBuckets+1 {
		return equalWidthBinning
	}
	return quantileBinning
}

func labelFor(bucket int, lowerBetter bool) int {
	if lowerBetter {
		return rfmBuckets - bucket
	}
	return bucket + 1
}

// quantileEdges returns the buckets+1 linearly interpolated quantiles of
// values, from the 0th to the 100th percentile.
func quantileEdges(values []float64, buckets int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	edges := make([]float64, buckets+1)
	for i := 0; i <= buckets; i++ {
		edges[i] = quantile(sorted, float64(i)/float64(buckets))
	}
	return edges
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// bucketByEdges places v into (e[i], e[i+1]] intervals; the lowest edge
// belongs to the first bucket.
func bucketByEdges(v float64, edges []float64) int {
	for i := 1; i < len(edges)-1; i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return len(edges) - 2
}

// rankFirst ranks values 1..n ascending, breaking ties by original
// position, mirroring a stable first-occurrence rank transform.
func rankFirst(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	ranks := make([]float64, len(values))
	for pos, i := range idx {
		ranks[i] = float64(pos + 1)
	}
	return ranks
}

func countDistinct(values []float64) int {
	seen := map[float64]struct{}{}
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// SegmentDistribution counts records per segment, ordered worst to best.
// Empty segments are omitted, matching a value-counts view.
func SegmentDistribution(records []models.RFMRecord) []models.SegmentCount {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.Segment]++
	}
	var out []models.SegmentCount
	for _, seg := range []string{models.SegmentBronze, models.SegmentSilver, models.SegmentGold, models.SegmentPlatinum} {
		if c := counts[seg]; c > 0 {
			out = append(out, models.SegmentCount{Segment: seg, Count: c})
		}
	}
	return out
}

// SegmentProfiles averages the raw R/F/M metrics per segment, ordered
// worst to best, for the segment-characteristics view.
func SegmentProfiles(records []models.RFMRecord) []models.SegmentProfile {
	type sums struct {
		n                  int
		recency, freq, mon float64
	}
	bySegment := map[string]*sums{}
	for _, r := range records {
		s := bySegment[r.Segment]
		if s == nil {
			s = &sums{}
			bySegment[r.Segment] = s
		}
		s.n++
		s.recency += float64(r.RecencyDays)
		s.freq += float64(r.Frequency)
		s.mon += r.Monetary
	}
	var out []models.SegmentProfile
	for _, seg := range []string{models.SegmentBronze, models.SegmentSilver, models.SegmentGold, models.SegmentPlatinum} {
		s, ok := bySegment[seg]
		if !ok {
			continue
		}
		out = append(out, models.SegmentProfile{
			Segment:      seg,
			Customers:    s.n,
			AvgRecency:   s.recency / float64(s.n),
			AvgFrequency: s.freq / float64(s.n),
			AvgMonetary:  s.mon / float64(s.n),
		})
	}
	return out
}
