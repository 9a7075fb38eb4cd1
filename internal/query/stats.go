package query

import "math"

// AggregateStats carries the kind-specific derived numbers of a report.
type AggregateStats map[string]any

// Rate returns num/den as a percentage, rounded half-up to one decimal.
// A zero or negative denominator yields 0, never NaN.
func Rate(num, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return math.Floor(float64(num)/float64(den)*1000+0.5) / 10
}

// Round1 rounds half-up to one decimal. Averages share the same rounding
// policy as percentages.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// Segment is one disjoint sub-population count.
type Segment struct {
	Name  string
	Count int64
}

// ReconcileSegments returns the denominator to use for segment percentages:
// always the union of the segments. When a concurrent write makes the
// independently fetched total disagree with the union, the union still wins,
// so percentages always describe the numbers actually shown; consistent is
// false in that case so the caller can log the drift.
func ReconcileSegments(segments []Segment, independentTotal int64) (total int64, consistent bool) {
	var sum int64
	for _, s := range segments {
		sum += s.Count
	}
	return sum, sum == independentTotal
}
