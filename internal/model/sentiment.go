package model

import "math"

// Bucket is the coarse three-way sentiment of a mention.
type Bucket string

// Sentiment buckets.
const (
	BucketPositive Bucket = "positive"
	BucketNeutral  Bucket = "neutral"
	BucketNegative Bucket = "negative"
)

// Buckets returns all sentiment buckets in display order.
func Buckets() []Bucket {
	return []Bucket{BucketPositive, BucketNeutral, BucketNegative}
}

// Distribution holds per-bucket counts and their share of a total.
type Distribution struct {
	Positive    int     `json:"positive"`
	Neutral     int     `json:"neutral"`
	Negative    int     `json:"negative"`
	PositivePct float64 `json:"positivePct"`
	NeutralPct  float64 `json:"neutralPct"`
	NegativePct float64 `json:"negativePct"`
}

// NewDistribution builds a distribution whose percentages are relative to total,
// rounded to one decimal. A zero total yields zero percentages.
//
// Each share is rounded on its own, so when every mention is bucketed the three
// shares sum to 100 only within 0.1, and only after rounding the sum to one decimal.
// Compare sums with Round(sum, 1), not the raw float.
func NewDistribution(positive, neutral, negative, total int) Distribution {
	return Distribution{
		Positive:    positive,
		Neutral:     neutral,
		Negative:    negative,
		PositivePct: Percentage(positive, total),
		NeutralPct:  Percentage(neutral, total),
		NegativePct: Percentage(negative, total),
	}
}

// Count returns the count recorded for bucket b.
func (d Distribution) Count(b Bucket) int {
	switch b {
	case BucketPositive:
		return d.Positive
	case BucketNeutral:
		return d.Neutral
	case BucketNegative:
		return d.Negative
	}
	return 0
}

// Sum returns the number of bucketed mentions.
func (d Distribution) Sum() int {
	return d.Positive + d.Neutral + d.Negative
}

// Percentage returns part/total*100 rounded to one decimal, or 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, 1)
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
