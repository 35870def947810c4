// Package sentiment maps sentiment labels and scores onto coarse buckets.
package sentiment

import (
	"math"
	"strings"

	"github.com/Veraticus/sentiment-pulse/internal/model"
)

// Score thresholds separating the buckets.
const (
	PositiveThreshold = 0.2
	NegativeThreshold = -0.2
)

// Bucket classifies a mention's sentiment. A label naming a bucket takes
// precedence over the score; otherwise a finite score is thresholded.
// It returns false when neither a usable label nor a finite score is present.
func Bucket(label string, score *float64) (model.Bucket, bool) {
	if bucket, ok := fromLabel(label); ok {
		return bucket, true
	}

	if score == nil || math.IsNaN(*score) || math.IsInf(*score, 0) {
		return "", false
	}

	switch {
	case *score > PositiveThreshold:
		return model.BucketPositive, true
	case *score < NegativeThreshold:
		return model.BucketNegative, true
	default:
		return model.BucketNeutral, true
	}
}

// BucketMention applies Bucket to a mention's label and score.
func BucketMention(m model.Mention) (model.Bucket, bool) {
	return Bucket(m.Label, m.Score)
}

func fromLabel(label string) (model.Bucket, bool) {
	lowered := strings.ToLower(label)
	switch {
	case strings.Contains(lowered, "positive"):
		return model.BucketPositive, true
	case strings.Contains(lowered, "negative"):
		return model.BucketNegative, true
	case strings.Contains(lowered, "neutral"):
		return model.BucketNeutral, true
	}
	return "", false
}

// Average returns the mean of the finite scores among mentions and how many contributed.
func Average(mentions []model.Mention) (float64, int) {
	sum := 0.0
	count := 0
	for _, m := range mentions {
		if m.HasScore() {
			sum += *m.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// Distribution tallies the sentiment buckets of mentions. Percentages are
// relative to len(mentions), so unbucketed mentions lower every share.
func Distribution(mentions []model.Mention) model.Distribution {
	counts := make(map[model.Bucket]int, 3)
	for _, m := range mentions {
		if bucket, ok := BucketMention(m); ok {
			counts[bucket]++
		}
	}
	return model.NewDistribution(
		counts[model.BucketPositive],
		counts[model.BucketNeutral],
		counts[model.BucketNegative],
		len(mentions),
	)
}
