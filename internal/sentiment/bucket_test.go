package sentiment

import (
	"math"
	"testing"

	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	tests := []struct {
		score     *float64
		name      string
		label     string
		want      model.Bucket
		wantValid bool
	}{
		{name: "label wins over score", label: "Negative", score: model.Float(0.9), want: model.BucketNegative, wantValid: true},
		{name: "positive label", label: "POSITIVE", want: model.BucketPositive, wantValid: true},
		{name: "neutral label", label: "neutral", score: model.Float(-0.9), want: model.BucketNeutral, wantValid: true},
		{name: "label containing bucket", label: "very positive", want: model.BucketPositive, wantValid: true},
		{name: "unknown label falls back to score", label: "mixed", score: model.Float(0.5), want: model.BucketPositive, wantValid: true},
		{name: "score above threshold", score: model.Float(0.21), want: model.BucketPositive, wantValid: true},
		{name: "score at positive threshold", score: model.Float(0.2), want: model.BucketNeutral, wantValid: true},
		{name: "score at negative threshold", score: model.Float(-0.2), want: model.BucketNeutral, wantValid: true},
		{name: "score below threshold", score: model.Float(-0.21), want: model.BucketNegative, wantValid: true},
		{name: "zero score", score: model.Float(0), want: model.BucketNeutral, wantValid: true},
		{name: "NaN score", score: model.Float(math.NaN())},
		{name: "infinite score", score: model.Float(math.Inf(-1))},
		{name: "nothing usable", label: "unknown"},
		{name: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Bucket(tt.label, tt.score)
			assert.Equal(t, tt.wantValid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBucket_ExactlyOneBucket(t *testing.T) {
	for score := -1.0; score <= 1.0; score += 0.05 {
		bucket, ok := Bucket("", model.Float(score))
		assert.True(t, ok)
		assert.Contains(t, model.Buckets(), bucket)
	}
}

func TestAverage(t *testing.T) {
	mentions := []model.Mention{
		{Score: model.Float(0.5)},
		{Score: model.Float(-0.1)},
		{Label: "positive"},
		{Score: model.Float(math.NaN())},
	}

	avg, count := Average(mentions)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 0.2, avg, 1e-9)

	avg, count = Average(nil)
	assert.Zero(t, avg)
	assert.Zero(t, count)
}

func TestDistribution(t *testing.T) {
	mentions := []model.Mention{
		{Label: "Positive"},
		{Label: "Positive"},
		{Score: model.Float(-0.8)},
		{},
	}

	d := Distribution(mentions)
	assert.Equal(t, 2, d.Positive)
	assert.Equal(t, 0, d.Neutral)
	assert.Equal(t, 1, d.Negative)
	assert.Equal(t, 50.0, d.PositivePct)
	assert.Equal(t, 25.0, d.NegativePct)
	assert.Equal(t, 3, d.Sum())

	assert.Equal(t, model.Distribution{}, Distribution(nil))
}
