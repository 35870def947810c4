package aggregate

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/Veraticus/sentiment-pulse/internal/classification"
	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/testutil/mentions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	c, err := classification.NewDefault()
	require.NoError(t, err)
	return New(c, nil)
}

// percentSum adds the bucket shares and rounds to one decimal like the shares themselves.
func percentSum(row model.AggregateRow) float64 {
	return model.Round(row.PositivePct+row.NeutralPct+row.NegativePct, 1)
}

func TestAggregator_DashboardScenario(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.DashboardScenario(t)

	rows := agg.By(records, ByCountry, Options{})

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"France", "Germany", "Japan"}, []string{rows[0].Key, rows[1].Key, rows[2].Key})
	assert.Equal(t, []int{34, 33, 33}, []int{rows[0].Total, rows[1].Total, rows[2].Total})

	total := 0
	for _, row := range rows {
		total += row.Total
		assert.Equal(t, row.Total, row.Positive+row.Neutral+row.Negative, row.Key)
		assert.Equal(t, row.Total, row.SentimentCount, row.Key)
		assert.InDelta(t, 100.0, percentSum(row), 0.1, row.Key)
		assert.Zero(t, row.Neutral)
	}
	assert.Equal(t, 100, total)
}

func TestAggregator_TopNCollapsing(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.DistinctPlatforms(t, 25)

	rows := agg.By(records, ByPlatform, Options{TopN: 20})

	require.Len(t, rows, 21)
	for _, row := range rows[:20] {
		assert.Equal(t, 1, row.Total)
		assert.False(t, row.IsOther)
	}
	other := rows[20]
	assert.Equal(t, model.OtherGroupKey, other.Key)
	assert.True(t, other.IsOther)
	assert.Equal(t, 5, other.Total)
	assert.Equal(t, 5, other.Neutral)
	assert.Equal(t, 100.0, other.NeutralPct)
}

func TestAggregator_TopNNotExceeded(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.DistinctPlatforms(t, 5)

	rows := agg.By(records, ByPlatform, Options{TopN: 5, OtherLabel: "Rest"})

	assert.Len(t, rows, 5)
	for _, row := range rows {
		assert.False(t, row.IsOther)
	}
}

func TestAggregator_OtherRecomputedFromRawCounts(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.NewBuilder(t).
		WithLabeled(3, "positive", "A", "p").
		WithLabeled(1, "positive", "B", "p").
		WithLabeled(1, "negative", "B", "p").
		WithLabeled(1, "negative", "C", "p").
		Build()

	rows := agg.By(records, ByCountry, Options{TopN: 1, OtherLabel: "Rest"})

	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Key)
	other := rows[1]
	assert.Equal(t, "Rest", other.Key)
	assert.Equal(t, 3, other.Total)
	assert.Equal(t, 1, other.Positive)
	assert.Equal(t, 2, other.Negative)
	// Averaging the rounded group shares (50/50 and 0/100) would give 25/75.
	assert.Equal(t, 33.3, other.PositivePct)
	assert.Equal(t, 66.7, other.NegativePct)
}

func TestAggregator_GroupNamedLikeOther(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.NewBuilder(t).
		WithLabeled(5, "positive", "France", "Twitter").
		WithLabeled(4, "negative", "Other", "Twitter").
		WithLabeled(1, "neutral", "Spain", "Twitter").
		WithLabeled(1, "neutral", "Italy", "Twitter").
		Build()

	rows := agg.By(records, ByCountry, Options{TopN: 2})

	require.Len(t, rows, 2)
	assert.Equal(t, "France", rows[0].Key)
	other := rows[1]
	assert.Equal(t, model.OtherGroupKey, other.Key)
	assert.True(t, other.IsOther)
	assert.Equal(t, 6, other.Total)
	assert.Equal(t, 4, other.Negative)
	assert.Equal(t, 2, other.Neutral)

	rows = agg.By(records, ByCountry, Options{})
	require.Len(t, rows, 4)
	assert.Equal(t, "Other", rows[1].Key)
	assert.False(t, rows[1].IsOther, "without collapsing the group keeps its own row")
}

func TestAggregator_MinCount(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.NewBuilder(t).
		WithLabeled(6, "positive", "France", "Twitter").
		WithLabeled(2, "negative", "Spain", "Twitter").
		WithLabeled(5, "neutral", "Italy", "Twitter").
		Build()

	rows := agg.By(records, ByCountry, Options{MinCount: 5})

	require.Len(t, rows, 2)
	assert.Equal(t, "France", rows[0].Key)
	assert.Equal(t, "Italy", rows[1].Key)
}

func TestAggregator_MinCountBeforeTopN(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.NewBuilder(t).
		WithLabeled(6, "positive", "France", "Twitter").
		WithLabeled(5, "positive", "Italy", "Twitter").
		WithLabeled(5, "positive", "Spain", "Twitter").
		WithLabeled(1, "positive", "Malta", "Twitter").
		Build()

	rows := agg.By(records, ByCountry, Options{MinCount: 5, TopN: 2})

	require.Len(t, rows, 3)
	assert.Equal(t, "Other", rows[2].Key)
	assert.Equal(t, 5, rows[2].Total, "groups below the minimum are dropped, not collapsed")
}

func TestAggregator_SentimentAndEngagement(t *testing.T) {
	agg := newTestAggregator(t)
	records := []model.Mention{
		{ID: "1", Country: "France", Score: model.Float(0.5), Likes: 10, Shares: 2, Comments: 1},
		{ID: "2", Country: "France", Score: model.Float(-0.1), Likes: 3},
		{ID: "3", Country: "France", Shares: 4, Comments: -2},
		{ID: "4", Country: "France", Label: "Negative", Score: model.Float(math.NaN())},
	}

	rows := agg.By(records, ByCountry, Options{})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 4, row.Total)
	assert.Equal(t, 3, row.SentimentCount)
	assert.Equal(t, 2, row.ScoredCount)
	assert.InDelta(t, 0.2, row.AverageSentiment, 1e-9)
	assert.Equal(t, 20, row.Engagement)
	assert.Equal(t, 1, row.Positive)
	assert.Equal(t, 1, row.Neutral)
	assert.Equal(t, 1, row.Negative)
	assert.Equal(t, 25.0, row.PositivePct)
}

func TestAggregator_NoScoresAverageZero(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.NewBuilder(t).WithLabeled(2, "positive", "France", "Twitter").Build()

	rows := agg.By(records, ByCountry, Options{})

	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].AverageSentiment)
	assert.Zero(t, rows[0].ScoredCount)
	assert.False(t, math.IsNaN(rows[0].AverageSentiment))
}

func TestAggregator_TaxonomyCounts(t *testing.T) {
	agg := newTestAggregator(t)
	records := mentions.NewBuilder(t).
		WithText("Frustrated and angry about the hospital budget", -0.6, "Twitter").
		WithText("Proud of the school and the university", 0.7, "BBC News").
		WithText("", 0, "Channel 4").
		Build()

	rows := agg.By(records, func(model.ClassifiedMention) string { return "all" }, Options{})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, map[string]int{"social-media": 1, "news": 1, "tv": 1}, row.SourceTypes)
	assert.Equal(t, map[string]int{"healthcare": 1, "economy": 1, "education": 1}, row.Topics)
	assert.Equal(t, map[string]int{"frustration": 1, "confidence": 1}, row.Emotions)
	assert.Nil(t, row.Policies)
}

func TestAggregator_EmptyInput(t *testing.T) {
	agg := newTestAggregator(t)

	assert.Empty(t, agg.By(nil, ByCountry, Options{TopN: 10, MinCount: 5}))
}

func TestGroup_CountsAndOrdering(t *testing.T) {
	agg := newTestAggregator(t)
	rng := rand.New(rand.NewSource(42))
	labels := []string{"Positive", "Negative", "Neutral", ""}
	countries := []string{"France", "Germany", "Japan", "Brazil", "Kenya", "Chile", "Peru"}

	b := mentions.NewBuilder(t)
	for i := 0; i < 500; i++ {
		b.With(model.Mention{
			Country: countries[rng.Intn(len(countries))],
			Label:   labels[rng.Intn(len(labels))],
			Score:   model.Float(rng.Float64()*2 - 1),
		})
	}
	records := b.Build()

	for _, opts := range []Options{{}, {TopN: 3}, {MinCount: 60, TopN: 2}} {
		rows := agg.By(records, ByCountry, opts)
		for _, row := range rows {
			assert.Equal(t, row.Total, row.Positive+row.Neutral+row.Negative, row.Key)
			assert.LessOrEqual(t, math.Abs(percentSum(row)-100), 0.1+1e-9, row.Key)
		}
		for i := 1; i < len(rows); i++ {
			if !rows[i].IsOther {
				assert.GreaterOrEqual(t, rows[i-1].Total, rows[i].Total)
			}
		}
	}
}

func TestKeyFunctions(t *testing.T) {
	cm := model.ClassifiedMention{
		Mention: model.Mention{
			Country:   "  ",
			Platform:  "Twitter",
			Timestamp: time.Date(2026, 3, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)),
		},
		Classification: model.Classification{
			SourceType: model.SourceSocialMedia,
			Emotions:   model.Scores{{Category: "trust", Value: 1}, {Category: "concern", Value: 2}},
		},
	}

	assert.Equal(t, model.UnknownGroupKey, ByCountry(cm))
	assert.Equal(t, "Twitter", ByPlatform(cm))
	assert.Equal(t, model.SourceSocialMedia, BySourceType(cm))
	assert.Equal(t, "2026-03-02", ByDay(cm))
	assert.Equal(t, model.UnknownGroupKey, ByDominantTopic(cm))
	assert.Equal(t, "concern", ByDominantEmotion(cm))
	assert.Equal(t, model.UnknownGroupKey, ByDay(model.ClassifiedMention{}))
}

func TestKeyFor(t *testing.T) {
	for _, d := range Dimensions() {
		fn, err := KeyFor(d)
		require.NoError(t, err, d)
		assert.NotNil(t, fn)
	}

	_, err := KeyFor("Country")
	assert.NoError(t, err)

	_, err = KeyFor("galaxy")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
