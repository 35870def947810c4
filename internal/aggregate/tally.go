package aggregate

import (
	"github.com/Veraticus/sentiment-pulse/internal/model"
)

// tally holds the raw counts of one group. Percentages and averages are derived
// only when a row is produced, so merged groups never average rounded values.
type tally struct {
	sourceTypes map[string]int
	topics      map[string]int
	emotions    map[string]int
	policies    map[string]int
	buckets     map[model.Bucket]int
	key         string
	total       int
	scoreSum    float64
	scored      int
	engagement  int
}

func newTally(key string) *tally {
	return &tally{
		key:         key,
		sourceTypes: make(map[string]int),
		topics:      make(map[string]int),
		emotions:    make(map[string]int),
		policies:    make(map[string]int),
		buckets:     make(map[model.Bucket]int, 3),
	}
}

func (t *tally) add(cm model.ClassifiedMention) {
	t.total++
	t.engagement += cm.Mention.Engagement()

	if cm.HasBucket {
		t.buckets[cm.Bucket]++
	}
	if cm.Mention.HasScore() {
		t.scoreSum += *cm.Mention.Score
		t.scored++
	}

	c := cm.Classification
	if c.SourceType != "" {
		t.sourceTypes[c.SourceType]++
	}
	for _, topic := range c.Topics {
		t.topics[topic.Category]++
	}
	if emotion, ok := c.DominantEmotion(); ok {
		t.emotions[emotion.Category]++
	}
	for _, policy := range c.Policies {
		t.policies[policy.Category]++
	}
}

func (t *tally) merge(o *tally) {
	t.total += o.total
	t.scoreSum += o.scoreSum
	t.scored += o.scored
	t.engagement += o.engagement
	mergeCounts(t.sourceTypes, o.sourceTypes)
	mergeCounts(t.topics, o.topics)
	mergeCounts(t.emotions, o.emotions)
	mergeCounts(t.policies, o.policies)
	for bucket, n := range o.buckets {
		t.buckets[bucket] += n
	}
}

func (t *tally) row() model.AggregateRow {
	distribution := model.NewDistribution(
		t.buckets[model.BucketPositive],
		t.buckets[model.BucketNeutral],
		t.buckets[model.BucketNegative],
		t.total,
	)

	average := 0.0
	if t.scored > 0 {
		average = t.scoreSum / float64(t.scored)
	}

	return model.AggregateRow{
		Key:              t.key,
		Total:            t.total,
		Distribution:     distribution,
		SentimentCount:   distribution.Sum(),
		ScoredCount:      t.scored,
		AverageSentiment: average,
		Engagement:       t.engagement,
		SourceTypes:      copyCounts(t.sourceTypes),
		Topics:           copyCounts(t.topics),
		Emotions:         copyCounts(t.emotions),
		Policies:         copyCounts(t.policies),
	}
}

func mergeCounts(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}

func copyCounts(src map[string]int) map[string]int {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
