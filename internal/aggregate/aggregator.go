// Package aggregate groups classified mentions and tallies them per group.
package aggregate

import (
	"log/slog"
	"sort"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/sentiment"
)

// Classifier classifies a single mention.
type Classifier interface {
	Classify(m model.Mention) model.Classification
}

// Options controls filtering and collapsing of groups.
// Zero values disable the corresponding step.
type Options struct {
	OtherLabel string // Key of the collapsed group; defaults to "Other"
	MinCount   int    // Groups with fewer mentions are dropped
	TopN       int    // Groups beyond the N largest are merged into one
}

// Aggregator classifies mentions and groups them.
type Aggregator struct {
	classifier Classifier
	logger     *slog.Logger
}

// New creates an aggregator. A nil logger uses the global logger.
func New(classifier Classifier, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		classifier: classifier,
		logger:     common.LoggerOrDefault(logger),
	}
}

// Classify classifies and buckets every mention, preserving order.
func (a *Aggregator) Classify(records []model.Mention) []model.ClassifiedMention {
	return ClassifyAll(a.classifier, records)
}

// By classifies records and aggregates them by key.
func (a *Aggregator) By(records []model.Mention, key KeyFunc, opts Options) []model.AggregateRow {
	rows := Group(a.Classify(records), key, opts)
	a.logger.Debug("Aggregated mentions",
		"records", len(records),
		"groups", len(rows),
		"min_count", opts.MinCount,
		"top_n", opts.TopN)
	return rows
}

// ClassifyAll classifies and buckets every mention, preserving order.
func ClassifyAll(classifier Classifier, records []model.Mention) []model.ClassifiedMention {
	classified := make([]model.ClassifiedMention, len(records))
	for i, m := range records {
		bucket, ok := sentiment.BucketMention(m)
		classified[i] = model.ClassifiedMention{
			Mention:        m,
			Classification: classifier.Classify(m),
			Bucket:         bucket,
			HasBucket:      ok,
		}
	}
	return classified
}

// Group tallies classified mentions per key, then applies the min-count filter and
// top-N collapsing. Rows are ordered by total descending, ties in first-seen order,
// with the collapsed group last.
func Group(classified []model.ClassifiedMention, key KeyFunc, opts Options) []model.AggregateRow {
	index := make(map[string]*tally)
	var groups []*tally

	for _, cm := range classified {
		k := key(cm)
		t, ok := index[k]
		if !ok {
			t = newTally(k)
			index[k] = t
			groups = append(groups, t)
		}
		t.add(cm)
	}

	if opts.MinCount > 0 {
		kept := groups[:0]
		for _, t := range groups {
			if t.total >= opts.MinCount {
				kept = append(kept, t)
			}
		}
		groups = kept
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].total > groups[j].total
	})

	var other *tally
	if opts.TopN > 0 && len(groups) > opts.TopN {
		label := opts.OtherLabel
		if label == "" {
			label = model.OtherGroupKey
		}
		other = newTally(label)
		for _, t := range groups[opts.TopN:] {
			other.merge(t)
		}
		// A real group that shares the label folds into the collapsed row.
		kept := groups[:0]
		for _, t := range groups[:opts.TopN] {
			if t.key == label {
				other.merge(t)
				continue
			}
			kept = append(kept, t)
		}
		groups = kept
	}

	rows := make([]model.AggregateRow, 0, len(groups)+1)
	for _, t := range groups {
		rows = append(rows, t.row())
	}
	if other != nil {
		row := other.row()
		row.IsOther = true
		rows = append(rows, row)
	}
	return rows
}
