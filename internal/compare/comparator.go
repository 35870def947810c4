// Package compare computes differences between an old and a new mention snapshot.
package compare

import (
	"log/slog"
	"sort"

	"github.com/Veraticus/sentiment-pulse/internal/aggregate"
	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/sentiment"
)

// TrendThreshold is the average sentiment change beyond which a trend is reported.
const TrendThreshold = 0.05

// DefaultNewEntriesLimit caps the new entries list when Options leaves it unset.
const DefaultNewEntriesLimit = 100

// Grouper aggregates mentions by key.
type Grouper interface {
	By(records []model.Mention, key aggregate.KeyFunc, opts aggregate.Options) []model.AggregateRow
}

// Options tunes a comparison.
type Options struct {
	NewEntriesLimit int // Defaults to DefaultNewEntriesLimit; negative means unlimited
	TopN            int // Caps platform and country rows; zero keeps all
}

// Comparator compares snapshots.
type Comparator struct {
	grouper Grouper
	logger  *slog.Logger
	opts    Options
}

// New creates a comparator. A nil logger uses the global logger.
func New(grouper Grouper, opts Options, logger *slog.Logger) *Comparator {
	if opts.NewEntriesLimit == 0 {
		opts.NewEntriesLimit = DefaultNewEntriesLimit
	}
	return &Comparator{
		grouper: grouper,
		opts:    opts,
		logger:  common.LoggerOrDefault(logger),
	}
}

// Compare derives every comparison section from the two snapshots.
func (c *Comparator) Compare(oldRecords, newRecords []model.Mention) model.ComparisonResult {
	result := model.ComparisonResult{
		DatasetInfo: DatasetInfo(len(oldRecords), len(newRecords)),
		SentimentDistribution: model.SentimentDistribution{
			Old: sentiment.Distribution(oldRecords),
			New: sentiment.Distribution(newRecords),
		},
		SentimentComparison: CompareSentiment(oldRecords, newRecords),
		PlatformComparison:  c.compareDimension(oldRecords, newRecords, aggregate.ByPlatform),
		CountryComparison:   c.compareDimension(oldRecords, newRecords, aggregate.ByCountry),
		NewEntries:          NewEntries(oldRecords, newRecords, c.opts.NewEntriesLimit),
	}

	c.logger.Debug("Compared snapshots",
		"old", len(oldRecords),
		"new", len(newRecords),
		"trend", result.SentimentComparison.Trend,
		"new_entries", len(result.NewEntries))

	return result
}

// DatasetInfo compares snapshot sizes.
func DatasetInfo(oldCount, newCount int) model.DatasetInfo {
	difference := newCount - oldCount
	return model.DatasetInfo{
		OldCount:        oldCount,
		NewCount:        newCount,
		CountDifference: difference,
		PercentChange:   model.PercentChange(difference, oldCount),
	}
}

// CompareSentiment compares the average finite score of both snapshots.
func CompareSentiment(oldRecords, newRecords []model.Mention) model.SentimentComparison {
	oldAverage, _ := sentiment.Average(oldRecords)
	newAverage, _ := sentiment.Average(newRecords)
	difference := newAverage - oldAverage

	return model.SentimentComparison{
		OldAverage: oldAverage,
		NewAverage: newAverage,
		Difference: difference,
		Trend:      TrendOf(difference),
	}
}

// TrendOf labels an average sentiment difference.
func TrendOf(difference float64) model.Trend {
	switch {
	case difference > TrendThreshold:
		return model.TrendImproved
	case difference < -TrendThreshold:
		return model.TrendDeclined
	default:
		return model.TrendStable
	}
}

// NewEntries returns the mentions of newRecords whose identity does not occur in
// oldRecords, in their original order, capped at limit (negative for no cap).
func NewEntries(oldRecords, newRecords []model.Mention, limit int) []model.Mention {
	seen := make(map[string]struct{}, len(oldRecords))
	for _, m := range oldRecords {
		seen[m.Key()] = struct{}{}
	}

	entries := []model.Mention{}
	for _, m := range newRecords {
		if limit >= 0 && len(entries) >= limit {
			break
		}
		if _, ok := seen[m.Key()]; !ok {
			entries = append(entries, m)
		}
	}
	return entries
}

func (c *Comparator) compareDimension(oldRecords, newRecords []model.Mention, key aggregate.KeyFunc) []model.DimensionRow {
	oldRows := c.grouper.By(oldRecords, key, aggregate.Options{})
	newRows := c.grouper.By(newRecords, key, aggregate.Options{})
	rows := JoinRows(oldRows, newRows)
	if c.opts.TopN > 0 && len(rows) > c.opts.TopN {
		rows = rows[:c.opts.TopN]
	}
	return rows
}

// JoinRows joins two aggregations on their key. A key missing from one side counts
// as zero there. Rows are ordered by new count, then old count, both descending.
func JoinRows(oldRows, newRows []model.AggregateRow) []model.DimensionRow {
	index := make(map[string]int)
	var rows []model.DimensionRow

	get := func(key string) *model.DimensionRow {
		if i, ok := index[key]; ok {
			return &rows[i]
		}
		index[key] = len(rows)
		rows = append(rows, model.DimensionRow{Key: key})
		return &rows[len(rows)-1]
	}

	for _, r := range oldRows {
		get(r.Key).OldCount += r.Total
	}
	for _, r := range newRows {
		get(r.Key).NewCount += r.Total
	}

	for i := range rows {
		rows[i].Difference = rows[i].NewCount - rows[i].OldCount
		rows[i].PercentChange = model.PercentChange(rows[i].Difference, rows[i].OldCount)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].NewCount != rows[j].NewCount {
			return rows[i].NewCount > rows[j].NewCount
		}
		return rows[i].OldCount > rows[j].OldCount
	})

	if rows == nil {
		return []model.DimensionRow{}
	}
	return rows
}
