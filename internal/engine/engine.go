// Package engine runs the mention analysis pipeline: classification, aggregation,
// snapshot comparison, and alert detection.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Veraticus/sentiment-pulse/internal/aggregate"
	"github.com/Veraticus/sentiment-pulse/internal/alert"
	"github.com/Veraticus/sentiment-pulse/internal/classification"
	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/compare"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/rules"
	"github.com/Veraticus/sentiment-pulse/internal/sentiment"
	"golang.org/x/sync/errgroup"
)

// Config holds the tunables of the engine.
type Config struct {
	Aggregate aggregate.Options
	Compare   compare.Options
	Alerts    alert.Options
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Aggregate: aggregate.Options{MinCount: 5, TopN: 10},
		Compare:   compare.Options{TopN: 20, NewEntriesLimit: compare.DefaultNewEntriesLimit},
		Alerts:    alert.Options{Limit: alert.DefaultLimit},
	}
}

// Engine orchestrates the analysis of mention snapshots.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	registry   *rules.Registry
	classifier *classification.Classifier
	aggregator *aggregate.Aggregator
	comparator *compare.Comparator
	detector   *alert.Detector
	logger     *slog.Logger
	config     Config
}

// New creates an engine with the default configuration.
func New(registry *rules.Registry, logger *slog.Logger) (*Engine, error) {
	return NewWithConfig(registry, DefaultConfig(), logger)
}

// NewWithConfig creates an engine. A nil registry uses the built-in rule set.
func NewWithConfig(registry *rules.Registry, config Config, logger *slog.Logger) (*Engine, error) {
	logger = common.LoggerOrDefault(logger)

	if registry == nil {
		var err error
		if registry, err = rules.Default(); err != nil {
			return nil, fmt.Errorf("failed to load default rules: %w", err)
		}
	}

	classifier, err := classification.New(registry, classification.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	aggregator := aggregate.New(classifier, logger)
	return &Engine{
		registry:   registry,
		classifier: classifier,
		aggregator: aggregator,
		comparator: compare.New(aggregator, config.Compare, logger),
		detector:   alert.New(classifier, config.Alerts, logger),
		logger:     logger,
		config:     config,
	}, nil
}

// Registry returns the rule set the engine classifies with.
func (e *Engine) Registry() *rules.Registry {
	return e.registry
}

// Classifier returns the engine's classifier.
func (e *Engine) Classifier() *classification.Classifier {
	return e.classifier
}

// Overview summarizes a single snapshot.
type Overview struct {
	ByCountry        []model.AggregateRow `json:"byCountry"`
	ByPlatform       []model.AggregateRow `json:"byPlatform"`
	BySourceType     []model.AggregateRow `json:"bySourceType"`
	ByDay            []model.AggregateRow `json:"byDay"`
	Alerts           []model.Alert        `json:"alerts"`
	Sentiment        model.Distribution   `json:"sentiment"`
	Total            int                  `json:"total"`
	AverageSentiment float64              `json:"averageSentiment"`
}

// Overview classifies records once and aggregates them along every standard dimension.
// Daily rows are neither filtered nor collapsed and are ordered by date.
func (e *Engine) Overview(ctx context.Context, records []model.Mention) (*Overview, error) {
	classified := aggregate.ClassifyAll(e.classifier, records)
	average, _ := sentiment.Average(records)

	overview := &Overview{
		Total:            len(records),
		Sentiment:        sentiment.Distribution(records),
		AverageSentiment: average,
	}

	g, gctx := errgroup.WithContext(ctx)
	group := func(dst *[]model.AggregateRow, key aggregate.KeyFunc, opts aggregate.Options) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			*dst = aggregate.Group(classified, key, opts)
			return nil
		})
	}

	group(&overview.ByCountry, aggregate.ByCountry, e.config.Aggregate)
	group(&overview.ByPlatform, aggregate.ByPlatform, e.config.Aggregate)
	group(&overview.BySourceType, aggregate.BySourceType, aggregate.Options{})
	group(&overview.ByDay, aggregate.ByDay, aggregate.Options{})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		overview.Alerts = e.detector.Detect(records)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build overview: %w", err)
	}

	sort.SliceStable(overview.ByDay, func(i, j int) bool {
		return overview.ByDay[i].Key < overview.ByDay[j].Key
	})

	e.logger.Info("Built overview",
		"mentions", overview.Total,
		"countries", len(overview.ByCountry),
		"platforms", len(overview.ByPlatform),
		"alerts", len(overview.Alerts))

	return overview, nil
}

// Dashboard is the comparison payload for an old and a new snapshot,
// plus the alerts raised by the new one.
type Dashboard struct {
	model.ComparisonResult
	Alerts []model.Alert `json:"alerts"`
}

// Dashboard compares two snapshots and scans the new one for alerts.
func (e *Engine) Dashboard(ctx context.Context, oldRecords, newRecords []model.Mention) (*Dashboard, error) {
	var dashboard Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		dashboard.ComparisonResult = e.comparator.Compare(oldRecords, newRecords)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		dashboard.Alerts = e.detector.Detect(newRecords)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	e.logger.Info("Built dashboard",
		"old", len(oldRecords),
		"new", len(newRecords),
		"trend", dashboard.SentimentComparison.Trend,
		"alerts", len(dashboard.Alerts))

	return &dashboard, nil
}

// Aggregate groups records along a named dimension using the configured options.
// Day rows are ordered by date and never collapsed.
func (e *Engine) Aggregate(records []model.Mention, dimension aggregate.Dimension) ([]model.AggregateRow, error) {
	key, err := aggregate.KeyFor(dimension)
	if err != nil {
		return nil, err
	}

	if aggregate.Dimension(strings.ToLower(string(dimension))) == aggregate.DimensionDay {
		rows := e.aggregator.By(records, key, aggregate.Options{})
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
		return rows, nil
	}
	return e.aggregator.By(records, key, e.config.Aggregate), nil
}

// Alerts scans records for alert conditions.
func (e *Engine) Alerts(records []model.Mention) []model.Alert {
	return e.detector.Detect(records)
}
