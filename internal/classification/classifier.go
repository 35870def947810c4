// Package classification provides rule-based classification of mentions.
package classification

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/pattern"
	"github.com/Veraticus/sentiment-pulse/internal/rules"
)

// sourceRule holds the ordered match strategies of one source type category.
type sourceRule struct {
	name       string
	strategies []pattern.Strategy
}

// countRule scores one category of a counting taxonomy.
type countRule struct {
	counter pattern.Counter
	name    string
}

// Classifier classifies mentions against a rule registry.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	logger   *slog.Logger
	sources  []sourceRule
	topics   []countRule
	emotions []countRule
	policies []countRule
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// New compiles the registry's rule sets into a Classifier.
func New(registry *rules.Registry, opts ...Option) (*Classifier, error) {
	if registry == nil {
		return nil, common.ConfigError("rule registry is required")
	}

	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = common.LoggerOrDefault(c.logger)

	for _, category := range registry.SourceTypes() {
		rule, err := compileSourceRule(category)
		if err != nil {
			return nil, err
		}
		c.sources = append(c.sources, rule)
	}

	c.topics = make([]countRule, 0, len(registry.Topics()))
	for _, category := range registry.Topics() {
		c.topics = append(c.topics, countRule{
			name:    category.Name,
			counter: pattern.NewSubstringCounter(category.Keywords),
		})
	}

	var err error
	if c.emotions, err = compileWordRules(registry.Emotions()); err != nil {
		return nil, err
	}
	if c.policies, err = compileWordRules(registry.Policies()); err != nil {
		return nil, err
	}

	return c, nil
}

// NewDefault creates a Classifier over the built-in registry.
func NewDefault(opts ...Option) (*Classifier, error) {
	registry, err := rules.Default()
	if err != nil {
		return nil, err
	}
	return New(registry, opts...)
}

func compileSourceRule(category rules.Category) (sourceRule, error) {
	rule := sourceRule{name: category.Name}
	if len(category.Keywords) > 0 {
		rule.strategies = append(rule.strategies, pattern.NewExactMatcher(category.Keywords))
	}
	if len(category.Domains) > 0 {
		rule.strategies = append(rule.strategies, pattern.NewFragmentMatcher(category.Domains))
	}
	if len(category.WordKeywords) > 0 {
		word, err := pattern.NewWordMatcher(category.WordKeywords)
		if err != nil {
			return sourceRule{}, common.ConfigError("source type %q: %v", category.Name, err)
		}
		rule.strategies = append(rule.strategies, word)
	}
	return rule, nil
}

func compileWordRules(categories []rules.Category) ([]countRule, error) {
	compiled := make([]countRule, 0, len(categories))
	for _, category := range categories {
		counter, err := pattern.NewWordCounter(category.Keywords)
		if err != nil {
			return nil, common.ConfigError("category %q: %v", category.Name, err)
		}
		compiled = append(compiled, countRule{name: category.Name, counter: counter})
	}
	return compiled, nil
}

// SourceMatch explains which category and strategy classified a source candidate.
type SourceMatch struct {
	Category string
	Strategy pattern.StrategyName // Empty when nothing matched
}

// MatchSourceType evaluates the source type rules in priority order and reports the
// first category with a successful strategy. Unmatched candidates fall back to "other".
func (c *Classifier) MatchSourceType(candidate string) SourceMatch {
	normalized := strings.ToLower(strings.TrimSpace(candidate))
	if normalized == "" {
		return SourceMatch{Category: model.SourceOther}
	}

	for _, rule := range c.sources {
		for _, strategy := range rule.strategies {
			if strategy.Match(normalized) {
				return SourceMatch{Category: rule.name, Strategy: strategy.Name()}
			}
		}
	}

	return SourceMatch{Category: model.SourceOther}
}

// ClassifySourceType returns the source type category of a platform or source label.
func (c *Classifier) ClassifySourceType(candidate string) string {
	return c.MatchSourceType(candidate).Category
}

// ClassifyTopics counts keyword substring occurrences per topic.
func (c *Classifier) ClassifyTopics(text string) model.Scores {
	return score(c.topics, text)
}

// ClassifyEmotions counts whole-word keyword occurrences per emotion.
func (c *Classifier) ClassifyEmotions(text string) model.Scores {
	return score(c.emotions, text)
}

// ClassifyPolicies counts whole-word keyword occurrences per policy.
func (c *Classifier) ClassifyPolicies(text string) model.Scores {
	return score(c.policies, text)
}

// Classify classifies one mention across every taxonomy.
func (c *Classifier) Classify(m model.Mention) model.Classification {
	result := model.Classification{
		SourceType: c.ClassifySourceType(m.SourceCandidate()),
		Topics:     c.ClassifyTopics(m.Text),
		Emotions:   c.ClassifyEmotions(m.Text),
		Policies:   c.ClassifyPolicies(m.Text),
	}

	c.logger.Debug("Classified mention",
		"id", m.ID,
		"source_type", result.SourceType,
		"topics", len(result.Topics),
		"emotions", len(result.Emotions),
		"policies", len(result.Policies))

	return result
}

func score(categories []countRule, text string) model.Scores {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lowered := strings.ToLower(text)

	var scores model.Scores
	for _, category := range categories {
		if n := category.counter.Count(lowered); n > 0 {
			scores = append(scores, model.Score{Category: category.name, Value: n})
		}
	}
	return scores
}

// String describes the classifier's loaded rule counts.
func (c *Classifier) String() string {
	return fmt.Sprintf("classifier(sources=%d topics=%d emotions=%d policies=%d)",
		len(c.sources), len(c.topics), len(c.emotions), len(c.policies))
}
