// Package rules provides the keyword rule sets used to classify mentions.
package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// CurrentVersion is the rule file format this build understands.
const CurrentVersion = 1

// Taxonomy names one independent classification dimension.
type Taxonomy string

// Supported taxonomies.
const (
	TaxonomySourceType Taxonomy = "source_types"
	TaxonomyTopic      Taxonomy = "topics"
	TaxonomyEmotion    Taxonomy = "emotions"
	TaxonomyPolicy     Taxonomy = "policies"
)

// Taxonomies returns every taxonomy in a fixed order.
func Taxonomies() []Taxonomy {
	return []Taxonomy{TaxonomySourceType, TaxonomyTopic, TaxonomyEmotion, TaxonomyPolicy}
}

// Category is a named set of lowercase patterns within one taxonomy.
type Category struct {
	Name string `yaml:"name" json:"name"`
	// Keywords match as whole words for source types and emotions/policies,
	// and as plain substrings for topics.
	Keywords []string `yaml:"keywords" json:"keywords"`
	// Domains are substring fragments such as ".news" or "twitter.com". Source types only.
	Domains []string `yaml:"domains,omitempty" json:"domains,omitempty"`
	// WordKeywords are matched with a \b...\b regex. Source types only.
	WordKeywords []string `yaml:"word_keywords,omitempty" json:"wordKeywords,omitempty"`
}

// PatternCount returns the number of patterns across all of the category's lists.
func (c Category) PatternCount() int {
	return len(c.Keywords) + len(c.Domains) + len(c.WordKeywords)
}

func (c Category) clone() Category {
	return Category{
		Name:         c.Name,
		Keywords:     append([]string(nil), c.Keywords...),
		Domains:      append([]string(nil), c.Domains...),
		WordKeywords: append([]string(nil), c.WordKeywords...),
	}
}

type ruleFile struct {
	SourceTypes []Category `yaml:"source_types"`
	Topics      []Category `yaml:"topics"`
	Emotions    []Category `yaml:"emotions"`
	Policies    []Category `yaml:"policies"`
	Version     int        `yaml:"version"`
}

// Registry is an immutable, validated collection of rule sets.
type Registry struct {
	taxonomies map[Taxonomy][]Category
	version    int
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return Parse(defaultRulesYAML)
})

// Default returns the built-in registry. It is parsed once per process.
func Default() (*Registry, error) {
	return loadDefault()
}

// Load reads and validates a registry from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	registry, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return registry, nil
}

// Parse decodes and validates a registry. Unknown fields are rejected.
func Parse(data []byte) (*Registry, error) {
	var file ruleFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, common.ConfigError("rule set is empty")
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	if file.Version != CurrentVersion {
		return nil, common.ConfigError("unsupported rule set version %d (want %d)", file.Version, CurrentVersion)
	}

	registry := &Registry{
		version: file.Version,
		taxonomies: map[Taxonomy][]Category{
			TaxonomySourceType: normalize(file.SourceTypes),
			TaxonomyTopic:      normalize(file.Topics),
			TaxonomyEmotion:    normalize(file.Emotions),
			TaxonomyPolicy:     normalize(file.Policies),
		},
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}

	return registry, nil
}

// Validate checks every taxonomy for empty or duplicate category names and empty pattern lists.
func (r *Registry) Validate() error {
	for _, taxonomy := range Taxonomies() {
		categories := r.taxonomies[taxonomy]
		if len(categories) == 0 {
			return common.ConfigError("%s: no categories defined", taxonomy)
		}

		seen := make(map[string]bool, len(categories))
		for i, category := range categories {
			if category.Name == "" {
				return common.ConfigError("%s: category at index %d has no name", taxonomy, i)
			}
			if seen[category.Name] {
				return common.ConfigError("%s: duplicate category %q", taxonomy, category.Name)
			}
			seen[category.Name] = true

			if category.PatternCount() == 0 {
				return common.ConfigError("%s: category %q has no patterns", taxonomy, category.Name)
			}
			if taxonomy != TaxonomySourceType && (len(category.Domains) > 0 || len(category.WordKeywords) > 0) {
				return common.ConfigError("%s: category %q may only define keywords", taxonomy, category.Name)
			}
			if err := checkPatterns(category); err != nil {
				return common.ConfigError("%s: category %q: %v", taxonomy, category.Name, err)
			}
		}
	}
	return nil
}

// Version returns the rule file format version.
func (r *Registry) Version() int {
	return r.version
}

// Categories returns a copy of the categories of one taxonomy in declared order.
func (r *Registry) Categories(taxonomy Taxonomy) []Category {
	categories := r.taxonomies[taxonomy]
	result := make([]Category, len(categories))
	for i, category := range categories {
		result[i] = category.clone()
	}
	return result
}

// SourceTypes returns the source type categories in priority order.
func (r *Registry) SourceTypes() []Category {
	return r.Categories(TaxonomySourceType)
}

// Topics returns the topic categories.
func (r *Registry) Topics() []Category {
	return r.Categories(TaxonomyTopic)
}

// Emotions returns the emotion categories.
func (r *Registry) Emotions() []Category {
	return r.Categories(TaxonomyEmotion)
}

// Policies returns the policy categories.
func (r *Registry) Policies() []Category {
	return r.Categories(TaxonomyPolicy)
}

// Names returns the category names of one taxonomy in declared order.
func (r *Registry) Names(taxonomy Taxonomy) []string {
	categories := r.taxonomies[taxonomy]
	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = category.Name
	}
	return names
}

func normalize(categories []Category) []Category {
	result := make([]Category, len(categories))
	for i, category := range categories {
		result[i] = Category{
			Name:         strings.TrimSpace(category.Name),
			Keywords:     lowerAll(category.Keywords),
			Domains:      lowerAll(category.Domains),
			WordKeywords: lowerAll(category.WordKeywords),
		}
	}
	return result
}

func lowerAll(patterns []string) []string {
	if len(patterns) == 0 {
		return nil
	}
	result := make([]string, len(patterns))
	for i, p := range patterns {
		result[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return result
}

func checkPatterns(category Category) error {
	for _, list := range [][]string{category.Keywords, category.Domains, category.WordKeywords} {
		for _, p := range list {
			if p == "" {
				return errors.New("empty pattern")
			}
		}
	}
	return nil
}
