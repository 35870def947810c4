// Package pattern provides the named string-matching strategies used by rule-based classifiers.
package pattern

// StrategyName identifies a match strategy.
type StrategyName string

// Match strategies, in the order a source type rule evaluates them.
const (
	// StrategyExact matches when the candidate equals a pattern, or contains it
	// bounded by non-alphanumeric characters or the ends of the string.
	StrategyExact StrategyName = "exact"
	// StrategyFragment matches when the candidate contains a pattern anywhere,
	// which suits domain fragments like ".news" or "news.".
	StrategyFragment StrategyName = "fragment"
	// StrategyWord matches a \b-delimited regular expression over a curated keyword subset.
	StrategyWord StrategyName = "word"
)

// Strategy decides whether a lowercased candidate string matches.
type Strategy interface {
	Name() StrategyName
	Match(candidate string) bool
}

// Counter counts pattern occurrences in a lowercased text.
type Counter interface {
	Count(text string) int
}
