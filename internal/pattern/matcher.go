package pattern

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExactMatcher implements StrategyExact.
type ExactMatcher struct {
	patterns []string
}

// NewExactMatcher creates an exact/boundary matcher for lowercase patterns.
func NewExactMatcher(patterns []string) *ExactMatcher {
	return &ExactMatcher{patterns: patterns}
}

// Name implements Strategy.
func (m *ExactMatcher) Name() StrategyName { return StrategyExact }

// Match implements Strategy.
func (m *ExactMatcher) Match(candidate string) bool {
	for _, p := range m.patterns {
		if candidate == p || containsBounded(candidate, p) {
			return true
		}
	}
	return false
}

// FragmentMatcher implements StrategyFragment.
type FragmentMatcher struct {
	fragments []string
}

// NewFragmentMatcher creates a substring matcher for lowercase fragments.
func NewFragmentMatcher(fragments []string) *FragmentMatcher {
	return &FragmentMatcher{fragments: fragments}
}

// Name implements Strategy.
func (m *FragmentMatcher) Name() StrategyName { return StrategyFragment }

// Match implements Strategy.
func (m *FragmentMatcher) Match(candidate string) bool {
	for _, f := range m.fragments {
		if strings.Contains(candidate, f) {
			return true
		}
	}
	return false
}

// WordMatcher implements StrategyWord with a single alternation regex.
type WordMatcher struct {
	re *regexp.Regexp
}

// NewWordMatcher compiles a case-insensitive \b(?:k1|k2|...)\b expression.
func NewWordMatcher(keywords []string) (*WordMatcher, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("word matcher needs at least one keyword")
	}
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile word pattern: %w", err)
	}
	return &WordMatcher{re: re}, nil
}

// Name implements Strategy.
func (m *WordMatcher) Name() StrategyName { return StrategyWord }

// Match implements Strategy.
func (m *WordMatcher) Match(candidate string) bool {
	return m.re.MatchString(candidate)
}

// SubstringCounter counts raw substring occurrences of each keyword.
type SubstringCounter struct {
	keywords []string
}

// NewSubstringCounter creates a counter over lowercase keywords.
func NewSubstringCounter(keywords []string) *SubstringCounter {
	return &SubstringCounter{keywords: keywords}
}

// Count implements Counter.
func (c *SubstringCounter) Count(text string) int {
	total := 0
	for _, k := range c.keywords {
		total += strings.Count(text, k)
	}
	return total
}

// WordCounter counts whole-word, case-insensitive occurrences of each keyword.
type WordCounter struct {
	patterns []*regexp.Regexp
}

// NewWordCounter compiles one \bkeyword\b expression per keyword.
func NewWordCounter(keywords []string) (*WordCounter, error) {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, k := range keywords {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("failed to compile keyword %q: %w", k, err)
		}
		patterns = append(patterns, re)
	}
	return &WordCounter{patterns: patterns}, nil
}

// Count implements Counter.
func (c *WordCounter) Count(text string) int {
	total := 0
	for _, re := range c.patterns {
		total += len(re.FindAllStringIndex(text, -1))
	}
	return total
}

// containsBounded reports whether p occurs in s with a non-alphanumeric
// character or the string edge on both sides.
func containsBounded(s, p string) bool {
	if p == "" {
		return false
	}
	for offset := 0; offset <= len(s)-len(p); {
		idx := strings.Index(s[offset:], p)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(p)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
