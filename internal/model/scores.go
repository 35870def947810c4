package model

import (
	"fmt"
)

// Score is the match count of a single category within one taxonomy.
type Score struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

// Scores holds the non-zero category scores of one taxonomy in rule set order.
type Scores []Score

// Get returns the score of the named category, or 0 if it did not match.
func (s Scores) Get(category string) int {
	for _, score := range s {
		if score.Category == category {
			return score.Value
		}
	}
	return 0
}

// Dominant returns the highest-scoring category.
// Ties go to the category declared first in the rule set.
func (s Scores) Dominant() (Score, bool) {
	if len(s) == 0 {
		return Score{}, false
	}
	best := s[0]
	for _, score := range s[1:] {
		if score.Value > best.Value {
			best = score
		}
	}
	return best, true
}

// Total returns the sum of all scores.
func (s Scores) Total() int {
	total := 0
	for _, score := range s {
		total += score.Value
	}
	return total
}

// Map returns the scores keyed by category name.
func (s Scores) Map() map[string]int {
	result := make(map[string]int, len(s))
	for _, score := range s {
		result[score.Category] = score.Value
	}
	return result
}

// Validate ensures every score is positive and no category repeats.
func (s Scores) Validate() error {
	seen := make(map[string]bool, len(s))
	for i, score := range s {
		if score.Category == "" {
			return fmt.Errorf("score at index %d: category name is required", i)
		}
		if score.Value <= 0 {
			return fmt.Errorf("score at index %d: value must be positive, got %d", i, score.Value)
		}
		if seen[score.Category] {
			return fmt.Errorf("duplicate category %q in scores", score.Category)
		}
		seen[score.Category] = true
	}
	return nil
}
