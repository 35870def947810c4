package model

// OtherGroupKey is the key of the synthetic group collecting collapsed rows.
const OtherGroupKey = "Other"

// UnknownGroupKey is used for mentions whose grouping field is empty.
const UnknownGroupKey = "Unknown"

// AggregateRow holds the tallies of one group of mentions.
type AggregateRow struct {
	SourceTypes map[string]int `json:"sourceTypes,omitempty"`
	Topics      map[string]int `json:"topics,omitempty"`
	Emotions    map[string]int `json:"emotions,omitempty"`
	Policies    map[string]int `json:"policies,omitempty"`
	Key         string         `json:"key"`
	Distribution
	Total            int     `json:"total"`
	SentimentCount   int     `json:"sentimentCount"` // Mentions with a valid sentiment bucket
	ScoredCount      int     `json:"scoredCount"`    // Mentions with a finite numeric score
	AverageSentiment float64 `json:"averageSentiment"`
	Engagement       int     `json:"engagement"`
	IsOther          bool    `json:"isOther,omitempty"`
}
