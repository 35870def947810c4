// Package model defines the core data structures for the sentiment-pulse application.
package model

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"
	"time"
)

// Mention represents a single observed occurrence of the monitored subject:
// a social post, an article, or a broadcast segment.
type Mention struct {
	Timestamp time.Time `json:"timestamp"`
	Score     *float64  `json:"sentimentScore,omitempty"` // Approximately [-1, 1]; nil when unscored
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Platform  string    `json:"platform"`
	Source    string    `json:"source,omitempty"` // Outlet or domain; falls back to Platform
	Country   string    `json:"country"`
	Label     string    `json:"sentiment,omitempty"` // Upstream sentiment label, e.g. "Positive"
	Likes     int       `json:"likes,omitempty"`
	Shares    int       `json:"shares,omitempty"`
	Comments  int       `json:"comments,omitempty"`
}

// HasScore reports whether the mention carries a finite numeric sentiment score.
func (m Mention) HasScore() bool {
	return m.Score != nil && !math.IsNaN(*m.Score) && !math.IsInf(*m.Score, 0)
}

// Engagement returns likes + shares + comments, with each counter floored at zero.
func (m Mention) Engagement() int {
	return nonNegative(m.Likes) + nonNegative(m.Shares) + nonNegative(m.Comments)
}

// SourceCandidate returns the field used for source type classification.
func (m Mention) SourceCandidate() string {
	if strings.TrimSpace(m.Source) != "" {
		return m.Source
	}
	return m.Platform
}

// Key returns the identity used to match a mention across snapshots.
// Mentions without an identifier are keyed by their content hash.
func (m Mention) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.GenerateHash()
}

// GenerateHash creates a content hash for mentions lacking an identifier.
func (m Mention) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		m.Timestamp.UTC().Format(time.RFC3339),
		m.Platform,
		m.Country,
		m.Text)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Float returns a pointer to v, for building mentions with a score.
func Float(v float64) *float64 {
	return &v
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
