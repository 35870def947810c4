// Package mentions provides a fluent builder for mention test data.
//
// Example usage:
//
//	records := mentions.NewBuilder(t).
//		WithLabeled(6, "positive", "France", "Twitter").
//		WithLabeled(4, "negative", "Spain", "BBC News").
//		Build()
package mentions

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/sentiment-pulse/internal/model"
)

// BaseTime is the timestamp of the first generated mention.
var BaseTime = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

// Builder accumulates mentions with unique, sequential identifiers.
type Builder struct {
	t        *testing.T
	prefix   string
	mentions []model.Mention
	next     int
}

// NewBuilder creates a builder whose identifiers start with "m".
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, prefix: "m"}
}

// WithPrefix changes the identifier prefix for subsequently added mentions.
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// With adds a mention, filling in an identifier and timestamp when missing.
func (b *Builder) With(m model.Mention) *Builder {
	b.next++
	if m.ID == "" {
		m.ID = fmt.Sprintf("%s%d", b.prefix, b.next)
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = BaseTime.Add(time.Duration(b.next) * time.Minute)
	}
	b.mentions = append(b.mentions, m)
	return b
}

// WithLabeled adds n mentions carrying a sentiment label.
func (b *Builder) WithLabeled(n int, label, country, platform string) *Builder {
	for i := 0; i < n; i++ {
		b.With(model.Mention{Label: label, Country: country, Platform: platform})
	}
	return b
}

// WithScored adds n mentions carrying a numeric score.
func (b *Builder) WithScored(n int, score float64, country, platform string) *Builder {
	for i := 0; i < n; i++ {
		b.With(model.Mention{Score: model.Float(score), Country: country, Platform: platform})
	}
	return b
}

// WithText adds a scored mention with text for classifier-driven tests.
func (b *Builder) WithText(text string, score float64, platform string) *Builder {
	return b.With(model.Mention{Text: text, Score: model.Float(score), Platform: platform})
}

// Build returns a copy of the accumulated mentions.
func (b *Builder) Build() []model.Mention {
	b.t.Helper()
	result := make([]model.Mention, len(b.mentions))
	copy(result, b.mentions)
	return result
}
