// Package alert raises alerts on mentions with extreme negative sentiment and intense emotion.
package alert

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/google/uuid"
)

// Detection thresholds.
const (
	// ScoreThreshold is the sentiment score a mention must fall below.
	ScoreThreshold = -0.7
	// IntensityThreshold is the emotion score a mention must exceed.
	IntensityThreshold = 2
)

// DefaultLimit caps the number of alerts when Options leaves it unset.
const DefaultLimit = 5

// triggerEmotions are the dominant emotions that can raise an alert.
var triggerEmotions = map[string]bool{
	"frustration":    true,
	"disappointment": true,
}

// EmotionClassifier scores the emotions expressed in a text.
type EmotionClassifier interface {
	ClassifyEmotions(text string) model.Scores
}

// Options tunes detection.
type Options struct {
	Limit int // Defaults to DefaultLimit
}

// Detector scans mentions for alert conditions.
type Detector struct {
	classifier EmotionClassifier
	newID      func() string
	logger     *slog.Logger
	limit      int
}

// New creates a detector. A nil logger uses the global logger.
func New(classifier EmotionClassifier, opts Options, logger *slog.Logger) *Detector {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Detector{
		classifier: classifier,
		limit:      opts.Limit,
		newID:      uuid.NewString,
		logger:     common.LoggerOrDefault(logger),
	}
}

// Detect returns alerts for the first qualifying mentions in scan order, up to the limit.
func (d *Detector) Detect(records []model.Mention) []model.Alert {
	alerts := []model.Alert{}
	for _, m := range records {
		if len(alerts) >= d.limit {
			break
		}
		emotion, ok := d.trigger(m)
		if !ok {
			continue
		}
		alerts = append(alerts, model.Alert{
			ID:        d.newID(),
			Severity:  model.SeverityCritical,
			Message:   Message(emotion, m.Platform),
			MentionID: m.ID,
			Emotion:   emotion,
			Platform:  m.Platform,
			Sentiment: *m.Score,
			Timestamp: m.Timestamp,
		})
	}

	if len(alerts) > 0 {
		d.logger.Info("Detected sentiment alerts", "count", len(alerts), "scanned", len(records))
	}
	return alerts
}

// trigger returns the emotion that makes m alert-worthy, if any.
func (d *Detector) trigger(m model.Mention) (string, bool) {
	if !m.HasScore() || *m.Score >= ScoreThreshold {
		return "", false
	}
	dominant, ok := d.classifier.ClassifyEmotions(m.Text).Dominant()
	if !ok || !triggerEmotions[dominant.Category] || dominant.Value <= IntensityThreshold {
		return "", false
	}
	return dominant.Category, true
}

// Message renders the human-readable alert text.
func Message(emotion, platform string) string {
	return fmt.Sprintf("High %s sentiment detected in %s", emotion, platform)
}
