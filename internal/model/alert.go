package model

import "time"

// Severity indicates the urgency of an alert.
type Severity string

// SeverityCritical is the only severity the detector currently raises.
const SeverityCritical Severity = "critical"

// Alert flags a mention combining extreme negative sentiment with an intense emotion.
type Alert struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	MentionID string    `json:"mentionId"`
	Emotion   string    `json:"emotion"`
	Platform  string    `json:"platform"`
	Sentiment float64   `json:"sentiment"`
}
