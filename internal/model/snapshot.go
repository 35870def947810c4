package model

import "time"

// Snapshot is a named, immutable set of raw mentions captured at one point in time.
type Snapshot struct {
	CreatedAt    time.Time `json:"createdAt"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Source       string    `json:"source,omitempty"` // Where the mentions were imported from
	MentionCount int       `json:"mentionCount"`
}
