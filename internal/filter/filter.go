// Package filter narrows a mention snapshot by time range, platform, and country.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
)

// TimeRange is a relative window ending now.
type TimeRange string

// Supported time ranges.
const (
	RangeAll     TimeRange = "all"
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
)

// ParseTimeRange validates a configured time range; empty means all.
func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeAll, nil
	case RangeAll, RangeWeek, RangeMonth, RangeQuarter:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown time range %q (want all, week, month or quarter)", common.ErrInvalidInput, s)
}

// Days returns the window length in days, or 0 for all.
func (r TimeRange) Days() int {
	switch r {
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	case RangeQuarter:
		return 90
	}
	return 0
}

// Criteria selects mentions. Zero values match everything.
type Criteria struct {
	Now      time.Time // Reference point for Range; defaults to time.Now
	Range    TimeRange
	Platform string // Case-insensitive substring
	Country  string // Case-insensitive substring
}

// Apply returns the mentions matching the criteria, preserving order.
// Mentions without a timestamp are excluded once a time range is set.
func Apply(records []model.Mention, c Criteria) []model.Mention {
	var cutoff time.Time
	if days := c.Range.Days(); days > 0 {
		now := c.Now
		if now.IsZero() {
			now = time.Now()
		}
		cutoff = now.AddDate(0, 0, -days)
	}
	platform := strings.ToLower(strings.TrimSpace(c.Platform))
	country := strings.ToLower(strings.TrimSpace(c.Country))

	result := make([]model.Mention, 0, len(records))
	for _, m := range records {
		if !cutoff.IsZero() && (m.Timestamp.IsZero() || m.Timestamp.Before(cutoff)) {
			continue
		}
		if platform != "" && !strings.Contains(strings.ToLower(m.Platform), platform) {
			continue
		}
		if country != "" && !strings.Contains(strings.ToLower(m.Country), country) {
			continue
		}
		result = append(result, m)
	}
	return result
}
