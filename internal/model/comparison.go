package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NotApplicable is the rendering of a ratio whose denominator is zero.
const NotApplicable = "N/A"

// Percent is a percentage that may be undefined because its base was zero.
type Percent struct {
	Value float64
	Valid bool
}

// PercentChange returns difference/base*100 rounded to one decimal,
// or an invalid Percent when base is zero.
func PercentChange(difference, base int) Percent {
	if base == 0 {
		return Percent{}
	}
	return Percent{Value: Round(float64(difference)/float64(base)*100, 1), Valid: true}
}

func (p Percent) String() string {
	if !p.Valid {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", p.Value)
}

// MarshalJSON renders a valid percent as a number and an invalid one as "N/A".
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return json.Marshal(NotApplicable)
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON accepts either a number or the "N/A" sentinel.
func (p *Percent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = Percent{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != NotApplicable {
			return fmt.Errorf("invalid percent %q", s)
		}
		*p = Percent{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid percent: %w", err)
	}
	*p = Percent{Value: v, Valid: true}
	return nil
}

// Trend describes the direction of an average sentiment change.
type Trend string

// Trend labels.
const (
	TrendImproved Trend = "Improved"
	TrendDeclined Trend = "Declined"
	TrendStable   Trend = "Stable"
)

// DatasetInfo compares the sizes of two snapshots.
type DatasetInfo struct {
	PercentChange   Percent `json:"percentChange"`
	OldCount        int     `json:"oldCount"`
	NewCount        int     `json:"newCount"`
	CountDifference int     `json:"countDifference"`
}

// DimensionRow compares the mention count of one platform or country across snapshots.
type DimensionRow struct {
	Key           string  `json:"key"`
	PercentChange Percent `json:"percentChange"`
	OldCount      int     `json:"oldCount"`
	NewCount      int     `json:"newCount"`
	Difference    int     `json:"difference"`
}

// SentimentComparison compares the average sentiment of two snapshots.
type SentimentComparison struct {
	Trend      Trend   `json:"trend"`
	OldAverage float64 `json:"oldAverage"`
	NewAverage float64 `json:"newAverage"`
	Difference float64 `json:"difference"`
}

// SentimentDistribution holds the bucket distribution of both snapshots.
type SentimentDistribution struct {
	Old Distribution `json:"old"`
	New Distribution `json:"new"`
}

// ComparisonResult is the full comparison between an old and a new snapshot.
type ComparisonResult struct {
	PlatformComparison    []DimensionRow        `json:"platformComparison"`
	CountryComparison     []DimensionRow        `json:"countryComparison"`
	NewEntries            []Mention             `json:"newEntries"`
	SentimentComparison   SentimentComparison   `json:"sentimentComparison"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
	DatasetInfo           DatasetInfo           `json:"datasetInfo"`
}
