// Package ingest decodes raw mention arrays supplied by upstream collectors.
//
// Decoding is lenient: a record with a malformed field is skipped and reported,
// and the rest of the dataset is still returned.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/spf13/cast"
)

// Field aliases, in lookup order.
var (
	idFields        = []string{"id", "_id", "mention_id", "mentionId"}
	textFields      = []string{"text", "content", "body"}
	timestampFields = []string{"timestamp", "date", "created_at", "createdAt", "published_at"}
	platformFields  = []string{"platform"}
	sourceFields    = []string{"source", "source_name", "domain", "url"}
	countryFields   = []string{"country", "location"}
	scoreFields     = []string{"sentiment_score", "sentimentScore", "score"}
	labelFields     = []string{"sentiment", "sentiment_label", "sentimentLabel", "label"}
)

// envelopeFields are the keys under which an API may wrap the record array.
var envelopeFields = []string{"data", "mentions", "results", "items"}

// Result holds the decoded mentions and the records that were skipped.
type Result struct {
	Mentions []model.Mention
	Skipped  []*common.RecordError
}

// Decoder decodes mention arrays.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a decoder. A nil logger uses the global logger.
func NewDecoder(logger *slog.Logger) *Decoder {
	return &Decoder{logger: common.LoggerOrDefault(logger)}
}

// DecodeFile decodes the mention array stored at path.
func (d *Decoder) DecodeFile(path string) (Result, error) {
	f, err := os.Open(path) //nolint:gosec // Path is supplied by the operator
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return d.Decode(f)
}

// Decode reads a JSON array of mention records, or an object wrapping one.
// Input that holds no such array yields common.ErrNoData.
func (d *Decoder) Decode(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read mentions: %w", err)
	}

	records, err := recordArray(data)
	if err != nil {
		return Result{}, err
	}

	result := Result{Mentions: make([]model.Mention, 0, len(records))}
	for i, raw := range records {
		m, err := decodeRecord(raw)
		if err != nil {
			recordErr := &common.RecordError{Index: i, Err: err}
			result.Skipped = append(result.Skipped, recordErr)
			d.logger.Warn("Skipping malformed mention", "index", i, "error", err)
			continue
		}
		result.Mentions = append(result.Mentions, m)
	}

	d.logger.Debug("Decoded mentions", "decoded", len(result.Mentions), "skipped", len(result.Skipped))
	return result, nil
}

func recordArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, common.ErrNoData
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err == nil {
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: input is not a JSON array", common.ErrNoData)
	}
	for _, key := range envelopeFields {
		if raw, ok := envelope[key]; ok {
			if err := json.Unmarshal(raw, &records); err == nil {
				return records, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no mention array found", common.ErrNoData)
}

func decodeRecord(raw json.RawMessage) (model.Mention, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil || fields == nil {
		return model.Mention{}, fmt.Errorf("%w: record is not an object", common.ErrInvalidInput)
	}

	var m model.Mention
	var err error

	if m.ID, err = scalarString(fields, idFields); err != nil {
		return model.Mention{}, err
	}
	if m.Text, err = stringField(fields, textFields); err != nil {
		return model.Mention{}, err
	}
	if m.Platform, err = stringField(fields, platformFields); err != nil {
		return model.Mention{}, err
	}
	if m.Source, err = stringField(fields, sourceFields); err != nil {
		return model.Mention{}, err
	}
	if m.Country, err = stringField(fields, countryFields); err != nil {
		return model.Mention{}, err
	}
	if m.Timestamp, err = timeField(fields, timestampFields); err != nil {
		return model.Mention{}, err
	}

	var labelScore *float64
	m.Label, labelScore = labelField(fields)
	if m.Score = scoreField(fields); m.Score == nil {
		m.Score = labelScore
	}
	m.Likes = counter(fields, "likes")
	m.Shares = counter(fields, "shares")
	m.Comments = counter(fields, "comments")

	return m, nil
}

func lookup(fields map[string]any, names []string) (string, any, bool) {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != nil {
			return name, v, true
		}
	}
	return "", nil, false
}

// stringField requires a string value when the field is present.
func stringField(fields map[string]any, names []string) (string, error) {
	name, v, ok := lookup(fields, names)
	if !ok {
		return "", nil
	}
	s, isString := v.(string)
	if !isString {
		return "", fmt.Errorf("%w: field %q must be a string, got %T", common.ErrInvalidInput, name, v)
	}
	return strings.TrimSpace(s), nil
}

// scalarString accepts strings and numbers, as identifiers come in both forms.
func scalarString(fields map[string]any, names []string) (string, error) {
	name, v, ok := lookup(fields, names)
	if !ok {
		return "", nil
	}
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value), nil
	case json.Number:
		return value.String(), nil
	}
	return "", fmt.Errorf("%w: field %q must be a string or number, got %T", common.ErrInvalidInput, name, v)
}

// labelField returns a string label. Some collectors put the numeric score under the
// label key; that value comes back as a score instead. Other types count as absent.
func labelField(fields map[string]any) (string, *float64) {
	_, v, ok := lookup(fields, labelFields)
	if !ok {
		return "", nil
	}
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value), nil
	case json.Number:
		return "", numericScore(value)
	}
	return "", nil
}

// timeField accepts date strings and Unix timestamps in seconds or milliseconds.
func timeField(fields map[string]any, names []string) (time.Time, error) {
	name, v, ok := lookup(fields, names)
	if !ok {
		return time.Time{}, nil
	}

	if n, isNumber := v.(json.Number); isNumber {
		secs, err := n.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: field %q: %v", common.ErrInvalidInput, name, err)
		}
		if secs > 1e11 {
			return time.UnixMilli(secs).UTC(), nil
		}
		return time.Unix(secs, 0).UTC(), nil
	}

	s, isString := v.(string)
	if !isString {
		return time.Time{}, fmt.Errorf("%w: field %q must be a date, got %T", common.ErrInvalidInput, name, v)
	}
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := cast.ToTimeE(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: field %q: %v", common.ErrInvalidInput, name, err)
	}
	return t.UTC(), nil
}

// scoreField returns nil for absent or non-numeric scores.
func scoreField(fields map[string]any) *float64 {
	_, v, ok := lookup(fields, scoreFields)
	if !ok {
		return nil
	}
	return numericScore(v)
}

func numericScore(v any) *float64 {
	if _, isBool := v.(bool); isBool {
		return nil
	}
	if n, isNumber := v.(json.Number); isNumber {
		v = n.String()
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// counter defaults absent, non-numeric, and negative engagement counters to 0.
func counter(fields map[string]any, name string) int {
	v, ok := fields[name]
	if !ok || v == nil {
		return 0
	}
	if _, isBool := v.(bool); isBool {
		return 0
	}
	if n, isNumber := v.(json.Number); isNumber {
		if f, err := n.Float64(); err == nil {
			v = f
		}
	}
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// IsNoData reports whether err means the input held no usable dataset.
func IsNoData(err error) bool {
	return errors.Is(err, common.ErrNoData)
}
