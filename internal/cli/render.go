package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/engine"
	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/rules"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Format selects how results are written.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (want table or json)", common.ErrInvalidInput, s)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

func countWithPct(count int, pct float64) string {
	return fmt.Sprintf("%d (%.1f%%)", count, pct)
}

// topEntry returns the largest entry of counts, ties broken by name.
func topEntry(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}

// AggregateTable renders aggregation rows as a table.
func AggregateTable(dimension string, rows []model.AggregateRow) string {
	t := newTable(dimension, "Total", "Positive", "Neutral", "Negative", "Avg", "Engagement", "Top topic", "Top emotion")
	for _, row := range rows {
		key := row.Key
		if row.IsOther {
			key = SubtleStyle.Render(key)
		}
		t.Row(
			key,
			strconv.Itoa(row.Total),
			countWithPct(row.Positive, row.PositivePct),
			countWithPct(row.Neutral, row.NeutralPct),
			countWithPct(row.Negative, row.NegativePct),
			fmt.Sprintf("%+.2f", row.AverageSentiment),
			strconv.Itoa(row.Engagement),
			topEntry(row.Topics),
			topEntry(row.Emotions),
		)
	}
	return t.String()
}

// RenderAggregate writes a titled aggregation table.
func RenderAggregate(w io.Writer, dimension string, rows []model.AggregateRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No groups to show"))
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", FormatTitle("Mentions by "+dimension), AggregateTable(dimension, rows))
	return err
}

// RenderOverview writes the summary of one snapshot.
func RenderOverview(w io.Writer, overview *engine.Overview) error {
	summary := fmt.Sprintf("Mentions: %d\nAverage sentiment: %+.3f\n%s %s %s",
		overview.Total,
		overview.AverageSentiment,
		BucketStyle(model.BucketPositive).Render("Positive "+countWithPct(overview.Sentiment.Positive, overview.Sentiment.PositivePct)),
		BucketStyle(model.BucketNeutral).Render("Neutral "+countWithPct(overview.Sentiment.Neutral, overview.Sentiment.NeutralPct)),
		BucketStyle(model.BucketNegative).Render("Negative "+countWithPct(overview.Sentiment.Negative, overview.Sentiment.NegativePct)),
	)

	sections := []string{
		RenderBox(ChartIcon+" Overview", summary),
		FormatTitle("By country") + "\n" + AggregateTable("Country", overview.ByCountry),
		FormatTitle("By platform") + "\n" + AggregateTable("Platform", overview.ByPlatform),
		FormatTitle("By source type") + "\n" + AggregateTable("Source type", overview.BySourceType),
		FormatTitle("By day") + "\n" + AggregateTable("Day", overview.ByDay),
	}
	if _, err := fmt.Fprintln(w, strings.Join(sections, "\n\n")); err != nil {
		return err
	}
	return RenderAlerts(w, overview.Alerts)
}

func comparisonTable(dimension string, rows []model.DimensionRow) string {
	t := newTable(dimension, "Old", "New", "Difference", "Change")
	for _, row := range rows {
		t.Row(row.Key, strconv.Itoa(row.OldCount), strconv.Itoa(row.NewCount),
			fmt.Sprintf("%+d", row.Difference), row.PercentChange.String())
	}
	return t.String()
}

// RenderDashboard writes the comparison of two snapshots.
func RenderDashboard(w io.Writer, dashboard *engine.Dashboard) error {
	info := dashboard.DatasetInfo
	cmp := dashboard.SentimentComparison
	summary := fmt.Sprintf("Mentions: %d → %d (%+d, %s)\nAverage sentiment: %+.3f → %+.3f (%s)",
		info.OldCount, info.NewCount, info.CountDifference, info.PercentChange.String(),
		cmp.OldAverage, cmp.NewAverage,
		TrendStyle(cmp.Trend).Render(fmt.Sprintf("%s %+.3f", cmp.Trend, cmp.Difference)),
	)

	dist := newTable("Sentiment", "Old", "New")
	for _, b := range model.Buckets() {
		old, cur := dashboard.SentimentDistribution.Old, dashboard.SentimentDistribution.New
		dist.Row(BucketStyle(b).Render(string(b)),
			countWithPct(old.Count(b), pct(old, b)),
			countWithPct(cur.Count(b), pct(cur, b)))
	}

	sections := []string{
		RenderBox(ChartIcon+" Comparison", summary),
		FormatTitle("Sentiment distribution") + "\n" + dist.String(),
		FormatTitle("Platforms") + "\n" + comparisonTable("Platform", dashboard.PlatformComparison),
		FormatTitle("Countries") + "\n" + comparisonTable("Country", dashboard.CountryComparison),
		FormatInfo(fmt.Sprintf("%d new mentions", len(dashboard.NewEntries))),
	}
	if _, err := fmt.Fprintln(w, strings.Join(sections, "\n\n")); err != nil {
		return err
	}
	return RenderAlerts(w, dashboard.Alerts)
}

func pct(d model.Distribution, b model.Bucket) float64 {
	switch b {
	case model.BucketPositive:
		return d.PositivePct
	case model.BucketNegative:
		return d.NegativePct
	}
	return d.NeutralPct
}

// RenderAlerts writes alerts, or a short note when there are none.
func RenderAlerts(w io.Writer, alerts []model.Alert) error {
	if len(alerts) == 0 {
		_, err := fmt.Fprintln(w, FormatSuccess("No alerts"))
		return err
	}

	t := newTable("Severity", "Message", "Sentiment", "Mention", "Time")
	for _, a := range alerts {
		when := "-"
		if !a.Timestamp.IsZero() {
			when = a.Timestamp.UTC().Format("2006-01-02 15:04")
		}
		t.Row(ErrorStyle.Render(string(a.Severity)), a.Message, fmt.Sprintf("%+.2f", a.Sentiment), a.MentionID, when)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", FormatTitle(AlertIcon+" Alerts"), t.String())
	return err
}

// RenderSnapshots writes the stored snapshots.
func RenderSnapshots(w io.Writer, snapshots []model.Snapshot) error {
	if len(snapshots) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No snapshots yet. Import one with: pulse import <file> --snapshot <name>"))
		return err
	}

	t := newTable("Name", "Mentions", "Created", "Source", "ID")
	for _, s := range snapshots {
		t.Row(s.Name, strconv.Itoa(s.MentionCount), s.CreatedAt.Format("2006-01-02 15:04"), s.Source, s.ID)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", FormatTitle(FolderIcon+" Snapshots"), t.String())
	return err
}

// RenderRules writes the categories of every taxonomy.
func RenderRules(w io.Writer, registry *rules.Registry) error {
	t := newTable("Taxonomy", "Category", "Patterns")
	for _, taxonomy := range rules.Taxonomies() {
		for _, category := range registry.Categories(taxonomy) {
			t.Row(string(taxonomy), category.Name, strconv.Itoa(category.PatternCount()))
		}
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", FormatTitle(fmt.Sprintf("Rule set v%d", registry.Version())), t.String())
	return err
}
