package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oldMentionsJSON = `[
  {"id": "1", "text": "Proud of the new university", "platform": "Twitter", "country": "France", "sentiment_score": 0.6, "likes": 4},
  {"id": "2", "text": "The budget helps the economy", "platform": "Twitter", "country": "France", "sentiment_score": 0.3},
  {"id": "3", "text": "Hospital queues again", "platform": "BBC News", "country": "France", "sentiment_score": -0.2},
  {"id": "4", "text": "Great football match", "platform": "Facebook", "country": "France", "sentiment_score": 0.5},
  {"id": "5", "text": "Trust in the government", "platform": "CNN", "country": "France", "sentiment_score": 0.1}
]`

const newMentionsJSON = `[
  {"id": "1", "text": "Proud of the new university", "platform": "Twitter", "country": "France", "sentiment_score": 0.6, "likes": 4},
  {"id": "2", "text": "The budget helps the economy", "platform": "Twitter", "country": "France", "sentiment_score": 0.3},
  {"id": "3", "text": "Hospital queues again", "platform": "BBC News", "country": "France", "sentiment_score": -0.2},
  {"id": "4", "text": "Great football match", "platform": "Facebook", "country": "France", "sentiment_score": 0.5},
  {"id": "5", "text": "Trust in the government", "platform": "CNN", "country": "France", "sentiment_score": 0.1},
  {"id": "6", "text": "Frustrated! So FRUSTRATED and fed up.", "platform": "Twitter", "country": "France", "sentiment_score": -0.9},
  {"id": "7", "text": 42}
]`

type harness struct {
	t      *testing.T
	dbPath string
	dir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	return &harness{t: t, dir: dir, dbPath: filepath.Join(dir, "pulse.db")}
}

func (h *harness) writeFile(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the root command and returns its standard output.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	viper.Reset()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", h.dbPath, "--log-level", "error"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, "pulse %s", strings.Join(args, " "))
	return out
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "pulse dev\n", h.mustRun("version"))
}

func TestImportAndList(t *testing.T) {
	h := newHarness(t)
	path := h.writeFile("new.json", newMentionsJSON)

	out := h.mustRun("import", path, "--snapshot", "week-1")
	assert.Contains(t, out, `Imported 6 mentions as snapshot "week-1"`)

	out = h.mustRun("snapshots", "list")
	assert.Contains(t, out, "week-1")

	out = h.mustRun("snapshots", "list", "-o", "json")
	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "week-1", listed[0]["name"])
	assert.EqualValues(t, 6, listed[0]["mentionCount"])

	_, err := h.run("", "import", path, "--snapshot", "week-1")
	assert.Error(t, err, "snapshot names are unique")
}

func TestImport_DryRun(t *testing.T) {
	h := newHarness(t)
	path := h.writeFile("new.json", newMentionsJSON)

	out := h.mustRun("import", path, "--dry-run")
	assert.Contains(t, out, `Would import 6 mentions as "new.json"`)

	out = h.mustRun("snapshots", "list")
	assert.Contains(t, out, "No snapshots yet")
}

func TestImport_NoData(t *testing.T) {
	h := newHarness(t)
	path := h.writeFile("empty.json", `{"status": "ok"}`)

	_, err := h.run("", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holds no mention data")
}

func TestSnapshotsDelete(t *testing.T) {
	h := newHarness(t)
	h.mustRun("import", h.writeFile("old.json", oldMentionsJSON), "--snapshot", "baseline")

	out, err := h.run("n\n", "snapshots", "delete", "baseline")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing deleted")
	assert.Contains(t, h.mustRun("snapshots", "list"), "baseline")

	out, err = h.run("y\n", "snapshots", "delete", "baseline")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted snapshot "baseline"`)
	assert.Contains(t, h.mustRun("snapshots", "list"), "No snapshots yet")

	_, err = h.run("", "snapshots", "delete", "baseline", "--yes")
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	h := newHarness(t)
	path := h.writeFile("new.json", newMentionsJSON)

	out := h.mustRun("aggregate", "--file", path, "--by", "country", "-o", "json")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "France", rows[0]["key"])
	assert.EqualValues(t, 6, rows[0]["total"])

	out = h.mustRun("aggregate", "--file", path, "--by", "country")
	assert.Contains(t, out, "France")

	_, err := h.run("", "aggregate", "--file", path, "--by", "galaxy")
	assert.Error(t, err)

	_, err = h.run("", "aggregate")
	assert.Error(t, err, "an input is required")
}

func TestAggregate_FromSnapshotWithFilter(t *testing.T) {
	h := newHarness(t)
	h.mustRun("import", h.writeFile("new.json", newMentionsJSON), "--snapshot", "current")

	out := h.mustRun("aggregate", "--snapshot", "current", "--platform", "twitter", "--by", "platform", "-o", "json")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Empty(t, rows, "three Twitter mentions fall below the minimum group size")

	out = h.mustRun("aggregate", "--snapshot", "current", "--by", "day", "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0]["key"])
}

func TestOverview(t *testing.T) {
	h := newHarness(t)
	path := h.writeFile("new.json", newMentionsJSON)

	out := h.mustRun("overview", "--file", path, "-o", "json")
	var overview map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &overview))
	assert.EqualValues(t, 6, overview["total"])
	assert.Contains(t, overview, "byPlatform")
	assert.Len(t, overview["alerts"], 1)

	out = h.mustRun("overview", "--file", path)
	assert.Contains(t, out, "France")
}

func TestAlerts(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("alerts", "--file", h.writeFile("new.json", newMentionsJSON))
	assert.Contains(t, out, "frustration")

	out = h.mustRun("alerts", "--file", h.writeFile("old.json", oldMentionsJSON), "-o", "json")
	assert.Equal(t, "[]\n", out)
}

func TestCompare(t *testing.T) {
	h := newHarness(t)
	oldPath := h.writeFile("old.json", oldMentionsJSON)
	h.mustRun("import", h.writeFile("new.json", newMentionsJSON), "--snapshot", "current")

	out := h.mustRun("compare", "--old", oldPath, "--new", "current", "-o", "json")
	var dashboard map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &dashboard))

	info, ok := dashboard["datasetInfo"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 5, info["oldCount"])
	assert.EqualValues(t, 6, info["newCount"])
	assert.Len(t, dashboard["newEntries"], 1)
	assert.Len(t, dashboard["alerts"], 1)

	out = h.mustRun("compare", "--old", oldPath, "--new", "current")
	assert.Contains(t, out, "Twitter")

	_, err := h.run("", "compare", "--old", "missing", "--new", "current")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestRules(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("rules")
	assert.Contains(t, out, "Rule set v1")
	assert.Contains(t, out, "frustration")

	out = h.mustRun("rules", "-o", "json")
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.EqualValues(t, 1, payload["version"])
	assert.Contains(t, payload, "topics")
}

func TestRules_Custom(t *testing.T) {
	h := newHarness(t)
	path := h.writeFile("rules.yaml", `version: 1
source_types:
  - name: wire
    domains: [wire.]
topics:
  - name: weather
    keywords: [rain]
emotions:
  - name: joy
    keywords: [joy]
policies:
  - name: flood-defence
    keywords: [flood barrier]
`)

	out := h.mustRun("rules", "--rules", path)
	assert.Contains(t, out, "weather")
	assert.NotContains(t, out, "frustration")

	_, err := h.run("", "rules", "--rules", h.writeFile("bad.yaml", "version: 9\n"))
	assert.Error(t, err)
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "rules", "-o", "xml")
	assert.Error(t, err)
}
