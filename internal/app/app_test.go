package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type cli struct {
	t   *testing.T
	cfg string
	at  time.Time
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	body := "db_path: " + filepath.Join(dir, "toolthinker.db") + "\n" +
		"output:\n  color: false\n" +
		"log:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))

	c := &cli{t: t, cfg: cfg, at: testStart}
	prev := now
	now = func() time.Time { return c.at }
	t.Cleanup(func() { now = prev })
	return c
}

func resetFlags() {
	flagNoColor, flagJSON, flagVerbose = false, false, false
	projectDescription, projectStatus = "", ""
	projectListStatus, projectListAll = "", false
	suggestLimit = 0
	automateAll, automateDryRun = false, false
	historyLimit = 20
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--config", c.cfg}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func (c *cli) mustJSON(v any, args ...string) {
	c.t.Helper()
	out, err := c.run(append(args, "--json")...)
	require.NoError(c.t, err, out)
	require.NoError(c.t, json.Unmarshal([]byte(out), v), out)
}

func (c *cli) addProject(name string, extra ...string) store.Project {
	c.t.Helper()
	var p store.Project
	c.mustJSON(&p, append([]string{"project", "add", name}, extra...)...)
	return p
}

func TestProjectLifecycle(t *testing.T) {
	c := newCLI(t)
	p := c.addProject("Campus Meals", "--description", "Meal plans for students", "--status", "active")
	assert.Equal(t, analysis.StatusActive, p.Status)

	_, err := c.run("project", "step", p.ID, "jobs_to_be_done", "completed")
	require.NoError(t, err)
	_, err = c.run("project", "tag", shortID(p.ID), "food", "students")
	require.NoError(t, err)
	_, err = c.run("project", "note", p.ID, "Interviewed", "12", "students")
	require.NoError(t, err)

	var snap analysis.Snapshot
	c.mustJSON(&snap, "project", "show", p.ID)
	assert.Equal(t, []string{"food", "students"}, snap.Tags)
	assert.Equal(t, []string{"Interviewed 12 students"}, snap.Notes)

	var rep service.Report
	c.mustJSON(&rep, "analyze", p.ID)
	assert.Equal(t, 1, rep.Analysis.CompletedSteps)
	assert.Equal(t, 8, rep.Analysis.TotalSteps)
	assert.Equal(t, "value_proposition", rep.Analysis.NextIncompleteStep)
	assert.True(t, rep.Analysis.HasTags)
	assert.True(t, rep.Analysis.HasNotes)
	assert.True(t, rep.Analysis.HasDescription)
	assert.Equal(t, rep.Analysis.HealthScore, rep.Health.HealthScore)
	assert.Equal(t, 14, rep.Prediction.EstimatedDays)

	out, err := c.run("analyze", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Campus Meals")
	assert.Contains(t, out, "Value Proposition")
	assert.NotContains(t, out, "\x1b[")
}

func TestProjectList_HidesArchived(t *testing.T) {
	c := newCLI(t)
	c.addProject("Alpha", "--status", "active")
	c.addProject("Old", "--status", "archived")

	var list []analysis.ProjectAnalysis
	c.mustJSON(&list, "project", "list")
	require.Len(t, list, 1)
	assert.Equal(t, "Alpha", list[0].ProjectName)

	c.mustJSON(&list, "project", "list", "--all")
	assert.Len(t, list, 2)

	out, err := c.run("project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Jobs To Be Done")
}

func TestProjectCommands_RejectBadInput(t *testing.T) {
	c := newCLI(t)
	p := c.addProject("Alpha")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown status", []string{"project", "status", p.ID, "sleeping"}, "unknown status"},
		{"unknown step", []string{"project", "step", p.ID, "astrology", "completed"}, "unknown step"},
		{"unknown step status", []string{"project", "step", p.ID, "jobs_to_be_done", "done"}, "unknown step status"},
		{"missing project", []string{"analyze", "nope"}, "project not found"},
		{"automate without target", []string{"automate"}, "give a project ID or --all"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.run(tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestAutomate_DryRunThenApply(t *testing.T) {
	c := newCLI(t)
	p := c.addProject("Quiet", "--status", "active")
	c.at = c.at.Add(40 * 24 * time.Hour)

	var reports []service.AutomationReport
	c.mustJSON(&reports, "automate", "--all", "--dry-run")
	require.Len(t, reports, 1)
	assert.True(t, reports[0].DryRun)
	assert.Contains(t, reports[0].Applied, automation.RuleAutoPauseInactive)

	var events []store.AutomationEvent
	c.mustJSON(&events, "history")
	assert.Empty(t, events)

	c.mustJSON(&reports, "automate", p.ID)
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Applied, automation.RuleAutoPauseInactive)

	c.mustJSON(&events, "history", p.ID)
	require.NotEmpty(t, events)
	for _, ev := range events {
		assert.Equal(t, p.ID, ev.ProjectID)
	}

	var snap analysis.Snapshot
	c.mustJSON(&snap, "project", "show", p.ID)
	assert.Equal(t, analysis.StatusPaused, snap.Status)
}

func TestProjectImport(t *testing.T) {
	c := newCLI(t)
	file := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`projects:
  - name: Dog Walkers
    status: active
    tags: [pets]
    steps:
      - key: jobs_to_be_done
        status: completed
  - name: Campus Meals
`), 0o644))

	var created []store.Project
	c.mustJSON(&created, "project", "import", file)
	require.Len(t, created, 2)

	var list []analysis.ProjectAnalysis
	c.mustJSON(&list, "project", "list")
	assert.Len(t, list, 2)
}

func TestDashboard(t *testing.T) {
	c := newCLI(t)

	out, err := c.run()
	require.NoError(t, err)
	assert.Contains(t, out, "No projects yet")

	c.addProject("Alpha", "--status", "active")
	var d dashboard
	c.mustJSON(&d)
	assert.Equal(t, 1, d.Projects)
	assert.Equal(t, 1, d.ByStatus["active"])
}

func TestSummarize(t *testing.T) {
	d := summarize([]analysis.ProjectAnalysis{
		{ProjectName: "A", Status: analysis.StatusActive, HealthScore: 90},
		{ProjectName: "B", Status: analysis.StatusActive, HealthScore: 60},
		{ProjectName: "C", Status: analysis.StatusPaused, HealthScore: 10},
	})
	assert.Equal(t, 3, d.Projects)
	assert.InDelta(t, 53.33, d.AverageHealth, 0.01)
	assert.Equal(t, map[string]int{"excellent": 1, "good": 1, "needs_attention": 1}, d.ByHealth)
	assert.Equal(t, []string{"C"}, d.NeedsAttention)

	empty := summarize(nil)
	assert.Zero(t, empty.AverageHealth)
	assert.NotNil(t, empty.NeedsAttention)
}

func TestParseInterval(t *testing.T) {
	got, err := parseInterval("", 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, got)

	got, err = parseInterval("5m", 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, got)

	_, err = parseInterval("10s", 30*time.Minute)
	assert.Error(t, err)
	_, err = parseInterval("soon", 30*time.Minute)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "warn", false)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l, err = newLogger(&buf, "warn", true)
	require.NoError(t, err)
	l.Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")

	_, err = newLogger(&buf, "loud", false)
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID(strings.Repeat("12345678", 4)))
}
