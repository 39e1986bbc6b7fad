package watcher

import (
	"strings"
	"testing"
	"time"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
)

var passTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func makeState(projects ...ProjectState) *WatchState {
	s := &WatchState{Timestamp: passTime, Projects: make(map[string]ProjectState)}
	for _, p := range projects {
		s.Projects[p.ID] = p
	}
	return s
}

func project(id, name string, status analysis.Status, health int) ProjectState {
	return ProjectState{
		ID:          id,
		Name:        name,
		Status:      status,
		HealthScore: health,
		HealthLabel: analysis.Label(health),
	}
}

func TestCompare_NoChanges(t *testing.T) {
	prev := makeState(project("p1", "Alpha", analysis.StatusActive, 70))
	curr := makeState(project("p1", "Alpha", analysis.StatusActive, 70))

	alerts := Compare(prev, curr)
	if len(alerts) != 0 {
		t.Errorf("expected 0 alerts for identical states, got %d", len(alerts))
		for _, a := range alerts {
			t.Logf("  [%s] %s: %s", a.Level, a.Title, a.Message)
		}
	}
}

func TestCompare_EmptyStates(t *testing.T) {
	if alerts := Compare(makeState(), makeState()); len(alerts) != 0 {
		t.Errorf("expected 0 alerts, got %d", len(alerts))
	}
}

func TestCompare_NewProject(t *testing.T) {
	prev := makeState()
	curr := makeState(project("p1", "Alpha", analysis.StatusDraft, 10))

	alerts := Compare(prev, curr)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Level != notify.LevelInfo {
		t.Errorf("expected info level, got %s", a.Level)
	}
	if a.Title != "New project: Alpha" {
		t.Errorf("unexpected title %q", a.Title)
	}
	if a.ProjectID != "p1" {
		t.Errorf("expected project p1, got %q", a.ProjectID)
	}
	if !a.Time.Equal(passTime) {
		t.Errorf("expected alert stamped with pass time, got %v", a.Time)
	}
}

func TestCompare_HealthFallsBelowCritical(t *testing.T) {
	prev := makeState(project("p1", "Alpha", analysis.StatusActive, 55))
	curr := makeState(project("p1", "Alpha", analysis.StatusActive, 25))

	alerts := Compare(prev, curr)
	if len(alerts) != 2 {
		t.Fatalf("expected critical and warning alerts, got %d", len(alerts))
	}
	if alerts[0].Level != notify.LevelCritical {
		t.Errorf("expected critical first, got %s", alerts[0].Level)
	}
	if alerts[1].Level != notify.LevelWarning {
		t.Errorf("expected warning second, got %s", alerts[1].Level)
	}
	if !strings.Contains(alerts[1].Message, "needs_attention") {
		t.Errorf("expected new label in message, got %q", alerts[1].Message)
	}
}

func TestCompare_AlreadyCriticalDoesNotRepeat(t *testing.T) {
	prev := makeState(project("p1", "Alpha", analysis.StatusActive, 20))
	curr := makeState(project("p1", "Alpha", analysis.StatusActive, 10))

	for _, a := range Compare(prev, curr) {
		if a.Level == notify.LevelCritical {
			t.Errorf("unexpected critical alert: %s", a.Title)
		}
	}
}

func TestCompare_LabelDropWithoutCritical(t *testing.T) {
	prev := makeState(project("p1", "Alpha", analysis.StatusActive, 85))
	curr := makeState(project("p1", "Alpha", analysis.StatusActive, 75))

	alerts := Compare(prev, curr)
	if len(alerts) != 1 || alerts[0].Level != notify.LevelWarning {
		t.Fatalf("expected a single warning, got %+v", alerts)
	}
}

func TestCompare_StatusChangeAndImprovement(t *testing.T) {
	prev := makeState(project("p1", "Alpha", analysis.StatusDraft, 40))
	curr := makeState(project("p1", "Alpha", analysis.StatusActive, 60))

	alerts := Compare(prev, curr)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 info alerts, got %d", len(alerts))
	}
	if alerts[0].Title != "Status changed: Alpha" || alerts[0].Message != "draft -> active" {
		t.Errorf("unexpected status alert: %+v", alerts[0])
	}
	if alerts[1].Title != "Health improved: Alpha" {
		t.Errorf("unexpected improvement alert: %+v", alerts[1])
	}
}

func TestCompare_OrdersByProjectName(t *testing.T) {
	prev := makeState()
	curr := makeState(
		project("p2", "Zebra", analysis.StatusDraft, 0),
		project("p1", "Alpha", analysis.StatusDraft, 0),
	)

	alerts := Compare(prev, curr)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].ProjectID != "p1" || alerts[1].ProjectID != "p2" {
		t.Errorf("expected Alpha before Zebra, got %s then %s", alerts[0].ProjectID, alerts[1].ProjectID)
	}
}

func TestAutomationAlerts(t *testing.T) {
	curr := makeState()
	curr.Automation = []service.AutomationReport{{
		ProjectID:   "p1",
		ProjectName: "Alpha",
		Outcomes: []automation.Outcome{
			{RuleID: automation.RuleAutoPauseInactive, State: automation.StateApplied},
			{RuleID: automation.RuleAlertLowHealth, State: automation.StateFailed, Err: "no sink"},
			{RuleID: automation.RuleSmartArchive, State: automation.StateDisabled},
		},
	}}

	alerts := automationAlerts(curr)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Level != notify.LevelInfo || alerts[0].Message != automation.RuleAutoPauseInactive {
		t.Errorf("unexpected applied alert: %+v", alerts[0])
	}
	if alerts[1].Level != notify.LevelWarning || !strings.Contains(alerts[1].Message, "no sink") {
		t.Errorf("unexpected failure alert: %+v", alerts[1])
	}
}
