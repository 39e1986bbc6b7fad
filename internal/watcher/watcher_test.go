package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource serves canned analyses. Automate pauses any active project
// whose health is below the automation threshold.
type fakeSource struct {
	mu        sync.Mutex
	projects  map[string]analysis.ProjectAnalysis
	order     []string
	err       error
	automated int
}

func newFakeSource(as ...analysis.ProjectAnalysis) *fakeSource {
	f := &fakeSource{projects: make(map[string]analysis.ProjectAnalysis)}
	for _, a := range as {
		f.put(a)
	}
	return f
}

func (f *fakeSource) put(a analysis.ProjectAnalysis) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[a.ProjectID]; !ok {
		f.order = append(f.order, a.ProjectID)
	}
	f.projects[a.ProjectID] = a
}

func (f *fakeSource) Analyze(_ context.Context, id string) (analysis.ProjectAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.projects[id]
	if !ok {
		return analysis.ProjectAnalysis{}, store.ErrProjectNotFound
	}
	return a, nil
}

func (f *fakeSource) AnalyzeAll(context.Context, store.ProjectFilter) ([]analysis.ProjectAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]analysis.ProjectAnalysis, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.projects[id])
	}
	return out, nil
}

func (f *fakeSource) Automate(_ context.Context, a analysis.ProjectAnalysis, _ bool) service.AutomationReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.automated++
	rep := service.AutomationReport{ProjectID: a.ProjectID, ProjectName: a.ProjectName}
	if a.Status == analysis.StatusActive && a.HealthScore < automation.LowHealthScore {
		a.Status = analysis.StatusPaused
		f.projects[a.ProjectID] = a
		rep.Outcomes = []automation.Outcome{{RuleID: automation.RuleAutoPauseInactive, State: automation.StateApplied}}
	}
	rep.Result = automation.Summarize(rep.Outcomes)
	return rep
}

func healthy(id, name string) analysis.ProjectAnalysis {
	return analysis.ProjectAnalysis{ProjectID: id, ProjectName: name, Status: analysis.StatusActive, HealthScore: 70}
}

func fixedClock() time.Time { return passTime }

func TestSnapshot_ReflectsAutomation(t *testing.T) {
	src := newFakeSource(
		healthy("p1", "Alpha"),
		analysis.ProjectAnalysis{ProjectID: "p2", ProjectName: "Beta", Status: analysis.StatusActive, HealthScore: 10},
	)
	w := New(src, time.Minute, nil, WithClock(fixedClock))

	state, err := w.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(state.Projects))
	}
	if got := state.Projects["p2"].Status; got != analysis.StatusPaused {
		t.Errorf("expected p2 paused after automation, got %s", got)
	}
	if len(state.Automation) != 1 || state.Automation[0].ProjectID != "p2" {
		t.Errorf("expected one automation report for p2, got %+v", state.Automation)
	}
	if !state.Timestamp.Equal(passTime) {
		t.Errorf("expected injected timestamp, got %v", state.Timestamp)
	}
}

func TestSnapshot_WithoutAutomation(t *testing.T) {
	src := newFakeSource(analysis.ProjectAnalysis{ProjectID: "p1", ProjectName: "Alpha", Status: analysis.StatusActive, HealthScore: 10})
	w := New(src, time.Minute, nil, WithAutomation(false))

	state, err := w.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.automated != 0 {
		t.Errorf("expected no automation calls, got %d", src.automated)
	}
	if state.Projects["p1"].Status != analysis.StatusActive {
		t.Errorf("expected status untouched, got %s", state.Projects["p1"].Status)
	}
}

func TestCheck_ReturnsAlerts(t *testing.T) {
	src := newFakeSource(healthy("p1", "Alpha"))
	w := New(src, 5*time.Minute, nil, WithClock(fixedClock))

	if alerts := w.Check(context.Background()); len(alerts) != 0 {
		t.Fatalf("expected no alerts on first pass, got %d", len(alerts))
	}

	src.put(healthy("p2", "Beta"))
	a := src.projects["p1"]
	a.HealthScore = 45
	src.put(a)

	alerts := w.Check(context.Background())
	var titles []string
	for _, al := range alerts {
		titles = append(titles, al.Title)
	}
	want := []string{"Health dropped: Alpha", "New project: Beta"}
	if len(titles) != len(want) {
		t.Fatalf("expected %v, got %v", want, titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("alert %d: expected %q, got %q", i, want[i], titles[i])
		}
	}
}

func TestCheck_SuppressesRepeatedAlerts(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("database is locked")
	w := New(src, time.Minute, nil, WithClock(fixedClock))

	first := w.Check(context.Background())
	if len(first) != 1 || first[0].Level != notify.LevelWarning {
		t.Fatalf("expected one warning, got %+v", first)
	}
	if again := w.Check(context.Background()); len(again) != 0 {
		t.Errorf("expected repeated failure to be suppressed, got %d", len(again))
	}

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	w.Check(context.Background())

	src.mu.Lock()
	src.err = errors.New("database is locked")
	src.mu.Unlock()
	if third := w.Check(context.Background()); len(third) != 1 {
		t.Errorf("expected alert to fire again after recovery, got %d", len(third))
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	src := newFakeSource(analysis.ProjectAnalysis{ProjectID: "p1", ProjectName: "Alpha", Status: analysis.StatusActive, HealthScore: 10})

	received := make(chan notify.Alert, 16)
	w := New(src, 10*time.Millisecond, func(a notify.Alert) { received <- a }, WithClock(fixedClock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case a := <-received:
		if a.Title != "Automation applied: Alpha" {
			t.Errorf("unexpected first alert %q", a.Title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first alert")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNew_SetsFields(t *testing.T) {
	called := false
	fn := func(notify.Alert) { called = true }

	w := New(newFakeSource(), 10*time.Minute, fn)

	if w.interval != 10*time.Minute {
		t.Errorf("expected interval 10m, got %v", w.interval)
	}
	if !w.automate {
		t.Error("expected automation on by default")
	}
	if w.alertFn == nil {
		t.Fatal("expected non-nil alertFn")
	}

	w.alertFn(notify.Alert{})
	if !called {
		t.Error("expected alertFn to be called")
	}
}
