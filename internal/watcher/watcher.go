// Package watcher provides background monitoring of stored projects. Each
// pass analyzes every non-archived project, runs the automation rules and
// emits alerts for notable changes since the previous pass.
package watcher

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

// Source is what a watch pass reads from. *service.Service satisfies it.
type Source interface {
	Analyze(ctx context.Context, id string) (analysis.ProjectAnalysis, error)
	AnalyzeAll(ctx context.Context, f store.ProjectFilter) ([]analysis.ProjectAnalysis, error)
	Automate(ctx context.Context, a analysis.ProjectAnalysis, dryRun bool) service.AutomationReport
}

// ProjectState is the part of an analysis the watcher compares.
type ProjectState struct {
	ID                   string
	Name                 string
	Status               analysis.Status
	HealthScore          int
	HealthLabel          analysis.HealthLabel
	CompletionPercentage float64
}

// WatchState captures one pass over the project store.
type WatchState struct {
	Timestamp  time.Time
	Projects   map[string]ProjectState
	Automation []service.AutomationReport
}

// Watcher runs watch passes at a regular interval and emits alerts when
// notable changes are detected.
type Watcher struct {
	src           Source
	interval      time.Duration
	now           func() time.Time
	logger        *log.Logger
	automate      bool
	previous      *WatchState
	alertFn       func(notify.Alert)
	collector     *Collector
	lastAlertKeys map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock sets the clock used to stamp states and alerts.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithAutomation turns the automation step of each pass on or off.
func WithAutomation(on bool) Option {
	return func(w *Watcher) { w.automate = on }
}

// WithCollector makes each pass include the alerts gathered by c.
func WithCollector(c *Collector) Option {
	return func(w *Watcher) { w.collector = c }
}

// New creates a Watcher over src.
func New(src Source, interval time.Duration, alertFn func(notify.Alert), opts ...Option) *Watcher {
	w := &Watcher{
		src:           src,
		interval:      interval,
		now:           time.Now,
		logger:        log.New(io.Discard),
		automate:      true,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs an initial pass, then one pass at every interval. Blocks
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.emit(w.Check(ctx))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.emit(w.Check(ctx))
		}
	}
}

func (w *Watcher) emit(alerts []notify.Alert) {
	if w.alertFn == nil {
		return
	}
	for _, a := range alerts {
		w.alertFn(a)
	}
}

// Check performs a single pass: takes a new snapshot, compares it against
// the previous one and returns any alerts. Identical alerts are suppressed
// until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []notify.Alert {
	curr, err := w.Snapshot(ctx)
	collected := w.collected()
	if err != nil {
		w.logger.Error("watch pass failed", "err", err)
		return w.dedupe(append([]notify.Alert{{
			Level:   notify.LevelWarning,
			Title:   "Watch pass failed",
			Message: fmt.Sprintf("Could not read projects: %v", err),
			Time:    w.now(),
		}}, collected...))
	}

	raw := append(automationAlerts(curr), collected...)
	if w.previous != nil {
		raw = append(raw, Compare(w.previous, curr)...)
	}
	w.previous = curr

	w.logger.Debug("watch pass complete", "projects", len(curr.Projects), "alerts", len(raw))
	return w.dedupe(raw)
}

func (w *Watcher) collected() []notify.Alert {
	if w.collector == nil {
		return nil
	}
	return w.collector.drain()
}

func (w *Watcher) dedupe(raw []notify.Alert) []notify.Alert {
	currentKeys := make(map[string]bool, len(raw))
	var alerts []notify.Alert
	for _, a := range raw {
		key := a.Key()
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

// Snapshot analyzes every non-archived project and, unless disabled, runs
// automation on each. Projects changed by automation are re-read so the
// state reflects the store after the pass.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	analyses, err := w.src.AnalyzeAll(ctx, store.ProjectFilter{})
	if err != nil {
		return nil, err
	}

	state := &WatchState{
		Timestamp: w.now(),
		Projects:  make(map[string]ProjectState, len(analyses)),
	}

	for _, a := range analyses {
		if w.automate {
			rep := w.src.Automate(ctx, a, false)
			if len(rep.Applied) > 0 || hasFailure(rep) {
				state.Automation = append(state.Automation, rep)
			}
			if len(rep.Applied) > 0 {
				if fresh, err := w.src.Analyze(ctx, a.ProjectID); err == nil {
					a = fresh
				} else {
					w.logger.Warn("re-reading project after automation", "project_id", a.ProjectID, "err", err)
				}
			}
		}
		if a.Status == analysis.StatusArchived {
			continue
		}
		state.Projects[a.ProjectID] = stateOf(a)
	}
	return state, nil
}

func stateOf(a analysis.ProjectAnalysis) ProjectState {
	return ProjectState{
		ID:                   a.ProjectID,
		Name:                 a.ProjectName,
		Status:               a.Status,
		HealthScore:          a.HealthScore,
		HealthLabel:          a.HealthStatus(),
		CompletionPercentage: a.CompletionPercentage,
	}
}

func hasFailure(rep service.AutomationReport) bool {
	for _, o := range rep.Outcomes {
		if o.State == automation.StateFailed {
			return true
		}
	}
	return false
}
