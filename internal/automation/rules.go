// Package automation evaluates guarded project status transitions and alerts
// against a ProjectAnalysis.
package automation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
)

// Built-in rule IDs.
const (
	RuleAutoPauseInactive    = "auto-pause-inactive"
	RuleAutoCompleteFinished = "auto-complete-finished"
	RuleAlertLowHealth       = "alert-low-health"
	RuleSmartArchive         = "smart-archive"
)

// Thresholds used by the built-in rules.
const (
	PauseAfterDays   = 30
	ArchiveAfterDays = 90
	LowHealthScore   = 30
)

// Condition reports whether a rule applies to an analysis. It must not have
// side effects.
type Condition func(a analysis.ProjectAnalysis) bool

// Action performs a rule's side effect for the analysed project.
type Action func(ctx context.Context, a analysis.ProjectAnalysis) error

// Rule is a guarded transition or alert. Rules are plain records so a rule
// set can be built, filtered and injected without touching the engine.
type Rule struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Condition   Condition `json:"-"`
	Action      Action    `json:"-"`
	Enabled     bool      `json:"enabled"`
}

// StatusWriter changes a project's status only if its current status is one
// of expected. It returns an error when the update does not happen.
type StatusWriter interface {
	UpdateProjectStatus(ctx context.Context, projectID string, expected []analysis.Status, next analysis.Status) error
}

// ErrNotConfigured is returned by actions whose collaborator is missing.
var ErrNotConfigured = errors.New("automation collaborator not configured")

// DefaultRules builds the standard rule set. smart-archive is disabled and
// must be opted into with WithOverrides. now stamps alerts; nil means
// time.Now.
func DefaultRules(w StatusWriter, al notify.Alerter, now func() time.Time) []Rule {
	if now == nil {
		now = time.Now
	}
	return []Rule{
		{
			ID:          RuleAutoPauseInactive,
			Name:        "Auto-pause inactive projects",
			Description: fmt.Sprintf("Pause active projects with no updates for more than %d days.", PauseAfterDays),
			Condition: func(a analysis.ProjectAnalysis) bool {
				return a.Status == analysis.StatusActive && a.InactiveFor(PauseAfterDays)
			},
			Action:  transition(w, analysis.StatusPaused, analysis.StatusActive),
			Enabled: true,
		},
		{
			ID:          RuleAutoCompleteFinished,
			Name:        "Auto-complete finished projects",
			Description: "Mark projects complete once every step is done.",
			Condition: func(a analysis.ProjectAnalysis) bool {
				return a.CompletionPercentage >= 100 &&
					a.Status != analysis.StatusComplete && a.Status != analysis.StatusArchived
			},
			Action: func(ctx context.Context, a analysis.ProjectAnalysis) error {
				return transition(w, analysis.StatusComplete, a.Status)(ctx, a)
			},
			Enabled: true,
		},
		{
			ID:          RuleAlertLowHealth,
			Name:        "Alert on low health",
			Description: fmt.Sprintf("Send an alert when an active project's health drops below %d.", LowHealthScore),
			Condition: func(a analysis.ProjectAnalysis) bool {
				return a.Status == analysis.StatusActive && a.HealthScore < LowHealthScore
			},
			Action: func(ctx context.Context, a analysis.ProjectAnalysis) error {
				if al == nil {
					return ErrNotConfigured
				}
				return al.Alert(ctx, notify.Alert{
					ProjectID: a.ProjectID,
					Level:     notify.LevelWarning,
					Title:     fmt.Sprintf("Low health: %s", a.ProjectName),
					Message:   fmt.Sprintf("Health score is %d/100 (%.0f%% complete)", a.HealthScore, a.CompletionPercentage),
					Time:      now(),
				})
			},
			Enabled: true,
		},
		{
			ID:          RuleSmartArchive,
			Name:        "Smart archive",
			Description: fmt.Sprintf("Archive paused or completed projects untouched for more than %d days.", ArchiveAfterDays),
			Condition: func(a analysis.ProjectAnalysis) bool {
				return (a.Status == analysis.StatusPaused || a.Status == analysis.StatusComplete) &&
					a.InactiveFor(ArchiveAfterDays)
			},
			Action:  transition(w, analysis.StatusArchived, analysis.StatusPaused, analysis.StatusComplete),
			Enabled: false,
		},
	}
}

// transition returns an action that moves a project to next if it is still
// in one of expected.
func transition(w StatusWriter, next analysis.Status, expected ...analysis.Status) Action {
	return func(ctx context.Context, a analysis.ProjectAnalysis) error {
		if w == nil {
			return ErrNotConfigured
		}
		return w.UpdateProjectStatus(ctx, a.ProjectID, expected, next)
	}
}

// WithOverrides returns a copy of rules with Enabled replaced for every rule
// ID present in enabled. Unknown IDs are ignored.
func WithOverrides(rules []Rule, enabled map[string]bool) []Rule {
	out := slices.Clone(rules)
	for i := range out {
		if v, ok := enabled[out[i].ID]; ok {
			out[i].Enabled = v
		}
	}
	return out
}

// Find returns the rule with the given ID.
func Find(rules []Rule, id string) (Rule, bool) {
	for _, r := range rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
