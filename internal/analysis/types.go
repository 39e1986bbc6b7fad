// Package analysis builds project snapshots into ProjectAnalysis values and
// derives health scores and completion predictions from them.
package analysis

import "time"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusReview   Status = "review"
	StatusComplete Status = "complete"
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known project status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusReview, StatusComplete, StatusArchived:
		return true
	default:
		return false
	}
}

// StepStatus is the progress state of a single framework step.
type StepStatus string

const (
	StepNotStarted StepStatus = "not_started"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
)

// Valid reports whether s is a known step status.
func (s StepStatus) Valid() bool {
	switch s {
	case StepNotStarted, StepInProgress, StepCompleted:
		return true
	default:
		return false
	}
}

// Step is one framework stage of a project.
type Step struct {
	Key    string     `json:"step_key"`
	Status StepStatus `json:"status"`
}

// Snapshot is the raw project state read from the store. It is the input to
// Build and carries no derived values.
type Snapshot struct {
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	Description string     `json:"description,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Notes       []string   `json:"notes,omitempty"`
	Steps       []Step     `json:"steps,omitempty"`
}

// ProjectAnalysis is the derived view of a project passed between the health
// scorer, the recommendation generator, the risk detector and the automation
// engine. Values are built fresh per request by Build and never persisted.
type ProjectAnalysis struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Status      Status `json:"status"`

	// HealthScore is derived from the other fields by Score. Build sets it;
	// nothing else should.
	HealthScore int `json:"health_score"`

	// CompletionPercentage is CompletedSteps/TotalSteps*100, or 0 when the
	// project has no steps.
	CompletionPercentage float64 `json:"completion_percentage"`

	LastActivity   *time.Time `json:"last_activity,omitempty"`
	CompletedSteps int        `json:"completed_steps"`
	TotalSteps     int        `json:"total_steps"`

	// NextIncompleteStep is the first step key in framework order whose
	// status is not completed. Empty when every step is done.
	NextIncompleteStep string `json:"next_incomplete_step,omitempty"`

	// DaysSinceUpdate is nil when the project has no update timestamp.
	DaysSinceUpdate *int `json:"days_since_update,omitempty"`

	HasDescription bool `json:"has_description"`
	HasTags        bool `json:"has_tags"`
	HasNotes       bool `json:"has_notes"`
}

// InactiveFor reports whether the project has a known update time more than
// days ago. A missing timestamp never counts as inactive.
func (a ProjectAnalysis) InactiveFor(days int) bool {
	return a.DaysSinceUpdate != nil && *a.DaysSinceUpdate > days
}

// HealthStatus returns the label for the analysis' health score.
func (a ProjectAnalysis) HealthStatus() HealthLabel {
	return Label(a.HealthScore)
}
