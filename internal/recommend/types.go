// Package recommend provides the recommendation engine, its rules and the
// risk detector.
package recommend

import "github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"

// Type categorizes a recommendation.
type Type string

const (
	TypeNextStep     Type = "next_step"
	TypeTool         Type = "tool"
	TypeOptimization Type = "optimization"
	TypeRisk         Type = "risk"
	TypeCompletion   Type = "completion"
)

// Priority levels for recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high sorts first. Unknown priorities
// sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Recommendation is a typed, prioritized suggestion for a project. It is
// computed per request and never stored.
type Recommendation struct {
	Type        Type     `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	ActionURL   string   `json:"action_url,omitempty"`
	ActionLabel string   `json:"action_label,omitempty"`
}

// Rule is a function that examines a project analysis and produces zero or
// more recommendations.
type Rule func(a analysis.ProjectAnalysis) []Recommendation

// Thresholds shared by the generator rules and the risk detector.
const (
	InactiveDays         = 30
	StalledDays          = 60
	CriticalHealth       = 30
	NearCompletionPct    = 80.0
	DescriptionCutoffPct = 50.0
	BusinessPlanMinPct   = 50.0
	PitchDeckMinPct      = 70.0
	StalledMinPct        = 20.0
	StalledMaxPct        = 50.0
)
