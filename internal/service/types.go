package service

import (
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/recommend"
)

// Report is the full derived view of one project.
type Report struct {
	Analysis        analysis.ProjectAnalysis   `json:"analysis"`
	Health          analysis.HealthResult      `json:"health"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Risks           []recommend.Recommendation `json:"risks"`
	Prediction      analysis.Prediction        `json:"prediction"`
	Suggestions     []string                   `json:"automation_suggestions"`
}

// AutomationReport is the result of one automation pass over a project.
type AutomationReport struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	DryRun      bool   `json:"dry_run,omitempty"`
	automation.Result
	Outcomes []automation.Outcome `json:"outcomes"`
}
