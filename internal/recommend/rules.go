package recommend

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
)

var titleCaser = cases.Title(language.English)

// StepName turns a step key such as "value_proposition" into "Value Proposition".
func StepName(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

func projectURL(a analysis.ProjectAnalysis) string {
	return "/projects/" + a.ProjectID
}

// InactivityRisk flags projects that have not been updated for more than
// InactiveDays days.
func InactivityRisk(a analysis.ProjectAnalysis) []Recommendation {
	if !a.InactiveFor(InactiveDays) {
		return nil
	}
	return []Recommendation{{
		Type:     TypeRisk,
		Priority: PriorityHigh,
		Title:    "Project is going stale",
		Description: fmt.Sprintf(
			"This project hasn't been updated in %d days. "+
				"Pick up where you left off before your research goes out of date.",
			*a.DaysSinceUpdate,
		),
		ActionURL:   projectURL(a),
		ActionLabel: "Resume project",
	}}
}

// LowHealthRisk flags projects whose health score is below CriticalHealth.
func LowHealthRisk(a analysis.ProjectAnalysis) []Recommendation {
	if a.HealthScore >= CriticalHealth {
		return nil
	}
	return []Recommendation{{
		Type:     TypeRisk,
		Priority: PriorityHigh,
		Title:    "Project health is low",
		Description: fmt.Sprintf(
			"Health score is %d/100. Completing steps and filling in the project "+
				"description, tags and notes will raise it.",
			a.HealthScore,
		),
		ActionURL:   projectURL(a),
		ActionLabel: "Review project",
	}}
}

// NextStep points at the first incomplete step in framework order.
func NextStep(a analysis.ProjectAnalysis) []Recommendation {
	if a.NextIncompleteStep == "" {
		return nil
	}
	name := StepName(a.NextIncompleteStep)
	return []Recommendation{{
		Type:     TypeNextStep,
		Priority: PriorityHigh,
		Title:    fmt.Sprintf("Continue with %s", name),
		Description: fmt.Sprintf(
			"Your project is %.0f%% complete. %s is the next step in the framework.",
			a.CompletionPercentage, name,
		),
		ActionURL:   fmt.Sprintf("%s/steps/%s", projectURL(a), a.NextIncompleteStep),
		ActionLabel: "Open step",
	}}
}

// NearCompletion returns a rule that predicts the finish for projects at or
// above NearCompletionPct, using avgDaysPerStep as the pace.
func NearCompletion(avgDaysPerStep float64) Rule {
	return func(a analysis.ProjectAnalysis) []Recommendation {
		if a.CompletionPercentage < NearCompletionPct {
			return nil
		}
		days := analysis.EstimateDays(a.CompletedSteps, a.TotalSteps, avgDaysPerStep)
		return []Recommendation{{
			Type:     TypeCompletion,
			Priority: PriorityMedium,
			Title:    "Almost there",
			Description: fmt.Sprintf(
				"You're %.0f%% done. At your current pace the project could be finished in about %d days.",
				a.CompletionPercentage, days,
			),
			ActionURL:   projectURL(a),
			ActionLabel: "View progress",
		}}
	}
}

// MissingDescription suggests a description for early-stage projects.
func MissingDescription(a analysis.ProjectAnalysis) []Recommendation {
	if a.HasDescription || a.CompletionPercentage >= DescriptionCutoffPct {
		return nil
	}
	return []Recommendation{{
		Type:        TypeOptimization,
		Priority:    PriorityMedium,
		Title:       "Add a project description",
		Description: "A short description of the problem and the customer keeps every framework step focused.",
		ActionURL:   projectURL(a) + "/edit",
		ActionLabel: "Add description",
	}}
}

// MissingTags suggests tagging untagged projects.
func MissingTags(a analysis.ProjectAnalysis) []Recommendation {
	if a.HasTags {
		return nil
	}
	return []Recommendation{{
		Type:        TypeOptimization,
		Priority:    PriorityLow,
		Title:       "Tag your project",
		Description: "Tags make it easier to find and group related ideas.",
		ActionURL:   projectURL(a) + "/edit",
		ActionLabel: "Add tags",
	}}
}

// MissingNotes suggests notes once at least one step is complete.
func MissingNotes(a analysis.ProjectAnalysis) []Recommendation {
	if a.HasNotes || a.CompletedSteps == 0 {
		return nil
	}
	return []Recommendation{{
		Type:     TypeOptimization,
		Priority: PriorityLow,
		Title:    "Capture what you've learned",
		Description: fmt.Sprintf(
			"You've completed %d step(s) but haven't written any notes. "+
				"Record key decisions while they're fresh.",
			a.CompletedSteps,
		),
		ActionURL:   projectURL(a) + "/notes",
		ActionLabel: "Add note",
	}}
}

// BusinessPlanTool suggests the business plan generator for mid-progress
// projects.
func BusinessPlanTool(a analysis.ProjectAnalysis) []Recommendation {
	if a.CompletionPercentage < BusinessPlanMinPct || a.CompletionPercentage >= NearCompletionPct {
		return nil
	}
	return []Recommendation{{
		Type:        TypeTool,
		Priority:    PriorityMedium,
		Title:       "Generate a business plan",
		Description: "You have enough framework work done to draft a business plan from it.",
		ActionURL:   "/tools/business-plan?project=" + a.ProjectID,
		ActionLabel: "Generate plan",
	}}
}

// PitchDeckTool suggests the pitch deck generator for late-progress projects.
// It overlaps BusinessPlanTool between 70% and 80%; both fire there.
func PitchDeckTool(a analysis.ProjectAnalysis) []Recommendation {
	if a.CompletionPercentage < PitchDeckMinPct {
		return nil
	}
	return []Recommendation{{
		Type:        TypeTool,
		Priority:    PriorityMedium,
		Title:       "Create a pitch deck",
		Description: "Turn your completed frameworks into a pitch deck for investors or partners.",
		ActionURL:   "/tools/pitch-deck?project=" + a.ProjectID,
		ActionLabel: "Create deck",
	}}
}
