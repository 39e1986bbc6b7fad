package recommend

import (
	"fmt"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
)

// RiskRules returns the rules DetectRisks evaluates, in order.
func RiskRules() []Rule {
	return []Rule{
		InactivityRisk,
		LowHealthRisk,
		StalledProgressRisk,
	}
}

// DetectRisks returns the risk conditions for a project, independently of
// the generator. Its inactivity and low-health entries are the same ones the
// generator emits, so callers merging both lists will see them twice.
func DetectRisks(a analysis.ProjectAnalysis) []Recommendation {
	var risks []Recommendation
	for _, rule := range RiskRules() {
		risks = append(risks, rule(a)...)
	}
	return RankRecommendations(risks)
}

// StalledProgressRisk flags projects stuck between StalledMinPct and
// StalledMaxPct completion with no update for more than StalledDays days.
func StalledProgressRisk(a analysis.ProjectAnalysis) []Recommendation {
	if a.CompletionPercentage <= StalledMinPct || a.CompletionPercentage >= StalledMaxPct {
		return nil
	}
	if !a.InactiveFor(StalledDays) {
		return nil
	}
	return []Recommendation{{
		Type:     TypeRisk,
		Priority: PriorityMedium,
		Title:    "Progress has stalled",
		Description: fmt.Sprintf(
			"The project has been stuck at %.0f%% for %d days. "+
				"Consider narrowing the scope or revisiting your assumptions.",
			a.CompletionPercentage, *a.DaysSinceUpdate,
		),
		ActionURL:   projectURL(a),
		ActionLabel: "Review project",
	}}
}
