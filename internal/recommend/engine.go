package recommend

import "github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"

// Engine runs all registered rules against a ProjectAnalysis and collects
// the resulting recommendations.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with all built-in rules registered, in their
// emission order. avgDaysPerStep feeds the near-completion estimate.
func NewEngine(avgDaysPerStep float64) *Engine {
	return NewEngineWithRules(
		InactivityRisk,
		LowHealthRisk,
		NextStep,
		NearCompletion(avgDaysPerStep),
		MissingDescription,
		MissingTags,
		MissingNotes,
		BusinessPlanTool,
		PitchDeckTool,
	)
}

// NewEngineWithRules creates an engine that runs only the given rules.
func NewEngineWithRules(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Run executes every rule (there is no early exit) and returns the collected
// recommendations sorted by priority.
func (e *Engine) Run(a analysis.ProjectAnalysis) []Recommendation {
	var all []Recommendation
	for _, rule := range e.rules {
		all = append(all, rule(a)...)
	}
	return RankRecommendations(all)
}

// Generate runs the built-in rules with the default pace.
func Generate(a analysis.ProjectAnalysis) []Recommendation {
	return NewEngine(analysis.DefaultAvgDaysPerStep).Run(a)
}
