package analysis

import "math"

// HealthLabel is the tri-state summary of a health score.
type HealthLabel string

const (
	HealthExcellent      HealthLabel = "excellent"
	HealthGood           HealthLabel = "good"
	HealthNeedsAttention HealthLabel = "needs_attention"
)

// Weights defines the health scoring weights.
type Weights struct {
	Completion         float64 `mapstructure:"completion" json:"completion"`
	Tags               float64 `mapstructure:"tags" json:"tags"`
	Notes              float64 `mapstructure:"notes" json:"notes"`
	Description        float64 `mapstructure:"description" json:"description"`
	RecentActivity     float64 `mapstructure:"recent_activity" json:"recent_activity"`
	RecentActivityDays int     `mapstructure:"recent_activity_days" json:"recent_activity_days"`
}

// DefaultWeights holds the standard health scoring weights.
var DefaultWeights = Weights{
	Completion:         0.6,
	Tags:               10,
	Notes:              10,
	Description:        10,
	RecentActivity:     10,
	RecentActivityDays: 7,
}

// HealthInputs are the fields of a ProjectAnalysis that feed the health score.
type HealthInputs struct {
	CompletionPercentage float64
	HasTags              bool
	HasNotes             bool
	HasDescription       bool
	DaysSinceUpdate      *int
}

// HealthResult pairs a score with its label.
type HealthResult struct {
	HealthScore  int         `json:"health_score"`
	HealthStatus HealthLabel `json:"health_status"`
}

// Inputs extracts the scoring inputs from an analysis.
func (a ProjectAnalysis) Inputs() HealthInputs {
	return HealthInputs{
		CompletionPercentage: a.CompletionPercentage,
		HasTags:              a.HasTags,
		HasNotes:             a.HasNotes,
		HasDescription:       a.HasDescription,
		DaysSinceUpdate:      a.DaysSinceUpdate,
	}
}

// Score calculates a 0-100 health score.
//
// Scoring breakdown with DefaultWeights:
//   - Completion:       completion% * 0.6 (0-60 points)
//   - Tags:             10 points if at least one tag
//   - Notes:            10 points if at least one note
//   - Description:      10 points if non-empty
//   - Recent activity:  10 points if updated within 7 days
//
// The sum is capped at 100 and rounded.
func Score(in HealthInputs, w Weights) int {
	score := clampPercent(in.CompletionPercentage) * w.Completion

	if in.HasTags {
		score += w.Tags
	}
	if in.HasNotes {
		score += w.Notes
	}
	if in.HasDescription {
		score += w.Description
	}

	// Recent activity requires a timestamp; none contributes nothing.
	if in.DaysSinceUpdate != nil && *in.DaysSinceUpdate <= w.RecentActivityDays {
		score += w.RecentActivity
	}

	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

// ScoreHealth scores in with DefaultWeights and labels the result.
func ScoreHealth(in HealthInputs) HealthResult {
	return ScoreHealthWith(in, DefaultWeights)
}

// ScoreHealthWith scores in with the given weights and labels the result.
func ScoreHealthWith(in HealthInputs, w Weights) HealthResult {
	s := Score(in, w)
	return HealthResult{HealthScore: s, HealthStatus: Label(s)}
}

// Label maps a score to its band. 80 and 50 belong to the higher band.
func Label(score int) HealthLabel {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 50:
		return HealthGood
	default:
		return HealthNeedsAttention
	}
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
