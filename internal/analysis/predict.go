package analysis

import (
	"math"
	"time"
)

// DefaultAvgDaysPerStep is the assumed pace when none is configured.
const DefaultAvgDaysPerStep = 2.0

// Confidence grades a completion prediction.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Prediction is an estimate of when a project will finish.
type Prediction struct {
	EstimatedDays int        `json:"estimated_days"`
	EstimatedDate time.Time  `json:"estimated_date"`
	Confidence    Confidence `json:"confidence"`
}

// EstimateDays returns ceil(remaining steps * avgDaysPerStep), never negative.
// A non-positive avgDaysPerStep falls back to DefaultAvgDaysPerStep.
func EstimateDays(completedSteps, totalSteps int, avgDaysPerStep float64) int {
	if avgDaysPerStep <= 0 || math.IsNaN(avgDaysPerStep) {
		avgDaysPerStep = DefaultAvgDaysPerStep
	}
	remaining := totalSteps - completedSteps
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(float64(remaining) * avgDaysPerStep))
}

// Predict estimates the remaining days and completion date and grades the
// estimate by how much of the project is already done.
func Predict(completedSteps, totalSteps int, avgDaysPerStep float64, now time.Time) Prediction {
	days := EstimateDays(completedSteps, totalSteps, avgDaysPerStep)
	return Prediction{
		EstimatedDays: days,
		EstimatedDate: now.AddDate(0, 0, days),
		Confidence:    confidenceFor(completedSteps, totalSteps),
	}
}

func confidenceFor(completed, total int) Confidence {
	if total <= 0 {
		return ConfidenceLow
	}
	c, t := float64(completed), float64(total)
	switch {
	case c >= 0.5*t:
		return ConfidenceHigh
	case c >= 0.25*t:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
