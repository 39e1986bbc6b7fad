package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
)

// --- InactivityRisk ---

func TestInactivityRisk(t *testing.T) {
	assert.Empty(t, InactivityRisk(analysisFor(1, 4, nil, true, true, true, "")))
	assert.Empty(t, InactivityRisk(analysisFor(1, 4, intPtr(30), true, true, true, "")))

	recs := InactivityRisk(analysisFor(1, 4, intPtr(31), true, true, true, ""))
	require.Len(t, recs, 1)
	assert.Equal(t, TypeRisk, recs[0].Type)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Contains(t, recs[0].Description, "31 days")
}

// --- LowHealthRisk ---

func TestLowHealthRisk(t *testing.T) {
	a := analysis.ProjectAnalysis{HealthScore: 29}
	recs := LowHealthRisk(a)
	require.Len(t, recs, 1)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Contains(t, recs[0].Description, "29/100")

	a.HealthScore = 30
	assert.Empty(t, LowHealthRisk(a))
}

// --- NextStep ---

func TestNextStep(t *testing.T) {
	a := analysisFor(1, 4, nil, true, true, true, "business_model_canvas")
	recs := NextStep(a)
	require.Len(t, recs, 1)
	assert.Equal(t, TypeNextStep, recs[0].Type)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, "Continue with Business Model Canvas", recs[0].Title)
	assert.Contains(t, recs[0].Description, "25%")
	assert.True(t, strings.HasSuffix(recs[0].ActionURL, "/steps/business_model_canvas"))

	a.NextIncompleteStep = ""
	assert.Empty(t, NextStep(a))
}

func TestStepName(t *testing.T) {
	assert.Equal(t, "Jobs To Be Done", StepName("jobs_to_be_done"))
	assert.Equal(t, "Value Proposition", StepName("value_proposition"))
	assert.Equal(t, "Mvp", StepName("MVP"))
	assert.Equal(t, "", StepName(""))
}

// --- NearCompletion ---

func TestNearCompletion(t *testing.T) {
	rule := NearCompletion(3)

	assert.Empty(t, rule(analysisFor(7, 10, nil, true, true, true, "")))

	recs := rule(analysisFor(8, 10, nil, true, true, true, ""))
	require.Len(t, recs, 1)
	assert.Equal(t, TypeCompletion, recs[0].Type)
	assert.Equal(t, PriorityMedium, recs[0].Priority)
	assert.Contains(t, recs[0].Description, "about 6 days")

	recs = rule(analysisFor(10, 10, nil, true, true, true, ""))
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Description, "about 0 days")
}

// --- MissingDescription ---

func TestMissingDescription(t *testing.T) {
	recs := MissingDescription(analysisFor(4, 10, nil, false, true, true, ""))
	require.Len(t, recs, 1)
	assert.Equal(t, TypeOptimization, recs[0].Type)
	assert.Equal(t, PriorityMedium, recs[0].Priority)

	assert.Empty(t, MissingDescription(analysisFor(5, 10, nil, false, true, true, "")), "50% is not below the cutoff")
	assert.Empty(t, MissingDescription(analysisFor(1, 10, nil, true, true, true, "")))
}

// --- MissingTags ---

func TestMissingTags(t *testing.T) {
	recs := MissingTags(analysisFor(0, 10, nil, true, false, true, ""))
	require.Len(t, recs, 1)
	assert.Equal(t, PriorityLow, recs[0].Priority)

	assert.Empty(t, MissingTags(analysisFor(0, 10, nil, true, true, true, "")))
}

// --- MissingNotes ---

func TestMissingNotes(t *testing.T) {
	assert.Empty(t, MissingNotes(analysisFor(0, 10, nil, true, true, false, "")), "no completed steps yet")
	assert.Empty(t, MissingNotes(analysisFor(2, 10, nil, true, true, true, "")))

	recs := MissingNotes(analysisFor(2, 10, nil, true, true, false, ""))
	require.Len(t, recs, 1)
	assert.Equal(t, PriorityLow, recs[0].Priority)
	assert.Contains(t, recs[0].Description, "2 step(s)")
}

// --- Tool rules ---

func TestBusinessPlanTool_Window(t *testing.T) {
	tests := []struct {
		completed int
		want      bool
	}{
		{4, false},
		{5, true},
		{7, true},
		{8, false},
	}
	for _, tt := range tests {
		got := BusinessPlanTool(analysisFor(tt.completed, 10, nil, true, true, true, ""))
		assert.Equal(t, tt.want, len(got) == 1, "completed=%d", tt.completed)
	}
}

func TestPitchDeckTool_Window(t *testing.T) {
	assert.Empty(t, PitchDeckTool(analysisFor(6, 10, nil, true, true, true, "")))
	assert.Len(t, PitchDeckTool(analysisFor(7, 10, nil, true, true, true, "")), 1)
	assert.Len(t, PitchDeckTool(analysisFor(10, 10, nil, true, true, true, "")), 1)
}
