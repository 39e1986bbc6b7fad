package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateDays(t *testing.T) {
	assert.Equal(t, 0, EstimateDays(0, 0, 2))
	assert.Equal(t, 10, EstimateDays(5, 10, 2))
	assert.Equal(t, 8, EstimateDays(5, 10, 1.5)) // ceil(7.5)
	assert.Equal(t, 0, EstimateDays(10, 10, 2))
	assert.Equal(t, 0, EstimateDays(12, 10, 2))
}

func TestEstimateDays_NonPositivePaceUsesDefault(t *testing.T) {
	assert.Equal(t, 6, EstimateDays(7, 10, 0))
	assert.Equal(t, 6, EstimateDays(7, 10, -1))
}

func TestPredict_NoSteps(t *testing.T) {
	p := Predict(0, 0, DefaultAvgDaysPerStep, testNow)
	assert.Equal(t, 0, p.EstimatedDays)
	assert.Equal(t, ConfidenceLow, p.Confidence)
	assert.True(t, p.EstimatedDate.Equal(testNow))
}

func TestPredict_Confidence(t *testing.T) {
	tests := []struct {
		completed, total int
		want             Confidence
	}{
		{5, 10, ConfidenceHigh},
		{10, 10, ConfidenceHigh},
		{3, 10, ConfidenceMedium},
		{1, 4, ConfidenceMedium},
		{1, 10, ConfidenceLow},
		{0, 10, ConfidenceLow},
	}
	for _, tt := range tests {
		got := Predict(tt.completed, tt.total, DefaultAvgDaysPerStep, testNow)
		assert.Equal(t, tt.want, got.Confidence, "%d/%d", tt.completed, tt.total)
	}
}

func TestPredict_EstimatedDate(t *testing.T) {
	p := Predict(6, 10, 2, testNow)
	assert.Equal(t, 8, p.EstimatedDays)
	assert.Equal(t, time.Date(2026, 3, 23, 12, 0, 0, 0, time.UTC), p.EstimatedDate)
}
