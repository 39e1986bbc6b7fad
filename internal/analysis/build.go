package analysis

import (
	"math"
	"strings"
	"time"
)

// Build derives a ProjectAnalysis from a snapshot.
//
// framework is the canonical, ordered list of step keys. Framework steps with
// no row in the snapshot count as not started; snapshot steps outside the
// framework still count toward the totals but are never the next step. now
// is the evaluation time used for DaysSinceUpdate and the recency bonus.
func Build(s Snapshot, framework []string, now time.Time, w Weights) ProjectAnalysis {
	statuses := make(map[string]StepStatus, len(s.Steps))
	var order []string
	for _, st := range s.Steps {
		if _, seen := statuses[st.Key]; !seen {
			order = append(order, st.Key)
		}
		statuses[st.Key] = st.Status
	}

	inFramework := make(map[string]bool, len(framework))
	keys := make([]string, 0, len(framework)+len(order))
	for _, k := range framework {
		if inFramework[k] {
			continue
		}
		inFramework[k] = true
		keys = append(keys, k)
	}
	for _, k := range order {
		if !inFramework[k] {
			keys = append(keys, k)
		}
	}

	a := ProjectAnalysis{
		ProjectID:      s.ProjectID,
		ProjectName:    s.Name,
		Status:         s.Status,
		TotalSteps:     len(keys),
		HasDescription: strings.TrimSpace(s.Description) != "",
		HasTags:        anyNonBlank(s.Tags),
		HasNotes:       anyNonBlank(s.Notes),
	}

	for _, k := range keys {
		if statuses[k] == StepCompleted {
			a.CompletedSteps++
		}
	}
	a.CompletionPercentage = CompletionPercentage(a.CompletedSteps, a.TotalSteps)

	for _, k := range framework {
		if statuses[k] != StepCompleted {
			a.NextIncompleteStep = k
			break
		}
	}

	if s.UpdatedAt != nil && !s.UpdatedAt.IsZero() {
		t := *s.UpdatedAt
		a.LastActivity = &t
		d := DaysSince(t, now)
		a.DaysSinceUpdate = &d
	}

	a.HealthScore = Score(a.Inputs(), w)
	return a
}

// CompletionPercentage returns completed/total*100, or 0 for an empty project.
func CompletionPercentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	if completed < 0 {
		completed = 0
	}
	return float64(completed) / float64(total) * 100
}

// DaysSince returns the number of whole days between t and now. Timestamps in
// the future count as zero days.
func DaysSince(t, now time.Time) int {
	d := now.Sub(t)
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Hours() / 24))
}

func anyNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
