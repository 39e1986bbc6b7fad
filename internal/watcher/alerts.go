package watcher

import (
	"fmt"
	"sort"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
)

// Compare detects notable changes between two watch states and returns
// alerts ordered critical, warning, info. Within a level alerts are ordered
// by project name.
func Compare(prev, curr *WatchState) []notify.Alert {
	var alerts []notify.Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical flags projects whose health just fell below the critical
// threshold.
func compareCritical(prev, curr *WatchState) []notify.Alert {
	var alerts []notify.Alert
	for _, c := range sortedProjects(curr) {
		p, ok := prev.Projects[c.ID]
		if !ok {
			continue
		}
		if c.HealthScore < automation.LowHealthScore && p.HealthScore >= automation.LowHealthScore {
			alerts = append(alerts, notify.Alert{
				ProjectID: c.ID,
				Level:     notify.LevelCritical,
				Title:     fmt.Sprintf("Health critical: %s", c.Name),
				Message:   fmt.Sprintf("Health fell from %d to %d", p.HealthScore, c.HealthScore),
				Time:      curr.Timestamp,
			})
		}
	}
	return alerts
}

// compareWarning flags health label regressions.
func compareWarning(prev, curr *WatchState) []notify.Alert {
	var alerts []notify.Alert
	for _, c := range sortedProjects(curr) {
		p, ok := prev.Projects[c.ID]
		if !ok {
			continue
		}
		if labelRank(c.HealthLabel) < labelRank(p.HealthLabel) {
			alerts = append(alerts, notify.Alert{
				ProjectID: c.ID,
				Level:     notify.LevelWarning,
				Title:     fmt.Sprintf("Health dropped: %s", c.Name),
				Message:   fmt.Sprintf("Now %s (%d), was %s (%d)", c.HealthLabel, c.HealthScore, p.HealthLabel, p.HealthScore),
				Time:      curr.Timestamp,
			})
		}
	}
	return alerts
}

// compareInfo reports new projects, status changes and label improvements.
func compareInfo(prev, curr *WatchState) []notify.Alert {
	var alerts []notify.Alert
	for _, c := range sortedProjects(curr) {
		p, ok := prev.Projects[c.ID]
		if !ok {
			alerts = append(alerts, notify.Alert{
				ProjectID: c.ID,
				Level:     notify.LevelInfo,
				Title:     fmt.Sprintf("New project: %s", c.Name),
				Message:   fmt.Sprintf("Status %s, health %d", c.Status, c.HealthScore),
				Time:      curr.Timestamp,
			})
			continue
		}
		if c.Status != p.Status {
			alerts = append(alerts, notify.Alert{
				ProjectID: c.ID,
				Level:     notify.LevelInfo,
				Title:     fmt.Sprintf("Status changed: %s", c.Name),
				Message:   fmt.Sprintf("%s -> %s", p.Status, c.Status),
				Time:      curr.Timestamp,
			})
		}
		if labelRank(c.HealthLabel) > labelRank(p.HealthLabel) {
			alerts = append(alerts, notify.Alert{
				ProjectID: c.ID,
				Level:     notify.LevelInfo,
				Title:     fmt.Sprintf("Health improved: %s", c.Name),
				Message:   fmt.Sprintf("Now %s (%d), was %s (%d)", c.HealthLabel, c.HealthScore, p.HealthLabel, p.HealthScore),
				Time:      curr.Timestamp,
			})
		}
	}
	return alerts
}

// automationAlerts reports rules the pass applied or failed to apply.
func automationAlerts(curr *WatchState) []notify.Alert {
	var alerts []notify.Alert
	for _, rep := range curr.Automation {
		for _, o := range rep.Outcomes {
			switch o.State {
			case automation.StateApplied:
				alerts = append(alerts, notify.Alert{
					ProjectID: rep.ProjectID,
					Level:     notify.LevelInfo,
					Title:     fmt.Sprintf("Automation applied: %s", rep.ProjectName),
					Message:   o.RuleID,
					Time:      curr.Timestamp,
				})
			case automation.StateFailed:
				alerts = append(alerts, notify.Alert{
					ProjectID: rep.ProjectID,
					Level:     notify.LevelWarning,
					Title:     fmt.Sprintf("Automation failed: %s", rep.ProjectName),
					Message:   fmt.Sprintf("%s: %s", o.RuleID, o.Err),
					Time:      curr.Timestamp,
				})
			}
		}
	}
	return alerts
}

func labelRank(l analysis.HealthLabel) int {
	switch l {
	case analysis.HealthExcellent:
		return 2
	case analysis.HealthGood:
		return 1
	default:
		return 0
	}
}

func sortedProjects(s *WatchState) []ProjectState {
	out := make([]ProjectState, 0, len(s.Projects))
	for _, p := range s.Projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
