package service

import (
	"context"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

// ApplyAutomation analyzes one project and runs the automation rules
// against it. With dryRun the matching rules are reported as applied but no
// action runs and nothing is recorded.
func (s *Service) ApplyAutomation(ctx context.Context, id string, dryRun bool) (AutomationReport, error) {
	a, err := s.Analyze(ctx, id)
	if err != nil {
		return AutomationReport{}, err
	}
	return s.Automate(ctx, a, dryRun), nil
}

// ApplyAutomationAll runs ApplyAutomation over every non-archived project.
// Projects are handled one at a time so each gets at most one pass.
func (s *Service) ApplyAutomationAll(ctx context.Context, dryRun bool) ([]AutomationReport, error) {
	analyses, err := s.AnalyzeAll(ctx, store.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	reports := make([]AutomationReport, 0, len(analyses))
	for _, a := range analyses {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		reports = append(reports, s.Automate(ctx, a, dryRun))
	}
	return reports, nil
}

// Automate runs the rule engine against an existing analysis and records
// applied and failed rules in the automation log.
func (s *Service) Automate(ctx context.Context, a analysis.ProjectAnalysis, dryRun bool) AutomationReport {
	rep := AutomationReport{
		ProjectID:   a.ProjectID,
		ProjectName: a.ProjectName,
		DryRun:      dryRun,
	}

	if dryRun {
		matched := make(map[string]bool)
		for _, r := range s.rules.Matching(a) {
			matched[r.ID] = true
		}
		var outcomes []automation.Outcome
		for _, r := range s.rules.Rules() {
			switch {
			case !r.Enabled:
				outcomes = append(outcomes, automation.Outcome{RuleID: r.ID, State: automation.StateDisabled})
			case matched[r.ID]:
				outcomes = append(outcomes, automation.Outcome{RuleID: r.ID, State: automation.StateApplied})
			}
		}
		rep.Outcomes = outcomes
		rep.Result = automation.Summarize(outcomes)
		return rep
	}

	rep.Outcomes = s.rules.Evaluate(ctx, a)
	rep.Result = automation.Summarize(rep.Outcomes)

	for _, o := range rep.Outcomes {
		if o.State == automation.StateDisabled {
			continue
		}
		ev := store.AutomationEvent{
			ProjectID: a.ProjectID,
			RuleID:    o.RuleID,
			State:     string(o.State),
			Detail:    o.Err,
			CreatedAt: s.now(),
		}
		if err := s.store.InsertAutomationEvent(ctx, ev); err != nil {
			s.logger.Warn("recording automation event", "project_id", a.ProjectID, "rule", o.RuleID, "err", err)
		}
	}
	return rep
}
