// Package service composes the project store with the analysis,
// recommendation and automation engines. It is the layer the CLI, the watch
// loop and the MCP server call into.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/recommend"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

// Store is the persistence the service needs. *store.DB satisfies it.
type Store interface {
	GetProjectSnapshot(ctx context.Context, id string) (analysis.Snapshot, error)
	ListProjects(ctx context.Context, f store.ProjectFilter) ([]store.Project, error)
	InsertAutomationEvent(ctx context.Context, ev store.AutomationEvent) error
	automation.StatusWriter
}

// Settings are the tunables taken from config.
type Settings struct {
	Framework      []string
	Weights        analysis.Weights
	AvgDaysPerStep float64
	RuleOverrides  map[string]bool
	Concurrency    int
}

// Service answers health, recommendation and automation questions about
// stored projects.
type Service struct {
	store    Store
	settings Settings
	now      func() time.Time
	logger   *log.Logger
	alerter  notify.Alerter

	recs  *recommend.Engine
	rules *automation.Engine
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the evaluation clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAlerter sets where alert-low-health sends alerts.
func WithAlerter(al notify.Alerter) Option {
	return func(s *Service) { s.alerter = al }
}

// New creates a Service.
func New(st Store, settings Settings, opts ...Option) *Service {
	if settings.AvgDaysPerStep <= 0 {
		settings.AvgDaysPerStep = analysis.DefaultAvgDaysPerStep
	}
	if settings.Weights == (analysis.Weights{}) {
		settings.Weights = analysis.DefaultWeights
	}
	if settings.Concurrency < 1 {
		settings.Concurrency = automation.DefaultConcurrency
	}

	s := &Service{
		store:    st,
		settings: settings,
		now:      time.Now,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.recs = recommend.NewEngine(settings.AvgDaysPerStep)
	rules := automation.WithOverrides(automation.DefaultRules(st, s.alerter, s.now), settings.RuleOverrides)
	s.rules = automation.NewEngine(rules,
		automation.WithLogger(s.logger),
		automation.WithConcurrency(settings.Concurrency),
	)
	return s
}

// Rules returns the configured automation rule set.
func (s *Service) Rules() []automation.Rule {
	return s.rules.Rules()
}

// Analyze builds the current analysis of one project.
func (s *Service) Analyze(ctx context.Context, id string) (analysis.ProjectAnalysis, error) {
	snap, err := s.store.GetProjectSnapshot(ctx, id)
	if err != nil {
		return analysis.ProjectAnalysis{}, fmt.Errorf("reading project %s: %w", id, err)
	}
	return analysis.Build(snap, s.settings.Framework, s.now(), s.settings.Weights), nil
}

// AnalyzeAll analyzes every project matching f, in store order. Projects
// are read concurrently.
func (s *Service) AnalyzeAll(ctx context.Context, f store.ProjectFilter) ([]analysis.ProjectAnalysis, error) {
	projects, err := s.store.ListProjects(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	out := make([]analysis.ProjectAnalysis, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.Concurrency)
	for i, p := range projects {
		g.Go(func() error {
			a, err := s.Analyze(gctx, p.ID)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Health returns the score and label for one project.
func (s *Service) Health(ctx context.Context, id string) (analysis.HealthResult, error) {
	a, err := s.Analyze(ctx, id)
	if err != nil {
		return analysis.HealthResult{}, err
	}
	return analysis.ScoreHealthWith(a.Inputs(), s.settings.Weights), nil
}

// Recommendations returns the ranked recommendations for one project.
func (s *Service) Recommendations(ctx context.Context, id string) ([]recommend.Recommendation, error) {
	a, err := s.Analyze(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recs.Run(a), nil
}

// Risks returns the ranked risks for one project.
func (s *Service) Risks(ctx context.Context, id string) ([]recommend.Recommendation, error) {
	a, err := s.Analyze(ctx, id)
	if err != nil {
		return nil, err
	}
	return recommend.DetectRisks(a), nil
}

// Prediction estimates when one project will be complete.
func (s *Service) Prediction(ctx context.Context, id string) (analysis.Prediction, error) {
	a, err := s.Analyze(ctx, id)
	if err != nil {
		return analysis.Prediction{}, err
	}
	return s.predict(a), nil
}

// AutomationSuggestions returns disabled rules that would fire for the
// project if they were enabled.
func (s *Service) AutomationSuggestions(ctx context.Context, id string) ([]automation.Rule, error) {
	a, err := s.Analyze(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.rules.Suggestions(a), nil
}

// Report gathers every derived view of one project.
func (s *Service) Report(ctx context.Context, id string) (Report, error) {
	a, err := s.Analyze(ctx, id)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Analysis:        a,
		Health:          analysis.ScoreHealthWith(a.Inputs(), s.settings.Weights),
		Recommendations: s.recs.Run(a),
		Risks:           recommend.DetectRisks(a),
		Prediction:      s.predict(a),
		Suggestions:     ruleIDs(s.rules.Suggestions(a)),
	}, nil
}

func (s *Service) predict(a analysis.ProjectAnalysis) analysis.Prediction {
	return analysis.Predict(a.CompletedSteps, a.TotalSteps, s.settings.AvgDaysPerStep, s.now())
}

func ruleIDs(rules []automation.Rule) []string {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	return ids
}
