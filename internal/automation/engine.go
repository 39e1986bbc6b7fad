package automation

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
)

// DefaultConcurrency bounds how many matched actions run at once.
const DefaultConcurrency = 4

// State is the per-rule result of an automation pass.
type State string

const (
	StateApplied  State = "applied"
	StateFailed   State = "failed"
	StateDisabled State = "disabled"
)

// Outcome records what happened to one rule. Rules whose condition did not
// hold produce no outcome.
type Outcome struct {
	RuleID string `json:"rule_id"`
	State  State  `json:"state"`
	Err    string `json:"error,omitempty"`
}

// Result lists the rule IDs that were applied and skipped, in rule order.
// Skipped covers disabled rules and rules whose action failed.
type Result struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

// Engine evaluates an injected rule set.
type Engine struct {
	rules       []Rule
	logger      *log.Logger
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for action failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithConcurrency bounds concurrent action execution. Values below 1 are
// ignored.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine creates an engine over rules. The slice is copied.
func NewEngine(rules []Rule, opts ...Option) *Engine {
	e := &Engine{
		rules:       append([]Rule(nil), rules...),
		logger:      log.New(io.Discard),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns a copy of the engine's rule set.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Evaluate runs every enabled rule whose condition holds and reports one
// outcome per disabled or matched rule, in rule order. Action errors and
// panics are logged and reported as failures; Evaluate itself never fails.
// Actions for different rules may run concurrently.
func (e *Engine) Evaluate(ctx context.Context, a analysis.ProjectAnalysis) []Outcome {
	slots := make([]*Outcome, len(e.rules))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, r := range e.rules {
		if !r.Enabled {
			slots[i] = &Outcome{RuleID: r.ID, State: StateDisabled}
			continue
		}
		if !e.holds(r, a) {
			continue
		}
		g.Go(func() error {
			slots[i] = e.run(ctx, r, a)
			return nil
		})
	}
	_ = g.Wait()

	outcomes := make([]Outcome, 0, len(slots))
	for _, o := range slots {
		if o != nil {
			outcomes = append(outcomes, *o)
		}
	}
	return outcomes
}

// Apply runs Evaluate and folds the outcomes into applied and skipped IDs.
func (e *Engine) Apply(ctx context.Context, a analysis.ProjectAnalysis) Result {
	return Summarize(e.Evaluate(ctx, a))
}

// Suggestions returns the disabled rules whose condition currently holds.
// No action is executed.
func (e *Engine) Suggestions(a analysis.ProjectAnalysis) []Rule {
	var out []Rule
	for _, r := range e.rules {
		if !r.Enabled && e.holds(r, a) {
			out = append(out, r)
		}
	}
	return out
}

// Matching returns the enabled rules whose condition currently holds, the
// set Apply would execute. No action is executed.
func (e *Engine) Matching(a analysis.ProjectAnalysis) []Rule {
	var out []Rule
	for _, r := range e.rules {
		if r.Enabled && e.holds(r, a) {
			out = append(out, r)
		}
	}
	return out
}

// Summarize folds outcomes into a Result.
func Summarize(outcomes []Outcome) Result {
	res := Result{Applied: []string{}, Skipped: []string{}}
	for _, o := range outcomes {
		if o.State == StateApplied {
			res.Applied = append(res.Applied, o.RuleID)
		} else {
			res.Skipped = append(res.Skipped, o.RuleID)
		}
	}
	return res
}

func (e *Engine) holds(r Rule, a analysis.ProjectAnalysis) (ok bool) {
	if r.Condition == nil {
		return false
	}
	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("automation condition panicked", "rule", r.ID, "project_id", a.ProjectID, "panic", p)
			ok = false
		}
	}()
	return r.Condition(a)
}

func (e *Engine) run(ctx context.Context, r Rule, a analysis.ProjectAnalysis) (out *Outcome) {
	out = &Outcome{RuleID: r.ID, State: StateApplied}
	defer func() {
		if p := recover(); p != nil {
			out.State = StateFailed
			out.Err = fmt.Sprintf("panic: %v", p)
			e.logger.Error("automation action panicked", "rule", r.ID, "project_id", a.ProjectID, "panic", p)
		}
	}()

	if r.Action == nil {
		out.State = StateFailed
		out.Err = ErrNotConfigured.Error()
		e.logger.Warn("automation rule has no action", "rule", r.ID, "project_id", a.ProjectID)
		return out
	}
	if err := r.Action(ctx, a); err != nil {
		out.State = StateFailed
		out.Err = err.Error()
		e.logger.Warn("automation action failed", "rule", r.ID, "project_id", a.ProjectID, "err", err)
		return out
	}
	e.logger.Info("automation rule applied", "rule", r.ID, "project_id", a.ProjectID)
	return out
}
