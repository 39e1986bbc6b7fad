package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/recommend"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

type testEnv struct {
	srv *Server
	db  *store.DB
	now time.Time
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	now := created.Add(40 * 24 * time.Hour)

	db, err := store.OpenInMemory(store.WithClock(func() time.Time { return created }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := service.New(db, service.Settings{
		Framework: []string{"jobs_to_be_done", "value_proposition", "business_model_canvas", "market_sizing"},
	}, service.WithClock(func() time.Time { return now }))

	return &testEnv{srv: NewServer(svc, "test"), db: db, now: now}
}

func (e *testEnv) seed(t *testing.T, name string, status analysis.Status) store.Project {
	t.Helper()
	p, err := e.db.CreateProject(context.Background(), store.NewProject{Name: name, Status: status})
	require.NoError(t, err)
	return p
}

func newRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func getText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, getText(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(getText(t, result)), &v))
	return v
}

func TestListProjects(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()
	env.seed(t, "Alpha", analysis.StatusActive)
	env.seed(t, "Gone", analysis.StatusArchived)

	res, err := env.srv.handleListProjects(ctx, newRequest(nil))
	require.NoError(t, err)
	got := decode[[]ProjectSummary](t, res)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, analysis.HealthNeedsAttention, got[0].HealthStatus)
	assert.Equal(t, "jobs_to_be_done", got[0].NextStep)

	res, err = env.srv.handleListProjects(ctx, newRequest(map[string]any{"include_archived": true}))
	require.NoError(t, err)
	assert.Len(t, decode[[]ProjectSummary](t, res), 2)
}

func TestProjectHealth(t *testing.T) {
	env := newTestServer(t)
	p := env.seed(t, "Alpha", analysis.StatusActive)

	res, err := env.srv.handleProjectHealth(context.Background(), newRequest(map[string]any{"project_id": p.ID}))
	require.NoError(t, err)
	got := decode[HealthResult](t, res)

	assert.Equal(t, p.ID, got.Analysis.ProjectID)
	assert.Equal(t, 0, got.Health.HealthScore)
	assert.Equal(t, analysis.HealthNeedsAttention, got.Health.HealthStatus)
	require.NotNil(t, got.Analysis.DaysSinceUpdate)
	assert.Equal(t, 40, *got.Analysis.DaysSinceUpdate)
}

func TestProjectTools_RequireProjectID(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"project_health":          env.srv.handleProjectHealth,
		"project_recommendations": env.srv.handleProjectRecommendations,
		"project_risks":           env.srv.handleProjectRisks,
		"completion_prediction":   env.srv.handleCompletionPrediction,
		"automation_suggestions":  env.srv.handleAutomationSuggestions,
		"apply_automation":        env.srv.handleApplyAutomation,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			res, err := h(ctx, newRequest(nil))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, getText(t, res), "project_id is required")

			res, err = h(ctx, newRequest(map[string]any{"project_id": "missing"}))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Equal(t, "project not found", getText(t, res))
		})
	}
}

func TestProjectRecommendationsAndRisks(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()
	p := env.seed(t, "Alpha", analysis.StatusActive)
	args := map[string]any{"project_id": p.ID}

	res, err := env.srv.handleProjectRecommendations(ctx, newRequest(args))
	require.NoError(t, err)
	recs := decode[[]recommend.Recommendation](t, res)
	require.NotEmpty(t, recs)
	assert.Equal(t, recommend.PriorityHigh, recs[0].Priority)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank())
	}

	res, err = env.srv.handleProjectRisks(ctx, newRequest(args))
	require.NoError(t, err)
	risks := decode[[]recommend.Recommendation](t, res)
	assert.Len(t, risks, 2)
}

func TestCompletionPrediction(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()
	p := env.seed(t, "Alpha", analysis.StatusActive)
	require.NoError(t, env.db.SetStepStatus(ctx, p.ID, "jobs_to_be_done", analysis.StepCompleted))

	res, err := env.srv.handleCompletionPrediction(ctx, newRequest(map[string]any{"project_id": p.ID}))
	require.NoError(t, err)
	got := decode[analysis.Prediction](t, res)

	assert.Equal(t, 6, got.EstimatedDays)
	assert.Equal(t, analysis.ConfidenceMedium, got.Confidence)
	assert.True(t, got.EstimatedDate.Equal(env.now.AddDate(0, 0, 6)))
}

func TestAutomationTools(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()
	p := env.seed(t, "Alpha", analysis.StatusActive)
	args := map[string]any{"project_id": p.ID, "dry_run": true}

	res, err := env.srv.handleApplyAutomation(ctx, newRequest(args))
	require.NoError(t, err)
	dry := decode[service.AutomationReport](t, res)
	assert.True(t, dry.DryRun)
	assert.Equal(t, []string{automation.RuleAutoPauseInactive, automation.RuleAlertLowHealth}, dry.Applied)

	got, err := env.db.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.StatusActive, got.Status)

	args["dry_run"] = false
	res, err = env.srv.handleApplyAutomation(ctx, newRequest(args))
	require.NoError(t, err)
	rep := decode[service.AutomationReport](t, res)
	assert.Equal(t, []string{automation.RuleAutoPauseInactive}, rep.Applied)
	assert.Equal(t, []string{automation.RuleAlertLowHealth, automation.RuleSmartArchive}, rep.Skipped)

	res, err = env.srv.handleAutomationSuggestions(ctx, newRequest(map[string]any{"project_id": p.ID}))
	require.NoError(t, err)
	assert.Empty(t, decode[[]RuleSummary](t, res))
}
