package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

// ProjectSummary is one entry of list_projects.
type ProjectSummary struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	Status               analysis.Status      `json:"status"`
	HealthScore          int                  `json:"health_score"`
	HealthStatus         analysis.HealthLabel `json:"health_status"`
	CompletionPercentage float64              `json:"completion_percentage"`
	NextStep             string               `json:"next_step,omitempty"`
}

// HealthResult is the payload of project_health.
type HealthResult struct {
	Analysis analysis.ProjectAnalysis `json:"analysis"`
	Health   analysis.HealthResult    `json:"health"`
}

// RuleSummary describes an automation rule to a client.
type RuleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const projectIDDescription = "Project ID (UUID), as returned by list_projects"

func (s *Server) registerProjectTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_projects",
			mcp.WithDescription("List projects with their health score, status and completion percentage."),
			mcp.WithBoolean("include_archived", mcp.Description("Include archived projects (default: false)")),
		),
		s.handleListProjects,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("project_health",
			mcp.WithDescription("Health score (0-100), health label and the full analysis of one project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description(projectIDDescription)),
		),
		s.handleProjectHealth,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("project_recommendations",
			mcp.WithDescription("Prioritized recommendations for one project, highest priority first."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description(projectIDDescription)),
		),
		s.handleProjectRecommendations,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("project_risks",
			mcp.WithDescription("Inactivity, critical health and stalled progress risks for one project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description(projectIDDescription)),
		),
		s.handleProjectRisks,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("completion_prediction",
			mcp.WithDescription("Estimated days to completion, estimated date and confidence for one project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description(projectIDDescription)),
		),
		s.handleCompletionPrediction,
	)
}

func (s *Server) registerAutomationTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("automation_suggestions",
			mcp.WithDescription("Disabled automation rules that would fire for the project if enabled. Runs nothing."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description(projectIDDescription)),
		),
		s.handleAutomationSuggestions,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("apply_automation",
			mcp.WithDescription("Run the enabled automation rules against one project and report applied and skipped rule IDs."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description(projectIDDescription)),
			mcp.WithBoolean("dry_run", mcp.Description("Report what would be applied without changing anything (default: false)")),
		),
		s.handleApplyAutomation,
	)
}

func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := store.ProjectFilter{IncludeArchived: request.GetBool("include_archived", false)}
	analyses, err := s.svc.AnalyzeAll(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing projects: %v", err)), nil
	}

	out := make([]ProjectSummary, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, ProjectSummary{
			ID:                   a.ProjectID,
			Name:                 a.ProjectName,
			Status:               a.Status,
			HealthScore:          a.HealthScore,
			HealthStatus:         a.HealthStatus(),
			CompletionPercentage: a.CompletionPercentage,
			NextStep:             a.NextIncompleteStep,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleProjectHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := projectID(request)
	if errResult != nil {
		return errResult, nil
	}
	a, err := s.svc.Analyze(ctx, id)
	if err != nil {
		return projectError(err), nil
	}
	return jsonResult(HealthResult{Analysis: a, Health: analysis.HealthResult{
		HealthScore:  a.HealthScore,
		HealthStatus: a.HealthStatus(),
	}})
}

func (s *Server) handleProjectRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := projectID(request)
	if errResult != nil {
		return errResult, nil
	}
	recs, err := s.svc.Recommendations(ctx, id)
	if err != nil {
		return projectError(err), nil
	}
	return jsonResult(recs)
}

func (s *Server) handleProjectRisks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := projectID(request)
	if errResult != nil {
		return errResult, nil
	}
	risks, err := s.svc.Risks(ctx, id)
	if err != nil {
		return projectError(err), nil
	}
	return jsonResult(risks)
}

func (s *Server) handleCompletionPrediction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := projectID(request)
	if errResult != nil {
		return errResult, nil
	}
	p, err := s.svc.Prediction(ctx, id)
	if err != nil {
		return projectError(err), nil
	}
	return jsonResult(p)
}

func (s *Server) handleAutomationSuggestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := projectID(request)
	if errResult != nil {
		return errResult, nil
	}
	rules, err := s.svc.AutomationSuggestions(ctx, id)
	if err != nil {
		return projectError(err), nil
	}
	out := make([]RuleSummary, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleSummary{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return jsonResult(out)
}

func (s *Server) handleApplyAutomation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := projectID(request)
	if errResult != nil {
		return errResult, nil
	}
	rep, err := s.svc.ApplyAutomation(ctx, id, request.GetBool("dry_run", false))
	if err != nil {
		return projectError(err), nil
	}
	return jsonResult(rep)
}

func projectID(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := request.GetString("project_id", "")
	if id == "" {
		return "", mcp.NewToolResultError("project_id is required")
	}
	return id, nil
}

func projectError(err error) *mcp.CallToolResult {
	if errors.Is(err, store.ErrProjectNotFound) {
		return mcp.NewToolResultError("project not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
