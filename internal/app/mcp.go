package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server exposing project health tools",
	Long: `Start a Model Context Protocol stdio server. The server exposes:

  list_projects            Projects with health score, label and next step
  project_health           Health score and label for a project
  project_recommendations  Ranked recommendations for a project
  project_risks            Detected risks for a project
  completion_prediction    Estimated days and date to completion
  automation_suggestions   Disabled rules that would apply if enabled
  apply_automation         Run the automation rules (supports dry_run)

Add to an MCP client configuration:
  {"mcpServers":{"toolthinker":{"command":"toolthinker","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol; alerts go to stderr.
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	e.logger.Debug("mcp server starting", "version", appVersion)
	srv := mcp.NewServer(e.svc, appVersion)
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
