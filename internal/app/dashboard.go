package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/output"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

// dashboard is the summary printed by the bare command.
type dashboard struct {
	Projects       int            `json:"projects"`
	ByHealth       map[string]int `json:"by_health"`
	ByStatus       map[string]int `json:"by_status"`
	AverageHealth  float64        `json:"average_health"`
	NeedsAttention []string       `json:"needs_attention"`
}

func summarize(analyses []analysis.ProjectAnalysis) dashboard {
	d := dashboard{
		Projects:       len(analyses),
		ByHealth:       map[string]int{},
		ByStatus:       map[string]int{},
		NeedsAttention: []string{},
	}
	total := 0
	for _, a := range analyses {
		label := a.HealthStatus()
		d.ByHealth[string(label)]++
		d.ByStatus[string(a.Status)]++
		total += a.HealthScore
		if label == analysis.HealthNeedsAttention {
			d.NeedsAttention = append(d.NeedsAttention, a.ProjectName)
		}
	}
	if len(analyses) > 0 {
		d.AverageHealth = float64(total) / float64(len(analyses))
	}
	return d
}

func runDashboard(cmd *cobra.Command, args []string) error {
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	analyses, err := e.svc.AnalyzeAll(cmd.Context(), store.ProjectFilter{})
	if err != nil {
		return err
	}
	d := summarize(analyses)

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, d)
	}

	fmt.Fprintln(out, "toolthinker", appVersion)
	if d.Projects == 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "No projects yet. Use a subcommand:")
	} else {
		fmt.Fprintln(out, output.Section("Portfolio"))
		fmt.Fprintln(out)
		fmt.Fprintf(out, " %s%d\n", output.StyleLabel.Render("Projects"), d.Projects)
		fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Average health"), output.ScoreBar(int(d.AverageHealth+0.5), output.BarWidth()))
		for _, l := range []analysis.HealthLabel{analysis.HealthExcellent, analysis.HealthGood, analysis.HealthNeedsAttention} {
			fmt.Fprintf(out, " %s%d\n", output.StyleLabel.Render(output.HealthBadge(l)), d.ByHealth[string(l)])
		}
		for _, name := range d.NeedsAttention {
			fmt.Fprintf(out, "   %s %s\n", output.StyleError.Render("!"), name)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Commands:")
	}
	fmt.Fprintln(out, "  project   Create, list and edit projects")
	fmt.Fprintln(out, "  analyze   Health, recommendations, risks and prediction for a project")
	fmt.Fprintln(out, "  suggest   Ranked recommendations for a project")
	fmt.Fprintln(out, "  risks     Detected risks for a project")
	fmt.Fprintln(out, "  predict   Completion estimate for a project")
	fmt.Fprintln(out, "  automate  Apply automation rules")
	fmt.Fprintln(out, "  history   Recorded automation events")
	fmt.Fprintln(out, "  watch     Monitor project health and alert on changes")
	fmt.Fprintln(out, "  mcp       Run an MCP stdio server")
	return nil
}
