package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/output"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
)

var (
	automateAll    bool
	automateDryRun bool
	historyLimit   int
)

var automateCmd = &cobra.Command{
	Use:   "automate [id]",
	Short: "Apply automation rules to a project or to every project",
	Long: `Evaluate the automation rules against a project and run the actions of
every enabled rule whose condition holds. Applied and failed rules are
recorded in the automation history.

Rules:
  auto-pause-inactive     active projects idle for 30+ days are paused
  auto-complete-finished  projects with every step done become complete
  alert-low-health        active projects with health below 30 raise an alert
  smart-archive           paused or complete projects idle for 90+ days are archived (opt-in)

Examples:
  toolthinker automate 3f2a9c1e
  toolthinker automate --all --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAutomate,
}

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List recorded automation events",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	automateCmd.Flags().BoolVar(&automateAll, "all", false, "Apply to every non-archived project")
	automateCmd.Flags().BoolVar(&automateDryRun, "dry-run", false, "Show which rules would apply without changing anything")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of events to show (0 = all)")
	rootCmd.AddCommand(automateCmd, historyCmd)
}

func runAutomate(cmd *cobra.Command, args []string) error {
	if automateAll == (len(args) == 1) {
		return errors.New("give a project ID or --all")
	}

	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	ctx := cmd.Context()
	var reports []service.AutomationReport
	if automateAll {
		reports, err = e.svc.ApplyAutomationAll(ctx, automateDryRun)
		if err != nil {
			return err
		}
	} else {
		id, err := e.resolveID(ctx, args[0])
		if err != nil {
			return err
		}
		rep, err := e.svc.ApplyAutomation(ctx, id, automateDryRun)
		if err != nil {
			return err
		}
		reports = append(reports, rep)
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		if reports == nil {
			reports = []service.AutomationReport{}
		}
		return printJSON(out, reports)
	}
	renderAutomation(out, reports, automateDryRun)
	return nil
}

func renderAutomation(out io.Writer, reports []service.AutomationReport, dryRun bool) {
	title := "Automation"
	if dryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, output.Section(title))
	fmt.Fprintln(out)

	acted := 0
	for _, rep := range reports {
		if len(rep.Outcomes) == 0 {
			continue
		}
		acted++
		fmt.Fprintf(out, " %s %s\n", output.StyleBold.Render(rep.ProjectName), output.StyleMuted.Render(shortID(rep.ProjectID)))
		for _, o := range rep.Outcomes {
			line := fmt.Sprintf("   %-24s %s", o.RuleID, output.OutcomeBadge(o.State))
			if o.Err != "" {
				line += " " + output.StyleMuted.Render(o.Err)
			}
			fmt.Fprintln(out, line)
		}
	}
	if acted == 0 {
		fmt.Fprintln(out, " No rules matched.")
		return
	}

	var applied int
	for _, rep := range reports {
		applied += len(rep.Applied)
	}
	verb := "applied"
	if dryRun {
		verb = "would apply"
	}
	fmt.Fprintf(out, "\n %d %s across %d project(s)\n", applied, verb, len(reports))
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	ctx := cmd.Context()
	var id string
	if len(args) == 1 {
		if id, err = e.resolveID(ctx, args[0]); err != nil {
			return err
		}
	}

	events, err := e.db.ListAutomationEvents(ctx, id, historyLimit)
	if err != nil {
		return fmt.Errorf("listing automation events: %w", err)
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		if events == nil {
			return printJSON(out, []any{})
		}
		return printJSON(out, events)
	}
	if len(events) == 0 {
		fmt.Fprintln(out, " No automation events recorded.")
		return nil
	}

	at := now()
	tbl := output.NewTable("When", "Project", "Rule", "State", "Detail")
	for _, ev := range events {
		created := ev.CreatedAt
		tbl.AddRow(
			output.Ago(&created, at),
			shortID(ev.ProjectID),
			ev.RuleID,
			output.OutcomeBadge(automation.State(ev.State)),
			strings.TrimSpace(ev.Detail),
		)
	}
	fmt.Fprint(out, tbl.Render())
	return nil
}
