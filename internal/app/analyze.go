package app

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/output"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/recommend"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
)

var suggestLimit int

var analyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Show a project's health, recommendations, risks and prediction",
	Long: `Build a full report for one project: health score and label, framework
progress, ranked recommendations, detected risks, the completion estimate and
any disabled automation rules that would apply if enabled.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <id>",
	Short: "Generate ranked recommendations for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

var risksCmd = &cobra.Command{
	Use:   "risks <id>",
	Short: "Detect risks for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runRisks,
}

var predictCmd = &cobra.Command{
	Use:   "predict <id>",
	Short: "Estimate when a project will be complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runPredict,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "Maximum number of recommendations to show (0 = all)")
	rootCmd.AddCommand(analyzeCmd, suggestCmd, risksCmd, predictCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	ctx := cmd.Context()
	id, err := e.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	rep, err := e.svc.Report(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, rep)
	}
	renderReport(out, rep)
	return nil
}

func renderReport(out io.Writer, rep service.Report) {
	a := rep.Analysis
	at := now()

	fmt.Fprintln(out, output.Section(a.ProjectName))
	fmt.Fprintln(out)
	fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Status"), output.StatusBadge(a.Status))
	fmt.Fprintf(out, " %s%s  %s\n", output.StyleLabel.Render("Health"),
		output.ScoreBar(rep.Health.HealthScore, output.BarWidth()), output.HealthBadge(rep.Health.HealthStatus))
	fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Progress"),
		output.CompletionBar(a.CompletedSteps, a.TotalSteps, a.CompletionPercentage, output.BarWidth()))
	if a.NextIncompleteStep != "" {
		fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Next step"), recommend.StepName(a.NextIncompleteStep))
	}
	fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Last activity"), output.Ago(a.LastActivity, at))
	renderPrediction(out, rep.Prediction, at)

	fmt.Fprintln(out, output.Section("Recommendations"))
	fmt.Fprintln(out)
	renderRecommendations(out, rep.Recommendations, "No recommendations.")

	fmt.Fprintln(out, output.Section("Risks"))
	fmt.Fprintln(out)
	renderRecommendations(out, rep.Risks, "No risks detected.")

	if len(rep.Suggestions) > 0 {
		fmt.Fprintln(out, output.Section("Automation suggestions"))
		fmt.Fprintln(out)
		for _, id := range rep.Suggestions {
			fmt.Fprintf(out, "  %s would apply if enabled (automation.enabled.%s: true)\n", output.StyleBold.Render(id), id)
		}
	}
}

func renderPrediction(out io.Writer, p analysis.Prediction, at time.Time) {
	if p.EstimatedDays == 0 {
		fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Estimated finish"), output.StyleSuccess.Render("done"))
		return
	}
	fmt.Fprintf(out, " %s%d days, %s %s\n", output.StyleLabel.Render("Estimated finish"),
		p.EstimatedDays, output.Date(p.EstimatedDate, at), output.StyleMuted.Render(string(p.Confidence)+" confidence"))
}

func renderRecommendations(out io.Writer, recs []recommend.Recommendation, empty string) {
	if len(recs) == 0 {
		fmt.Fprintf(out, " %s\n", empty)
		return
	}
	for i, r := range recs {
		fmt.Fprintf(out, " #%d %s %s\n", i+1, output.PriorityBadge(r.Priority), output.StyleBold.Render(r.Title))
		fmt.Fprintln(out, output.Wrap(r.Description, 4))
		if r.ActionURL != "" {
			label := r.ActionLabel
			if label == "" {
				label = "Open"
			}
			fmt.Fprintf(out, "    %s %s\n", output.StyleMuted.Render(label+":"), r.ActionURL)
		}
		fmt.Fprintln(out)
	}
}

func runSuggest(cmd *cobra.Command, args []string) error {
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	ctx := cmd.Context()
	id, err := e.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	recs, err := e.svc.Recommendations(ctx, id)
	if err != nil {
		return err
	}
	if suggestLimit > 0 && len(recs) > suggestLimit {
		recs = recs[:suggestLimit]
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, recs)
	}
	fmt.Fprintln(out, output.Section("Recommendations"))
	fmt.Fprintln(out)
	renderRecommendations(out, recs, "No recommendations. This project looks good!")
	return nil
}

func runRisks(cmd *cobra.Command, args []string) error {
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	ctx := cmd.Context()
	id, err := e.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	risks, err := e.svc.Risks(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, risks)
	}
	fmt.Fprintln(out, output.Section("Risks"))
	fmt.Fprintln(out)
	renderRecommendations(out, risks, "No risks detected.")
	return nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	ctx := cmd.Context()
	id, err := e.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	p, err := e.svc.Prediction(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, p)
	}
	renderPrediction(out, p, now())
	return nil
}
