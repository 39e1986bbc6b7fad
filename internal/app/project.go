package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/importer"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/output"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/recommend"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

var (
	projectDescription string
	projectStatus      string
	projectTags        []string
	projectListStatus  string
	projectListAll     bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create, list and edit projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Long: `Create a project. New projects start as draft unless --status is given.

Examples:
  toolthinker project add "Campus Meals"
  toolthinker project add "Dog Walkers" --description "On-demand walks" --tag pets --status active`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with health and progress",
	Long: `List projects ordered by most recently updated. Archived projects are
hidden unless --all or --status archived is given.`,
	Args: cobra.NoArgs,
	RunE: runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project's stored fields, steps, tags and notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set a project's status (draft, active, paused, review, complete, archived)",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectStatus,
}

var projectStepCmd = &cobra.Command{
	Use:   "step <id> <step_key> <status>",
	Short: "Set a framework step's status (not_started, in_progress, completed)",
	Args:  cobra.ExactArgs(3),
	RunE:  runProjectStep,
}

var projectTagCmd = &cobra.Command{
	Use:   "tag <id> <tag>...",
	Short: "Add tags to a project",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runProjectTag,
}

var projectNoteCmd = &cobra.Command{
	Use:   "note <id> <text>...",
	Short: "Add a note to a project",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runProjectNote,
}

var projectImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Create projects from a YAML file",
	Long: `Create projects from a YAML file. The whole file is validated before
anything is written.

Example file:
  projects:
    - name: Campus Meals
      status: active
      tags: [food]
      steps:
        - key: jobs_to_be_done
          status: completed`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectImport,
}

func init() {
	projectAddCmd.Flags().StringVar(&projectDescription, "description", "", "Project description")
	projectAddCmd.Flags().StringVar(&projectStatus, "status", "", "Initial status (default: draft)")
	projectAddCmd.Flags().StringSliceVar(&projectTags, "tag", nil, "Tags (can specify multiple)")
	projectListCmd.Flags().StringVar(&projectListStatus, "status", "", "Only list projects with this status")
	projectListCmd.Flags().BoolVar(&projectListAll, "all", false, "Include archived projects")

	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectShowCmd, projectStatusCmd,
		projectStepCmd, projectTagCmd, projectNoteCmd, projectImportCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	status := analysis.Status(projectStatus)
	if status != "" && !status.Valid() {
		return fmt.Errorf("unknown status %q", projectStatus)
	}

	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	ctx := cmd.Context()
	p, err := e.db.CreateProject(ctx, store.NewProject{
		Name:        args[0],
		Description: projectDescription,
		Status:      status,
	})
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	for _, tag := range projectTags {
		if err := e.db.AddTag(ctx, p.ID, tag); err != nil {
			return fmt.Errorf("adding tag %q: %w", tag, err)
		}
	}

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), p)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", output.StyleBold.Render(p.Name), output.StyleMuted.Render(p.ID))
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	status := analysis.Status(projectListStatus)
	if status != "" && !status.Valid() {
		return fmt.Errorf("unknown status %q", projectListStatus)
	}

	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	analyses, err := e.svc.AnalyzeAll(cmd.Context(), store.ProjectFilter{Status: status, IncludeArchived: projectListAll})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		if analyses == nil {
			analyses = []analysis.ProjectAnalysis{}
		}
		return printJSON(out, analyses)
	}

	if len(analyses) == 0 {
		fmt.Fprintln(out, " No projects. Create one with 'toolthinker project add <name>'.")
		return nil
	}

	at := now()
	tbl := output.NewTable("ID", "Name", "Status", "Health", "Steps", "Next", "Updated")
	for _, a := range analyses {
		next := "-"
		if a.NextIncompleteStep != "" {
			next = recommend.StepName(a.NextIncompleteStep)
		}
		tbl.AddRow(
			shortID(a.ProjectID),
			a.ProjectName,
			output.StatusBadge(a.Status),
			fmt.Sprintf("%d %s", a.HealthScore, output.HealthBadge(a.HealthStatus())),
			fmt.Sprintf("%d/%d", a.CompletedSteps, a.TotalSteps),
			next,
			output.Ago(a.LastActivity, at),
		)
	}
	fmt.Fprint(out, tbl.Render())
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
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
	snap, err := e.db.GetProjectSnapshot(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, snap)
	}

	fmt.Fprintln(out, output.Section(snap.Name))
	fmt.Fprintln(out)
	fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("ID"), snap.ProjectID)
	fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Status"), output.StatusBadge(snap.Status))
	if snap.Description != "" {
		fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Description"), snap.Description)
	}
	fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Updated"), output.Ago(snap.UpdatedAt, now()))
	if len(snap.Tags) > 0 {
		fmt.Fprintf(out, " %s%s\n", output.StyleLabel.Render("Tags"), strings.Join(snap.Tags, ", "))
	}

	stored := make(map[string]analysis.StepStatus, len(snap.Steps))
	for _, s := range snap.Steps {
		stored[s.Key] = s.Status
	}
	fmt.Fprintln(out, output.Section("Framework"))
	fmt.Fprintln(out)
	tbl := output.NewTable("#", "Step", "Status")
	for i, key := range e.cfg.Framework {
		st, ok := stored[key]
		if !ok {
			st = analysis.StepNotStarted
		}
		cell := string(st)
		if st == analysis.StepCompleted {
			cell = output.StyleSuccess.Render(cell)
		} else {
			cell = output.StyleMuted.Render(cell)
		}
		tbl.AddRow(fmt.Sprintf("%d", i+1), recommend.StepName(key), cell)
	}
	fmt.Fprint(out, tbl.Render())

	if len(snap.Notes) > 0 {
		fmt.Fprintln(out, output.Section("Notes"))
		fmt.Fprintln(out)
		for _, n := range snap.Notes {
			fmt.Fprintln(out, output.Wrap("- "+n, 2))
		}
	}
	return nil
}

func runProjectStatus(cmd *cobra.Command, args []string) error {
	status := analysis.Status(args[1])
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", args[1])
	}

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
	if err := e.db.SetProjectStatus(ctx, id, status); err != nil {
		return fmt.Errorf("setting status: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", shortID(id), output.StatusBadge(status))
	return nil
}

func runProjectStep(cmd *cobra.Command, args []string) error {
	key := args[1]
	status := analysis.StepStatus(args[2])
	if !status.Valid() {
		return fmt.Errorf("unknown step status %q", args[2])
	}

	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if !slices.Contains(e.cfg.Framework, key) {
		return fmt.Errorf("unknown step %q (framework steps: %s)", key, strings.Join(e.cfg.Framework, ", "))
	}

	ctx := cmd.Context()
	id, err := e.resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	if err := e.db.SetStepStatus(ctx, id, key, status); err != nil {
		return fmt.Errorf("setting step: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s is %s\n", shortID(id), recommend.StepName(key), status)
	return nil
}

func runProjectTag(cmd *cobra.Command, args []string) error {
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
	for _, tag := range args[1:] {
		if err := e.db.AddTag(ctx, id, tag); err != nil {
			return fmt.Errorf("adding tag %q: %w", tag, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s: %s\n", shortID(id), strings.Join(args[1:], ", "))
	return nil
}

func runProjectNote(cmd *cobra.Command, args []string) error {
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
	if err := e.db.AddNote(ctx, id, strings.Join(args[1:], " ")); err != nil {
		return fmt.Errorf("adding note: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Noted on %s\n", shortID(id))
	return nil
}

func runProjectImport(cmd *cobra.Command, args []string) error {
	e, err := openEnv(envOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	created, err := importer.ImportFile(cmd.Context(), e.db, args[0])
	if err != nil {
		return err
	}
	e.logger.Info("imported projects", "file", args[0], "count", len(created))

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, created)
	}
	for _, p := range created {
		fmt.Fprintf(out, "Created %s %s\n", output.StyleBold.Render(p.Name), output.StyleMuted.Render(p.ID))
	}
	return nil
}
