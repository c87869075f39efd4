package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/review-analyzer/internal/observability"
)

var goalsCmd = &cobra.Command{
	Use:   "goals <id>",
	Short: "Generate SMART goals for a saved analysis",
	Long:  "Loads a saved analysis, drafts SMART goals from its improvement opportunities and saves it back.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoals,
}

var planCmd = &cobra.Command{
	Use:   "plan <id>",
	Short: "Generate a development plan for a saved analysis",
	Long:  "Loads a saved analysis, drafts a development plan for its position and seniority and saves it back.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(goalsCmd, planCmd)
}

func runGoals(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	if _, err := a.session.View(ctx, args[0]); err != nil {
		return err
	}
	goals, err := a.session.GenerateSmartGoals(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate goals: %w", err)
	}
	if a.cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintGoals(goals)
	}
	if _, err := a.session.Save(ctx); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), "", goals)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	if _, err := a.session.View(ctx, args[0]); err != nil {
		return err
	}
	plan, err := a.session.GenerateDevelopmentPlan(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate development plan: %w", err)
	}
	if a.cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintPlan(plan)
	}
	if _, err := a.session.Save(ctx); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), "", plan)
}
