package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/review-analyzer/internal/observability"
)

var compareCmd = &cobra.Command{
	Use:   "compare <id> <id> [id...]",
	Short: "Compare two or more saved analyses as a team",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCompare,
}

var comparePDF string

func init() {
	compareCmd.Flags().StringVar(&comparePDF, "pdf", "", "Export the comparison as a PDF report to this path")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	team, err := a.session.CompareTeam(ctx, args)
	if err != nil {
		return fmt.Errorf("team comparison failed: %w", err)
	}
	if a.cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintTeamAnalysis(team)
	}

	if comparePDF != "" {
		if err := writeFile(comparePDF, func(f io.Writer) error {
			return a.renderer.WriteTeamAnalysis(f, team)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", comparePDF)
	}
	return writeJSON(cmd.OutOrStdout(), "", team)
}
