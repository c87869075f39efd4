package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/review-analyzer/internal/report"
	"github.com/jonathan/review-analyzer/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved analysis as a PDF report",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (default: Analisis_Desempeno_<name>.pdf)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	result, err := a.session.View(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = report.AnalysisFilename(result.Colaborador)
	}
	if err := exportAnalysisPDF(a, result, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
	return nil
}

func exportAnalysisPDF(a *app, result *types.EvaluationResult, path string) error {
	return writeFile(path, func(f io.Writer) error {
		return a.renderer.WriteAnalysis(f, result)
	})
}

// writeFile renders into path, removing the partial file when rendering fails
func writeFile(path string, render func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
