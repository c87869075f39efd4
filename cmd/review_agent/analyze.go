package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/review-analyzer/internal/ingestion"
	"github.com/jonathan/review-analyzer/internal/observability"
	"github.com/jonathan/review-analyzer/internal/session"
	"github.com/jonathan/review-analyzer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze performance review documents",
	Long: `Extracts the text of every period's documents, runs the AI analysis and prints the result as JSON.
Periods are given as YEAR=FILE[,FILE...], oldest first; two or more periods add an evolution analysis.`,
	Example: `  review_agent analyze --name "Ana Pérez" --area Finanzas --position "Analista de Tesorería" \
    --seniority Analista --period 2023=eval_2023.pdf --period 2024=eval_2024.pdf,autoeval_2024.pdf --save`,
	RunE: runAnalyze,
}

var (
	analyzeName      string
	analyzeArea      string
	analyzePosition  string
	analyzeSeniority string
	analyzePeriods   []string
	analyzeSave      bool
	analyzeGoals     bool
	analyzePlan      bool
	analyzeOut       string
	analyzePDF       string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "Collaborator name (required)")
	analyzeCmd.Flags().StringVar(&analyzeArea, "area", "", "Area or department (required)")
	analyzeCmd.Flags().StringVar(&analyzePosition, "position", "", "Position title (required)")
	analyzeCmd.Flags().StringVar(&analyzeSeniority, "seniority", "", "Analista, Especialista, Líder or Gerente (required)")
	analyzeCmd.Flags().StringArrayVarP(&analyzePeriods, "period", "p", nil, "Evaluation period as YEAR=FILE[,FILE...] (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the result to the archive")
	analyzeCmd.Flags().BoolVar(&analyzeGoals, "goals", false, "Also generate SMART goals")
	analyzeCmd.Flags().BoolVar(&analyzePlan, "plan", false, "Also generate a development plan")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the JSON result to this file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzePDF, "pdf", "", "Export the result as a PDF report to this path")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	user := types.UserData{
		Name:      analyzeName,
		Area:      analyzeArea,
		Position:  analyzePosition,
		Seniority: types.Seniority(analyzeSeniority),
	}
	if err := session.ValidateUserData(user); err != nil {
		return fmt.Errorf("invalid collaborator data: %w", err)
	}

	periods, err := parsePeriods(analyzePeriods)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %d period(s) for %s...\n", len(periods), analyzeName)
	if _, err := a.session.SubmitForAnalysis(ctx, user, periods); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeGoals {
		if _, err := a.session.GenerateSmartGoals(ctx); err != nil {
			return fmt.Errorf("failed to generate goals: %w", err)
		}
	}
	if analyzePlan {
		if _, err := a.session.GenerateDevelopmentPlan(ctx); err != nil {
			return fmt.Errorf("failed to generate development plan: %w", err)
		}
	}
	if analyzeSave {
		saved, err := a.session.Save(ctx)
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %s\n", saved.ID)
	}

	result := a.session.Current()
	if a.cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintAnalysis(result)
	}
	if analyzePDF != "" {
		if err := exportAnalysisPDF(a, result, analyzePDF); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", analyzePDF)
	}
	return writeJSON(cmd.OutOrStdout(), analyzeOut, result.WithoutRawText())
}

// parsePeriods turns YEAR=FILE[,FILE...] flags into evaluation periods,
// reading every file. Order is preserved.
func parsePeriods(specs []string) ([]types.EvaluationPeriod, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one --period is required")
	}

	periods := make([]types.EvaluationPeriod, 0, len(specs))
	for _, spec := range specs {
		year, files, ok := strings.Cut(spec, "=")
		year = strings.TrimSpace(year)
		if !ok || year == "" || strings.TrimSpace(files) == "" {
			return nil, fmt.Errorf("invalid period %q: expected YEAR=FILE[,FILE...]", spec)
		}

		period := types.EvaluationPeriod{Year: year}
		for _, path := range strings.Split(files, ",") {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			doc, err := ingestion.IngestFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("period %s: %w", year, err)
			}
			period.Files = append(period.Files, doc)
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// writeJSON pretty-prints v to path, or to stdout when path is empty
func writeJSON(stdout io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
