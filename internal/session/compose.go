package session

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/review-analyzer/internal/ingestion"
	"github.com/jonathan/review-analyzer/internal/types"
)

// DocumentSeparator joins the texts of documents within one period
const DocumentSeparator = "\n\n---\n\n"

// PeriodText is the extracted text of one period, one entry per document.
type PeriodText struct {
	Year      string
	Documents []string
}

// Text joins the period's documents.
func (p PeriodText) Text() string {
	return strings.Join(p.Documents, DocumentSeparator)
}

// HasText reports whether any document of the period produced text.
func (p PeriodText) HasText() bool {
	for _, d := range p.Documents {
		if strings.TrimSpace(d) != "" {
			return true
		}
	}
	return false
}

// ComposePeriods wraps each period in year-labeled markers and concatenates
// them in input order.
func ComposePeriods(periods []PeriodText) string {
	var sb strings.Builder
	for _, p := range periods {
		fmt.Fprintf(&sb, "--- INICIO PERÍODO: %s ---\n\n%s\n\n--- FIN PERÍODO: %s ---\n\n", p.Year, p.Text(), p.Year)
	}
	return sb.String()
}

// extractPeriods extracts every document. Documents within a period run
// concurrently; periods run in order. The first failure cancels the rest.
func extractPeriods(ctx context.Context, extractor ingestion.Extractor, periods []types.EvaluationPeriod) ([]PeriodText, error) {
	out := make([]PeriodText, 0, len(periods))
	for _, period := range periods {
		texts := make([]string, len(period.Files))

		g, gctx := errgroup.WithContext(ctx)
		for i, doc := range period.Files {
			g.Go(func() error {
				text, err := extractor.ExtractText(gctx, doc)
				if err != nil {
					return fmt.Errorf("period %s: %w", period.Year, err)
				}
				texts[i] = text
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		out = append(out, PeriodText{Year: strings.TrimSpace(period.Year), Documents: texts})
	}
	return out, nil
}
