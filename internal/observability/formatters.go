// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/review-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends a titled bullet list capped at limit items
func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", truncate(item, 50))
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintAnalysis outputs a human-readable summary of an analysis.
func (p *Printer) PrintAnalysis(result *types.EvaluationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Colaborador: %s\n", result.Colaborador)
	fmt.Fprintf(&sb, "Puesto:      %s (%s)\n", result.Puesto, result.Seniority)
	fmt.Fprintf(&sb, "Área:        %s\n", result.Area)
	fmt.Fprintf(&sb, "Período:     %s\n", result.Año)
	fmt.Fprintf(&sb, "Puntuación:  %.1f / 10\n", result.PuntuacionGeneral)
	if result.SentimientoGeneral != "" {
		fmt.Fprintf(&sb, "Sentimiento: %s\n", result.SentimientoGeneral)
	}
	sb.WriteString("\n")

	writeList(&sb, "Fortalezas", result.Fortalezas, maxItemsToShow)
	writeList(&sb, "Oportunidades de mejora", result.OportunidadesMejora, maxItemsToShow)

	if ev := result.AnalisisEvolucion; ev != nil && len(ev.PuntuacionesHistoricas) > 0 {
		sb.WriteString("Evolución:\n")
		for _, h := range ev.PuntuacionesHistoricas {
			fmt.Fprintf(&sb, "  %s  %.1f\n", h.Anio, h.Puntuacion)
		}
		sb.WriteString("\n")
	}

	if result.ID != "" {
		fmt.Fprintf(&sb, "Guardado como %s\n", result.ID)
	}

	p.printBox("ANÁLISIS DE DESEMPEÑO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGoals outputs the drafted SMART goals.
func (p *Printer) PrintGoals(goals []types.SmartGoal) {
	if len(goals) == 0 {
		return
	}

	var sb strings.Builder
	for i, g := range goals {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, truncate(g.Objetivo, 50))
		fmt.Fprintf(&sb, "   Métrica: %s\n", truncate(g.MetricaExito, 45))
		fmt.Fprintf(&sb, "   Plazo:   %s\n", g.PlazoSugerido)
		if i < len(goals)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("OBJETIVOS SMART", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPlan outputs the development plan focus areas.
func (p *Printer) PrintPlan(plan *types.PlanDeDesarrollo) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	if plan.Introduccion != "" {
		fmt.Fprintf(&sb, "%s\n\n", truncate(plan.Introduccion, 56))
	}
	for i, a := range plan.Acciones {
		fmt.Fprintf(&sb, "• %s\n", a.AreaEnfoque)
		count := min(len(a.RecursosRecomendados), 3)
		for _, r := range a.RecursosRecomendados[:count] {
			fmt.Fprintf(&sb, "    - %s\n", truncate(r, 45))
		}
		if len(a.RecursosRecomendados) > count {
			fmt.Fprintf(&sb, "    ... and %d more\n", len(a.RecursosRecomendados)-count)
		}
		if i < len(plan.Acciones)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PLAN DE DESARROLLO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTeamAnalysis outputs the team comparison.
func (p *Printer) PrintTeamAnalysis(team *types.TeamAnalysisResult) {
	if team == nil {
		return
	}

	var sb strings.Builder
	if team.ResumenEquipo != "" {
		fmt.Fprintf(&sb, "%s\n\n", truncate(team.ResumenEquipo, 56))
	}
	writeList(&sb, "Fortalezas comunes", team.FortalezasComunes, maxItemsToShow)
	writeList(&sb, "Oportunidades grupales", team.OportunidadesGrupales, maxItemsToShow)
	if team.IniciativaSugerida != "" {
		fmt.Fprintf(&sb, "Iniciativa: %s\n", truncate(team.IniciativaSugerida, 44))
	}

	p.printBox("ANÁLISIS DE EQUIPO", strings.TrimSuffix(sb.String(), "\n"))
}
