package report

import (
	"fmt"
	"io"

	"github.com/jonathan/review-analyzer/internal/types"
)

// WriteAnalysis renders an individual performance report.
func (r *Renderer) WriteAnalysis(w io.Writer, result *types.EvaluationResult) error {
	if result == nil {
		return &RenderError{Message: "no analysis to render"}
	}

	d := r.newDocument("Análisis de Desempeño")

	d.line("Colaborador: " + result.Colaborador)
	d.line(fmt.Sprintf("Puesto: %s (%s)", result.Puesto, result.Seniority))
	d.line("Área: " + result.Area)
	d.line("Período Analizado: " + result.Año)
	d.pdf.Ln(lineHeight * 0.5)
	d.rule(0.5)

	d.heading("Resumen Ejecutivo")
	d.text("", result.ResumenEjecutivo, 0)
	d.pdf.Ln(lineHeight)

	d.ensureSpace(lineHeight * 2)
	d.pdf.SetFont(fontFamily, "B", fontSizeSub)
	d.pdf.SetX(margin)
	d.pdf.CellFormat(0, lineHeight, d.tr("Puntuación General: "+score(result.PuntuacionGeneral)), "", 1, "L", false, 0, "")
	d.pdf.Ln(lineHeight)

	if evo := result.AnalisisEvolucion; evo != nil {
		d.ensureSpace(20)
		d.rule(0.2)
		d.heading("Análisis de Evolución")
		d.text("I", `"`+evo.ResumenTrayectoria+`"`, 0)
		d.pdf.Ln(lineHeight)

		if len(evo.PuntuacionesHistoricas) > 0 {
			history := make([]string, 0, len(evo.PuntuacionesHistoricas))
			for _, h := range evo.PuntuacionesHistoricas {
				history = append(history, fmt.Sprintf("%s: %s", h.Anio, score(h.Puntuacion)))
			}
			d.list("Puntuaciones Históricas", history)
		}
		d.list("Progreso Destacado", evo.ProgresoEnOportunidades)
		d.list("Fortalezas Consistentes", evo.FortalezasConsistentes)
		d.list("Desafíos Recurrentes", evo.DesafiosRecurrentes)
	}

	d.ensureSpace(20)
	d.rule(0.2)
	d.list("Fortalezas (Último Período)", result.Fortalezas)
	d.list("Oportunidades de Mejora (Último Período)", result.OportunidadesMejora)

	writeGoals(d, result.ObjetivosSmart)
	writePlan(d, result.PlanDesarrollo)
	d.list("Preguntas para la Conversación", result.PreguntasDiscusion)

	return d.output(w)
}

func writeGoals(d *document, goals []types.SmartGoal) {
	if len(goals) == 0 {
		return
	}
	d.heading("Objetivos SMART Sugeridos")
	for i, g := range goals {
		d.ensureSpace(40)
		d.text("B", fmt.Sprintf("Objetivo %d: %s", i+1, g.Objetivo), 5)
		d.pdf.Ln(lineHeight * 0.5)
		d.text("", "Métrica de Éxito: "+g.MetricaExito, 10)
		d.pdf.Ln(lineHeight * 0.5)
		d.text("", "Plazo Sugerido: "+g.PlazoSugerido, 10)
		d.pdf.Ln(lineHeight * 1.5)
	}
	d.pdf.Ln(lineHeight)
}

func writePlan(d *document, plan *types.PlanDeDesarrollo) {
	if plan == nil || len(plan.Acciones) == 0 {
		return
	}
	d.heading("Recursos para el Desarrollo")
	d.text("I", `"`+plan.Introduccion+`"`, 0)
	d.pdf.Ln(lineHeight)

	for _, a := range plan.Acciones {
		d.ensureSpace(40)
		d.text("B", "Para mejorar: "+a.AreaEnfoque, 5)
		d.pdf.Ln(lineHeight * 0.5)
		if len(a.RecursosRecomendados) > 0 {
			d.text("", "Recursos Sugeridos:", 10)
			d.pdf.Ln(lineHeight * 0.5)
			for _, res := range a.RecursosRecomendados {
				d.text("", "• "+res, 15)
				d.pdf.Ln(lineHeight * 0.5)
			}
		}
		d.pdf.Ln(lineHeight * 1.5)
	}
	d.pdf.Ln(lineHeight)
}
