package report

import (
	"io"

	"github.com/jonathan/review-analyzer/internal/types"
)

// WriteTeamAnalysis renders a team comparison report.
func (r *Renderer) WriteTeamAnalysis(w io.Writer, team *types.TeamAnalysisResult) error {
	if team == nil {
		return &RenderError{Message: "no team analysis to render"}
	}

	d := r.newDocument("Análisis Comparativo de Equipo")
	d.rule(0.5)

	d.heading("Resumen del Equipo")
	d.text("I", `"`+team.ResumenEquipo+`"`, 0)
	d.pdf.Ln(lineHeight * 2)

	d.list("Fortalezas Comunes", team.FortalezasComunes)
	d.list("Oportunidades Grupales", team.OportunidadesGrupales)

	d.heading("Iniciativa de Desarrollo Sugerida")
	d.text("", team.IniciativaSugerida, 5)

	return d.output(w)
}
