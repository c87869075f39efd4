package report

import (
	"regexp"
	"strings"
)

// TeamFilename is the download name of a team comparison report
const TeamFilename = "Analisis_Comparativo_Equipo.pdf"

var nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// AnalysisFilename returns the download name of an individual report.
// Runs of anything but letters and digits collapse to a single underscore.
func AnalysisFilename(colaborador string) string {
	name := strings.Trim(nonAlphanumeric.ReplaceAllString(colaborador, "_"), "_")
	if name == "" {
		name = "Colaborador"
	}
	return "Analisis_Desempeno_" + name + ".pdf"
}
