// Package types provides type definitions for structured data used throughout the review-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TeamMemberSummary is the only part of an EvaluationResult shared with team comparison.
type TeamMemberSummary struct {
	Colaborador         string   `json:"colaborador"`
	PuntuacionGeneral   float64  `json:"puntuacion_general"`
	Fortalezas          []string `json:"fortalezas"`
	OportunidadesMejora []string `json:"oportunidades_mejora"`
	ResumenEjecutivo    string   `json:"resumen_ejecutivo"`
}

// TeamAnalysisResult is the comparative report of two or more saved analyses.
// It is view-only and never persisted.
type TeamAnalysisResult struct {
	ResumenEquipo         string   `json:"resumen_equipo"`
	FortalezasComunes     []string `json:"fortalezas_comunes"`
	OportunidadesGrupales []string `json:"oportunidades_grupales"`
	IniciativaSugerida    string   `json:"iniciativa_sugerida"`
}
