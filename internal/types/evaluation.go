// Package types provides type definitions for structured data used throughout the review-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"time"
)

// Feedback is the user's rating of an analysis. A nil *Feedback means unset.
type Feedback string

// Feedback values
const (
	FeedbackUp   Feedback = "up"
	FeedbackDown Feedback = "down"
)

// CompetenciaEvaluada is a single competency scored on a 1-5 scale.
type CompetenciaEvaluada struct {
	Nombre     string  `json:"nombre"`
	Puntuacion float64 `json:"puntuacion"`
}

// PuntuacionHistorica is the overall score of a past period.
type PuntuacionHistorica struct {
	Anio       string  `json:"anio"`
	Puntuacion float64 `json:"puntuacion"`
}

// AnalisisEvolucion describes the multi-period trend. Only present when more
// than one period contributed text.
type AnalisisEvolucion struct {
	ResumenTrayectoria      string                `json:"resumen_trayectoria"`
	ProgresoEnOportunidades []string              `json:"progreso_en_oportunidades"`
	FortalezasConsistentes  []string              `json:"fortalezas_consistentes"`
	DesafiosRecurrentes     []string              `json:"desafios_recurrentes"`
	PuntuacionesHistoricas  []PuntuacionHistorica `json:"puntuaciones_historicas,omitempty"`
}

// SmartGoal is one SMART development goal.
type SmartGoal struct {
	Objetivo      string `json:"objetivo"`
	MetricaExito  string `json:"metrica_exito"`
	PlazoSugerido string `json:"plazo_sugerido"`
}

// DevelopmentAction lists learning resources for one focus area.
type DevelopmentAction struct {
	AreaEnfoque          string   `json:"area_enfoque"`
	RecursosRecomendados []string `json:"recursos_recomendados"`
}

// PlanDeDesarrollo is the generated development plan.
type PlanDeDesarrollo struct {
	Introduccion string              `json:"introduccion"`
	Acciones     []DevelopmentAction `json:"acciones"`
}

// EvaluationResult is the structured analysis of a collaborator's evaluation documents.
// The session holds one editable copy of it; the archive stores saved copies.
type EvaluationResult struct {
	// Identity, set on first save
	ID      string     `json:"id,omitempty"`
	SavedAt *time.Time `json:"savedAt,omitempty"`

	Feedback *Feedback `json:"feedback,omitempty"`
	RawText  string    `json:"raw_text,omitempty"` // Source text kept as chat grounding

	// Echoed from UserData, never trusted from the model
	Colaborador string `json:"colaborador"`
	Area        string `json:"area"`
	Puesto      string `json:"puesto"`
	Seniority   string `json:"seniority"`

	Año                   string                `json:"año"`
	TipoDocumento         string                `json:"tipo_documento"`
	ObjetivosPrincipales  []string              `json:"objetivos_principales"`
	LogrosDestacados      []string              `json:"logros_destacados"`
	Fortalezas            []string              `json:"fortalezas"`
	OportunidadesMejora   []string              `json:"oportunidades_mejora"`
	ComentariosJefe       string                `json:"comentarios_jefe"`
	EvaluacionGeneral     string                `json:"evaluacion_general"`
	CompetenciasEvaluadas []CompetenciaEvaluada `json:"competencias_evaluadas"`
	SentimientoGeneral    string                `json:"sentimiento_general"`
	PuntuacionGeneral     float64               `json:"puntuacion_general"`
	ResumenEjecutivo      string                `json:"resumen_ejecutivo"`
	PreguntasDiscusion    []string              `json:"preguntas_discusion"`
	AnalisisEvolucion     *AnalisisEvolucion    `json:"analisis_evolucion,omitempty"`

	// Secondary artifacts generated on demand
	ObjetivosSmart []SmartGoal        `json:"objetivos_smart,omitempty"`
	PlanDesarrollo *PlanDeDesarrollo `json:"plan_desarrollo,omitempty"`
}

// Clone returns a deep copy of the result.
func (r *EvaluationResult) Clone() *EvaluationResult {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		// Every field is JSON-safe; a failure here is a programming error.
		panic("types: cloning evaluation result: " + err.Error())
	}
	var out EvaluationResult
	if err := json.Unmarshal(data, &out); err != nil {
		panic("types: cloning evaluation result: " + err.Error())
	}
	return &out
}

// WithoutRawText returns a deep copy with the source text removed.
func (r *EvaluationResult) WithoutRawText() *EvaluationResult {
	out := r.Clone()
	if out != nil {
		out.RawText = ""
	}
	return out
}

// ApplyUserData overwrites the identity fields with what the user entered.
func (r *EvaluationResult) ApplyUserData(u UserData) {
	r.Colaborador = u.Name
	r.Area = u.Area
	r.Puesto = u.Position
	r.Seniority = string(u.Seniority)
}

// ToggleFeedback sets the feedback, or clears it when f is already active.
func (r *EvaluationResult) ToggleFeedback(f Feedback) {
	if r.Feedback != nil && *r.Feedback == f {
		r.Feedback = nil
		return
	}
	r.Feedback = &f
}

// HasOpportunities reports whether at least one improvement opportunity is listed.
func (r *EvaluationResult) HasOpportunities() bool {
	return len(r.OportunidadesMejora) > 0
}

// Summary returns the reduced view sent to team comparison.
func (r *EvaluationResult) Summary() TeamMemberSummary {
	return TeamMemberSummary{
		Colaborador:         r.Colaborador,
		PuntuacionGeneral:   r.PuntuacionGeneral,
		Fortalezas:          append([]string(nil), r.Fortalezas...),
		OportunidadesMejora: append([]string(nil), r.OportunidadesMejora...),
		ResumenEjecutivo:    r.ResumenEjecutivo,
	}
}
