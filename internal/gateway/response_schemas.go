package gateway

import "github.com/jonathan/review-analyzer/internal/llm"

// Provider-side constraints for structured responses. The embedded JSON
// Schemas in internal/schemas remain the authority at decode time.

var smartGoalsSchema = &llm.ResponseSchema{
	Type: llm.TypeArray,
	Items: &llm.ResponseSchema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.ResponseSchema{
			"objetivo":       llm.StringSchema("El objetivo específico y claro."),
			"metrica_exito":  llm.StringSchema("Cómo se medirá el éxito del objetivo."),
			"plazo_sugerido": llm.StringSchema("El plazo recomendado, por ejemplo 'Próximo trimestre'."),
		},
		Required: []string{"objetivo", "metrica_exito", "plazo_sugerido"},
	},
}

var developmentPlanSchema = &llm.ResponseSchema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.ResponseSchema{
		"introduccion": llm.StringSchema("Un párrafo introductorio muy breve (1-2 frases)."),
		"acciones": {
			Type: llm.TypeArray,
			Items: &llm.ResponseSchema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.ResponseSchema{
					"area_enfoque":          llm.StringSchema("La oportunidad de mejora abordada."),
					"recursos_recomendados": llm.StringListSchema("2-3 recursos: libros, cursos, podcasts."),
				},
				Required: []string{"area_enfoque", "recursos_recomendados"},
			},
		},
	},
	Required: []string{"introduccion", "acciones"},
}

var teamAnalysisSchema = &llm.ResponseSchema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.ResponseSchema{
		"resumen_equipo":         {Type: llm.TypeString},
		"fortalezas_comunes":     {Type: llm.TypeArray, Items: &llm.ResponseSchema{Type: llm.TypeString}},
		"oportunidades_grupales": {Type: llm.TypeArray, Items: &llm.ResponseSchema{Type: llm.TypeString}},
		"iniciativa_sugerida":    {Type: llm.TypeString},
	},
	Required: []string{"resumen_equipo", "fortalezas_comunes", "oportunidades_grupales", "iniciativa_sugerida"},
}
