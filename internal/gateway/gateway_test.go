package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-analyzer/internal/llm"
	"github.com/jonathan/review-analyzer/internal/types"
)

const analysisJSON = `{
	"año": "2024",
	"tipo_documento": "Evaluación anual",
	"fortalezas": ["Comunicación"],
	"oportunidades_mejora": ["Delegación"],
	"resumen_ejecutivo": "• A\n• B\n• C",
	"puntuacion_general": 8,
	"competencias_evaluadas": [{"nombre": "Visión Estratégica", "puntuacion": 4}],
	"id": "from-model",
	"raw_text": "from-model",
	"analisis_evolucion": null
}`

var testUser = types.UserData{Name: "Ana Pérez", Area: "Finanzas", Position: "Jefa de Tesorería", Seniority: types.SeniorityLider}

func TestAnalyzeDocument_BuffersStream(t *testing.T) {
	half := len(analysisJSON) / 2
	client := &fakeClient{chunks: []string{"```json\n", analysisJSON[:half], analysisJSON[half:], "\n```"}}
	g := NewWithClient(client)

	result, err := g.AnalyzeDocument(context.Background(), "texto de evaluación", testUser)
	require.NoError(t, err)

	assert.Equal(t, 8.0, result.PuntuacionGeneral)
	assert.Equal(t, []string{"Delegación"}, result.OportunidadesMejora)
	assert.Empty(t, result.ID)
	assert.Empty(t, result.RawText)
	assert.Nil(t, result.AnalisisEvolucion)

	assert.Contains(t, client.lastPrompt, "texto de evaluación")
	assert.Contains(t, client.lastPrompt, "Jefa de Tesorería")
	assert.Contains(t, client.lastPrompt, "Visión Estratégica")
}

func TestAnalyzeDocument_IndividualContributorHint(t *testing.T) {
	client := &fakeClient{chunks: []string{analysisJSON}}
	g := NewWithClient(client)

	user := testUser
	user.Seniority = types.SeniorityAnalista
	_, err := g.AnalyzeDocument(context.Background(), "texto", user)
	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "Calidad del Trabajo")
	assert.NotContains(t, client.lastPrompt, "{{.")
}

func TestAnalyzeDocument_Failures(t *testing.T) {
	tests := []struct {
		name            string
		client          *fakeClient
		wantUnavailable bool
		wantMessage     string
	}{
		{
			name:        "empty response",
			client:      &fakeClient{chunks: []string{"  "}},
			wantMessage: "empty response",
		},
		{
			name:        "malformed JSON",
			client:      &fakeClient{chunks: []string{`{"fortalezas": [`}},
			wantMessage: "not valid JSON",
		},
		{
			name:        "schema mismatch",
			client:      &fakeClient{chunks: []string{`{"fortalezas": "una sola"}`}},
			wantMessage: "expected shape",
		},
		{
			name:            "overloaded mid-stream",
			client:          &fakeClient{chunks: []string{"{"}, streamErr: errors.New("model is overloaded")},
			wantUnavailable: true,
		},
		{
			name:        "other provider failure",
			client:      &fakeClient{streamErr: errors.New("invalid argument")},
			wantMessage: "invalid argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithClient(tt.client)
			_, err := g.AnalyzeDocument(context.Background(), "texto", testUser)
			require.Error(t, err)

			if tt.wantUnavailable {
				var ue *UpstreamUnavailableError
				require.ErrorAs(t, err, &ue)
				assert.Equal(t, UnavailableMessage, err.Error())
				return
			}
			var upe *UpstreamError
			require.ErrorAs(t, err, &upe)
			assert.Equal(t, OpAnalyze, upe.Operation)
			assert.Contains(t, err.Error(), tt.wantMessage)
		})
	}
}

func TestMissingCredential_NoNetworkCall(t *testing.T) {
	g := NewLLMGateway(llm.DefaultGeminiConfig(), "")
	ctx := context.Background()

	_, err := g.AnalyzeDocument(ctx, "texto", testUser)
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, llm.ErrMissingCredentials)

	_, err = g.GenerateGoals(ctx, []string{"Delegación"})
	assert.ErrorAs(t, err, &ce)

	_, err = g.GenerateDevelopmentPlan(ctx, []string{"Delegación"}, "Analista", "Analista")
	assert.ErrorAs(t, err, &ce)

	_, err = g.CompareTeam(ctx, []types.TeamMemberSummary{{Colaborador: "A"}, {Colaborador: "B"}})
	assert.ErrorAs(t, err, &ce)

	_, err = g.Chat(ctx, "ctx", nil, "hola")
	assert.ErrorAs(t, err, &ce)
}

func TestGenerateGoals(t *testing.T) {
	client := &fakeClient{jsonResponse: `[{"objetivo": "Delegar dos proyectos", "metrica_exito": "Proyectos entregados", "plazo_sugerido": "Q3"}]`}
	g := NewWithClient(client)

	goals, err := g.GenerateGoals(context.Background(), []string{"Delegación"})
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Q3", goals[0].PlazoSugerido)
	assert.Contains(t, client.lastPrompt, `["Delegación"]`)
	assert.Same(t, smartGoalsSchema, client.lastSchema)
}

func TestGenerateGoals_EmptyArray(t *testing.T) {
	g := NewWithClient(&fakeClient{jsonResponse: `[]`})

	goals, err := g.GenerateGoals(context.Background(), []string{"Delegación"})
	require.NoError(t, err)
	assert.NotNil(t, goals)
	assert.Empty(t, goals)
}

func TestGenerateDevelopmentPlan(t *testing.T) {
	client := &fakeClient{jsonResponse: `{"introduccion": "Tu plan", "acciones": [{"area_enfoque": "Delegación", "recursos_recomendados": ["Libro: El Gerente Minuto (Blanchard)"]}]}`}
	g := NewWithClient(client)

	plan, err := g.GenerateDevelopmentPlan(context.Background(), []string{"Delegación"}, "Jefa de Tesorería", "Líder")
	require.NoError(t, err)
	assert.Equal(t, "Tu plan", plan.Introduccion)
	require.Len(t, plan.Acciones, 1)
	assert.Contains(t, client.lastPrompt, "Jefa de Tesorería")
	assert.Contains(t, client.lastPrompt, "Líder")
}

func TestGenerateDevelopmentPlan_SchemaMismatch(t *testing.T) {
	g := NewWithClient(&fakeClient{jsonResponse: `{"introduccion": "Tu plan"}`})

	_, err := g.GenerateDevelopmentPlan(context.Background(), []string{"x"}, "p", "Analista")
	var upe *UpstreamError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, OpPlan, upe.Operation)
}

func TestCompareTeam_SendsOnlySummaries(t *testing.T) {
	client := &fakeClient{jsonResponse: `{"resumen_equipo": "Sólido", "fortalezas_comunes": ["a"], "oportunidades_grupales": ["b"], "iniciativa_sugerida": "Taller"}`}
	g := NewWithClient(client)

	members := []types.TeamMemberSummary{
		{Colaborador: "Ana", PuntuacionGeneral: 8, ResumenEjecutivo: "resumen A"},
		{Colaborador: "Luis", PuntuacionGeneral: 6, ResumenEjecutivo: "resumen B"},
	}
	team, err := g.CompareTeam(context.Background(), members)
	require.NoError(t, err)
	assert.Equal(t, "Taller", team.IniciativaSugerida)
	assert.Contains(t, client.lastPrompt, `"colaborador": "Luis"`)
	assert.NotContains(t, client.lastPrompt, "raw_text")
}

func TestGenerateJSON_Unavailable(t *testing.T) {
	g := NewWithClient(&fakeClient{jsonErr: errors.New("googleapi: Error 503: UNAVAILABLE")})

	_, err := g.CompareTeam(context.Background(), []types.TeamMemberSummary{{}, {}})
	var ue *UpstreamUnavailableError
	assert.ErrorAs(t, err, &ue)
}

func TestChat_StreamsChunks(t *testing.T) {
	client := &fakeClient{chunks: []string{"Sus ", "fortalezas ", "son..."}}
	g := NewWithClient(client)

	history := []types.ChatMessage{
		{Role: types.RoleModel, Content: "Hola"},
		{Role: types.RoleUser, Content: "¿Y el 2023?"},
		{Role: types.RoleModel, Content: "Mejoró"},
	}
	seq, err := g.Chat(context.Background(), "contexto", history, "¿Fortalezas?")
	require.NoError(t, err)

	var sb strings.Builder
	for chunk, err := range seq {
		require.NoError(t, err)
		sb.WriteString(chunk)
	}
	assert.Equal(t, "Sus fortalezas son...", sb.String())
	assert.Equal(t, "contexto", client.lastRequest.SystemInstruction)
	assert.Equal(t, "¿Fortalezas?", client.lastRequest.Message)
	require.Len(t, client.lastRequest.History, 3)
	assert.Equal(t, llm.RoleModel, client.lastRequest.History[0].Role)
}

func TestChat_EarlyStop(t *testing.T) {
	g := NewWithClient(&fakeClient{chunks: []string{"a", "b", "c"}})

	seq, err := g.Chat(context.Background(), "ctx", nil, "hola")
	require.NoError(t, err)

	var got []string
	for chunk := range seq {
		got = append(got, chunk)
		break
	}
	assert.Equal(t, []string{"a"}, got)
}

func TestChat_ErrorMidStream(t *testing.T) {
	g := NewWithClient(&fakeClient{chunks: []string{"a"}, streamErr: errors.New("connection reset")})

	seq, err := g.Chat(context.Background(), "ctx", nil, "hola")
	require.NoError(t, err)

	var chunks []string
	var streamErr error
	for chunk, err := range seq {
		if err != nil {
			streamErr = err
			break
		}
		chunks = append(chunks, chunk)
	}
	assert.Equal(t, []string{"a"}, chunks)
	var upe *UpstreamError
	require.ErrorAs(t, streamErr, &upe)
	assert.Equal(t, OpChat, upe.Operation)
}

func TestClose(t *testing.T) {
	client := &fakeClient{chunks: []string{analysisJSON}}
	g := NewWithClient(client)

	require.NoError(t, g.Close())
	assert.False(t, client.closed, "client is built lazily")

	_, err := g.AnalyzeDocument(context.Background(), "texto", testUser)
	require.NoError(t, err)
	require.NoError(t, g.Close())
	assert.True(t, client.closed)
}

func TestChatContext(t *testing.T) {
	result := &types.EvaluationResult{
		Colaborador: "Ana",
		Fortalezas:  []string{"Comunicación"},
		RawText:     "--- INICIO PERÍODO: 2024 ---\n\ntexto fuente",
	}

	ctx, err := ChatContext(result)
	require.NoError(t, err)
	assert.Contains(t, ctx, `"colaborador": "Ana"`)
	assert.Contains(t, ctx, "texto fuente")
	assert.Equal(t, 1, strings.Count(ctx, "texto fuente"), "raw text must not be embedded in the JSON section")

	_, err = ChatContext(nil)
	assert.Error(t, err)

	ctx, err = ChatContext(&types.EvaluationResult{Colaborador: "Ana"})
	require.NoError(t, err)
	assert.Contains(t, ctx, "No se proporcionó texto original.")
}

func TestGreeting(t *testing.T) {
	assert.Contains(t, Greeting("Ana Pérez"), "**Ana Pérez**")
}
