package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"iter"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-analyzer/internal/archive"
	"github.com/jonathan/review-analyzer/internal/report"
	"github.com/jonathan/review-analyzer/internal/server/ratelimit"
	"github.com/jonathan/review-analyzer/internal/session"
	"github.com/jonathan/review-analyzer/internal/types"
)

type stubExtractor struct{}

func (stubExtractor) ExtractText(_ context.Context, doc types.Document) (string, error) {
	return string(doc.Data), nil
}

type stubGateway struct {
	analyzeErr error
	chunks     []string
	streamErr  error
	chatCalls  int
}

func (g *stubGateway) AnalyzeDocument(_ context.Context, _ string, _ types.UserData) (*types.EvaluationResult, error) {
	if g.analyzeErr != nil {
		return nil, g.analyzeErr
	}
	return &types.EvaluationResult{
		Año:                 "2024",
		Fortalezas:          []string{"Comunicación"},
		OportunidadesMejora: []string{"Delegación"},
		ResumenEjecutivo:    "Resumen",
		PuntuacionGeneral:   8,
	}, nil
}

func (g *stubGateway) GenerateGoals(_ context.Context, _ []string) ([]types.SmartGoal, error) {
	return []types.SmartGoal{{Objetivo: "Delegar", MetricaExito: "m", PlazoSugerido: "6 meses"}}, nil
}

func (g *stubGateway) GenerateDevelopmentPlan(_ context.Context, _ []string, _, _ string) (*types.PlanDeDesarrollo, error) {
	return &types.PlanDeDesarrollo{Introduccion: "Plan", Acciones: []types.DevelopmentAction{{AreaEnfoque: "Delegación"}}}, nil
}

func (g *stubGateway) CompareTeam(_ context.Context, members []types.TeamMemberSummary) (*types.TeamAnalysisResult, error) {
	return &types.TeamAnalysisResult{ResumenEquipo: "Equipo de " + members[0].Colaborador}, nil
}

func (g *stubGateway) Chat(_ context.Context, _ string, _ []types.ChatMessage, _ string) (iter.Seq2[string, error], error) {
	g.chatCalls++
	return func(yield func(string, error) bool) {
		for _, c := range g.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if g.streamErr != nil {
			yield("", g.streamErr)
		}
	}, nil
}

type harness struct {
	server  *Server
	gateway *stubGateway
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	arch, err := archive.Open(context.Background(), archive.NewMemoryStore(), zerolog.Nop())
	require.NoError(t, err)

	gw := &stubGateway{}
	ctrl := session.New(gw, stubExtractor{}, arch)
	srv := New(Config{RateLimit: &ratelimit.Config{Enabled: false}}, ctrl, report.NewRenderer(nil), zerolog.Nop())
	t.Cleanup(srv.Close)

	return &harness{server: srv, gateway: gw, handler: srv.Handler()}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

// analyzeRequest builds a multipart submission; each period maps a year to file contents.
func analyzeRequest(t *testing.T, path, name string, periods ...map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.WriteField("area", "Finanzas"))
	require.NoError(t, mw.WriteField("position", "Analista de Tesorería"))
	require.NoError(t, mw.WriteField("seniority", "Analista"))

	for i, p := range periods {
		require.NoError(t, mw.WriteField("period_year", p["year"]))
		if content, ok := p["file"]; ok {
			fw, err := mw.CreateFormFile("period_"+string(rune('0'+i)), p["year"]+".txt")
			require.NoError(t, err)
			_, err = fw.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (h *harness) analyze(t *testing.T, name string) *types.EvaluationResult {
	t.Helper()
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, analyzeRequest(t, "/analyze", name, map[string]string{"year": "2024", "file": "texto"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result types.EvaluationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return &result
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// sseEvents returns the event names of an SSE body in order
func sseEvents(body string) []string {
	var events []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
	}
	return events
}

var errStream = errors.New("stream broke")
