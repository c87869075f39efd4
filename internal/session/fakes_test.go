package session

import (
	"context"
	"errors"
	"iter"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-analyzer/internal/archive"
	"github.com/jonathan/review-analyzer/internal/types"
)

// fakeExtractor returns text keyed by document name
type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) ExtractText(_ context.Context, doc types.Document) (string, error) {
	if err, ok := f.errs[doc.Name]; ok {
		return "", err
	}
	return f.texts[doc.Name], nil
}

// fakeGateway records calls and returns scripted responses
type fakeGateway struct {
	mu sync.Mutex

	analysis    func() *types.EvaluationResult
	analyzeErr  error
	analyzeHook func()

	goals     []types.SmartGoal
	goalsErr  error
	goalsHook func()
	plan     *types.PlanDeDesarrollo
	planErr  error
	team     *types.TeamAnalysisResult
	teamErr  error
	chunks   []string

	analyzeCalls  int
	goalsCalls    int
	planCalls     int
	teamCalls     int
	chatCalls     int
	lastText      string
	lastOpps      []string
	lastPosition  string
	lastSeniority string
	lastMembers   []types.TeamMemberSummary
	lastContext   string
	lastHistory   []types.ChatMessage
}

func (f *fakeGateway) AnalyzeDocument(_ context.Context, text string, _ types.UserData) (*types.EvaluationResult, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.lastText = text
	hook := f.analyzeHook
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analysis(), nil
}

func (f *fakeGateway) GenerateGoals(_ context.Context, opportunities []string) ([]types.SmartGoal, error) {
	f.mu.Lock()
	f.goalsCalls++
	f.lastOpps = opportunities
	hook := f.goalsHook
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return f.goals, f.goalsErr
}

func (f *fakeGateway) GenerateDevelopmentPlan(_ context.Context, opportunities []string, position, seniority string) (*types.PlanDeDesarrollo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.planCalls++
	f.lastOpps = opportunities
	f.lastPosition = position
	f.lastSeniority = seniority
	return f.plan, f.planErr
}

func (f *fakeGateway) CompareTeam(_ context.Context, members []types.TeamMemberSummary) (*types.TeamAnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teamCalls++
	f.lastMembers = members
	return f.team, f.teamErr
}

func (f *fakeGateway) Chat(_ context.Context, systemContext string, history []types.ChatMessage, _ string) (iter.Seq2[string, error], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	f.lastContext = systemContext
	f.lastHistory = history
	chunks := f.chunks
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}, nil
}

// modelAnalysis is what the model returns for every analysis, including an
// evolution section and identity fields it should not have produced.
func modelAnalysis() *types.EvaluationResult {
	return &types.EvaluationResult{
		Colaborador:         "nombre inventado",
		Puesto:              "puesto inventado",
		Año:                 "2024",
		Fortalezas:          []string{"Comunicación", "Orientación a resultados"},
		OportunidadesMejora: []string{"Delegación"},
		ResumenEjecutivo:    "• A\n• B\n• C",
		PuntuacionGeneral:   7.5,
		CompetenciasEvaluadas: []types.CompetenciaEvaluada{
			{Nombre: "Colaboración", Puntuacion: 4},
		},
		AnalisisEvolucion: &types.AnalisisEvolucion{
			ResumenTrayectoria: "Mejora sostenida",
			PuntuacionesHistoricas: []types.PuntuacionHistorica{
				{Anio: "2023", Puntuacion: 6}, {Anio: "2024", Puntuacion: 7.5},
			},
		},
	}
}

var testUser = types.UserData{
	Name:      "Ana Pérez",
	Area:      "Finanzas",
	Position:  "Analista de Tesorería",
	Seniority: types.SeniorityAnalista,
}

func period(year string, names ...string) types.EvaluationPeriod {
	p := types.EvaluationPeriod{Year: year}
	for _, n := range names {
		p.Files = append(p.Files, types.Document{Name: n, Data: []byte("x")})
	}
	return p
}

type fixture struct {
	ctrl      *Controller
	gateway   *fakeGateway
	extractor *fakeExtractor
	archive   *archive.Archive
	store     *archive.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := archive.NewMemoryStore()
	arch, err := archive.Open(context.Background(), store, zerolog.Nop())
	require.NoError(t, err)

	gw := &fakeGateway{analysis: modelAnalysis}
	ex := &fakeExtractor{
		texts: map[string]string{"a.pdf": "foo", "b.pdf": "bar", "c.pdf": "baz", "empty.pdf": ""},
		errs:  map[string]error{},
	}
	return &fixture{
		ctrl:      New(gw, ex, arch),
		gateway:   gw,
		extractor: ex,
		archive:   arch,
		store:     store,
	}
}

// analyzed returns a fixture with a current result from one period.
func analyzed(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	_, err := f.ctrl.SubmitForAnalysis(context.Background(), testUser, []types.EvaluationPeriod{period("2024", "a.pdf")})
	require.NoError(t, err)
	return f
}

var errBoom = errors.New("boom")
