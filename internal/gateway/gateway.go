package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/review-analyzer/internal/llm"
	"github.com/jonathan/review-analyzer/internal/prompts"
	"github.com/jonathan/review-analyzer/internal/schemas"
	"github.com/jonathan/review-analyzer/internal/types"
)

// Gateway is the set of AI operations the session controller depends on.
type Gateway interface {
	AnalyzeDocument(ctx context.Context, text string, user types.UserData) (*types.EvaluationResult, error)
	GenerateGoals(ctx context.Context, opportunities []string) ([]types.SmartGoal, error)
	GenerateDevelopmentPlan(ctx context.Context, opportunities []string, position, seniority string) (*types.PlanDeDesarrollo, error)
	CompareTeam(ctx context.Context, members []types.TeamMemberSummary) (*types.TeamAnalysisResult, error)
	// Chat returns a lazy, finite, non-restartable sequence of reply chunks.
	Chat(ctx context.Context, systemContext string, history []types.ChatMessage, message string) (iter.Seq2[string, error], error)
}

// Operation names used in errors and logs
const (
	OpAnalyze = "analyze"
	OpGoals   = "generate-goals"
	OpPlan    = "generate-dev-plan"
	OpTeam    = "analyze-team"
	OpChat    = "chat"
)

// Tiers selects the model tier used by each operation.
type Tiers struct {
	Analysis llm.ModelTier
	Coaching llm.ModelTier
	Team     llm.ModelTier
	Chat     llm.ModelTier
}

// DefaultTiers runs every operation on the standard tier.
func DefaultTiers() Tiers {
	return Tiers{
		Analysis: llm.TierStandard,
		Coaching: llm.TierStandard,
		Team:     llm.TierStandard,
		Chat:     llm.TierStandard,
	}
}

// Option configures an LLMGateway
type Option func(*LLMGateway)

// WithLogger sets the gateway logger
func WithLogger(logger zerolog.Logger) Option {
	return func(g *LLMGateway) { g.logger = logger }
}

// WithTiers overrides the per-operation model tiers
func WithTiers(t Tiers) Option {
	return func(g *LLMGateway) { g.tiers = t }
}

// LLMGateway implements Gateway over an llm.Client.
type LLMGateway struct {
	newClient func(ctx context.Context) (llm.Client, error)
	tiers     Tiers
	logger    zerolog.Logger

	mu     sync.Mutex
	client llm.Client
}

// NewLLMGateway creates a gateway whose provider client is built on first use.
// A missing credential surfaces as *ConfigurationError from every operation.
func NewLLMGateway(config *llm.Config, apiKey string, opts ...Option) *LLMGateway {
	return newGateway(func(ctx context.Context) (llm.Client, error) {
		return llm.NewClient(ctx, config, apiKey)
	}, opts)
}

// NewWithClient creates a gateway over an existing client.
func NewWithClient(client llm.Client, opts ...Option) *LLMGateway {
	return newGateway(func(context.Context) (llm.Client, error) {
		return client, nil
	}, opts)
}

func newGateway(factory func(ctx context.Context) (llm.Client, error), opts []Option) *LLMGateway {
	g := &LLMGateway{
		newClient: factory,
		tiers:     DefaultTiers(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *LLMGateway) clientFor(ctx context.Context) (llm.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	client, err := g.newClient(ctx)
	if err != nil {
		msg := "AI provider could not be initialized"
		if errors.Is(err, llm.ErrMissingCredentials) {
			msg = "La clave de API no está configurada en el servidor."
		}
		return nil, &ConfigurationError{Message: msg, Cause: err}
	}
	g.client = client
	return client, nil
}

// Close releases the provider client, if one was built.
func (g *LLMGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

// AnalyzeDocument streams the analysis, buffers it fully and decodes it.
// Identity and session-owned fields are left zero for the caller to fill.
func (g *LLMGateway) AnalyzeDocument(ctx context.Context, text string, user types.UserData) (*types.EvaluationResult, error) {
	client, err := g.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	hintKey := "competency-hint-individual"
	if user.Seniority.IsLeadership() {
		hintKey = "competency-hint-leadership"
	}
	hint, err := prompts.Get(prompts.AnalysisFile, hintKey)
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.Render(prompts.AnalysisFile, "analyze-evaluation", map[string]string{
		"Name":           user.Name,
		"Area":           user.Area,
		"Position":       user.Position,
		"Seniority":      string(user.Seniority),
		"CompetencyHint": hint,
		"Text":           text,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var sb strings.Builder
	for chunk, err := range client.StreamContent(ctx, prompt, g.tiers.Analysis) {
		if err != nil {
			return nil, g.fail(OpAnalyze, err)
		}
		sb.WriteString(chunk)
	}
	g.logger.Debug().
		Str("operation", OpAnalyze).
		Str("model", client.GetModel(g.tiers.Analysis)).
		Int("response_bytes", sb.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("analysis response received")

	var result types.EvaluationResult
	if err := decodeValidated(OpAnalyze, schemas.EvaluationResult, sb.String(), &result); err != nil {
		return nil, g.fail(OpAnalyze, err)
	}

	// The model has no say over session-owned fields
	result.ID = ""
	result.SavedAt = nil
	result.Feedback = nil
	result.RawText = ""
	result.ObjetivosSmart = nil
	result.PlanDesarrollo = nil
	return &result, nil
}

// GenerateGoals drafts SMART goals from the improvement opportunities.
func (g *LLMGateway) GenerateGoals(ctx context.Context, opportunities []string) ([]types.SmartGoal, error) {
	prompt, err := prompts.Render(prompts.CoachingFile, "smart-goals", map[string]string{
		"Opportunities": toJSON(opportunities),
	})
	if err != nil {
		return nil, err
	}

	var goals []types.SmartGoal
	if err := g.generate(ctx, OpGoals, g.tiers.Coaching, prompt, smartGoalsSchema, schemas.SmartGoals, &goals); err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []types.SmartGoal{}
	}
	return goals, nil
}

// GenerateDevelopmentPlan recommends learning resources per opportunity.
func (g *LLMGateway) GenerateDevelopmentPlan(ctx context.Context, opportunities []string, position, seniority string) (*types.PlanDeDesarrollo, error) {
	prompt, err := prompts.Render(prompts.CoachingFile, "development-plan", map[string]string{
		"Position":      position,
		"Seniority":     seniority,
		"Opportunities": toJSON(opportunities),
	})
	if err != nil {
		return nil, err
	}

	var plan types.PlanDeDesarrollo
	if err := g.generate(ctx, OpPlan, g.tiers.Coaching, prompt, developmentPlanSchema, schemas.DevelopmentPlan, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CompareTeam consolidates member summaries into a team report.
func (g *LLMGateway) CompareTeam(ctx context.Context, members []types.TeamMemberSummary) (*types.TeamAnalysisResult, error) {
	data, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.Render(prompts.TeamFile, "compare-team", map[string]string{
		"Members": string(data),
	})
	if err != nil {
		return nil, err
	}

	var team types.TeamAnalysisResult
	if err := g.generate(ctx, OpTeam, g.tiers.Team, prompt, teamAnalysisSchema, schemas.TeamAnalysis, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Chat streams the assistant reply. Errors raised while iterating are
// classified the same way as the one-shot operations.
func (g *LLMGateway) Chat(ctx context.Context, systemContext string, history []types.ChatMessage, message string) (iter.Seq2[string, error], error) {
	client, err := g.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	msgs := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == types.RoleModel {
			role = llm.RoleModel
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Content})
	}

	stream := client.StreamChat(ctx, llm.ChatRequest{
		SystemInstruction: systemContext,
		History:           msgs,
		Message:           message,
	}, g.tiers.Chat)

	return func(yield func(string, error) bool) {
		for chunk, err := range stream {
			if err != nil {
				yield("", g.fail(OpChat, err))
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}, nil
}

// generate runs a structured one-shot call and decodes the validated result into out.
func (g *LLMGateway) generate(ctx context.Context, op string, tier llm.ModelTier, prompt string, constraint *llm.ResponseSchema, schemaName string, out any) error {
	client, err := g.clientFor(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	raw, err := client.GenerateJSON(ctx, prompt, tier, constraint)
	if err != nil {
		return g.fail(op, err)
	}
	g.logger.Debug().
		Str("operation", op).
		Str("model", client.GetModel(tier)).
		Dur("elapsed", time.Since(start)).
		Msg("structured response received")

	if err := decodeValidated(op, schemaName, raw, out); err != nil {
		return g.fail(op, err)
	}
	return nil
}

func (g *LLMGateway) fail(op string, err error) error {
	classified := classify(op, err)
	g.logger.Warn().Err(err).Str("operation", op).Msg("AI call failed")
	return classified
}

// decodeValidated checks raw against the named schema and unmarshals it.
func decodeValidated(op, schemaName, raw string, out any) error {
	raw = llm.CleanJSONBlock(raw)
	if raw == "" {
		return &UpstreamError{Operation: op, Message: "empty response from AI service"}
	}

	if err := schemas.Validate(schemaName, raw); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return &UpstreamError{
				Operation: op,
				Message:   "response does not match expected shape (" + strings.Join(ve.Fields(), ", ") + ")",
				Cause:     err,
			}
		}
		return &UpstreamError{Operation: op, Message: "response is not valid JSON", Cause: err}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &UpstreamError{Operation: op, Message: "response could not be decoded", Cause: err}
	}
	return nil
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}
