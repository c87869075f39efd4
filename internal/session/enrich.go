package session

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/jonathan/review-analyzer/internal/gateway"
	"github.com/jonathan/review-analyzer/internal/types"
)

const noOpportunitiesMessage = "Se necesita al menos una oportunidad de mejora."

// GenerateSmartGoals drafts SMART goals from the current opportunities and
// replaces objetivos_smart wholesale. On failure the previous goals stay and
// the error is kept for the presentation layer.
func (c *Controller) GenerateSmartGoals(ctx context.Context) ([]types.SmartGoal, error) {
	c.mu.Lock()
	if err := c.enrichmentPrecondition(c.goalsInFlight); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	opportunities := append([]string(nil), c.current.OportunidadesMejora...)
	generation := c.generation
	c.goalsInFlight = true
	c.goalsErr = nil
	c.mu.Unlock()

	goals, err := c.gateway.GenerateGoals(ctx, opportunities)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.goalsInFlight = false

	if err != nil {
		c.goalsErr = err
		c.logger.Warn().Err(err).Msg("goal generation failed")
		return nil, err
	}
	if generation != c.generation || c.current == nil {
		return nil, ErrSuperseded
	}
	c.current.ObjetivosSmart = goals
	return append([]types.SmartGoal(nil), goals...), nil
}

// GenerateDevelopmentPlan builds a learning plan from the current
// opportunities, position and seniority, replacing plan_desarrollo wholesale.
func (c *Controller) GenerateDevelopmentPlan(ctx context.Context) (*types.PlanDeDesarrollo, error) {
	c.mu.Lock()
	if err := c.enrichmentPrecondition(c.planInFlight); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	opportunities := append([]string(nil), c.current.OportunidadesMejora...)
	position, seniority := c.current.Puesto, c.current.Seniority
	generation := c.generation
	c.planInFlight = true
	c.planErr = nil
	c.mu.Unlock()

	plan, err := c.gateway.GenerateDevelopmentPlan(ctx, opportunities, position, seniority)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.planInFlight = false

	if err == nil && plan == nil {
		err = &gateway.UpstreamError{Operation: gateway.OpPlan, Message: "empty response from AI service"}
	}
	if err != nil {
		c.planErr = err
		c.logger.Warn().Err(err).Msg("development plan generation failed")
		return nil, err
	}
	if generation != c.generation || c.current == nil {
		return nil, ErrSuperseded
	}
	c.current.PlanDesarrollo = plan
	out := *plan
	return &out, nil
}

// enrichmentPrecondition checks a goals or plan request. Callers hold c.mu.
func (c *Controller) enrichmentPrecondition(inFlight bool) error {
	if c.current == nil {
		return ErrNoResult
	}
	if !c.current.HasOpportunities() {
		return &ValidationError{Field: "oportunidades_mejora", Message: noOpportunitiesMessage}
	}
	if inFlight {
		return ErrBusy
	}
	return nil
}

// CompareTeam builds a comparative report of two or more saved analyses.
// Only each member's summary reaches the gateway; nothing is persisted.
func (c *Controller) CompareTeam(ctx context.Context, ids []string) (*types.TeamAnalysisResult, error) {
	seen := make(map[string]bool, len(ids))
	members := make([]types.TeamMemberSummary, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		stored, ok := c.archive.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		members = append(members, stored.Summary())
	}
	if len(members) < 2 {
		return nil, &ValidationError{Field: "ids", Message: "Seleccione al menos dos análisis para comparar."}
	}

	team, err := c.gateway.CompareTeam(ctx, members)
	if err != nil {
		c.logger.Warn().Err(err).Int("members", len(members)).Msg("team comparison failed")
		return nil, err
	}
	return team, nil
}

// SendChatMessage asks the assistant about the current result. history holds
// the prior turns; the reply arrives as a lazy sequence of text chunks.
func (c *Controller) SendChatMessage(ctx context.Context, history []types.ChatMessage, message string) (iter.Seq2[string, error], error) {
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Field: "message", Message: "empty message"}
	}
	for i, m := range history {
		if m.Role != types.RoleUser && m.Role != types.RoleModel {
			return nil, &ValidationError{Field: fmt.Sprintf("history[%d].role", i), Message: fmt.Sprintf("unknown role %q", m.Role)}
		}
	}

	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil, ErrNoResult
	}
	systemContext, err := gateway.ChatContext(c.current)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return c.gateway.Chat(ctx, systemContext, history, message)
}

// ChatGreeting is the assistant's opening message for the current result.
func (c *Controller) ChatGreeting() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return "", ErrNoResult
	}
	return gateway.Greeting(c.current.Colaborador), nil
}
