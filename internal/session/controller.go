package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/review-analyzer/internal/gateway"
	"github.com/jonathan/review-analyzer/internal/ingestion"
	"github.com/jonathan/review-analyzer/internal/types"
)

// State is the controller's position in the analysis lifecycle
type State string

// Controller states
const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Archive is the saved-analyses store the controller persists to.
type Archive interface {
	List() []*types.EvaluationResult
	Get(id string) (*types.EvaluationResult, bool)
	Put(ctx context.Context, result *types.EvaluationResult) error
	Remove(ctx context.Context, id string) error
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	State           State                   `json:"state"`
	Current         *types.EvaluationResult `json:"current,omitempty"`
	LastError       string                  `json:"last_error,omitempty"`
	GeneratingGoals bool                    `json:"generating_goals"`
	GeneratingPlan  bool                    `json:"generating_plan"`
	GoalsError      string                  `json:"goals_error,omitempty"`
	PlanError       string                  `json:"plan_error,omitempty"`
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock overrides the time source used for savedAt
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides how archive ids are minted
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// Controller owns the current result and sequences every operation on it.
// It is safe for concurrent use; AI calls run without holding the lock.
type Controller struct {
	gateway   gateway.Gateway
	extractor ingestion.Extractor
	archive   Archive
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string

	mu         sync.Mutex
	state      State
	current    *types.EvaluationResult
	generation uint64 // bumped whenever current is replaced by another analysis
	lastError  error

	goalsInFlight bool
	planInFlight  bool
	goalsErr      error
	planErr       error
}

// New creates a Controller
func New(gw gateway.Gateway, extractor ingestion.Extractor, archive Archive, opts ...Option) *Controller {
	c := &Controller{
		gateway:   gw,
		extractor: extractor,
		archive:   archive,
		logger:    zerolog.Nop(),
		now:       time.Now,
		newID:     func() string { return "analysis-" + uuid.NewString() },
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:           c.state,
		Current:         c.current.Clone(),
		LastError:       errString(c.lastError),
		GeneratingGoals: c.goalsInFlight,
		GeneratingPlan:  c.planInFlight,
		GoalsError:      errString(c.goalsErr),
		PlanError:       errString(c.planErr),
	}
}

// Current returns a copy of the current result, or nil.
func (c *Controller) Current() *types.EvaluationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// SubmitForAnalysis extracts all documents, runs the analysis and makes the
// outcome the current result. On failure the previous result is kept.
// A second submission while one is running is rejected with ErrBusy.
func (c *Controller) SubmitForAnalysis(ctx context.Context, user types.UserData, periods []types.EvaluationPeriod) (*types.EvaluationResult, error) {
	if err := validateSubmission(user, periods); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state == StateLoading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state = StateLoading
	c.lastError = nil
	c.mu.Unlock()

	start := c.now()
	result, err := c.analyze(ctx, user, periods)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastError = err
		c.state = c.settledState()
		c.logger.Error().Err(err).Str("collaborator", user.Name).Msg("analysis failed")
		return nil, err
	}

	c.replaceCurrent(result)
	c.state = StateReady
	c.logger.Info().
		Str("collaborator", user.Name).
		Int("periods", len(periods)).
		Bool("evolution", result.AnalisisEvolucion != nil).
		Dur("elapsed", c.now().Sub(start)).
		Msg("analysis completed")
	return result.Clone(), nil
}

func (c *Controller) analyze(ctx context.Context, user types.UserData, periods []types.EvaluationPeriod) (*types.EvaluationResult, error) {
	texts, err := extractPeriods(ctx, c.extractor, periods)
	if err != nil {
		return nil, err
	}

	contributing := 0
	for _, p := range texts {
		if p.HasText() {
			contributing++
		}
	}
	if contributing == 0 {
		return nil, &ExtractionError{Message: "No se pudo extraer texto de los PDFs. Los archivos podrían estar vacíos o corruptos."}
	}

	combined := ComposePeriods(texts)
	result, err := c.gateway.AnalyzeDocument(ctx, combined, user)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, &gateway.UpstreamError{Operation: gateway.OpAnalyze, Message: "empty response from AI service"}
	}

	result.ApplyUserData(user)
	if contributing < 2 {
		result.AnalisisEvolucion = nil
	}
	result.RawText = combined
	return result, nil
}

// Save persists the current result. The first save mints an id; later saves
// update the same archive entry. savedAt is refreshed every time.
func (c *Controller) Save(ctx context.Context) (*types.EvaluationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, ErrNoResult
	}

	toStore := c.current.Clone()
	if toStore.ID == "" {
		toStore.ID = c.uniqueID()
	}
	savedAt := c.now().UTC()
	toStore.SavedAt = &savedAt

	if err := c.archive.Put(ctx, toStore); err != nil {
		c.lastError = err
		return nil, err
	}

	c.current = toStore
	c.logger.Info().Str("id", toStore.ID).Msg("analysis saved")
	return toStore.Clone(), nil
}

func (c *Controller) uniqueID() string {
	for range 8 {
		id := c.newID()
		if _, taken := c.archive.Get(id); !taken {
			return id
		}
	}
	return "analysis-" + uuid.NewString()
}

// Delete removes an archived analysis. The current result is left as is,
// even when it carries the same id.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if _, ok := c.archive.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := c.archive.Remove(ctx, id); err != nil {
		return err
	}
	c.logger.Info().Str("id", id).Msg("analysis deleted")
	return nil
}

// View makes an archived analysis the current result. Unsaved edits to the
// previous result are discarded.
func (c *Controller) View(_ context.Context, id string) (*types.EvaluationResult, error) {
	stored, ok := c.archive.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.replaceCurrent(stored)
	return stored.Clone(), nil
}

// List returns the saved analyses in insertion order
func (c *Controller) List(_ context.Context) []*types.EvaluationResult {
	return c.archive.List()
}

// replaceCurrent installs a new analysis. A running submission keeps the
// controller loading until it settles. Callers hold c.mu.
func (c *Controller) replaceCurrent(result *types.EvaluationResult) {
	c.current = result
	c.generation++
	if c.state != StateLoading {
		c.state = StateReady
	}
	c.lastError = nil
	c.goalsErr = nil
	c.planErr = nil
}

// settledState is the non-loading state matching the current slot. Callers hold c.mu.
func (c *Controller) settledState() State {
	if c.current == nil {
		return StateIdle
	}
	return StateReady
}

// ValidateUserData checks the collaborator fields of a submission and
// reports the first problem as a *ValidationError.
func ValidateUserData(user types.UserData) error {
	if err := user.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ValidationError{
				Field:   verrs[0].Field(),
				Message: "Por favor, complete todos los campos y agregue al menos un período de evaluación.",
			}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func validateSubmission(user types.UserData, periods []types.EvaluationPeriod) error {
	if err := ValidateUserData(user); err != nil {
		return err
	}
	if len(periods) == 0 {
		return &ValidationError{Field: "periods", Message: "Agregue al menos un período de evaluación."}
	}
	for i, p := range periods {
		if !p.IsValid() {
			return &ValidationError{
				Field:   fmt.Sprintf("periods[%d]", i),
				Message: "Cada período necesita un año y al menos un documento.",
			}
		}
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
