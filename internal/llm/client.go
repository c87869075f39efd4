package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// ErrMissingCredentials is returned when a provider is configured without the
// credential it needs. No network call is made in that case.
var ErrMissingCredentials = errors.New("LLM credentials are not configured")

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content constrained by schema (may be nil)
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier, schema *ResponseSchema) (string, error)
	// StreamContent yields text fragments in arrival order. The sequence is
	// finite and can only be ranged over once; breaking out stops the request.
	StreamContent(ctx context.Context, prompt string, tier ModelTier) iter.Seq2[string, error]
	// StreamChat continues a conversation and yields the reply incrementally
	StreamChat(ctx context.Context, req ChatRequest, tier ModelTier) iter.Seq2[string, error]
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// Message roles understood by every provider
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one prior conversation turn
type Message struct {
	Role    string
	Content string
}

// ChatRequest carries everything a stateless chat call needs. No provider-side
// session survives between calls.
type ChatRequest struct {
	SystemInstruction string
	History           []Message
	Message           string
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderAnthropic:
		return NewBedrockClient(ctx, config)
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// errorSeq returns a sequence that yields a single error
func errorSeq(err error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", err)
	}
}

// trimLeadingModelTurns drops assistant turns that precede the first user turn.
// Both providers require conversations to open with a user message.
func trimLeadingModelTurns(history []Message) []Message {
	for i, m := range history {
		if m.Role == RoleUser {
			return history[i:]
		}
	}
	return nil
}
