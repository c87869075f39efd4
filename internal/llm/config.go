// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching between model tiers and providers.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: short structured answers
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: document analysis, structured output, chat
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning across many documents
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is Anthropic Claude served through AWS Bedrock
	ProviderAnthropic Provider = "anthropic"
)

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Region      string  // AWS region, Bedrock only
	Temperature float32 // Sampling temperature for every call
	MaxTokens   int     // Output token cap, Bedrock only
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.2,
	}
}

// DefaultBedrockConfig returns the default Claude-on-Bedrock configuration
func DefaultBedrockConfig(region string) *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "anthropic.claude-3-5-haiku-20241022-v1:0",
			TierStandard: "anthropic.claude-3-5-sonnet-20241022-v2:0",
			TierAdvanced: "anthropic.claude-3-7-sonnet-20250219-v1:0",
		},
		Region:      region,
		Temperature: 0.2,
		MaxTokens:   8192,
	}
}

// ConfigForProvider returns the default configuration of a provider
func ConfigForProvider(p Provider, region string) *Config {
	if p == ProviderAnthropic {
		return DefaultBedrockConfig(region)
	}
	return DefaultGeminiConfig()
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
