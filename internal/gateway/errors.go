// Package gateway is the single boundary between the analyzer and the LLM
// providers. Each operation sends a prompt, validates the response shape and
// decodes it into domain types.
package gateway

import "fmt"

// UnavailableMessage is shown to the user when the provider signals overload.
const UnavailableMessage = "El servicio de IA está experimentando una alta demanda en este momento. Por favor, inténtalo de nuevo en unos minutos."

// ConfigurationError means the gateway cannot reach any provider, usually
// because the credential is missing. No network call was made.
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// UpstreamUnavailableError is a transient capacity failure of the provider.
// The user is asked to retry later; nothing retries automatically.
type UpstreamUnavailableError struct {
	Cause error
}

func (e *UpstreamUnavailableError) Error() string {
	return UnavailableMessage
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Cause
}

// UpstreamError is any other AI call failure, including empty or malformed responses.
type UpstreamError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
