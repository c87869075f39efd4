package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Provider error codes that mean "try again later"
var unavailableAPICodes = map[string]bool{
	"ThrottlingException":         true,
	"ServiceUnavailableException": true,
	"ModelNotReadyException":      true,
	"TooManyRequestsException":    true,
}

// Substrings checked when the provider error carries no structured code
var unavailableMarkers = []string{
	"overloaded",
	"503",
	"unavailable",
	"resource_exhausted",
	"resource has been exhausted",
	"throttl",
}

// classify maps a provider error onto the gateway taxonomy.
func classify(operation string, err error) error {
	if err == nil {
		return nil
	}

	var cfgErr *ConfigurationError
	var unavailable *UpstreamUnavailableError
	var upstream *UpstreamError
	if errors.As(err, &cfgErr) || errors.As(err, &unavailable) || errors.As(err, &upstream) {
		return err
	}

	if isUnavailable(err) {
		return &UpstreamUnavailableError{Cause: err}
	}
	return &UpstreamError{Operation: operation, Message: "AI request failed", Cause: err}
}

func isUnavailable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusServiceUnavailable || apiErr.Code == http.StatusTooManyRequests {
			return true
		}
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.ResourceExhausted:
			return true
		}
	}

	var smithyErr smithy.APIError
	if errors.As(err, &smithyErr) && unavailableAPICodes[smithyErr.ErrorCode()] {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range unavailableMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
