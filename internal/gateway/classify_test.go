package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
	}{
		{name: "googleapi 503", err: &googleapi.Error{Code: 503, Message: "busy"}, wantUnavailable: true},
		{name: "googleapi 429", err: &googleapi.Error{Code: 429}, wantUnavailable: true},
		{name: "googleapi 400", err: &googleapi.Error{Code: 400, Message: "bad request"}},
		{name: "grpc unavailable", err: status.Error(codes.Unavailable, "try later"), wantUnavailable: true},
		{name: "grpc exhausted wrapped", err: fmt.Errorf("stream: %w", status.Error(codes.ResourceExhausted, "quota")), wantUnavailable: true},
		{name: "grpc invalid argument", err: status.Error(codes.InvalidArgument, "bad")},
		{name: "bedrock throttling", err: &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate"}, wantUnavailable: true},
		{name: "bedrock validation", err: &smithy.GenericAPIError{Code: "ValidationException", Message: "bad"}},
		{name: "overloaded text", err: errors.New("Anthropic model Overloaded"), wantUnavailable: true},
		{name: "UNAVAILABLE text", err: errors.New("rpc error: UNAVAILABLE"), wantUnavailable: true},
		{name: "plain failure", err: errors.New("unexpected end of JSON input")},
		{name: "canceled", err: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(OpGoals, tt.err)
			assert.ErrorIs(t, got, tt.err)

			var ue *UpstreamUnavailableError
			var upe *UpstreamError
			if tt.wantUnavailable {
				assert.ErrorAs(t, got, &ue)
			} else {
				assert.ErrorAs(t, got, &upe)
			}
		})
	}
}

func TestClassify_KeepsTaxonomyErrors(t *testing.T) {
	ce := &ConfigurationError{Message: "missing key"}
	assert.Same(t, ce, classify(OpChat, ce))

	upe := &UpstreamError{Operation: OpChat, Message: "empty response from AI service"}
	assert.Same(t, upe, classify(OpAnalyze, upe))

	assert.NoError(t, classify(OpChat, nil))
}
