package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/review-analyzer/internal/archive"
	"github.com/jonathan/review-analyzer/internal/gateway"
	"github.com/jonathan/review-analyzer/internal/ingestion"
	"github.com/jonathan/review-analyzer/internal/report"
	"github.com/jonathan/review-analyzer/internal/session"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", &ErrBadRequest{Message: "x"}, http.StatusBadRequest},
		{"validation", &session.ValidationError{Field: "name", Message: "x"}, http.StatusBadRequest},
		{"extraction", &session.ExtractionError{Message: "x"}, http.StatusBadRequest},
		{"corrupt document", fmt.Errorf("period 2024: %w", &ingestion.CorruptDocumentError{Name: "a.pdf"}), http.StatusUnprocessableEntity},
		{"not found", fmt.Errorf("%w: id-1", session.ErrNotFound), http.StatusNotFound},
		{"busy", session.ErrBusy, http.StatusConflict},
		{"no result", session.ErrNoResult, http.StatusConflict},
		{"superseded", session.ErrSuperseded, http.StatusConflict},
		{"configuration", &gateway.ConfigurationError{Message: "x"}, http.StatusInternalServerError},
		{"unavailable", &gateway.UpstreamUnavailableError{}, http.StatusServiceUnavailable},
		{"upstream", &gateway.UpstreamError{Operation: gateway.OpGoals, Message: "x"}, http.StatusBadGateway},
		{"archive", &archive.ArchiveError{Op: "put", Message: "full"}, http.StatusInsufficientStorage},
		{"render", &report.RenderError{Message: "x"}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorBody_UserMessages(t *testing.T) {
	body := errorBody(&gateway.UpstreamUnavailableError{Cause: errors.New("503 overloaded")})
	assert.Equal(t, gateway.UnavailableMessage, body.Error)
	assert.Equal(t, "upstream_unavailable", body.Code)

	body = errorBody(&archive.ArchiveError{Op: "put", Message: "No se pudo guardar el análisis."})
	assert.Equal(t, "No se pudo guardar el análisis.", body.Error)

	body = errorBody(errors.New("pq: secret connection detail"))
	assert.NotContains(t, body.Error, "secret")
}
