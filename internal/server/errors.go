package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/review-analyzer/internal/archive"
	"github.com/jonathan/review-analyzer/internal/gateway"
	"github.com/jonathan/review-analyzer/internal/ingestion"
	"github.com/jonathan/review-analyzer/internal/report"
	"github.com/jonathan/review-analyzer/internal/session"
)

// ErrorBody is the JSON shape of every error response and SSE error event
type ErrorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Status int    `json:"status,omitempty"`
}

// ErrBadRequest indicates a malformed request body or form
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _, _ := classify(err)
	return status
}

func errorBody(err error) ErrorBody {
	status, code, message := classify(err)
	return ErrorBody{Error: message, Code: code, Status: status}
}

// classify maps an error to a status, a stable code and a message safe to show to users.
func classify(err error) (int, string, string) {
	var (
		badRequest  *ErrBadRequest
		validation  *session.ValidationError
		extraction  *session.ExtractionError
		corrupt     *ingestion.CorruptDocumentError
		configErr   *gateway.ConfigurationError
		unavailable *gateway.UpstreamUnavailableError
		upstream    *gateway.UpstreamError
		archiveErr  *archive.ArchiveError
		renderErr   *report.RenderError
	)

	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, "bad_request", badRequest.Message
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation_error", validation.Message
	case errors.As(err, &extraction):
		return http.StatusBadRequest, "extraction_error", extraction.Message
	case errors.As(err, &corrupt):
		return http.StatusUnprocessableEntity, "corrupt_document",
			fmt.Sprintf("No se pudo leer el documento %q. El archivo podría estar dañado o protegido.", corrupt.Name)
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "not_found", "No se encontró el análisis solicitado."
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict, "busy", "Ya hay una operación en curso. Espere a que termine."
	case errors.Is(err, session.ErrNoResult):
		return http.StatusConflict, "no_result", "No hay ningún análisis cargado."
	case errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict, "superseded", "El análisis cambió mientras se procesaba la solicitud."
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, "configuration_error", configErr.Message
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, "upstream_unavailable", gateway.UnavailableMessage
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "upstream_error", "El servicio de IA devolvió una respuesta inválida. Por favor, inténtalo de nuevo."
	case errors.As(err, &archiveErr):
		return http.StatusInsufficientStorage, "archive_error", archiveErr.Message
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError, "render_error", "No se pudo generar el PDF."
	default:
		return http.StatusInternalServerError, "internal_error", "Error interno del servidor."
	}
}

// writeError logs the error and writes it as JSON
func (s *Server) writeError(w http.ResponseWriter, err error) {
	body := errorBody(err)
	event := s.logger.Debug()
	if body.Status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).Int("status", body.Status).Str("code", body.Code).Msg("request failed")
	s.jsonResponse(w, body.Status, body)
}
