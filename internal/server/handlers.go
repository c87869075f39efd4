package server

import (
	"io"
	"net/http"

	"github.com/jonathan/review-analyzer/internal/report"
	"github.com/jonathan/review-analyzer/internal/session"
	"github.com/jonathan/review-analyzer/internal/types"
)

// ReviseRequest is the body of PATCH /result and POST /result/items
type ReviseRequest struct {
	Path  string `json:"path" validate:"required"`
	Value any    `json:"value"`
}

// RemoveItemRequest is the body of DELETE /result/items
type RemoveItemRequest struct {
	Path  string `json:"path" validate:"required"`
	Index *int   `json:"index" validate:"required"`
}

// FeedbackRequest is the body of POST /result/feedback
type FeedbackRequest struct {
	Feedback types.Feedback `json:"feedback" validate:"required,oneof=up down"`
}

// FeedbackResponse carries the feedback after a toggle; null means cleared
type FeedbackResponse struct {
	Feedback *types.Feedback `json:"feedback"`
}

// GoalsResponse is the body returned by POST /result/goals
type GoalsResponse struct {
	ObjetivosSmart []types.SmartGoal `json:"objetivos_smart"`
}

// handleAnalyze runs a full analysis and returns the new current result
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseAnalyzeForm(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.session.SubmitForAnalysis(r.Context(), form.User, form.Periods)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeStream runs an analysis and reports progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseAnalyzeForm(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := sse.WriteStatus(session.StateLoading); err != nil {
		s.logger.Warn().Err(err).Msg("error writing SSE event")
	}

	result, err := s.session.SubmitForAnalysis(r.Context(), form.User, form.Periods)
	if err != nil {
		s.logger.Warn().Err(err).Msg("streaming analysis failed")
		sse.WriteError(err)
		return
	}
	if err := sse.WriteEvent("result", result); err != nil {
		s.logger.Warn().Err(err).Msg("error writing SSE event")
	}
}

// handleGetResult returns the session snapshot
func (s *Server) handleGetResult(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.Snapshot())
}

// handleReviseField replaces one value of the current result
func (s *Server) handleReviseField(w http.ResponseWriter, r *http.Request) {
	var req ReviseRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.session.ReviseField(req.Path, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.Current())
}

// handleAppendItem appends to a list of the current result
func (s *Server) handleAppendItem(w http.ResponseWriter, r *http.Request) {
	var req ReviseRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.session.AppendItem(req.Path, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.Current())
}

// handleRemoveItem removes an element from a list of the current result
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	var req RemoveItemRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.session.RemoveItem(req.Path, *req.Index); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.Current())
}

// handleFeedback toggles the rating of the current result
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	fb, err := s.session.ToggleFeedback(req.Feedback)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, FeedbackResponse{Feedback: fb})
}

// handleGenerateGoals drafts SMART goals for the current result
func (s *Server) handleGenerateGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.session.GenerateSmartGoals(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, GoalsResponse{ObjetivosSmart: goals})
}

// handleGeneratePlan builds a development plan for the current result
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.session.GenerateDevelopmentPlan(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, plan)
}

// handleSave persists the current result to the archive
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	saved, err := s.session.Save(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

// handleResultPDF exports the current result
func (s *Server) handleResultPDF(w http.ResponseWriter, _ *http.Request) {
	current := s.session.Current()
	if current == nil {
		s.writeError(w, session.ErrNoResult)
		return
	}
	err := s.writePDF(w, report.AnalysisFilename(current.Colaborador), func(out io.Writer) error {
		return s.renderer.WriteAnalysis(out, current)
	})
	if err != nil {
		s.writeError(w, err)
	}
}
