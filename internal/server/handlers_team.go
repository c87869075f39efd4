package server

import (
	"io"
	"net/http"

	"github.com/jonathan/review-analyzer/internal/report"
)

// CompareRequest is the body of POST /team/compare
type CompareRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

// handleCompareTeam builds a comparative report of saved analyses
func (s *Server) handleCompareTeam(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	team, err := s.session.CompareTeam(r.Context(), req.IDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, team)
}

// handleCompareTeamPDF builds the comparison and returns it as a PDF
func (s *Server) handleCompareTeamPDF(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	team, err := s.session.CompareTeam(r.Context(), req.IDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	err = s.writePDF(w, report.TeamFilename, func(out io.Writer) error {
		return s.renderer.WriteTeamAnalysis(out, team)
	})
	if err != nil {
		s.writeError(w, err)
	}
}
