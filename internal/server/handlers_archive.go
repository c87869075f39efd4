package server

import "net/http"

// handleListAnalyses lists saved analyses in insertion order
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.List(r.Context()))
}

// handleViewAnalysis loads a saved analysis as the current result
func (s *Server) handleViewAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := s.session.View(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleDeleteAnalysis removes a saved analysis
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
