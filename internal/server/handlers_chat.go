package server

import (
	"net/http"

	"github.com/jonathan/review-analyzer/internal/types"
)

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	History []types.ChatMessage `json:"history" validate:"dive"`
	Message string              `json:"message" validate:"required"`
}

// handleChat streams the assistant reply as SSE chunk events
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	// Errors before the first chunk are plain JSON responses
	stream, err := s.session.SendChatMessage(r.Context(), req.History, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	chunks := 0
	for chunk, err := range stream {
		if err != nil {
			s.logger.Warn().Err(err).Int("chunks", chunks).Msg("chat stream failed")
			sse.WriteError(err)
			return
		}
		if err := sse.WriteChunk(chunk); err != nil {
			// client went away; stop pulling from the provider
			s.logger.Debug().Err(err).Msg("chat client disconnected")
			return
		}
		chunks++
	}
	sse.WriteComplete()
}

// handleChatGreeting returns the assistant's opening message
func (s *Server) handleChatGreeting(w http.ResponseWriter, _ *http.Request) {
	greeting, err := s.session.ChatGreeting()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"greeting": greeting})
}
