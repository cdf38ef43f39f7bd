package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"juno-research/research"
)

// chatRequest is the inbound chat payload
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// chatResponse pairs the research result with the session it belongs to
type chatResponse struct {
	Response  *research.ResearchResult `json:"response"`
	SessionID string                   `json:"session_id"`
}

// handleChat runs research for a free-text message and records the turn
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondWithError(w, http.StatusBadRequest, "message is required", nil)
		return
	}

	result, sessionID, err := s.chat.Chat(r.Context(), req.Message, req.SessionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Chat processing failed", err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  result,
		SessionID: sessionID,
	})
}

// handleChatHistory returns the stored chat records for a session
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	records, err := s.chat.History(r.Context(), sessionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load chat history", err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}
