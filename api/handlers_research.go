package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"juno-research/llm"
	"juno-research/research"
)

// handleRoot serves the service banner
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Juno Research API"})
}

// handleHealth serves the liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResearch coordinates all agents for one research query
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var query research.Query
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := s.advisor.Research(r.Context(), query)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Research analysis failed", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleResearchStream streams an LLM-written research narrative via SSE
func (s *Server) handleResearchStream(w http.ResponseWriter, r *http.Request) {
	// Check if LLM is enabled
	if !s.llmEnabled || s.narrator == nil {
		respondWithError(w, http.StatusServiceUnavailable, "LLM is not enabled", nil)
		return
	}

	asset := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("asset")))
	if asset == "" {
		asset = research.DefaultAsset
	}

	snap := s.market.GetPrice(r.Context(), asset)

	// Set SSE headers
	flusher, ok := setupSSE(w)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Streaming not supported", nil)
		return
	}

	prompt := llm.FormatNarrativePrompt(asset, snap)

	// Stream LLM response
	err := s.narrator.CompleteStream(r.Context(), llm.AdvisorSystemPrompt, prompt, func(chunk string) error {
		// Properly format multi-line chunks for SSE
		lines := strings.Split(chunk, "\n")
		for i, line := range lines {
			if i < len(lines)-1 {
				fmt.Fprintf(w, "data: %s\n", line)
			} else {
				fmt.Fprintf(w, "data: %s\n\n", line)
			}
		}
		flusher.Flush()
		return nil
	})

	if err != nil {
		log.Printf("LLM streaming failed: %v", err)
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", err.Error())
		flusher.Flush()
		return
	}

	// Send completion event
	fmt.Fprintf(w, "event: done\ndata: Stream completed\n\n")
	flusher.Flush()
}
