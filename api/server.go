package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"juno-research/llm"
	"juno-research/realtime"
	"juno-research/research"
)

// Researcher runs one research request
type Researcher interface {
	Research(ctx context.Context, q research.Query) (*research.ResearchResult, error)
}

// ChatProvider serves the chat operations
type ChatProvider interface {
	Chat(ctx context.Context, message, sessionID string) (*research.ResearchResult, string, error)
	History(ctx context.Context, sessionID string) ([]research.ChatRecord, error)
}

// Narrator streams a completion for the narrative endpoint
type Narrator interface {
	CompleteStream(ctx context.Context, systemPrompt, userPrompt string, callback llm.StreamCallback) error
}

// Server handles HTTP API requests
type Server struct {
	advisor    Researcher
	chat       ChatProvider
	market     research.MarketData
	narrator   Narrator
	llmEnabled bool
	broker     *realtime.Broker
}

// NewServer creates a new API server instance
func NewServer(advisor Researcher, chat ChatProvider, market research.MarketData, narrator Narrator, llmEnabled bool, broker *realtime.Broker) *Server {
	return &Server{
		advisor:    advisor,
		chat:       chat,
		market:     market,
		narrator:   narrator,
		llmEnabled: llmEnabled,
		broker:     broker,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, s.routes())
}

// routes builds the request mux with middleware applied
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/{$}", s.handleRoot)
	mux.HandleFunc("POST /api/research", s.handleResearch)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/chat/history/{session_id}", s.handleChatHistory)
	mux.HandleFunc("GET /api/market/{asset}", s.handleMarket)
	mux.HandleFunc("GET /api/research/stream", s.handleResearchStream)
	if s.broker != nil {
		mux.Handle("GET /api/events", s.broker)
	}
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
