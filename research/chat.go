package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// trackedAssets is the ordered symbol list scanned during asset extraction;
// first match wins
var trackedAssets = []string{"BTC", "ETH", "SOL", "ADA", "DOT"}

// maxHistoryMessages caps a single chat-history read
const maxHistoryMessages = 100

// anonymousUserID is recorded until authentication exists
const anonymousUserID = "anonymous"

// ChatStore persists and retrieves chat records
type ChatStore interface {
	SaveMessage(ctx context.Context, rec *ChatRecord) error
	SessionMessages(ctx context.Context, sessionID string, limit int) ([]ChatRecord, error)
}

// ChatService turns free-text messages into research requests and records
// the exchange
type ChatService struct {
	advisor *Advisor
	store   ChatStore
}

// NewChatService creates a new chat service
func NewChatService(advisor *Advisor, store ChatStore) *ChatService {
	return &ChatService{
		advisor: advisor,
		store:   store,
	}
}

// ExtractAsset finds the first tracked symbol mentioned in a message,
// case-insensitive. Defaults to BTC when none match.
func ExtractAsset(message string) string {
	lower := strings.ToLower(message)
	for _, symbol := range trackedAssets {
		if strings.Contains(lower, strings.ToLower(symbol)) {
			return symbol
		}
	}
	return DefaultAsset
}

// Chat runs research for a free-text message and persists the turn. The
// record is written synchronously before returning; a persistence failure
// propagates and the computed result is discarded.
func (s *ChatService) Chat(ctx context.Context, message, sessionID string) (*ResearchResult, string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := s.advisor.Research(ctx, Query{
		Query: message,
		Asset: ExtractAsset(message),
	})
	if err != nil {
		return nil, "", err
	}

	record := &ChatRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    anonymousUserID,
		Message:   message,
		Response:  result,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveMessage(ctx, record); err != nil {
		return nil, "", fmt.Errorf("failed to persist chat message: %w", err)
	}

	return result, sessionID, nil
}

// History returns the chat records for a session in insertion order,
// most-recent-last, capped at the history page size. An unknown session
// yields an empty slice, not an error.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]ChatRecord, error) {
	records, err := s.store.SessionMessages(ctx, sessionID, maxHistoryMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	if records == nil {
		records = []ChatRecord{}
	}
	return records, nil
}
