package database

import (
	"encoding/json"
	"fmt"
	"time"

	"juno-research/research"
)

// ChatMessage is the persisted form of one chat turn. The research response
// is stored as serialized JSON so its shape can evolve without migrations.
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:36"`
	SessionID string    `gorm:"size:36;index:idx_chat_messages_session"`
	UserID    string    `gorm:"size:64"`
	Message   string    `gorm:"type:text"`
	Response  string    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName pins the table name gorm would otherwise pluralize differently
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// newChatMessage converts a domain chat record into its persisted form
func newChatMessage(rec *research.ChatRecord) (ChatMessage, error) {
	row := ChatMessage{
		ID:        rec.ID,
		SessionID: rec.SessionID,
		UserID:    rec.UserID,
		Message:   rec.Message,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Response != nil {
		data, err := json.Marshal(rec.Response)
		if err != nil {
			return ChatMessage{}, fmt.Errorf("failed to serialize research response: %w", err)
		}
		row.Response = string(data)
	}
	return row, nil
}

// toRecord converts a persisted row back into a domain chat record. A
// response payload that no longer parses is dropped rather than failing the
// whole history read.
func (m ChatMessage) toRecord() research.ChatRecord {
	rec := research.ChatRecord{
		ID:        m.ID,
		SessionID: m.SessionID,
		UserID:    m.UserID,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
	if m.Response != "" {
		var result research.ResearchResult
		if err := json.Unmarshal([]byte(m.Response), &result); err == nil {
			rec.Response = &result
		}
	}
	return rec
}
