package database

import (
	"context"
	"fmt"

	"juno-research/research"
)

// ChatRepository handles database operations for chat records
type ChatRepository struct {
	db *Database
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *Database) *ChatRepository {
	return &ChatRepository{db: db}
}

// InitSchema performs auto-migration for the chat tables
func (r *ChatRepository) InitSchema() error {
	if err := r.db.db.AutoMigrate(&ChatMessage{}); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// SaveMessage persists one chat record
func (r *ChatRepository) SaveMessage(ctx context.Context, rec *research.ChatRecord) error {
	row, err := newChatMessage(rec)
	if err != nil {
		return err
	}
	if err := r.db.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// SessionMessages returns the chat records for a session in insertion order,
// most-recent-last, capped at limit
func (r *ChatRepository) SessionMessages(ctx context.Context, sessionID string, limit int) ([]research.ChatRecord, error) {
	var rows []ChatMessage
	err := r.db.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}

	records := make([]research.ChatRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}
