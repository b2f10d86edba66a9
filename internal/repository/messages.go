package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// Conversation returns the newest messages exchanged between two users,
	// oldest first
	Conversation(ctx context.Context, userA, userB string, limit int) ([]models.Message, error)
	// MarkRead flags a message as read when receiverID received it
	MarkRead(ctx context.Context, id, receiverID string) (bool, error)
	// Archive moves messages last updated at or before cutoff to
	// messages_archive and returns how many were moved
	Archive(ctx context.Context, cutoff time.Time) (int64, error)
}

const archiveInsertSQL = `
INSERT INTO messages_archive (id, sender_id, receiver_id, content, is_read, created_at, updated_at)
SELECT id, sender_id, receiver_id, content, is_read, created_at, updated_at
FROM messages
WHERE updated_at <= ?
ON CONFLICT DO NOTHING`

const archiveDeleteSQL = `
DELETE FROM messages
WHERE updated_at <= ?
AND id IN (SELECT id FROM messages_archive)`

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (r *gormMessageRepository) Conversation(ctx context.Context, userA, userB string, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *gormMessageRepository) MarkRead(ctx context.Context, id, receiverID string) (bool, error) {
	if !models.IsValidID(id) {
		return false, ErrNotFound
	}
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Updates(map[string]interface{}{"is_read": true, "updated_at": time.Now()})
	if result.Error != nil {
		return false, fmt.Errorf("mark read: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormMessageRepository) Archive(ctx context.Context, cutoff time.Time) (int64, error) {
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(archiveInsertSQL, cutoff).Error; err != nil {
			return fmt.Errorf("copy to archive: %w", err)
		}
		result := tx.Exec(archiveDeleteSQL, cutoff)
		if result.Error != nil {
			return fmt.Errorf("delete archived: %w", result.Error)
		}
		moved = result.RowsAffected
		return nil
	})
	return moved, err
}
