package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID   string    `json:"senderId" gorm:"type:uuid;not null;index"`
	ReceiverID string    `json:"receiverId" gorm:"type:uuid;not null;index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsRead     bool      `json:"isRead" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"index"`
}

// TableName specifies the table name
func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MessageArchive mirrors Message. Rows are moved here by the archive job.
type MessageArchive struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID   string    `json:"senderId" gorm:"type:uuid;not null"`
	ReceiverID string    `json:"receiverId" gorm:"type:uuid;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsRead     bool      `json:"isRead" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (MessageArchive) TableName() string {
	return "messages_archive"
}
