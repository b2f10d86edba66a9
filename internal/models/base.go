package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base replaces gorm.Model for tables keyed by UUID. Rows are never soft
// deleted, so there is no DeletedAt column.
type Base struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a new UUID when the caller did not set one
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// IsValidID reports whether id can be looked up in a uuid column.
// Anything else cannot exist, so callers treat it as not found.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
