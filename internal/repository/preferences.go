package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/chachabrian/rentmyride-backend/internal/models"
	"gorm.io/gorm"
)

type PreferenceRepository interface {
	// Get returns the stored preferences or the defaults when none were saved
	Get(ctx context.Context, userID string) (*models.NotificationPreference, error)
	Save(ctx context.Context, pref *models.NotificationPreference) error
}

type gormPreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &gormPreferenceRepository{db: db}
}

func (r *gormPreferenceRepository) Get(ctx context.Context, userID string) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &pref, nil
}

func (r *gormPreferenceRepository) Save(ctx context.Context, pref *models.NotificationPreference) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.NotificationPreference
		err := tx.Where("user_id = ?", pref.UserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			existing = *models.DefaultPreferences(pref.UserID)
			if err := tx.Create(&existing).Error; err != nil {
				return fmt.Errorf("create preferences: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}

		// A map so that false values are written too
		err = tx.Model(&existing).Updates(map[string]interface{}{
			"push_enabled":   pref.PushEnabled,
			"email_enabled":  pref.EmailEnabled,
			"booking_alerts": pref.BookingAlerts,
		}).Error
		if err != nil {
			return fmt.Errorf("update preferences: %w", err)
		}
		pref.ID = existing.ID
		pref.CreatedAt = existing.CreatedAt
		pref.UpdatedAt = existing.UpdatedAt
		return nil
	})
}
