package repository

import (
	"context"
	"fmt"

	"github.com/chachabrian/rentmyride-backend/internal/database"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByVehicle(ctx context.Context, vehicleID string) ([]models.Review, error)
}

type gormReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &gormReviewRepository{db: db}
}

func (r *gormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if database.IsUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *gormReviewRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]models.Review, error) {
	if !models.IsValidID(vehicleID) {
		return nil, ErrNotFound
	}
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("vehicle_id = ?", vehicleID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
