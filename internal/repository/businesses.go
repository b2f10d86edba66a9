package repository

import (
	"context"
	"fmt"

	"github.com/chachabrian/rentmyride-backend/internal/models"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	FindByID(ctx context.Context, id string) (*models.Business, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Business, error)
}

type gormBusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &gormBusinessRepository{db: db}
}

func (r *gormBusinessRepository) Create(ctx context.Context, business *models.Business) error {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return fmt.Errorf("create business: %w", err)
	}
	return nil
}

func (r *gormBusinessRepository) FindByID(ctx context.Context, id string) (*models.Business, error) {
	if !models.IsValidID(id) {
		return nil, ErrNotFound
	}
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &business, nil
}

func (r *gormBusinessRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&businesses).Error
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	return businesses, nil
}
