package repository

import (
	"context"
	"fmt"

	"github.com/chachabrian/rentmyride-backend/internal/models"
	"gorm.io/gorm"
)

// VehicleFilter narrows the public catalog. Zero values are ignored.
type VehicleFilter struct {
	Make     string
	City     string
	MaxPrice float64
	Limit    int
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	// FindByID loads the vehicle with its business and photos
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error)
	AddPhoto(ctx context.Context, photo *models.VehiclePhoto) error
}

type gormVehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &gormVehicleRepository{db: db}
}

func (r *gormVehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

func (r *gormVehicleRepository) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if !models.IsValidID(id) {
		return nil, ErrNotFound
	}
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Preload("Business").
		Preload("Photos").
		First(&vehicle, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &vehicle, nil
}

func (r *gormVehicleRepository) List(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Preload("Business").
		Preload("Photos").
		Where("vehicles.is_active = ?", true)

	if filter.Make != "" {
		query = query.Where("vehicles.make ILIKE ?", filter.Make+"%")
	}
	if filter.MaxPrice > 0 {
		query = query.Where("vehicles.price_per_day <= ?", filter.MaxPrice)
	}
	if filter.City != "" {
		query = query.Joins("JOIN businesses ON businesses.id = vehicles.business_id").
			Where("businesses.city ILIKE ?", filter.City)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var vehicles []models.Vehicle
	if err := query.Order("vehicles.created_at DESC").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *gormVehicleRepository) AddPhoto(ctx context.Context, photo *models.VehiclePhoto) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return fmt.Errorf("add vehicle photo: %w", err)
	}
	return nil
}
