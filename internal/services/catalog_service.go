package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/internal/validator"
)

const catalogPageSize = 100

type CreateVehicleInput struct {
	BusinessID   string   `json:"businessId" validate:"required,uuid"`
	Make         string   `json:"make" validate:"required,max=64"`
	Model        string   `json:"model" validate:"required,max=64"`
	Year         int      `json:"year" validate:"required,min=1950,max=2100"`
	Color        string   `json:"color" validate:"max=32"`
	Seats        int      `json:"seats" validate:"omitempty,min=1,max=60"`
	Transmission string   `json:"transmission" validate:"max=32"`
	FuelType     string   `json:"fuelType" validate:"max=32"`
	PricePerDay  float64  `json:"pricePerDay" validate:"required,gt=0"`
	PricePerWeek *float64 `json:"pricePerWeek" validate:"omitempty,gt=0"`
}

type CreateBusinessInput struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description" validate:"max=2000"`
	City        string `json:"city" validate:"max=64"`
}

// VehicleQuery holds the raw catalog query parameters
type VehicleQuery struct {
	Make     string
	City     string
	MaxPrice string
}

type CatalogService struct {
	vehicles   repository.VehicleRepository
	businesses repository.BusinessRepository
	bookings   repository.BookingRepository
	storage    PhotoStorage
	cache      AvailabilityCache
	validate   *validator.Validator
	log        *logger.Logger
	now        func() time.Time
}

func NewCatalogService(
	vehicles repository.VehicleRepository,
	businesses repository.BusinessRepository,
	bookings repository.BookingRepository,
	storage PhotoStorage,
	cache AvailabilityCache,
	log *logger.Logger,
) *CatalogService {
	if cache == nil {
		cache = NopCache{}
	}
	return &CatalogService{
		vehicles:   vehicles,
		businesses: businesses,
		bookings:   bookings,
		storage:    storage,
		cache:      cache,
		validate:   validator.New(),
		log:        log.With("component", "catalog"),
		now:        time.Now,
	}
}

func (s *CatalogService) ListVehicles(ctx context.Context, q VehicleQuery) ([]models.Vehicle, error) {
	filter := repository.VehicleFilter{
		Make:  strings.TrimSpace(q.Make),
		City:  strings.TrimSpace(q.City),
		Limit: catalogPageSize,
	}
	if q.MaxPrice != "" {
		maxPrice, err := strconv.ParseFloat(q.MaxPrice, 64)
		if err != nil || maxPrice <= 0 {
			return nil, apperrors.InvalidInput("maxPrice must be a positive number")
		}
		filter.MaxPrice = maxPrice
	}

	vehicles, err := s.vehicles.List(ctx, filter)
	if err != nil {
		return nil, apperrors.DB(err)
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return vehicles, nil
}

func (s *CatalogService) GetVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDB(err, "Vehicle")
	}
	if !vehicle.IsActive {
		return nil, apperrors.NotFound("Vehicle")
	}
	return vehicle, nil
}

// CreateVehicle lists a new vehicle under a business the caller owns
func (s *CatalogService) CreateVehicle(ctx context.Context, actorID string, in CreateVehicleInput) (*models.Vehicle, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	business, err := s.businesses.FindByID(ctx, in.BusinessID)
	if err != nil {
		return nil, notFoundOrDB(err, "Business")
	}
	if business.OwnerID != actorID {
		return nil, apperrors.Forbidden("Not owner of business")
	}

	vehicle := &models.Vehicle{
		BusinessID:   business.ID,
		Make:         strings.TrimSpace(in.Make),
		Model:        strings.TrimSpace(in.Model),
		Year:         in.Year,
		Color:        in.Color,
		Seats:        in.Seats,
		Transmission: in.Transmission,
		FuelType:     in.FuelType,
		PricePerDay:  in.PricePerDay,
		PricePerWeek: in.PricePerWeek,
		IsActive:     true,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, apperrors.DB(err)
	}
	vehicle.Business = business

	s.log.Info("vehicle created", "vehicle_id", vehicle.ID, "business_id", business.ID)
	return vehicle, nil
}

// UploadVehiclePhoto stores a photo for a vehicle the caller owns
func (s *CatalogService) UploadVehiclePhoto(ctx context.Context, actorID, vehicleID string, file *multipart.FileHeader, caption string) (*models.VehiclePhoto, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, notFoundOrDB(err, "Vehicle")
	}
	if vehicle.OwnerID() != actorID {
		return nil, apperrors.Forbidden("Not owner")
	}
	if file == nil {
		return nil, apperrors.InvalidInput("photo file required")
	}

	url, err := s.storage.Upload(ctx, file, "vehicles/"+vehicle.ID)
	if errors.Is(err, ErrUnsupportedImage) || errors.Is(err, ErrImageTooLarge) {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if err != nil {
		return nil, apperrors.DB(err)
	}

	photo := &models.VehiclePhoto{VehicleID: vehicle.ID, URL: url, Caption: strings.TrimSpace(caption)}
	if err := s.vehicles.AddPhoto(ctx, photo); err != nil {
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			s.log.Warn("failed to remove orphaned photo", "url", url, "error", delErr)
		}
		return nil, apperrors.DB(err)
	}
	return photo, nil
}

// GetAvailability returns the committed, not yet finished date ranges of a
// vehicle. Results are cached until the next committed transition.
func (s *CatalogService) GetAvailability(ctx context.Context, vehicleID string) ([]DateRange, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	if ranges, ok := s.cache.Get(ctx, vehicleID); ok {
		availabilityCache.WithLabelValues("hit").Inc()
		return ranges, nil
	}
	availabilityCache.WithLabelValues("miss").Inc()

	bookings, err := s.bookings.CommittedRanges(ctx, vehicleID, s.now())
	if err != nil {
		return nil, apperrors.DB(err)
	}

	ranges := make([]DateRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, DateRange{
			From: b.StartDate.UTC().Format("2006-01-02"),
			To:   b.EndDate.UTC().Format("2006-01-02"),
		})
	}
	s.cache.Set(ctx, vehicleID, ranges)
	return ranges, nil
}

func (s *CatalogService) CreateBusiness(ctx context.Context, actorID string, in CreateBusinessInput) (*models.Business, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	business := &models.Business{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		City:        strings.TrimSpace(in.City),
		OwnerID:     actorID,
	}
	if err := s.businesses.Create(ctx, business); err != nil {
		return nil, apperrors.DB(err)
	}
	return business, nil
}

func (s *CatalogService) ListMyBusinesses(ctx context.Context, actorID string) ([]models.Business, error) {
	businesses, err := s.businesses.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, apperrors.DB(err)
	}
	if businesses == nil {
		businesses = []models.Business{}
	}
	return businesses, nil
}
