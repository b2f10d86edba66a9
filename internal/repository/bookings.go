package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingListQuery selects one page of bookings ordered by createdAt DESC,
// id DESC. Fetch is the number of rows to read.
type BookingListQuery struct {
	Status *models.BookingStatus
	Fetch  int
	After  *utils.Cursor
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	// FindByID loads the booking with its vehicle and the vehicle's business
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string, q BookingListQuery) ([]models.Booking, error)
	ListByVehicle(ctx context.Context, vehicleID string, q BookingListQuery) ([]models.Booking, error)
	// CommittedRanges returns committed bookings of the vehicle ending at or after since
	CommittedRanges(ctx context.Context, vehicleID string, since time.Time) ([]models.Booking, error)
	// Transition moves the booking to status `to` only if its current status
	// is one of from. It reports whether a row changed.
	Transition(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error)
	// Pay records the payment and activates a CONFIRMED booking in one
	// transaction. It reports false and writes nothing when the booking is no
	// longer CONFIRMED.
	Pay(ctx context.Context, booking *models.Booking, payment *models.Payment) (bool, error)
	FindPayment(ctx context.Context, bookingID string) (*models.Payment, error)
}

var errNotConfirmed = errors.New("booking is no longer CONFIRMED")

type gormBookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &gormBookingRepository{db: db}
}

func (r *gormBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	// Returned as is so callers can detect constraint violations
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *gormBookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if !models.IsValidID(id) {
		return nil, ErrNotFound
	}
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Vehicle.Business").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *gormBookingRepository) ListByUser(ctx context.Context, userID string, q BookingListQuery) ([]models.Booking, error) {
	return r.list(ctx, "user_id = ?", userID, q)
}

func (r *gormBookingRepository) ListByVehicle(ctx context.Context, vehicleID string, q BookingListQuery) ([]models.Booking, error) {
	return r.list(ctx, "vehicle_id = ?", vehicleID, q)
}

func (r *gormBookingRepository) list(ctx context.Context, where string, arg string, q BookingListQuery) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).Where(where, arg)
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.After != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			q.After.CreatedAt, q.After.CreatedAt, q.After.ID)
	}

	var bookings []models.Booking
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(q.Fetch).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *gormBookingRepository) CommittedRanges(ctx context.Context, vehicleID string, since time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Select("id", "start_date", "end_date", "status").
		Where("vehicle_id = ? AND status IN ? AND end_date >= ?", vehicleID, models.CommittedStatuses, since).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("committed ranges: %w", err)
	}
	return bookings, nil
}

func (r *gormBookingRepository) Transition(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	if !models.IsValidID(id) {
		return false, ErrNotFound
	}
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormBookingRepository) Pay(ctx context.Context, booking *models.Booking, payment *models.Payment) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "booking_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).Create(payment).Error
		if err != nil {
			return fmt.Errorf("upsert payment: %w", err)
		}

		result := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, models.BookingStatusConfirmed).
			Updates(map[string]interface{}{
				"status":     models.BookingStatusActive,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNotConfirmed
		}
		return nil
	})
	if errors.Is(err, errNotConfirmed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *gormBookingRepository) FindPayment(ctx context.Context, bookingID string) (*models.Payment, error) {
	if !models.IsValidID(bookingID) {
		return nil, ErrNotFound
	}
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "booking_id = ?", bookingID).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}
