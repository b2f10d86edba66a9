package services

import (
	"context"
	"errors"
	"strings"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/internal/validator"
)

type CreateReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ReviewService struct {
	reviews  repository.ReviewRepository
	bookings repository.BookingRepository
	vehicles repository.VehicleRepository
	validate *validator.Validator
}

func NewReviewService(reviews repository.ReviewRepository, bookings repository.BookingRepository, vehicles repository.VehicleRepository) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, vehicles: vehicles, validate: validator.New()}
}

// CreateReview lets the customer of a completed booking rate it once
func (s *ReviewService) CreateReview(ctx context.Context, actorID, bookingID string, in CreateReviewInput) (*models.Review, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, notFoundOrDB(err, "Booking")
	}
	if booking.UserID != actorID {
		return nil, apperrors.Forbidden("Only booking customer can review")
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, apperrors.InvalidTransition("Only completed bookings can be reviewed, got " + string(booking.Status))
	}

	review := &models.Review{
		BookingID: booking.ID,
		VehicleID: booking.VehicleID,
		UserID:    actorID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.AlreadyReviewed()
		}
		return nil, apperrors.DB(err)
	}
	return review, nil
}

func (s *ReviewService) ListVehicleReviews(ctx context.Context, vehicleID string) ([]models.Review, error) {
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return nil, notFoundOrDB(err, "Vehicle")
	}
	reviews, err := s.reviews.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, notFoundOrDB(err, "Vehicle")
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}
