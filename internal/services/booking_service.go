package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/database"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/pkg/utils"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50

	fetchAttempts      = 3
	transitionAttempts = 2
)

// RequestBookingInput is the body of a booking request. Dates accept
// RFC 3339 timestamps or YYYY-MM-DD.
type RequestBookingInput struct {
	VehicleID       string  `json:"vehicleId"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	PickupLocation  *string `json:"pickupLocation"`
	DropoffLocation *string `json:"dropoffLocation"`
	SpecialRequests *string `json:"specialRequests"`
}

// ListParams are the raw list query parameters
type ListParams struct {
	Status string
	Limit  string
	Cursor string
}

// BookingListItem is one row of a booking list. Own-bookings lists carry
// the vehicle, vehicle lists carry the customer.
type BookingListItem struct {
	ID         string               `json:"id"`
	StartDate  time.Time            `json:"startDate"`
	EndDate    time.Time            `json:"endDate"`
	Status     models.BookingStatus `json:"status"`
	TotalPrice float64              `json:"totalPrice"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
	VehicleID  string               `json:"vehicleId,omitempty"`
	UserID     string               `json:"userId,omitempty"`
}

type BookingPage struct {
	Items      []BookingListItem `json:"items"`
	NextCursor *string           `json:"nextCursor"`
}

type BookingService struct {
	bookings repository.BookingRepository
	vehicles repository.VehicleRepository
	notifier BookingNotifier
	cache    AvailabilityCache
	log      *logger.Logger
	now      func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	notifier BookingNotifier,
	cache AvailabilityCache,
	log *logger.Logger,
) *BookingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if cache == nil {
		cache = NopCache{}
	}
	return &BookingService{
		bookings: bookings,
		vehicles: vehicles,
		notifier: notifier,
		cache:    cache,
		log:      log.With("component", "bookings"),
		now:      time.Now,
	}
}

// RequestBooking creates a PENDING booking priced from the vehicle's daily rate
func (s *BookingService) RequestBooking(ctx context.Context, customerID string, in RequestBookingInput) (*models.Booking, error) {
	booking, err := s.requestBooking(ctx, customerID, in)
	recordTransition("request", err)
	return booking, err
}

func (s *BookingService) requestBooking(ctx context.Context, customerID string, in RequestBookingInput) (*models.Booking, error) {
	if in.VehicleID == "" || in.StartDate == "" || in.EndDate == "" {
		return nil, apperrors.InvalidInput("vehicleId, startDate, endDate required")
	}

	vehicle, err := s.vehicles.FindByID(ctx, in.VehicleID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !vehicle.IsActive) {
		return nil, apperrors.NotFound("Vehicle")
	}
	if err != nil {
		return nil, apperrors.DB(err)
	}

	start, startErr := ParseBookingDate(in.StartDate)
	end, endErr := ParseBookingDate(in.EndDate)
	if startErr != nil || endErr != nil || end.Before(start) {
		return nil, apperrors.InvalidDates("Bad date range")
	}

	days := utils.RentalDays(start, end)
	booking := &models.Booking{
		VehicleID:       vehicle.ID,
		Vehicle:         vehicle,
		UserID:          customerID,
		StartDate:       start,
		EndDate:         end,
		TotalDays:       days,
		TotalPrice:      utils.RentalPrice(vehicle.PricePerDay, days),
		Status:          models.BookingStatusPending,
		PickupLocation:  blankToNil(in.PickupLocation),
		DropoffLocation: blankToNil(in.DropoffLocation),
		SpecialRequests: blankToNil(in.SpecialRequests),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if database.IsOverlapError(err) {
			return nil, apperrors.NotAvailable()
		}
		return nil, apperrors.DB(err)
	}

	s.log.Info("booking requested", "booking_id", booking.ID, "vehicle_id", vehicle.ID, "days", days)
	s.notifier.BookingChanged(ctx, newBookingEvent(EventBookingRequested, booking, "", s.now()))
	return booking, nil
}

// ApproveBooking confirms a PENDING booking. Only the vehicle's owner may
// approve. The database rejects the change when another committed booking
// overlaps.
func (s *BookingService) ApproveBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := s.approveBooking(ctx, actorID, bookingID)
	recordTransition("approve", err)
	return booking, err
}

func (s *BookingService) approveBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	var booking *models.Booking
	err := database.WithRetry(ctx, fetchAttempts, func() error {
		var err error
		booking, err = s.bookings.FindByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, notFoundOrDB(err, "Booking")
	}

	if booking.OwnerID() != actorID {
		return nil, apperrors.Forbidden("Not owner")
	}
	if booking.Status != models.BookingStatusPending {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("Cannot approve booking from status %s", booking.Status))
	}

	if err := s.transition(ctx, booking, models.BookingStatusConfirmed, transitionAttempts); err != nil {
		if apperrors.HasCode(err, apperrors.CodeInvalidTransition) {
			return nil, apperrors.InvalidTransition("Booking is no longer in PENDING")
		}
		return nil, err
	}
	return booking, nil
}

// PayBooking records a test payment and activates a CONFIRMED booking.
// Only the booking's customer may pay, and only once.
func (s *BookingService) PayBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := s.payBooking(ctx, actorID, bookingID)
	recordTransition("pay", err)
	return booking, err
}

func (s *BookingService) payBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, notFoundOrDB(err, "Booking")
	}
	if booking.UserID != actorID {
		return nil, apperrors.Forbidden("Only booking customer can pay")
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("Expected CONFIRMED before pay, got %s", booking.Status))
	}

	payment := &models.Payment{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Amount:    booking.TotalPrice,
		Currency:  "USD",
		Status:    models.PaymentStatusCompleted,
		Method:    "TEST",
	}
	paid, err := s.bookings.Pay(ctx, booking, payment)
	if err != nil {
		return nil, apperrors.DB(err)
	}
	if !paid {
		return nil, apperrors.InvalidTransition("Booking is no longer CONFIRMED")
	}

	previous := booking.Status
	booking.Status = models.BookingStatusActive
	s.afterTransition(ctx, booking, previous)
	return booking, nil
}

// CompleteBooking finishes an ACTIVE rental. The customer or the owner may complete.
func (s *BookingService) CompleteBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := s.simpleTransition(ctx, actorID, bookingID, models.BookingStatusCompleted,
		"Not permitted to complete this booking",
		func(from models.BookingStatus) string {
			return fmt.Sprintf("Expected ACTIVE before complete, got %s", from)
		})
	recordTransition("complete", err)
	return booking, err
}

// CancelBooking cancels a PENDING or CONFIRMED booking on behalf of the
// customer or the owner.
func (s *BookingService) CancelBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := s.simpleTransition(ctx, actorID, bookingID, models.BookingStatusCancelled,
		"Not permitted to cancel this booking",
		func(from models.BookingStatus) string {
			return fmt.Sprintf("Cannot cancel booking in status %s", from)
		})
	recordTransition("cancel", err)
	return booking, err
}

func (s *BookingService) simpleTransition(
	ctx context.Context,
	actorID, bookingID string,
	to models.BookingStatus,
	forbidden string,
	invalid func(from models.BookingStatus) string,
) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, notFoundOrDB(err, "Booking")
	}
	if booking.UserID != actorID && booking.OwnerID() != actorID {
		return nil, apperrors.Forbidden(forbidden)
	}
	if !models.CanTransition(booking.Status, to) {
		return nil, apperrors.InvalidTransition(invalid(booking.Status))
	}

	if err := s.transition(ctx, booking, to, 1); err != nil {
		return nil, err
	}
	return booking, nil
}

// transition moves booking from the status it was read with to `to`. The
// update only applies while the stored status still matches, so a booking
// changed by another request fails with INVALID_TRANSITION.
func (s *BookingService) transition(ctx context.Context, booking *models.Booking, to models.BookingStatus, attempts int) error {
	var (
		changed bool
		tries   int
	)
	err := database.WithRetry(ctx, attempts, func() error {
		tries++
		var err error
		changed, err = s.bookings.Transition(ctx, booking.ID, []models.BookingStatus{booking.Status}, to)
		return err
	})
	if err != nil {
		if database.IsOverlapError(err) {
			return apperrors.NotAvailable()
		}
		return apperrors.DB(err)
	}
	if !changed && tries > 1 {
		// an earlier attempt may have committed before its reply was lost
		changed = s.alreadyApplied(ctx, booking.ID, to)
	}
	if !changed {
		return apperrors.InvalidTransition(fmt.Sprintf("Booking is no longer in %s", booking.Status))
	}

	previous := booking.Status
	booking.Status = to
	booking.UpdatedAt = s.now()
	s.afterTransition(ctx, booking, previous)
	return nil
}

func (s *BookingService) alreadyApplied(ctx context.Context, bookingID string, to models.BookingStatus) bool {
	current, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Warn("could not re-read booking after retried transition", "booking_id", bookingID, "error", err)
		return false
	}
	return current.Status == to
}

func (s *BookingService) afterTransition(ctx context.Context, booking *models.Booking, previous models.BookingStatus) {
	s.log.Info("booking transitioned",
		"booking_id", booking.ID,
		"from", previous,
		"to", booking.Status,
	)
	if previous.IsCommitted() || booking.Status.IsCommitted() {
		s.cache.Invalidate(ctx, booking.VehicleID)
	}
	s.notifier.BookingChanged(ctx, newBookingEvent(EventBookingUpdated, booking, previous, s.now()))
}

// GetBooking returns a booking visible to its customer or the vehicle owner
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, notFoundOrDB(err, "Booking")
	}
	if booking.UserID != actorID && booking.OwnerID() != actorID {
		return nil, apperrors.Forbidden("Not permitted to view this booking")
	}
	return booking, nil
}

// ListMyBookings pages through the caller's own bookings
func (s *BookingService) ListMyBookings(ctx context.Context, userID string, params ListParams) (*BookingPage, error) {
	query, limit, err := parseListParams(params)
	if err != nil {
		return nil, err
	}
	rows, err := s.bookings.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, apperrors.DB(err)
	}
	return buildPage(rows, limit, func(item *BookingListItem, b *models.Booking) {
		item.VehicleID = b.VehicleID
	}), nil
}

// ListVehicleBookings pages through a vehicle's bookings. Only the owner may list them.
func (s *BookingService) ListVehicleBookings(ctx context.Context, actorID, vehicleID string, params ListParams) (*BookingPage, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, notFoundOrDB(err, "Vehicle")
	}
	if vehicle.OwnerID() != actorID {
		return nil, apperrors.Forbidden("Not owner")
	}

	query, limit, err := parseListParams(params)
	if err != nil {
		return nil, err
	}
	rows, err := s.bookings.ListByVehicle(ctx, vehicleID, query)
	if err != nil {
		return nil, apperrors.DB(err)
	}
	return buildPage(rows, limit, func(item *BookingListItem, b *models.Booking) {
		item.UserID = b.UserID
	}), nil
}

// ParsePageLimit clamps limit to [1, MaxPageLimit]. Missing or malformed
// values fall back to DefaultPageLimit.
func ParsePageLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

func parseListParams(params ListParams) (repository.BookingListQuery, int, error) {
	limit := ParsePageLimit(params.Limit)
	query := repository.BookingListQuery{
		Fetch: limit + 1,
		After: utils.DecodeCursor(params.Cursor),
	}
	if params.Status != "" {
		status := models.BookingStatus(strings.ToUpper(params.Status))
		if !status.IsValid() {
			return query, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown status %q", params.Status))
		}
		query.Status = &status
	}
	return query, limit, nil
}

func buildPage(rows []models.Booking, limit int, fill func(*BookingListItem, *models.Booking)) *BookingPage {
	page := &BookingPage{Items: make([]BookingListItem, 0, limit)}
	more := len(rows) > limit
	if more {
		rows = rows[:limit]
	}
	for i := range rows {
		b := &rows[i]
		item := BookingListItem{
			ID:         b.ID,
			StartDate:  b.StartDate,
			EndDate:    b.EndDate,
			Status:     b.Status,
			TotalPrice: b.TotalPrice,
			CreatedAt:  b.CreatedAt,
			UpdatedAt:  b.UpdatedAt,
		}
		fill(&item, b)
		page.Items = append(page.Items, item)
	}
	if more && len(rows) > 0 {
		last := rows[len(rows)-1]
		cursor := utils.EncodeCursor(last.CreatedAt, last.ID)
		page.NextCursor = &cursor
	}
	return page
}

// ParseBookingDate accepts RFC 3339 timestamps and plain dates (UTC midnight)
func ParseBookingDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func notFoundOrDB(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource)
	}
	return apperrors.DB(err)
}

func errorLabel(err error) string {
	return strings.ToLower(apperrors.As(err).Code)
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
