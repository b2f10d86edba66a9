package services

import (
	"context"
	"testing"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/database"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	database.RetryBackoff = time.Millisecond
}

func newBookingService(w *world) *BookingService {
	return NewBookingService(w.bookings, w.vehicles, w.notifier, w.cache, logger.Nop())
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.As(err).Code, err.Error())
}

// ============================================================================
// RequestBooking
// ============================================================================

func TestRequestBooking_CreatesPending(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	pickup := " Airport "

	booking, err := svc.RequestBooking(context.Background(), w.customerID, RequestBookingInput{
		VehicleID:      w.vehicle.ID,
		StartDate:      "2030-03-01",
		EndDate:        "2030-03-04",
		PickupLocation: &pickup,
	})

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, 3, booking.TotalDays)
	assert.Equal(t, 137.97, booking.TotalPrice)
	assert.Equal(t, w.customerID, booking.UserID)
	require.NotNil(t, booking.PickupLocation)
	assert.Equal(t, "Airport", *booking.PickupLocation)
	assert.Nil(t, booking.DropoffLocation)

	event := w.notifier.last()
	assert.Equal(t, EventBookingRequested, event.Type)
	assert.Equal(t, w.ownerID, event.OwnerID)
	assert.Equal(t, w.customerID, event.CustomerID)
}

func TestRequestBooking_SameDayIsOneDay(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)

	booking, err := svc.RequestBooking(context.Background(), w.customerID, RequestBookingInput{
		VehicleID: w.vehicle.ID,
		StartDate: "2030-03-01T10:00:00Z",
		EndDate:   "2030-03-01T10:00:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, booking.TotalDays)
	assert.Equal(t, 45.99, booking.TotalPrice)
}

func TestRequestBooking_PartialDayRoundsUp(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)

	booking, err := svc.RequestBooking(context.Background(), w.customerID, RequestBookingInput{
		VehicleID: w.vehicle.ID,
		StartDate: "2030-03-01T10:00:00Z",
		EndDate:   "2030-03-02T11:00:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, booking.TotalDays)
}

func TestRequestBooking_OverlappingPendingRequestsBothSucceed(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	in := RequestBookingInput{VehicleID: w.vehicle.ID, StartDate: "2030-03-01", EndDate: "2030-03-04"}

	_, err1 := svc.RequestBooking(context.Background(), w.customerID, in)
	_, err2 := svc.RequestBooking(context.Background(), w.strangerID, in)

	assert.NoError(t, err1)
	assert.NoError(t, err2)
}

func TestRequestBooking_Errors(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)

	tests := []struct {
		name string
		in   RequestBookingInput
		code string
	}{
		{"missing vehicle", RequestBookingInput{StartDate: "2030-03-01", EndDate: "2030-03-02"}, apperrors.CodeInvalidInput},
		{"missing end", RequestBookingInput{VehicleID: w.vehicle.ID, StartDate: "2030-03-01"}, apperrors.CodeInvalidInput},
		{"unknown vehicle", RequestBookingInput{VehicleID: uuid.NewString(), StartDate: "2030-03-01", EndDate: "2030-03-02"}, apperrors.CodeNotFound},
		{"malformed vehicle id", RequestBookingInput{VehicleID: "non-existent-id", StartDate: "2030-03-01", EndDate: "2030-03-02"}, apperrors.CodeNotFound},
		{"end before start", RequestBookingInput{VehicleID: w.vehicle.ID, StartDate: "2030-03-05", EndDate: "2030-03-01"}, apperrors.CodeInvalidDates},
		{"garbage date", RequestBookingInput{VehicleID: w.vehicle.ID, StartDate: "tomorrow", EndDate: "2030-03-01"}, apperrors.CodeInvalidDates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RequestBooking(context.Background(), w.customerID, tt.in)
			assertCode(t, err, tt.code)
		})
	}
}

func TestRequestBooking_InactiveVehicleNotFound(t *testing.T) {
	w := newWorld()
	w.vehicles.vehicles[w.vehicle.ID].IsActive = false
	svc := newBookingService(w)

	_, err := svc.RequestBooking(context.Background(), w.customerID, RequestBookingInput{
		VehicleID: w.vehicle.ID, StartDate: "2030-03-01", EndDate: "2030-03-02",
	})

	assertCode(t, err, apperrors.CodeNotFound)
}

func TestRequestBooking_ExclusionViolationIsNotAvailable(t *testing.T) {
	w := newWorld()
	w.bookings.createErr = &pgconn.PgError{Code: "23P01", ConstraintName: database.OverlapConstraint}
	svc := newBookingService(w)

	_, err := svc.RequestBooking(context.Background(), w.customerID, RequestBookingInput{
		VehicleID: w.vehicle.ID, StartDate: "2030-03-01", EndDate: "2030-03-02",
	})

	assertCode(t, err, apperrors.CodeNotAvailable)
}

// ============================================================================
// ApproveBooking
// ============================================================================

func TestApproveBooking_OwnerConfirms(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)

	approved, err := svc.ApproveBooking(context.Background(), w.ownerID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, approved.Status)
	assert.Equal(t, models.BookingStatusConfirmed, w.bookings.status(b.ID))
	assert.Contains(t, w.cache.invalidated, w.vehicle.ID)

	event := w.notifier.last()
	assert.Equal(t, EventBookingUpdated, event.Type)
	assert.Equal(t, models.BookingStatusConfirmed, event.Status)
	assert.Equal(t, models.BookingStatusPending, event.Previous)
}

func TestApproveBooking_CustomerForbidden(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)

	_, err := svc.ApproveBooking(context.Background(), w.customerID, b.ID)

	assertCode(t, err, apperrors.CodeForbidden)
	assert.Equal(t, models.BookingStatusPending, w.bookings.status(b.ID))
}

func TestApproveBooking_NotPending(t *testing.T) {
	for _, status := range []models.BookingStatus{
		models.BookingStatusConfirmed,
		models.BookingStatusActive,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			w := newWorld()
			svc := newBookingService(w)
			b := w.booking(status)

			_, err := svc.ApproveBooking(context.Background(), w.ownerID, b.ID)

			assertCode(t, err, apperrors.CodeInvalidTransition)
		})
	}
}

func TestApproveBooking_LosesRace(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)
	w.bookings.beforeTransition = func(id string) {
		w.bookings.mu.Lock()
		w.bookings.bookings[id].Status = models.BookingStatusConfirmed
		w.bookings.mu.Unlock()
	}

	_, err := svc.ApproveBooking(context.Background(), w.ownerID, b.ID)

	assertCode(t, err, apperrors.CodeInvalidTransition)
	assert.Equal(t, "Booking is no longer in PENDING", apperrors.As(err).Message)
}

func TestApproveBooking_OverlapIsNotAvailable(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)
	w.bookings.transitionErrs = []error{&pgconn.PgError{Code: "23P01", ConstraintName: database.OverlapConstraint}}

	_, err := svc.ApproveBooking(context.Background(), w.ownerID, b.ID)

	assertCode(t, err, apperrors.CodeNotAvailable)
	assert.Equal(t, models.BookingStatusPending, w.bookings.status(b.ID))
	assert.Empty(t, w.notifier.events)
}

func TestApproveBooking_RetriesTransientFetch(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)
	w.bookings.findErrs = []error{&pgconn.PgError{Code: "08006"}, &pgconn.PgError{Code: "08001"}}

	_, err := svc.ApproveBooking(context.Background(), w.ownerID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, 3, w.bookings.findCalls)
}

func TestApproveBooking_FetchGivesUpAfterThreeAttempts(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)
	transient := &pgconn.PgError{Code: "08006"}
	w.bookings.findErrs = []error{transient, transient, transient, transient}

	_, err := svc.ApproveBooking(context.Background(), w.ownerID, b.ID)

	assertCode(t, err, apperrors.CodeDBError)
	assert.Equal(t, 3, w.bookings.findCalls)
}

func TestApproveBooking_RetriesTransientTransitionOnce(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)
	w.bookings.transitionErrs = []error{&pgconn.PgError{Code: "40001"}}

	_, err := svc.ApproveBooking(context.Background(), w.ownerID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, w.bookings.transitionCalls)
	assert.Equal(t, models.BookingStatusConfirmed, w.bookings.status(b.ID))
}

func TestApproveBooking_RetryAfterLostCommit(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)
	// the first attempt commits but its reply never arrives
	w.bookings.transitionErrs = []error{&pgconn.PgError{Code: "40001"}}
	w.bookings.beforeTransition = func(id string) {
		w.bookings.mu.Lock()
		defer w.bookings.mu.Unlock()
		if w.bookings.transitionCalls == 0 {
			w.bookings.bookings[id].Status = models.BookingStatusConfirmed
		}
	}

	approved, err := svc.ApproveBooking(context.Background(), w.ownerID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, approved.Status)
	assert.Equal(t, 2, w.bookings.transitionCalls)
	assert.Equal(t, []string{b.VehicleID}, w.cache.invalidated)
	require.Len(t, w.notifier.events, 1)
	assert.Equal(t, models.BookingStatusPending, w.notifier.last().Previous)
}

func TestApproveBooking_SameDayBookingsConflict(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	w := newWorld()
	svc := NewBookingService(store.Bookings, store.Vehicles, w.notifier, w.cache, logger.Nop())

	business := &models.Business{Name: "Coast Cars", OwnerID: "owner"}
	require.NoError(t, store.Businesses.Create(ctx, business))
	vehicle := &models.Vehicle{BusinessID: business.ID, Make: "Toyota", Model: "Vitz", PricePerDay: 30, IsActive: true}
	require.NoError(t, store.Vehicles.Create(ctx, vehicle))

	request := func(customerID string) *models.Booking {
		b, err := svc.RequestBooking(ctx, customerID, RequestBookingInput{
			VehicleID: vehicle.ID, StartDate: "2030-01-01", EndDate: "2030-01-01",
		})
		require.NoError(t, err)
		return b
	}
	first := request("alice")
	second := request("bob")

	_, err := svc.ApproveBooking(ctx, "owner", first.ID)
	require.NoError(t, err)

	_, err = svc.ApproveBooking(ctx, "owner", second.ID)
	assertCode(t, err, apperrors.CodeNotAvailable)

	stored, err := store.Bookings.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
}

func TestApproveBooking_NotFound(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)

	_, err := svc.ApproveBooking(context.Background(), w.ownerID, uuid.NewString())

	assertCode(t, err, apperrors.CodeNotFound)
}

// ============================================================================
// PayBooking
// ============================================================================

func TestPayBooking_ActivatesAndRecordsPayment(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusConfirmed)

	paid, err := svc.PayBooking(context.Background(), w.customerID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusActive, paid.Status)
	require.Len(t, w.bookings.payments, 1)
	payment := w.bookings.payments[b.ID]
	assert.Equal(t, 137.97, payment.Amount)
	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, "TEST", payment.Method)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
}

func TestPayBooking_SecondPayIsInvalidTransition(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusConfirmed)

	_, err := svc.PayBooking(context.Background(), w.customerID, b.ID)
	require.NoError(t, err)

	_, err = svc.PayBooking(context.Background(), w.customerID, b.ID)

	assertCode(t, err, apperrors.CodeInvalidTransition)
	assert.Len(t, w.bookings.payments, 1)
}

func TestPayBooking_BeforeApprove(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)

	_, err := svc.PayBooking(context.Background(), w.customerID, b.ID)

	assertCode(t, err, apperrors.CodeInvalidTransition)
	assert.Empty(t, w.bookings.payments)
}

func TestPayBooking_OnlyCustomer(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusConfirmed)

	_, err := svc.PayBooking(context.Background(), w.ownerID, b.ID)

	assertCode(t, err, apperrors.CodeForbidden)
}

func TestPayBooking_CancelledBooking(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusCancelled)

	_, err := svc.PayBooking(context.Background(), w.customerID, b.ID)

	assertCode(t, err, apperrors.CodeInvalidTransition)
	assert.Equal(t, "Expected CONFIRMED before pay, got CANCELLED", apperrors.As(err).Message)
}

// ============================================================================
// CompleteBooking and CancelBooking
// ============================================================================

func TestCompleteBooking(t *testing.T) {
	tests := []struct {
		name   string
		status models.BookingStatus
		actor  func(w *world) string
		code   string
	}{
		{"customer completes active", models.BookingStatusActive, func(w *world) string { return w.customerID }, ""},
		{"owner completes active", models.BookingStatusActive, func(w *world) string { return w.ownerID }, ""},
		{"stranger forbidden", models.BookingStatusActive, func(w *world) string { return w.strangerID }, apperrors.CodeForbidden},
		{"confirmed cannot complete", models.BookingStatusConfirmed, func(w *world) string { return w.ownerID }, apperrors.CodeInvalidTransition},
		{"pending cannot complete", models.BookingStatusPending, func(w *world) string { return w.ownerID }, apperrors.CodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			svc := newBookingService(w)
			b := w.booking(tt.status)

			done, err := svc.CompleteBooking(context.Background(), tt.actor(w), b.ID)

			if tt.code != "" {
				assertCode(t, err, tt.code)
				assert.Equal(t, tt.status, w.bookings.status(b.ID))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.BookingStatusCompleted, done.Status)
		})
	}
}

func TestCancelBooking(t *testing.T) {
	tests := []struct {
		name   string
		status models.BookingStatus
		actor  func(w *world) string
		code   string
	}{
		{"customer cancels pending", models.BookingStatusPending, func(w *world) string { return w.customerID }, ""},
		{"owner cancels confirmed", models.BookingStatusConfirmed, func(w *world) string { return w.ownerID }, ""},
		{"stranger forbidden", models.BookingStatusPending, func(w *world) string { return w.strangerID }, apperrors.CodeForbidden},
		{"active cannot cancel", models.BookingStatusActive, func(w *world) string { return w.customerID }, apperrors.CodeInvalidTransition},
		{"completed cannot cancel", models.BookingStatusCompleted, func(w *world) string { return w.customerID }, apperrors.CodeInvalidTransition},
		{"cancelled cannot cancel", models.BookingStatusCancelled, func(w *world) string { return w.customerID }, apperrors.CodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			svc := newBookingService(w)
			b := w.booking(tt.status)

			cancelled, err := svc.CancelBooking(context.Background(), tt.actor(w), b.ID)

			if tt.code != "" {
				assertCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
			assert.Equal(t, models.BookingStatusCancelled, w.bookings.status(b.ID))
		})
	}
}

func TestCancelBooking_PendingDoesNotTouchCache(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)

	_, err := svc.CancelBooking(context.Background(), w.customerID, b.ID)

	require.NoError(t, err)
	assert.Empty(t, w.cache.invalidated)
}

func TestCancelBooking_LosesRaceToApprove(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)
	// the owner approves between the customer's read and write
	w.bookings.beforeTransition = func(id string) {
		w.bookings.mu.Lock()
		w.bookings.bookings[id].Status = models.BookingStatusConfirmed
		w.bookings.mu.Unlock()
	}

	_, err := svc.CancelBooking(context.Background(), w.customerID, b.ID)

	assertCode(t, err, apperrors.CodeInvalidTransition)
	assert.Equal(t, "Booking is no longer in PENDING", apperrors.As(err).Message)
	assert.Equal(t, models.BookingStatusConfirmed, w.bookings.status(b.ID))
	assert.Empty(t, w.notifier.events)
	assert.Empty(t, w.cache.invalidated)
}

func TestFullLifecycle(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	ctx := context.Background()

	b, err := svc.RequestBooking(ctx, w.customerID, RequestBookingInput{
		VehicleID: w.vehicle.ID, StartDate: "2030-06-01", EndDate: "2030-06-05",
	})
	require.NoError(t, err)

	_, err = svc.PayBooking(ctx, w.customerID, b.ID)
	assertCode(t, err, apperrors.CodeInvalidTransition)

	_, err = svc.ApproveBooking(ctx, w.ownerID, b.ID)
	require.NoError(t, err)

	_, err = svc.CompleteBooking(ctx, w.customerID, b.ID)
	assertCode(t, err, apperrors.CodeInvalidTransition)

	_, err = svc.PayBooking(ctx, w.customerID, b.ID)
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, w.customerID, b.ID)
	assertCode(t, err, apperrors.CodeInvalidTransition)

	done, err := svc.CompleteBooking(ctx, w.ownerID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, done.Status)

	assert.Len(t, w.notifier.events, 4)
}

// ============================================================================
// GetBooking
// ============================================================================

func TestGetBooking_Visibility(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	b := w.booking(models.BookingStatusPending)

	_, err := svc.GetBooking(context.Background(), w.customerID, b.ID)
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), w.ownerID, b.ID)
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), w.strangerID, b.ID)
	assertCode(t, err, apperrors.CodeForbidden)
}

// ============================================================================
// Lists
// ============================================================================

func TestParsePageLimit(t *testing.T) {
	tests := map[string]int{
		"":    DefaultPageLimit,
		"abc": DefaultPageLimit,
		"0":   1,
		"-5":  1,
		"7":   7,
		"50":  50,
		"100": 50,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParsePageLimit(raw), raw)
	}
}

func TestListMyBookings_PagesAreDisjoint(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	for i := 0; i < 12; i++ {
		w.booking(models.BookingStatusPending)
	}

	seen := map[string]bool{}
	cursor := ""
	sizes := []int{}
	for page := 0; page < 5; page++ {
		result, err := svc.ListMyBookings(context.Background(), w.customerID, ListParams{Limit: "5", Cursor: cursor})
		require.NoError(t, err)
		sizes = append(sizes, len(result.Items))
		for _, item := range result.Items {
			assert.False(t, seen[item.ID], "duplicate %s", item.ID)
			seen[item.ID] = true
			assert.Equal(t, w.vehicle.ID, item.VehicleID)
			assert.Empty(t, item.UserID)
		}
		if result.NextCursor == nil {
			break
		}
		cursor = *result.NextCursor
	}

	assert.Equal(t, []int{5, 5, 2}, sizes)
	assert.Len(t, seen, 12)
}

func TestListMyBookings_NewestFirst(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	first := w.booking(models.BookingStatusPending)
	second := w.booking(models.BookingStatusPending)

	result, err := svc.ListMyBookings(context.Background(), w.customerID, ListParams{})

	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, second.ID, result.Items[0].ID)
	assert.Equal(t, first.ID, result.Items[1].ID)
	assert.Nil(t, result.NextCursor)
}

func TestListMyBookings_StatusFilter(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	w.booking(models.BookingStatusPending)
	confirmed := w.booking(models.BookingStatusConfirmed)

	result, err := svc.ListMyBookings(context.Background(), w.customerID, ListParams{Status: "confirmed"})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, confirmed.ID, result.Items[0].ID)
}

func TestListMyBookings_UnknownStatus(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)

	_, err := svc.ListMyBookings(context.Background(), w.customerID, ListParams{Status: "LOST"})

	assertCode(t, err, apperrors.CodeInvalidInput)
}

func TestListMyBookings_MalformedCursorServesFirstPage(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	w.booking(models.BookingStatusPending)

	result, err := svc.ListMyBookings(context.Background(), w.customerID, ListParams{Cursor: "%%%"})

	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
}

func TestListVehicleBookings(t *testing.T) {
	w := newWorld()
	svc := newBookingService(w)
	w.booking(models.BookingStatusPending)

	result, err := svc.ListVehicleBookings(context.Background(), w.ownerID, w.vehicle.ID, ListParams{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, w.customerID, result.Items[0].UserID)
	assert.Empty(t, result.Items[0].VehicleID)

	_, err = svc.ListVehicleBookings(context.Background(), w.customerID, w.vehicle.ID, ListParams{})
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = svc.ListVehicleBookings(context.Background(), w.ownerID, uuid.NewString(), ListParams{})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestParseBookingDate(t *testing.T) {
	d, err := ParseBookingDate("2030-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseBookingDate("2030-03-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseBookingDate("03/01/2030")
	assert.Error(t, err)
}
