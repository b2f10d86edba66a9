package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/models"
)

const (
	EventBookingRequested = "booking_requested"
	EventBookingUpdated   = "booking_updated"
)

// BookingEvent describes a booking state change. It is delivered to the
// customer and the vehicle owner.
type BookingEvent struct {
	Type       string               `json:"type"`
	BookingID  string               `json:"bookingId"`
	VehicleID  string               `json:"vehicleId"`
	Vehicle    string               `json:"vehicle,omitempty"`
	CustomerID string               `json:"customerId"`
	OwnerID    string               `json:"ownerId"`
	Status     models.BookingStatus `json:"status"`
	Previous   models.BookingStatus `json:"previousStatus,omitempty"`
	StartDate  time.Time            `json:"startDate"`
	EndDate    time.Time            `json:"endDate"`
	TotalPrice float64              `json:"totalPrice"`
	At         time.Time            `json:"at"`
}

// BookingNotifier receives booking events. Implementations must not block
// the caller on slow delivery.
type BookingNotifier interface {
	BookingChanged(ctx context.Context, event BookingEvent)
}

// NopNotifier drops every event
type NopNotifier struct{}

func (NopNotifier) BookingChanged(context.Context, BookingEvent) {}

func newBookingEvent(eventType string, b *models.Booking, previous models.BookingStatus, at time.Time) BookingEvent {
	var vehicle string
	if b.Vehicle != nil {
		vehicle = fmt.Sprintf("%s %s %d", b.Vehicle.Make, b.Vehicle.Model, b.Vehicle.Year)
	}
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		VehicleID:  b.VehicleID,
		Vehicle:    vehicle,
		CustomerID: b.UserID,
		OwnerID:    b.OwnerID(),
		Status:     b.Status,
		Previous:   previous,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		TotalPrice: b.TotalPrice,
		At:         at,
	}
}
