package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// bookingTransitions lists every legal status change. Anything missing is rejected.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:    {BookingStatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllBookingStatuses in lifecycle order
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusActive,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	for _, known := range AllBookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsCommitted reports whether the booking holds the vehicle. Committed
// bookings are the ones covered by the booking_no_overlap_excl constraint.
func (s BookingStatus) IsCommitted() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusActive, BookingStatusCompleted:
		return true
	}
	return false
}

// CommittedStatuses is the status set covered by the exclusion constraint
var CommittedStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusActive,
	BookingStatusCompleted,
}

// MinOccupancy is the span a booking holds when it starts and ends on the
// same instant. Such a booking is billed as one day.
const MinOccupancy = 24 * time.Hour

// Booking is a reservation of a vehicle for a date range. The bookings table
// also carries a trigger-maintained booking_period column used only by the
// database.
type Booking struct {
	Base
	VehicleID       string        `json:"vehicleId" gorm:"type:uuid;not null;index"`
	Vehicle         *Vehicle      `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	UserID          string        `json:"userId" gorm:"type:uuid;not null;index"`
	User            *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StartDate       time.Time     `json:"startDate" gorm:"not null"`
	EndDate         time.Time     `json:"endDate" gorm:"not null"`
	TotalDays       int           `json:"totalDays" gorm:"not null"`
	TotalPrice      float64       `json:"totalPrice" gorm:"type:numeric(10,2);not null"`
	Status          BookingStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	PickupLocation  *string       `json:"pickupLocation,omitempty"`
	DropoffLocation *string       `json:"dropoffLocation,omitempty"`
	SpecialRequests *string       `json:"specialRequests,omitempty"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// OccupiedEnd is the exclusive end of the span the booking holds the vehicle
// for: EndDate, or StartDate plus MinOccupancy when the range is empty.
func (b *Booking) OccupiedEnd() time.Time {
	if b.EndDate.After(b.StartDate) {
		return b.EndDate
	}
	return b.StartDate.Add(MinOccupancy)
}

// OwnerID returns the user owning the booked vehicle's business, or "" when
// the vehicle and business were not loaded
func (b *Booking) OwnerID() string {
	if b.Vehicle == nil {
		return ""
	}
	return b.Vehicle.OwnerID()
}
