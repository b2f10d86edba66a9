// Package repository holds the gorm-backed data access used by the services.
// Every repository is an interface so services can be tested with fakes.
package repository

import "gorm.io/gorm"

// Store groups the repositories sharing one database handle
type Store struct {
	Users       UserRepository
	Preferences PreferenceRepository
	Businesses  BusinessRepository
	Vehicles    VehicleRepository
	Bookings    BookingRepository
	Messages    MessageRepository
	Reviews     ReviewRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:       NewUserRepository(db),
		Preferences: NewPreferenceRepository(db),
		Businesses:  NewBusinessRepository(db),
		Vehicles:    NewVehicleRepository(db),
		Bookings:    NewBookingRepository(db),
		Messages:    NewMessageRepository(db),
		Reviews:     NewReviewRepository(db),
	}
}
