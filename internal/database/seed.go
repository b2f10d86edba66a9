package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/models"
	"gorm.io/gorm"
)

const (
	SeedOwnerEmail    = "owner@app.test"
	SeedCustomerEmail = "cust@app.test"
	SeedPassword      = "password"
)

// SeedResult reports what Seed created
type SeedResult struct {
	Skipped    bool
	OwnerID    string
	CustomerID string
	VehicleIDs []string
}

// Seed loads demo data: an owner with one business and two vehicles, a
// customer with a confirmed and a completed booking, a review and two
// messages, one of them old enough to be archived. It does nothing when the
// seed owner already exists.
func Seed(db *gorm.DB, now time.Time) (*SeedResult, error) {
	result := &SeedResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", SeedOwnerEmail).First(&existing).Error
		if err == nil {
			result.Skipped = true
			result.OwnerID = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		owner := &models.User{Name: "Olivia Owner", Email: SeedOwnerEmail, Password: SeedPassword, Role: models.UserRoleOwner}
		customer := &models.User{Name: "Carl Customer", Email: SeedCustomerEmail, Password: SeedPassword, Role: models.UserRoleCustomer}
		for _, u := range []*models.User{owner, customer} {
			if err := u.HashPassword(); err != nil {
				return err
			}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		business := &models.Business{Name: "OwnerRentals", Description: "Demo rental company", City: "Nairobi", OwnerID: owner.ID}
		if err := tx.Create(business).Error; err != nil {
			return fmt.Errorf("seed business: %w", err)
		}

		yaris := &models.Vehicle{BusinessID: business.ID, Make: "Toyota", Model: "Yaris", Year: 2022, Color: "White",
			Seats: 5, Transmission: "Automatic", FuelType: "Petrol", PricePerDay: 45.99, IsActive: true}
		i20 := &models.Vehicle{BusinessID: business.ID, Make: "Hyundai", Model: "i20", Year: 2021, Color: "Blue",
			Seats: 5, Transmission: "Manual", FuelType: "Petrol", PricePerDay: 38.50, IsActive: true}
		for _, v := range []*models.Vehicle{yaris, i20} {
			if err := tx.Create(v).Error; err != nil {
				return fmt.Errorf("seed vehicle %s %s: %w", v.Make, v.Model, err)
			}
		}

		day := now.UTC().Truncate(24 * time.Hour)
		confirmed := &models.Booking{
			VehicleID:  yaris.ID,
			UserID:     customer.ID,
			StartDate:  day.AddDate(0, 0, 7),
			EndDate:    day.AddDate(0, 0, 10),
			TotalDays:  3,
			TotalPrice: 137.97,
			Status:     models.BookingStatusConfirmed,
		}
		completed := &models.Booking{
			VehicleID:  yaris.ID,
			UserID:     customer.ID,
			StartDate:  day.AddDate(0, 0, -60),
			EndDate:    day.AddDate(0, 0, -58),
			TotalDays:  2,
			TotalPrice: 91.98,
			Status:     models.BookingStatusCompleted,
		}
		for _, b := range []*models.Booking{completed, confirmed} {
			if err := tx.Omit("Vehicle", "User").Create(b).Error; err != nil {
				return fmt.Errorf("seed booking: %w", err)
			}
		}

		review := &models.Review{BookingID: completed.ID, VehicleID: yaris.ID, UserID: customer.ID, Rating: 5, Comment: "Clean car, easy pickup."}
		if err := tx.Omit("User").Create(review).Error; err != nil {
			return fmt.Errorf("seed review: %w", err)
		}

		old := now.AddDate(0, 0, -30)
		messages := []*models.Message{
			{SenderID: customer.ID, ReceiverID: owner.ID, Content: "Is the Yaris available next month?", CreatedAt: old, UpdatedAt: old},
			{SenderID: owner.ID, ReceiverID: customer.ID, Content: "Yes, your booking is confirmed.", CreatedAt: now, UpdatedAt: now},
		}
		for _, m := range messages {
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("seed message: %w", err)
			}
		}

		result.OwnerID = owner.ID
		result.CustomerID = customer.ID
		result.VehicleIDs = []string{yaris.ID, i20.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
