package handlers

import (
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type bookingSummary struct {
	ID         string               `json:"id"`
	Status     models.BookingStatus `json:"status"`
	TotalPrice float64              `json:"totalPrice"`
	StartDate  time.Time            `json:"startDate"`
	EndDate    time.Time            `json:"endDate"`
}

type bookingState struct {
	ID     string               `json:"id"`
	Status models.BookingStatus `json:"status"`
}

// RequestBooking creates a PENDING booking for the caller
func RequestBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.RequestBookingInput
		if !bindJSON(c, &input) {
			return
		}

		booking, err := svc.RequestBooking(c.Request.Context(), middleware.UserID(c), input)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.OK(c, bookingSummary{
			ID:         booking.ID,
			Status:     booking.Status,
			TotalPrice: booking.TotalPrice,
			StartDate:  booking.StartDate,
			EndDate:    booking.EndDate,
		})
	}
}

func bookingTransition(run func(c *gin.Context) (*models.Booking, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := run(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, bookingState{ID: booking.ID, Status: booking.Status})
	}
}

// ApproveBooking moves a PENDING booking to CONFIRMED. Vehicle owner only.
func ApproveBooking(svc *services.BookingService) gin.HandlerFunc {
	return bookingTransition(func(c *gin.Context) (*models.Booking, error) {
		return svc.ApproveBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	})
}

// PayBooking records the payment and activates a CONFIRMED booking
func PayBooking(svc *services.BookingService) gin.HandlerFunc {
	return bookingTransition(func(c *gin.Context) (*models.Booking, error) {
		return svc.PayBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	})
}

func CompleteBooking(svc *services.BookingService) gin.HandlerFunc {
	return bookingTransition(func(c *gin.Context) (*models.Booking, error) {
		return svc.CompleteBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	})
}

func CancelBooking(svc *services.BookingService) gin.HandlerFunc {
	return bookingTransition(func(c *gin.Context) (*models.Booking, error) {
		return svc.CancelBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	})
}

// GetBooking retrieves detailed booking information
func GetBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := svc.GetBooking(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, booking)
	}
}

func listParams(c *gin.Context) services.ListParams {
	return services.ListParams{
		Status: c.Query("status"),
		Limit:  c.Query("limit"),
		Cursor: c.Query("cursor"),
	}
}

func ListMyBookings(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.ListMyBookings(c.Request.Context(), middleware.UserID(c), listParams(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, page)
	}
}

func ListVehicleBookings(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.ListVehicleBookings(c.Request.Context(), middleware.UserID(c), c.Param("vehicleId"), listParams(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, page)
	}
}
