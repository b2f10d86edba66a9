package handlers

import (
	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

func ListCars(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicles, err := svc.ListVehicles(c.Request.Context(), services.VehicleQuery{
			Make:     c.Query("make"),
			City:     c.Query("city"),
			MaxPrice: c.Query("maxPrice"),
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, vehicles)
	}
}

func GetCar(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicle, err := svc.GetVehicle(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, vehicle)
	}
}

func CreateCar(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateVehicleInput
		if !bindJSON(c, &input) {
			return
		}

		vehicle, err := svc.CreateVehicle(c.Request.Context(), middleware.UserID(c), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, vehicle)
	}
}

// UploadCarPhoto accepts a multipart "photo" file and optional "caption"
func UploadCarPhoto(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("photo")
		if err != nil {
			response.Error(c, apperrors.InvalidInput("photo file required"))
			return
		}

		photo, err := svc.UploadVehiclePhoto(c.Request.Context(), middleware.UserID(c), c.Param("id"), file, c.PostForm("caption"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, photo)
	}
}

// GetCarAvailability lists the booked ranges of a car for calendars
func GetCarAvailability(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ranges, err := svc.GetAvailability(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, ranges)
	}
}

func CreateBusiness(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateBusinessInput
		if !bindJSON(c, &input) {
			return
		}

		business, err := svc.CreateBusiness(c.Request.Context(), middleware.UserID(c), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, business)
	}
}

func ListMyBusinesses(svc *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		businesses, err := svc.ListMyBusinesses(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, businesses)
	}
}
