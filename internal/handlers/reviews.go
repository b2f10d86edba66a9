package handlers

import (
	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CreateReview rates a COMPLETED booking, once
func CreateReview(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateReviewInput
		if !bindJSON(c, &input) {
			return
		}

		review, err := svc.CreateReview(c.Request.Context(), middleware.UserID(c), c.Param("id"), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, review)
	}
}

func ListCarReviews(svc *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := svc.ListVehicleReviews(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, reviews)
	}
}
