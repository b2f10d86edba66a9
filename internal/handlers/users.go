package handlers

import (
	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

func GetProfile(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetProfile(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, user)
	}
}

func UpdateProfile(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.UpdateProfileInput
		if !bindJSON(c, &input) {
			return
		}

		user, err := svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, user)
	}
}

// UpdateFCMToken stores the device token used for push notifications
func UpdateFCMToken(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.FCMTokenInput
		if !bindJSON(c, &input) {
			return
		}

		if err := svc.RegisterFCMToken(c.Request.Context(), middleware.UserID(c), input); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "FCM token updated successfully"})
	}
}

// RemoveFCMToken is called on logout
func RemoveFCMToken(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveFCMToken(c.Request.Context(), middleware.UserID(c)); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "FCM token removed successfully"})
	}
}
