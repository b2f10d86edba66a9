package handlers

import (
	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// GetNotificationPreferences returns the caller's preferences, or the
// defaults when none were saved
func GetNotificationPreferences(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefs, err := svc.GetPreferences(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, prefs)
	}
}

// UpdateNotificationPreferences changes only the fields sent
func UpdateNotificationPreferences(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.PreferencesInput
		if !bindJSON(c, &input) {
			return
		}

		prefs, err := svc.UpdatePreferences(c.Request.Context(), middleware.UserID(c), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, prefs)
	}
}
