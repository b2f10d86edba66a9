package handlers

import (
	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler attaches the caller to the hub for live booking updates
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request, middleware.UserID(c), string(middleware.UserRole(c)))
	}
}
