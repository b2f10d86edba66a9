package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// Health reports liveness plus the state of each dependency. Any failing
// dependency turns the response into a 503.
func Health(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{}
		healthy := true
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				status[name] = "down"
				healthy = false
				continue
			}
			status[name] = "up"
		}

		if !healthy {
			c.JSON(http.StatusServiceUnavailable, response.Success{OK: false, Data: status})
			return
		}
		response.OK(c, status)
	}
}
