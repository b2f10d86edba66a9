package middleware

import (
	"errors"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

var errPanic = apperrors.Internal("Internal server error", errors.New("panic"))

// RequestLogger tags every request with an id and logs its outcome
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		response.SetLogger(c, log.With("request_id", requestID))

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		reqLog := response.Logger(c)
		switch {
		case status >= 500:
			reqLog.Error("request", args...)
		case status >= 400:
			reqLog.Warn("request", args...)
		default:
			reqLog.Info("request", args...)
		}
	}
}

// Recovery turns panics into a DB_ERROR envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Logger(c).Error("panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		response.Abort(c, errPanic)
	})
}
