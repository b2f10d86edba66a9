// Package response writes the JSON envelope shared by every endpoint:
// {"ok": true, "data": ...} or {"ok": false, "code": ..., "message": ...}.
package response

import (
	"net/http"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/gin-gonic/gin"
)

const loggerKey = "request_logger"

type Success struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data"`
}

type Failure struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Success{OK: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Success{OK: true, Data: data})
}

// Error writes err as a failure envelope. Server side errors are logged with
// their cause.
func Error(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		Logger(c).Error("request failed",
			"code", appErr.Code,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(appErr.HTTPStatus, Failure{Code: appErr.Code, Message: appErr.Message})
}

// Abort writes the failure envelope and stops the handler chain
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// SetLogger attaches a request scoped logger
func SetLogger(c *gin.Context, l *logger.Logger) {
	c.Set(loggerKey, l)
}

// Logger returns the request scoped logger, or a no-op logger
func Logger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Nop()
}
