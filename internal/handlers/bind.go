package handlers

import (
	"errors"
	"io"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dst, writing INVALID_INPUT on
// failure. An empty body decodes to the zero value.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperrors.InvalidInput("Invalid JSON body: "+err.Error()))
		return false
	}
	return true
}
