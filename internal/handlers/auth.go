package handlers

import (
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// Signup registers a customer or owner and returns a token
func Signup(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.SignupInput
		if !bindJSON(c, &input) {
			return
		}

		result, err := svc.Signup(c.Request.Context(), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, result)
	}
}

func Login(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.LoginInput
		if !bindJSON(c, &input) {
			return
		}

		result, err := svc.Login(c.Request.Context(), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, result)
	}
}
