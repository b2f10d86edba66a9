package handlers

import (
	"github.com/chachabrian/rentmyride-backend/internal/middleware"
	"github.com/chachabrian/rentmyride-backend/internal/response"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/gin-gonic/gin"
)

func SendMessage(svc *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.SendMessageInput
		if !bindJSON(c, &input) {
			return
		}

		msg, err := svc.SendMessage(c.Request.Context(), middleware.UserID(c), input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, msg)
	}
}

// GetConversation returns the messages exchanged with the user :id
func GetConversation(svc *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := svc.Conversation(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Query("limit"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, msgs)
	}
}

func MarkMessageRead(svc *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"id": c.Param("id"), "isRead": true})
	}
}
