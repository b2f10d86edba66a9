package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/internal/validator"
)

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 200
)

type SendMessageInput struct {
	ReceiverID string `json:"receiverId" validate:"required,uuid"`
	Content    string `json:"content" validate:"required,max=4000"`
}

// userDelivery pushes a raw websocket frame to a user's connections
type userDelivery interface {
	SendToUser(userID string, message []byte) int
}

type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	live     userDelivery
	validate *validator.Validator
}

// NewMessageService creates the service. live may be nil.
func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, live userDelivery) *MessageService {
	return &MessageService{messages: messages, users: users, live: live, validate: validator.New()}
}

func (s *MessageService) SendMessage(ctx context.Context, senderID string, in SendMessageInput) (*models.Message, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if in.ReceiverID == senderID {
		return nil, apperrors.InvalidInput("Cannot message yourself")
	}
	if _, err := s.users.FindByID(ctx, in.ReceiverID); err != nil {
		return nil, notFoundOrDB(err, "User")
	}

	msg := &models.Message{SenderID: senderID, ReceiverID: in.ReceiverID, Content: in.Content}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.DB(err)
	}

	if s.live != nil {
		if frame, err := json.Marshal(WebSocketMessage{Type: "new_message", Data: msg}); err == nil {
			s.live.SendToUser(msg.ReceiverID, frame)
		}
	}
	return msg, nil
}

// Conversation returns the latest messages between the caller and another
// user, oldest first
func (s *MessageService) Conversation(ctx context.Context, userID, otherUserID, rawLimit string) ([]models.Message, error) {
	if !models.IsValidID(otherUserID) {
		return nil, apperrors.NotFound("User")
	}

	limit := defaultConversationLimit
	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err == nil && n > 0 {
			limit = min(n, maxConversationLimit)
		}
	}

	messages, err := s.messages.Conversation(ctx, userID, otherUserID, limit)
	if err != nil {
		return nil, apperrors.DB(err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// MarkRead flags a message the caller received as read
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	ok, err := s.messages.MarkRead(ctx, messageID, userID)
	if err != nil {
		return notFoundOrDB(err, "Message")
	}
	if !ok {
		return apperrors.NotFound("Message")
	}
	return nil
}
