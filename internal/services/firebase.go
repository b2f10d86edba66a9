package services

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ErrPushDisabled is returned when no Firebase service account is configured
var ErrPushDisabled = errors.New("push notifications disabled")

// NotificationPayload is the content of a single push notification
type NotificationPayload struct {
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	ChannelID string            `json:"channelId,omitempty"` // Android notification channel
	Tag       string            `json:"tag,omitempty"`       // collapses updates of the same booking
}

// messageSender is the part of messaging.Client used here
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushClient sends FCM notifications. A zero value is disabled.
type PushClient struct {
	sender messageSender
}

// NewPushClient initializes the Firebase Admin SDK. An empty path returns a
// disabled client.
func NewPushClient(ctx context.Context, serviceAccountPath string) (*PushClient, error) {
	if serviceAccountPath == "" {
		return &PushClient{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &PushClient{sender: client}, nil
}

func (p *PushClient) Enabled() bool {
	return p != nil && p.sender != nil
}

func getAndroidConfig(payload NotificationPayload) *messaging.AndroidConfig {
	channelID := payload.ChannelID
	if channelID == "" {
		channelID = "rentmyride_bookings"
	}

	return &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			ChannelID:             channelID,
			Priority:              messaging.PriorityHigh,
			Sound:                 "default",
			DefaultSound:          true,
			Tag:                   payload.Tag,
			DefaultVibrateTimings: true,
		},
	}
}

func getAPNSConfig() *messaging.APNSConfig {
	badge := 1
	return &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				Sound:            "default",
				Badge:            &badge,
				MutableContent:   true,
				ContentAvailable: true,
			},
		},
	}
}

func buildPushMessage(token string, payload NotificationPayload) *messaging.Message {
	return &messaging.Message{
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data:    payload.Data,
		Token:   token,
		Android: getAndroidConfig(payload),
		APNS:    getAPNSConfig(),
	}
}

// SendToToken sends one notification to a device token
func (p *PushClient) SendToToken(ctx context.Context, token string, payload NotificationPayload) error {
	if !p.Enabled() {
		return ErrPushDisabled
	}
	if token == "" {
		return errors.New("empty FCM token")
	}

	if _, err := p.sender.Send(ctx, buildPushMessage(token, payload)); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}
