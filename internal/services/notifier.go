package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/pkg/utils"
)

const notifyTimeout = 30 * time.Second

type bookingBroadcaster interface {
	SendBookingUpdate(event BookingEvent) error
}

type bookingPublisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
}

type pushSender interface {
	Enabled() bool
	SendToToken(ctx context.Context, token string, payload NotificationPayload) error
}

type bookingMailer interface {
	Enabled() bool
	SendBookingConfirmedEmail(customerEmail string, b utils.BookingEmail) error
	SendBookingCancelledEmail(customerEmail string, b utils.BookingEmail) error
}

// NotifierDeps lists the delivery channels. Nil channels are skipped.
type NotifierDeps struct {
	Users       repository.UserRepository
	Preferences repository.PreferenceRepository
	Hub         bookingBroadcaster
	Publisher   bookingPublisher
	Push        pushSender
	Mailer      bookingMailer
}

// Notifier delivers booking events over websocket, Redis, FCM and email.
// Delivery runs in the background and never fails the booking operation.
type Notifier struct {
	deps NotifierDeps
	log  *logger.Logger
	wg   sync.WaitGroup
}

func NewNotifier(deps NotifierDeps, log *logger.Logger) *Notifier {
	return &Notifier{deps: deps, log: log.With("component", "notifier")}
}

func (n *Notifier) BookingChanged(ctx context.Context, event BookingEvent) {
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		n.deliver(ctx, event)
	}()
}

// Wait blocks until every queued delivery has finished
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, event BookingEvent) {
	if n.deps.Hub != nil {
		err := n.deps.Hub.SendBookingUpdate(event)
		recordNotification("websocket", err)
		if err != nil {
			n.log.Warn("websocket delivery failed", "booking_id", event.BookingID, "error", err)
		}
	}

	if n.deps.Publisher != nil {
		err := n.deps.Publisher.PublishBookingEvent(ctx, event)
		recordNotification("redis", err)
		if err != nil {
			n.log.Warn("redis publish failed", "booking_id", event.BookingID, "error", err)
		}
	}

	for _, userID := range recipients(event) {
		n.notifyUser(ctx, userID, event)
	}
}

func recipients(event BookingEvent) []string {
	ids := []string{event.CustomerID}
	if event.OwnerID != "" && event.OwnerID != event.CustomerID {
		ids = append(ids, event.OwnerID)
	}
	return ids
}

func (n *Notifier) notifyUser(ctx context.Context, userID string, event BookingEvent) {
	pushOn := n.deps.Push != nil && n.deps.Push.Enabled()
	emailOn := n.deps.Mailer != nil && n.deps.Mailer.Enabled() &&
		userID == event.CustomerID && emailWorthy(event.Status)
	if !pushOn && !emailOn {
		return
	}
	if n.deps.Users == nil {
		return
	}

	user, err := n.deps.Users.FindByID(ctx, userID)
	if err != nil {
		n.log.Warn("notification recipient lookup failed", "user_id", userID, "error", err)
		return
	}

	prefs := models.DefaultPreferences(userID)
	if n.deps.Preferences != nil {
		if p, err := n.deps.Preferences.Get(ctx, userID); err == nil {
			prefs = p
		}
	}

	if pushOn && prefs.AllowsPush() && user.FCMToken != "" {
		err := n.deps.Push.SendToToken(ctx, user.FCMToken, pushPayload(event, userID))
		recordNotification("push", err)
		if err != nil {
			n.log.Warn("push notification failed", "user_id", userID, "error", err)
		}
	}

	if emailOn && prefs.AllowsEmail() && user.Email != "" {
		err := n.sendEmail(user, event)
		recordNotification("email", err)
		if err != nil {
			n.log.Warn("booking email failed", "user_id", userID, "error", err)
		}
	}
}

func emailWorthy(status models.BookingStatus) bool {
	return status == models.BookingStatusConfirmed || status == models.BookingStatusCancelled
}

func (n *Notifier) sendEmail(user *models.User, event BookingEvent) error {
	b := utils.BookingEmail{
		CustomerName: user.Name,
		Vehicle:      event.Vehicle,
		StartDate:    event.StartDate,
		EndDate:      event.EndDate,
		TotalPrice:   event.TotalPrice,
		BookingID:    event.BookingID,
	}
	if event.Status == models.BookingStatusConfirmed {
		return n.deps.Mailer.SendBookingConfirmedEmail(user.Email, b)
	}
	return n.deps.Mailer.SendBookingCancelledEmail(user.Email, b)
}

func pushPayload(event BookingEvent, userID string) NotificationPayload {
	title := "Booking " + statusWord(event.Status)
	body := fmt.Sprintf("Your booking for %s is now %s.", vehicleOrDefault(event.Vehicle), statusWord(event.Status))
	if event.Type == EventBookingRequested && userID == event.OwnerID {
		title = "New booking request"
		body = fmt.Sprintf("%s was requested from %s to %s.",
			vehicleOrDefault(event.Vehicle), event.StartDate.Format("Jan 2"), event.EndDate.Format("Jan 2"))
	}
	return NotificationPayload{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":      event.Type,
			"bookingId": event.BookingID,
			"status":    string(event.Status),
		},
		Tag: "booking_" + event.BookingID,
	}
}

func statusWord(s models.BookingStatus) string {
	switch s {
	case models.BookingStatusPending:
		return "requested"
	case models.BookingStatusConfirmed:
		return "confirmed"
	case models.BookingStatusActive:
		return "active"
	case models.BookingStatusCompleted:
		return "completed"
	case models.BookingStatusCancelled:
		return "cancelled"
	}
	return string(s)
}

func vehicleOrDefault(v string) string {
	if v == "" {
		return "your vehicle"
	}
	return v
}
