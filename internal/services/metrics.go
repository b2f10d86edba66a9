package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// bookingTransitions counts state machine operations by outcome
	bookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmyride_booking_transitions_total",
		Help: "Booking operations by operation and result",
	}, []string{"operation", "result"})

	archiveRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmyride_archive_runs_total",
		Help: "Message archive job runs by result",
	}, []string{"result"})

	archivedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentmyride_archived_messages_total",
		Help: "Messages moved to messages_archive",
	})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmyride_notifications_total",
		Help: "Booking notifications by channel and result",
	}, []string{"channel", "result"})

	availabilityCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentmyride_availability_cache_total",
		Help: "Availability cache lookups by result",
	}, []string{"result"})
)

func recordTransition(operation string, err error) {
	result := "ok"
	if err != nil {
		result = errorLabel(err)
	}
	bookingTransitions.WithLabelValues(operation, result).Inc()
}

func recordNotification(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	notificationsSent.WithLabelValues(channel, result).Inc()
}
