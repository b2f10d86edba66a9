package models

import (
	"time"
)

// NotificationPreference controls which booking notifications a user receives
type NotificationPreference struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PushEnabled   bool `gorm:"column:push_enabled;default:true" json:"pushEnabled"`
	EmailEnabled  bool `gorm:"column:email_enabled;default:true" json:"emailEnabled"`
	BookingAlerts bool `gorm:"column:booking_alerts;default:true" json:"bookingAlerts"`
}

// TableName specifies the table name for NotificationPreference
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultPreferences returns the preferences used for users that never saved any
func DefaultPreferences(userID string) *NotificationPreference {
	return &NotificationPreference{
		UserID:        userID,
		PushEnabled:   true,
		EmailEnabled:  true,
		BookingAlerts: true,
	}
}

// AllowsPush reports whether a booking push notification may be sent
func (p *NotificationPreference) AllowsPush() bool {
	return p.PushEnabled && p.BookingAlerts
}

// AllowsEmail reports whether a booking email may be sent
func (p *NotificationPreference) AllowsEmail() bool {
	return p.EmailEnabled && p.BookingAlerts
}
