package models

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment is unique per booking. Paying twice updates the same row.
type Payment struct {
	Base
	BookingID     string        `json:"bookingId" gorm:"type:uuid;not null;uniqueIndex"`
	UserID        string        `json:"userId" gorm:"type:uuid;not null;index"`
	Amount        float64       `json:"amount" gorm:"type:numeric(10,2);not null"`
	Currency      string        `json:"currency" gorm:"type:varchar(3);not null;default:'USD'"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(16);not null"`
	Method        string        `json:"method" gorm:"not null"`
	TransactionID string        `json:"transactionId,omitempty"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}
