package models

type Review struct {
	Base
	BookingID string `json:"bookingId" gorm:"type:uuid;not null;uniqueIndex"`
	VehicleID string `json:"vehicleId" gorm:"type:uuid;not null;index"`
	UserID    string `json:"userId" gorm:"type:uuid;not null"`
	Rating    int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string `json:"comment"`
	User      *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "reviews"
}
