package models

type Vehicle struct {
	Base
	BusinessID   string         `json:"businessId" gorm:"type:uuid;not null;index"`
	Business     *Business      `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	Make         string         `json:"make" gorm:"not null"`
	Model        string         `json:"model" gorm:"not null"`
	Year         int            `json:"year" gorm:"not null"`
	Color        string         `json:"color"`
	Seats        int            `json:"seats"`
	Transmission string         `json:"transmission"`
	FuelType     string         `json:"fuelType"`
	PricePerDay  float64        `json:"pricePerDay" gorm:"type:numeric(10,2);not null"`
	PricePerWeek *float64       `json:"pricePerWeek,omitempty" gorm:"type:numeric(10,2)"`
	IsActive     bool           `json:"isActive" gorm:"not null;default:true"`
	Photos       []VehiclePhoto `json:"photos,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}

// OwnerID returns the user that owns the vehicle's business, or "" when the
// business was not loaded
func (v *Vehicle) OwnerID() string {
	if v.Business == nil {
		return ""
	}
	return v.Business.OwnerID
}

type VehiclePhoto struct {
	Base
	VehicleID string `json:"vehicleId" gorm:"type:uuid;not null;index"`
	URL       string `json:"url" gorm:"not null"`
	Caption   string `json:"caption"`
}

// TableName specifies the table name
func (VehiclePhoto) TableName() string {
	return "vehicle_photos"
}
