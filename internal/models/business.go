package models

// Business is a rental company owned by a user. Vehicles belong to a business.
type Business struct {
	Base
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	City        string `json:"city" gorm:"index"`
	OwnerID     string `json:"ownerId" gorm:"type:uuid;not null;index"`
	Owner       *User  `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// TableName specifies the table name
func (Business) TableName() string {
	return "businesses"
}
