package models

import (
	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleOwner    UserRole = "OWNER"
	UserRoleAdmin    UserRole = "ADMIN"
)

type User struct {
	Base
	Email        string   `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Name         string   `json:"name" gorm:"column:name"`
	Phone        string   `json:"phone" gorm:"column:phone"`
	Password     string   `json:"-" gorm:"-"` // plain text, only set while hashing
	PasswordHash string   `json:"-" gorm:"column:password_hash"`
	Role         UserRole `json:"role" gorm:"column:role;not null;default:'CUSTOMER'"`
	FCMToken     string   `json:"-" gorm:"column:fcm_token"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	u.Password = ""
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
