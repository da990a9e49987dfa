package models

import (
	"hbs/src/types"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string         `json:"-"`
	FirstName    string         `gorm:"size:20" json:"first_name,omitempty"`
	LastName     string         `gorm:"size:20" json:"last_name,omitempty"`
	Role         types.UserRole `json:"role,omitempty"`
	PhoneNumber  string         `json:"phone_number,omitempty"`

	Staff        *HotelStaff   `gorm:"foreignKey:user_id" json:"staff,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:customer_id" json:"reservations,omitempty"`
	Reviews      []Review      `gorm:"foreignKey:user_id" json:"reviews,omitempty"`

	types.Timestamps
}
