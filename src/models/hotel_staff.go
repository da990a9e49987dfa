package models

import "hbs/src/types"

type HotelStaff struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	UserID   uint    `gorm:"uniqueIndex" json:"user_id,omitempty"`
	HotelID  uint    `gorm:"index" json:"hotel_id,omitempty"`
	Position *string `gorm:"size:100" json:"position,omitempty"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	User  *User  `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Hotel *Hotel `gorm:"foreignKey:hotel_id" json:"hotel,omitempty"`

	types.Timestamps
}
