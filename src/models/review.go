package models

import "hbs/src/types"

type Review struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	UserID        uint    `gorm:"uniqueIndex:user_reservation" json:"user_id,omitempty"`
	HotelID       uint    `gorm:"index" json:"hotel_id,omitempty"`
	ReservationID uint    `gorm:"uniqueIndex:user_reservation" json:"reservation_id,omitempty"`
	Rating        int     `json:"rating"`
	Title         *string `gorm:"size:200" json:"title,omitempty"`
	Comment       *string `json:"comment,omitempty"`

	User        *User        `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Hotel       *Hotel       `gorm:"foreignKey:hotel_id" json:"hotel,omitempty"`
	Reservation *Reservation `gorm:"foreignKey:reservation_id" json:"reservation,omitempty"`

	types.Timestamps
}
