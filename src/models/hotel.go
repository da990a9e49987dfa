package models

import "hbs/src/types"

type Hotel struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	Name          string  `gorm:"size:255;uniqueIndex" json:"name,omitempty"`
	Slug          string  `gorm:"index" json:"slug,omitempty"`
	Address       string  `json:"address,omitempty"`
	City          string  `gorm:"size:100;index" json:"city,omitempty"`
	Country       string  `gorm:"size:100" json:"country,omitempty"`
	PhoneNumber   string  `gorm:"size:20" json:"phone_number,omitempty"`
	Description   *string `json:"description,omitempty"`
	AverageRating float64 `gorm:"type:decimal(3,2);default:0" json:"average_rating"`
	ReviewCount   uint    `gorm:"default:0" json:"review_count"`

	Rooms []Room       `gorm:"foreignKey:hotel_id" json:"rooms,omitempty"`
	Staff []HotelStaff `gorm:"foreignKey:hotel_id" json:"staff,omitempty"`

	types.Timestamps
}
