package models

import "hbs/src/types"

type RoomType struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `gorm:"size:100" json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	BasePrice   float64 `gorm:"type:decimal(10,2)" json:"base_price"`
	Capacity    uint    `json:"capacity,omitempty"`
	Amenities   *string `json:"amenities,omitempty"`

	Rooms []Room `gorm:"foreignKey:room_type_id" json:"rooms,omitempty"`

	types.Timestamps
}
