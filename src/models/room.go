package models

import "hbs/src/types"

type Room struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	HotelID     uint   `gorm:"index;uniqueIndex:hotel_room" json:"hotel_id,omitempty"`
	RoomTypeID  uint   `json:"room_type_id,omitempty"`
	RoomNumber  string `gorm:"size:10;uniqueIndex:hotel_room" json:"room_number,omitempty"`
	Floor       *int   `json:"floor,omitempty"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	Hotel        *Hotel        `gorm:"foreignKey:hotel_id" json:"hotel,omitempty"`
	RoomType     *RoomType     `gorm:"foreignKey:room_type_id" json:"room_type,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:room_id" json:"reservations,omitempty"`

	types.Timestamps
}
