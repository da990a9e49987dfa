package models

import (
	"hbs/src/lib"
	"hbs/src/types"
	"log"
	"time"
)

type Reservation struct {
	ID             uint                    `gorm:"primarykey" json:"id"`
	CustomerID     uint                    `gorm:"index" json:"customer_id,omitempty"`
	RoomID         uint                    `gorm:"index" json:"room_id,omitempty"`
	CheckInDate    time.Time               `gorm:"type:date;index:idx_reservations_dates" json:"check_in_date"`
	CheckOutDate   time.Time               `gorm:"type:date;index:idx_reservations_dates" json:"check_out_date"`
	NumberOfGuests uint                    `json:"number_of_guests,omitempty"`
	TotalPrice     float64                 `gorm:"type:decimal(10,2)" json:"total_price"`
	Status         types.ReservationStatus `gorm:"default:'pending'" json:"status,omitempty"`

	Customer *User    `gorm:"foreignKey:customer_id" json:"customer,omitempty"`
	Room     *Room    `gorm:"foreignKey:room_id" json:"room,omitempty"`
	Payment  *Payment `gorm:"foreignKey:reservation_id" json:"payment,omitempty"`
	Reviews  []Review `gorm:"foreignKey:reservation_id" json:"reviews,omitempty"`

	types.Timestamps
}

func ReservationCreatedProducer(id uint, payload map[string]any) error {
	err := lib.KafkaProduceMessage("reservations_created_producer", "reservations-created", payload)
	if err != nil {
		log.Printf("Error on producing message: %s\n", err.Error())
		return err
	}
	return nil
}

func ReservationCancelledProducer(id uint, payload map[string]any) error {
	err := lib.KafkaProduceMessage("reservations_cancelled_producer", "reservations-cancelled", payload)
	if err != nil {
		log.Printf("Error on producing message: %s\n", err.Error())
		return err
	}
	return nil
}
