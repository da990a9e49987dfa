package models

import (
	"hbs/src/types"
	"time"
)

type Payment struct {
	ID                    uint                `gorm:"primarykey" json:"id"`
	ReservationID         uint                `gorm:"uniqueIndex" json:"reservation_id,omitempty"`
	Amount                float64             `gorm:"type:decimal(10,2)" json:"amount"`
	Currency              string              `gorm:"size:3;default:'usd'" json:"currency,omitempty"`
	Method                types.PaymentMethod `json:"payment_method,omitempty"`
	Status                types.PaymentStatus `gorm:"default:'pending'" json:"status,omitempty"`
	StripePaymentIntentID *string             `gorm:"index" json:"-"`
	StripeClientSecret    *string             `json:"client_secret,omitempty"`
	TransactionID         *string             `json:"transaction_id,omitempty"`
	PaymentDate           *time.Time          `json:"payment_date,omitempty"`
	Metadata              types.JSONB         `gorm:"type:jsonb" json:"-"`

	Reservation *Reservation `gorm:"foreignKey:reservation_id" json:"reservation,omitempty"`

	types.Timestamps
}
