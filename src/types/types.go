package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type UserRole string

const (
	ROLE_CUSTOMER UserRole = "Customer"
	ROLE_STAFF    UserRole = "Staff"
	ROLE_ADMIN    UserRole = "Admin"
)

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING                 PaymentStatus = "pending"
	PAYMENT_PROCESSING              PaymentStatus = "processing"
	PAYMENT_REQUIRES_PAYMENT_METHOD PaymentStatus = "requires_payment_method"
	PAYMENT_REQUIRES_CONFIRMATION   PaymentStatus = "requires_confirmation"
	PAYMENT_REQUIRES_ACTION         PaymentStatus = "requires_action"
	PAYMENT_REQUIRES_CAPTURE        PaymentStatus = "requires_capture"
	PAYMENT_SUCCEEDED               PaymentStatus = "succeeded"
	PAYMENT_CANCELLED               PaymentStatus = "cancelled"
	PAYMENT_REFUNDED                PaymentStatus = "refunded"
	PAYMENT_FAILED                  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PAYMENT_METHOD_CREDIT_CARD   PaymentMethod = "credit_card"
	PAYMENT_METHOD_DEBIT_CARD    PaymentMethod = "debit_card"
	PAYMENT_METHOD_CASH          PaymentMethod = "cash"
	PAYMENT_METHOD_BANK_TRANSFER PaymentMethod = "bank_transfer"
)

type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Production  Environment = "production"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterCustomerRequestBody struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name" binding:"required,max=20"`
	LastName    string `json:"last_name" binding:"required,max=20"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type RegisterStaffRequestBody struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	FirstName   string  `json:"first_name" binding:"required,max=20"`
	LastName    string  `json:"last_name" binding:"required,max=20"`
	PhoneNumber string  `json:"phone_number,omitempty"`
	HotelID     uint    `json:"hotel_id" binding:"required"`
	Position    *string `json:"position,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateHotelRequestBody struct {
	Name        string `json:"name" binding:"required,max=255"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required,max=100"`
	Country     string `json:"country" binding:"required,max=100"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Description string `json:"description,omitempty"`
}

type UpdateHotelRequestBody struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty" binding:"omitempty,max=100"`
	Country     *string `json:"country,omitempty" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number,omitempty" binding:"omitempty,max=20"`
	Description *string `json:"description,omitempty"`
}

type CreateRoomTypeRequestBody struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price" binding:"required,gt=0"`
	Capacity    uint    `json:"capacity" binding:"required,min=1"`
	Amenities   string  `json:"amenities,omitempty"`
}

type UpdateRoomTypeRequestBody struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string  `json:"description,omitempty"`
	BasePrice   *float64 `json:"base_price,omitempty" binding:"omitempty,gt=0"`
	Capacity    *uint    `json:"capacity,omitempty" binding:"omitempty,min=1"`
	Amenities   *string  `json:"amenities,omitempty"`
}

type CreateRoomRequestBody struct {
	HotelID    uint   `json:"hotel_id" binding:"required"`
	RoomTypeID uint   `json:"room_type_id" binding:"required"`
	RoomNumber string `json:"room_number" binding:"required,max=10"`
	Floor      *int   `json:"floor,omitempty"`
}

type UpdateRoomRequestBody struct {
	RoomTypeID  *uint   `json:"room_type_id,omitempty"`
	RoomNumber  *string `json:"room_number,omitempty" binding:"omitempty,max=10"`
	Floor       *int    `json:"floor,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

type AssignStaffRequestBody struct {
	UserID   uint    `json:"user_id" binding:"required"`
	HotelID  uint    `json:"hotel_id" binding:"required"`
	Position *string `json:"position,omitempty"`
}

type CreateReservationRequestBody struct {
	RoomID         uint   `json:"room_id" binding:"required"`
	CheckInDate    string `json:"check_in_date" binding:"required,staydate" time_format:"2006-01-02"`
	CheckOutDate   string `json:"check_out_date" binding:"required,staydate,gtdate=CheckInDate" time_format:"2006-01-02"`
	NumberOfGuests uint   `json:"number_of_guests" binding:"required,min=1"`
}

type UpdateReservationRequestBody struct {
	RoomID         *uint   `json:"room_id,omitempty"`
	CheckInDate    *string `json:"check_in_date,omitempty" binding:"omitempty,staydate" time_format:"2006-01-02"`
	CheckOutDate   *string `json:"check_out_date,omitempty" binding:"omitempty,staydate" time_format:"2006-01-02"`
	NumberOfGuests *uint   `json:"number_of_guests,omitempty" binding:"omitempty,min=1"`
}

type CreatePaymentRequestBody struct {
	ReservationID uint          `json:"reservation_id" binding:"required"`
	Method        PaymentMethod `json:"payment_method" binding:"required,oneof=credit_card debit_card cash bank_transfer"`
}

type RefundPaymentRequestBody struct {
	Amount *float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
}

type CreateReviewRequestBody struct {
	ReservationID uint   `json:"reservation_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Title         string `json:"title,omitempty" binding:"omitempty,max=200"`
	Comment       string `json:"comment,omitempty"`
}

type UpdateReviewRequestBody struct {
	Rating  *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Title   *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Comment *string `json:"comment,omitempty"`
}
