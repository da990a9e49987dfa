package booking

import (
	"context"
	"time"

	"hbs/src/models"
	"hbs/src/types"
)

// Actor is the caller identity supplied by the authentication layer.
type Actor struct {
	ID      uint
	Role    types.UserRole
	HotelID uint
}

// RoomInfo is an immutable snapshot of a room and its type, fetched per
// operation. The service never mutates rooms or room types.
type RoomInfo struct {
	RoomID      uint
	HotelID     uint
	RoomTypeID  uint
	Capacity    uint
	NightlyRate float64
}

type RoomCatalog interface {
	// GetRoomWithType returns ErrNotFound when the room does not exist.
	GetRoomWithType(ctx context.Context, roomID uint) (*RoomInfo, error)
}

type ReservationRepository interface {
	// CountOverlapping counts pending/confirmed reservations for the room
	// whose [check_in, check_out) interval overlaps the given one, leaving
	// out excludeID when non-zero.
	CountOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) (int64, error)
	// Insert returns ErrConflict when the room/date-range exclusion
	// constraint rejects the row.
	Insert(ctx context.Context, r *models.Reservation) error
	// Update applies the given column values; same conflict mapping as Insert.
	Update(ctx context.Context, id uint, fields map[string]any) error
	// FindByID returns ErrNotFound when the reservation does not exist.
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error)
	FindByCustomerAndHotel(ctx context.Context, customerID, hotelID uint) ([]models.Reservation, error)
	FindByRoom(ctx context.Context, roomID uint) ([]models.Reservation, error)
	FindByHotel(ctx context.Context, hotelID uint) ([]models.Reservation, error)
}
