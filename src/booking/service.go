// Package booking implements reservation admission control: deciding whether
// a stay can be accepted for a room, pricing it, and driving the reservation
// lifecycle (pending, confirmed, cancelled) while guaranteeing that no two
// active reservations for the same room ever overlap.
package booking

import (
	"context"
	"errors"
	"time"

	"hbs/src/models"
	"hbs/src/types"
)

// Service is the reservation lifecycle manager. Collaborators are passed in
// explicitly; there is no container or global state.
type Service struct {
	rooms        RoomCatalog
	reservations ReservationRepository
	now          func() time.Time
}

func NewService(rooms RoomCatalog, reservations ReservationRepository) *Service {
	return &Service{
		rooms:        rooms,
		reservations: reservations,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateReservationInput struct {
	RoomID         uint
	CheckIn        time.Time
	CheckOut       time.Time
	NumberOfGuests uint
}

type UpdateReservationInput struct {
	RoomID         *uint
	CheckIn        *time.Time
	CheckOut       *time.Time
	NumberOfGuests *uint
}

func (s *Service) validateDates(checkIn, checkOut time.Time) error {
	in := truncateToDate(checkIn)
	out := truncateToDate(checkOut)
	if !out.After(in) {
		return invalid("check_out_date must be after check_in_date")
	}
	today := truncateToDate(s.now())
	if in.Before(today) {
		return invalid("check-in date cannot be in the past")
	}
	return nil
}

// RoomAvailable reports whether the room is free over [checkIn, checkOut).
// excludeID, when non-zero, leaves that reservation out of the conflict scan,
// used when re-validating a reservation being edited. The result is advisory
// under concurrency; the storage exclusion constraint is the hard guarantee.
func (s *Service) RoomAvailable(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) (bool, error) {
	count, err := s.reservations.CountOverlapping(ctx, roomID, truncateToDate(checkIn), truncateToDate(checkOut), excludeID)
	if err != nil {
		return false, storage("count overlapping reservations", err)
	}
	return count == 0, nil
}

// CreateReservation admits a new stay for a customer: date sanity, room
// capacity, availability, then price. The created reservation is pending
// until a payment confirms it.
func (s *Service) CreateReservation(ctx context.Context, in CreateReservationInput, actor Actor) (*models.Reservation, error) {
	if actor.Role != types.ROLE_CUSTOMER {
		return nil, ErrForbidden
	}
	if in.NumberOfGuests < 1 {
		return nil, invalid("number_of_guests must be positive")
	}
	if err := s.validateDates(in.CheckIn, in.CheckOut); err != nil {
		return nil, err
	}
	room, err := s.rooms.GetRoomWithType(ctx, in.RoomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storage("load room", err)
	}
	if in.NumberOfGuests > room.Capacity {
		return nil, invalid("number of guests exceeds room capacity")
	}
	available, err := s.RoomAvailable(ctx, in.RoomID, in.CheckIn, in.CheckOut, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrConflict
	}
	reservation := &models.Reservation{
		CustomerID:     actor.ID,
		RoomID:         in.RoomID,
		CheckInDate:    truncateToDate(in.CheckIn),
		CheckOutDate:   truncateToDate(in.CheckOut),
		NumberOfGuests: in.NumberOfGuests,
		TotalPrice:     TotalPrice(room.NightlyRate, in.CheckIn, in.CheckOut),
		Status:         types.RESERVATION_PENDING,
	}
	if err := s.reservations.Insert(ctx, reservation); err != nil {
		// A concurrent booking may win the race between the availability
		// check and the insert; the constraint reports it as a conflict.
		if errors.Is(err, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, storage("insert reservation", err)
	}
	return reservation, nil
}

// GetReservation loads one reservation within the caller's scope: customers
// see only their own, staff only those in their hotel.
func (s *Service) GetReservation(ctx context.Context, id uint, actor Actor) (*models.Reservation, error) {
	reservation, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, reservation, actor); err != nil {
		return nil, err
	}
	return reservation, nil
}

// ListReservations returns every reservation for the staff caller's hotel.
func (s *Service) ListReservations(ctx context.Context, actor Actor) ([]models.Reservation, error) {
	if actor.Role != types.ROLE_STAFF {
		return nil, ErrForbidden
	}
	reservations, err := s.reservations.FindByHotel(ctx, actor.HotelID)
	if err != nil {
		return nil, storage("list reservations by hotel", err)
	}
	return reservations, nil
}

// ListReservationsForRoom returns a room's reservations for staff of the
// hotel the room belongs to.
func (s *Service) ListReservationsForRoom(ctx context.Context, roomID uint, actor Actor) ([]models.Reservation, error) {
	if actor.Role != types.ROLE_STAFF {
		return nil, ErrForbidden
	}
	room, err := s.rooms.GetRoomWithType(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storage("load room", err)
	}
	if room.HotelID != actor.HotelID {
		return nil, ErrForbidden
	}
	reservations, err := s.reservations.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, storage("list reservations by room", err)
	}
	return reservations, nil
}

// ListReservationsForCustomer returns a customer's reservations. Customers
// may only ask for their own; staff see the subset within their hotel.
func (s *Service) ListReservationsForCustomer(ctx context.Context, customerID uint, actor Actor) ([]models.Reservation, error) {
	switch actor.Role {
	case types.ROLE_CUSTOMER:
		if actor.ID != customerID {
			return nil, ErrForbidden
		}
		reservations, err := s.reservations.FindByCustomer(ctx, customerID)
		if err != nil {
			return nil, storage("list reservations by customer", err)
		}
		return reservations, nil
	case types.ROLE_STAFF:
		reservations, err := s.reservations.FindByCustomerAndHotel(ctx, customerID, actor.HotelID)
		if err != nil {
			return nil, storage("list reservations by customer", err)
		}
		return reservations, nil
	default:
		return nil, ErrForbidden
	}
}

// UpdateReservation merges the patch into a pending reservation, re-running
// date validation, capacity and availability checks (excluding the
// reservation itself) and recomputing the price when dates or room change.
// Confirmed reservations are immutable.
func (s *Service) UpdateReservation(ctx context.Context, id uint, in UpdateReservationInput, actor Actor) (*models.Reservation, error) {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, existing, actor); err != nil {
		return nil, err
	}
	if existing.Status == types.RESERVATION_CONFIRMED {
		return nil, ErrForbidden
	}

	roomID := existing.RoomID
	checkIn := existing.CheckInDate
	checkOut := existing.CheckOutDate
	guests := existing.NumberOfGuests
	if in.RoomID != nil {
		roomID = *in.RoomID
	}
	if in.CheckIn != nil {
		checkIn = truncateToDate(*in.CheckIn)
	}
	if in.CheckOut != nil {
		checkOut = truncateToDate(*in.CheckOut)
	}
	if in.NumberOfGuests != nil {
		guests = *in.NumberOfGuests
	}

	fields := map[string]any{
		"room_id":          roomID,
		"check_in_date":    checkIn,
		"check_out_date":   checkOut,
		"number_of_guests": guests,
	}

	if in.RoomID != nil || in.CheckIn != nil || in.CheckOut != nil || in.NumberOfGuests != nil {
		if err := s.validateDates(checkIn, checkOut); err != nil {
			return nil, err
		}
		if guests < 1 {
			return nil, invalid("number_of_guests must be positive")
		}
		room, err := s.rooms.GetRoomWithType(ctx, roomID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, storage("load room", err)
		}
		if guests > room.Capacity {
			return nil, invalid("number of guests exceeds room capacity")
		}
		available, err := s.RoomAvailable(ctx, roomID, checkIn, checkOut, existing.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, ErrConflict
		}
		if in.RoomID != nil || in.CheckIn != nil || in.CheckOut != nil {
			fields["total_price"] = TotalPrice(room.NightlyRate, checkIn, checkOut)
		}
	}

	if err := s.reservations.Update(ctx, id, fields); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, storage("update reservation", err)
	}
	return s.findByID(ctx, id)
}

// CancelReservation transitions a pending reservation to cancelled. The row
// is kept for reporting; nothing is deleted. Cancelling twice is a no-op.
func (s *Service) CancelReservation(ctx context.Context, id uint, actor Actor) error {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, existing, actor); err != nil {
		return err
	}
	if existing.Status == types.RESERVATION_CONFIRMED {
		return ErrForbidden
	}
	if existing.Status == types.RESERVATION_CANCELLED {
		return nil
	}
	if err := s.reservations.Update(ctx, id, map[string]any{
		"status": types.RESERVATION_CANCELLED,
	}); err != nil {
		return storage("cancel reservation", err)
	}
	return nil
}

func (s *Service) findByID(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storage("load reservation", err)
	}
	return reservation, nil
}

func (s *Service) authorize(ctx context.Context, r *models.Reservation, actor Actor) error {
	switch actor.Role {
	case types.ROLE_CUSTOMER:
		if r.CustomerID != actor.ID {
			return ErrForbidden
		}
	case types.ROLE_STAFF:
		room, err := s.rooms.GetRoomWithType(ctx, r.RoomID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrForbidden
			}
			return storage("load room", err)
		}
		if room.HotelID != actor.HotelID {
			return ErrForbidden
		}
	}
	return nil
}
