package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"hbs/src/models"
	"hbs/src/types"
)

// activeStatuses are the statuses that block a room for a date range.
var activeStatuses = []types.ReservationStatus{
	types.RESERVATION_PENDING,
	types.RESERVATION_CONFIRMED,
}

type GormRoomCatalog struct {
	db *gorm.DB
}

func NewGormRoomCatalog(db *gorm.DB) *GormRoomCatalog {
	return &GormRoomCatalog{db: db}
}

func (c *GormRoomCatalog) GetRoomWithType(ctx context.Context, roomID uint) (*RoomInfo, error) {
	var room models.Room
	if err := c.db.WithContext(ctx).Preload("RoomType").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info := &RoomInfo{
		RoomID:     room.ID,
		HotelID:    room.HotelID,
		RoomTypeID: room.RoomTypeID,
	}
	if room.RoomType != nil {
		info.Capacity = room.RoomType.Capacity
		info.NightlyRate = room.RoomType.BasePrice
	}
	return info, nil
}

type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) CountOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", activeStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormReservationRepository) Insert(ctx context.Context, reservation *models.Reservation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(reservation).Error
	})
	if isExclusionViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *GormReservationRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Reservation{}).Where("id = ?", id).Updates(fields).Error
	})
	if isExclusionViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *GormReservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).Preload("Room").First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *GormReservationRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("customer_id = ?", customerID).
		Order("check_in_date ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *GormReservationRepository) FindByCustomerAndHotel(ctx context.Context, customerID, hotelID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Joins("JOIN rooms ON rooms.id = reservations.room_id").
		Where("reservations.customer_id = ? AND rooms.hotel_id = ?", customerID, hotelID).
		Order("reservations.check_in_date ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *GormReservationRepository) FindByRoom(ctx context.Context, roomID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("check_in_date ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *GormReservationRepository) FindByHotel(ctx context.Context, hotelID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Room").
		Joins("JOIN rooms ON rooms.id = reservations.room_id").
		Where("rooms.hotel_id = ?", hotelID).
		Order("reservations.check_in_date ASC").
		Find(&reservations).Error
	return reservations, err
}

// isExclusionViolation matches the room/date-range exclusion constraint
// (23P01) and unique violations (23505) raised by concurrent writes.
func isExclusionViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}
