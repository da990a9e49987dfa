package utils

import (
	"errors"
	"fmt"
	"hbs/src/booking"
	"hbs/src/db"
	"hbs/src/models"
	"hbs/src/types"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// Pending reservations are held for this long before the expiry job
// cancels unpaid ones.
const RESERVATION_HOLD = 24 * time.Hour

func GenerateJWT(email string, userId uint, role types.UserRole, hotelId uint) (string, error) {
	claims := types.Claims{
		Email:   email,
		Role:    role,
		HotelID: hotelId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userId),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(jwtKey)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ActorFromContext rebuilds the caller identity set by AuthMiddleware.
func ActorFromContext(ctx *gin.Context) booking.Actor {
	return booking.Actor{
		ID:      ctx.GetUint("id"),
		Role:    types.UserRole(fmt.Sprint(ctx.MustGet("role"))),
		HotelID: ctx.GetUint("hotel_id"),
	}
}

func CreateNewHotel(params *types.CreateHotelRequestBody) (uint, error) {
	hotel := models.Hotel{
		Name:        params.Name,
		Slug:        slug.Make(params.Name),
		Address:     params.Address,
		City:        params.City,
		Country:     params.Country,
		PhoneNumber: params.PhoneNumber,
	}
	if params.Description != "" {
		hotel.Description = &params.Description
	}
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.Hotel{}).
			Where("name = ?", params.Name).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("a hotel with this name already exists")
		}
		return tx.Create(&hotel).Error
	})
	if err != nil {
		log.Printf("CreateNewHotel failed: %s\n", err.Error())
		return 0, err
	}
	return hotel.ID, nil
}

// UpdateHotelRating recomputes the aggregate rating from the hotel's reviews.
func UpdateHotelRating(hotelId uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var stats struct {
			Average float64
			Count   uint
		}
		if err := tx.
			Model(&models.Review{}).
			Where(&models.Review{HotelID: hotelId}).
			Select("COALESCE(AVG(rating), 0) as average, COUNT(id) as count").
			Scan(&stats).
			Error; err != nil {
			return err
		}
		return tx.
			Model(&models.Hotel{}).
			Where("id = ?", hotelId).
			Updates(map[string]any{
				"average_rating": stats.Average,
				"review_count":   stats.Count,
			}).Error
	})
}

// ExpireReservation cancels one pending reservation whose hold ran out
// without a successful payment. Used as a one-time job handler.
func ExpireReservation(id uint) {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.
			Where(&models.Reservation{ID: id, Status: types.RESERVATION_PENDING}).
			First(&reservation).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		var paid int64
		if err := tx.
			Model(&models.Payment{}).
			Where("reservation_id = ? AND status = ?", id, types.PAYMENT_SUCCEEDED).
			Count(&paid).
			Error; err != nil {
			return err
		}
		if paid > 0 {
			return nil
		}
		return tx.
			Model(&models.Reservation{}).
			Where("id = ?", id).
			Update("status", types.RESERVATION_CANCELLED).
			Error
	})
	if err != nil {
		log.Printf("Error expiring reservation [%d]: %s\n", id, err.Error())
		return
	}
	go models.ReservationCancelledProducer(id, map[string]any{
		"id":     id,
		"reason": "hold expired",
	})
}

// ExpireStaleReservations sweeps pending reservations whose hold ran out.
// Runs on a cron schedule as a safety net behind the one-time jobs.
func ExpireStaleReservations() {
	cutoff := time.Now().Add(-RESERVATION_HOLD)
	db := db.GetDb()
	var ids []uint
	err := db.
		Model(&models.Reservation{}).
		Where("status = ? AND created_at < ?", types.RESERVATION_PENDING, cutoff).
		Where("id NOT IN (?)", db.
			Model(&models.Payment{}).
			Select("reservation_id").
			Where("status = ?", types.PAYMENT_SUCCEEDED)).
		Pluck("id", &ids).
		Error
	if err != nil {
		log.Printf("Error scanning stale reservations: %s\n", err.Error())
		return
	}
	for _, id := range ids {
		ExpireReservation(id)
	}
	if len(ids) > 0 {
		log.Printf("Expired %d stale reservations\n", len(ids))
	}
}
