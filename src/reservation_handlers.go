package main

import (
	"context"
	"encoding/json"
	"errors"
	"hbs/src/booking"
	"hbs/src/config"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/types"
	"hbs/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var bookingSvc *booking.Service

func getBookingService() *booking.Service {
	if bookingSvc == nil {
		conn := db.GetDb()
		bookingSvc = booking.NewService(
			booking.NewGormRoomCatalog(conn),
			booking.NewGormReservationRepository(conn),
		)
	}
	return bookingSvc
}

func abortWithBookingError(ctx *gin.Context, err error) {
	var ve *booking.ValidationError
	switch {
	case errors.As(err, &ve):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason})
	case errors.Is(err, booking.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, booking.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
	case errors.Is(err, booking.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": "room is not available for the selected dates"})
	default:
		log.Printf("booking error: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}

// Dates arrive validated by the staydate binding, parse failures were
// already rejected.
func parseStayDate(value string) time.Time {
	t, _ := time.Parse(config.DATE_PARSE_FORMAT, value)
	return t
}

func invalidateReservationCaches(reservation *models.Reservation) {
	keys := []string{types.ReservationsByCustomerCacheKey(reservation.CustomerID)}
	var room models.Room
	db := db.GetDb()
	if err := db.Select("hotel_id").First(&room, reservation.RoomID).Error; err == nil {
		keys = append(keys, types.ReservationsByHotelCacheKey(room.HotelID))
	}
	lib.CacheInvalidate(context.Background(), keys...)
}

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := utils.ActorFromContext(ctx)
			svc := getBookingService()
			reservation, err := svc.CreateReservation(ctx, booking.CreateReservationInput{
				RoomID:         body.RoomID,
				CheckIn:        parseStayDate(body.CheckInDate),
				CheckOut:       parseStayDate(body.CheckOutDate),
				NumberOfGuests: body.NumberOfGuests,
			}, actor)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			go models.ReservationCreatedProducer(reservation.ID, map[string]any{
				"id":             reservation.ID,
				"customer_id":    reservation.CustomerID,
				"room_id":        reservation.RoomID,
				"check_in_date":  reservation.CheckInDate.Format(config.DATE_PARSE_FORMAT),
				"check_out_date": reservation.CheckOutDate.Format(config.DATE_PARSE_FORMAT),
				"total_price":    reservation.TotalPrice,
			})
			go invalidateReservationCaches(reservation)
			ctx.JSON(http.StatusCreated, gin.H{"data": reservation})
		}).
		GET("/reservations", func(ctx *gin.Context) {
			actor := utils.ActorFromContext(ctx)
			svc := getBookingService()
			rd := lib.GetRedisClient()
			if actor.Role == types.ROLE_CUSTOMER {
				cacheKey := types.ReservationsByCustomerCacheKey(actor.ID)
				if val := rd.JSONGet(context.Background(), cacheKey, "$").Val(); val != "" {
					var cached [][]models.Reservation
					if err := json.Unmarshal([]byte(val), &cached); err == nil && len(cached) > 0 {
						ctx.JSON(http.StatusOK, gin.H{"data": cached[0], "count": len(cached[0])})
						return
					}
				}
				data, err := svc.ListReservationsForCustomer(ctx, actor.ID, actor)
				if err != nil {
					abortWithBookingError(ctx, err)
					return
				}
				if _, err := rd.JSONSet(context.Background(), cacheKey, "$", data).Result(); err != nil {
					log.Printf("[redis] Error updating reservations cache: %s\n", err.Error())
				}
				ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
				return
			}

			cacheKey := types.ReservationsByHotelCacheKey(actor.HotelID)
			if val := rd.JSONGet(context.Background(), cacheKey, "$").Val(); val != "" {
				var cached [][]models.Reservation
				if err := json.Unmarshal([]byte(val), &cached); err == nil && len(cached) > 0 {
					ctx.JSON(http.StatusOK, gin.H{"data": cached[0], "count": len(cached[0])})
					return
				}
			}
			data, err := svc.ListReservations(ctx, actor)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			if _, err := rd.JSONSet(context.Background(), cacheKey, "$", data).Result(); err != nil {
				log.Printf("[redis] Error updating reservations cache: %s\n", err.Error())
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			actor := utils.ActorFromContext(ctx)
			reservation, err := getBookingService().GetReservation(ctx, params.ID, actor)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PATCH("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			input := booking.UpdateReservationInput{
				RoomID:         body.RoomID,
				NumberOfGuests: body.NumberOfGuests,
			}
			if body.CheckInDate != nil {
				checkIn := parseStayDate(*body.CheckInDate)
				input.CheckIn = &checkIn
			}
			if body.CheckOutDate != nil {
				checkOut := parseStayDate(*body.CheckOutDate)
				input.CheckOut = &checkOut
			}
			actor := utils.ActorFromContext(ctx)
			reservation, err := getBookingService().UpdateReservation(ctx, params.ID, input, actor)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			go invalidateReservationCaches(reservation)
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		DELETE("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			actor := utils.ActorFromContext(ctx)
			svc := getBookingService()
			reservation, err := svc.GetReservation(ctx, params.ID, actor)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			if err := svc.CancelReservation(ctx, params.ID, actor); err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			go models.ReservationCancelledProducer(reservation.ID, map[string]any{
				"id":          reservation.ID,
				"customer_id": reservation.CustomerID,
				"room_id":     reservation.RoomID,
			})
			go invalidateReservationCaches(reservation)
			ctx.Status(http.StatusNoContent)
		}).
		GET("/customers/:id/reservations", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			actor := utils.ActorFromContext(ctx)
			data, err := getBookingService().ListReservationsForCustomer(ctx, params.ID, actor)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		})
	return g
}
