package main

import (
	"errors"
	"fmt"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/types"
	"hbs/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments", func(ctx *gin.Context) {
			var body types.CreatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := utils.ActorFromContext(ctx)
			if actor.Role != types.ROLE_CUSTOMER {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
				return
			}
			db := db.GetDb()
			var reservation models.Reservation
			if err := db.First(&reservation, body.ReservationID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				return
			}
			if reservation.CustomerID != actor.ID {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
				return
			}
			if reservation.Status != types.RESERVATION_PENDING {
				ctx.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("reservation is %s and cannot be paid", reservation.Status)})
				return
			}
			var existing int64
			db.Model(&models.Payment{}).Where("reservation_id = ?", reservation.ID).Count(&existing)
			if existing > 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": "a payment already exists for this reservation"})
				return
			}

			payment := models.Payment{
				ReservationID: reservation.ID,
				Amount:        reservation.TotalPrice,
				Currency:      "usd",
				Method:        body.Method,
				Status:        types.PAYMENT_PENDING,
				Metadata: types.JSONB{
					"reservation_id": reservation.ID,
					"customer_id":    reservation.CustomerID,
				},
			}

			// Cash settles at the front desk; card and transfer methods go
			// through a Stripe intent confirmed by webhook.
			if body.Method == types.PAYMENT_METHOD_CASH {
				err := db.Transaction(func(tx *gorm.DB) error {
					now := time.Now()
					txnId := uuid.NewString()
					payment.Status = types.PAYMENT_SUCCEEDED
					payment.PaymentDate = &now
					payment.TransactionID = &txnId
					if err := tx.Create(&payment).Error; err != nil {
						return err
					}
					return tx.
						Model(&models.Reservation{}).
						Where("id = ?", reservation.ID).
						Update("status", types.RESERVATION_CONFIRMED).Error
				})
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				go invalidateReservationCaches(&reservation)
				go sendReservationConfirmedMail(reservation.ID)
				ctx.JSON(http.StatusCreated, gin.H{"data": payment})
				return
			}

			pi, err := lib.CreatePaymentIntent(ctx, reservation.TotalPrice, "usd", map[string]string{
				"reservation_id": fmt.Sprint(reservation.ID),
				"customer_id":    fmt.Sprint(reservation.CustomerID),
			})
			if err != nil {
				log.Printf("Error creating payment intent: %s\n", err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not start payment"})
				return
			}
			payment.StripePaymentIntentID = &pi.ID
			payment.StripeClientSecret = &pi.ClientSecret
			if err := db.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&payment).Error
			}); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": payment})
		}).
		GET("/payments", func(ctx *gin.Context) {
			actor := utils.ActorFromContext(ctx)
			db := db.GetDb()
			q := db.
				Model(&models.Payment{}).
				Joins("JOIN reservations ON reservations.id = payments.reservation_id")
			// Scoped like reservations: customers see their own payments,
			// staff those of their hotel, admins everything.
			switch actor.Role {
			case types.ROLE_CUSTOMER:
				q = q.Where("reservations.customer_id = ?", actor.ID)
			case types.ROLE_STAFF:
				q = q.
					Joins("JOIN rooms ON rooms.id = reservations.room_id").
					Where("rooms.hotel_id = ?", actor.HotelID)
			}
			var payments []models.Payment
			if err := q.Order("payments.created_at desc").Find(&payments).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		}).
		GET("/payments/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var payment models.Payment
			db := db.GetDb()
			if err := db.Preload("Reservation").First(&payment, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			actor := utils.ActorFromContext(ctx)
			switch actor.Role {
			case types.ROLE_CUSTOMER:
				if payment.Reservation == nil || payment.Reservation.CustomerID != actor.ID {
					ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
					return
				}
			case types.ROLE_STAFF:
				if payment.Reservation == nil {
					ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
					return
				}
				var room models.Room
				if err := db.Select("hotel_id").First(&room, payment.Reservation.RoomID).Error; err != nil || room.HotelID != actor.HotelID {
					ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payment})
		}).
		POST("/payments/:id/refund", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.RefundPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := utils.ActorFromContext(ctx)
			if actor.Role == types.ROLE_CUSTOMER {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
				return
			}
			db := db.GetDb()
			var payment models.Payment
			if err := db.Preload("Reservation").First(&payment, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
				return
			}
			if payment.Status != types.PAYMENT_SUCCEEDED {
				ctx.JSON(http.StatusConflict, gin.H{"error": "only succeeded payments can be refunded"})
				return
			}
			if payment.StripePaymentIntentID != nil {
				if _, err := lib.CreateRefund(ctx, *payment.StripePaymentIntentID, body.Amount); err != nil {
					log.Printf("Error creating refund: %s\n", err.Error())
					ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not process refund"})
					return
				}
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Payment{}).
					Where("id = ?", payment.ID).
					Update("status", types.PAYMENT_REFUNDED).Error; err != nil {
					return err
				}
				return tx.
					Model(&models.Reservation{}).
					Where("id = ?", payment.ReservationID).
					Update("status", types.RESERVATION_CANCELLED).Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if payment.Reservation != nil {
				go models.ReservationCancelledProducer(payment.ReservationID, map[string]any{
					"id":     payment.ReservationID,
					"reason": "payment refunded",
				})
				go invalidateReservationCaches(payment.Reservation)
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
