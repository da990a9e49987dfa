package main

import (
	"encoding/json"
	"fmt"
	"hbs/src/config"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/types"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

func sendReservationConfirmedMail(reservationId uint) {
	db := db.GetDb()
	var reservation models.Reservation
	if err := db.
		Preload("Customer").
		Preload("Room.Hotel").
		First(&reservation, reservationId).
		Error; err != nil {
		log.Printf("Could not load reservation [%d] for email: %s\n", reservationId, err.Error())
		return
	}
	if reservation.Customer == nil || reservation.Room == nil || reservation.Room.Hotel == nil {
		return
	}
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your reservation at <b>%s</b> is confirmed.</p>
		<p>Room %s, %s to %s. Total: %.2f USD.</p>
	`,
		reservation.Customer.FirstName,
		reservation.Room.Hotel.Name,
		reservation.Room.RoomNumber,
		reservation.CheckInDate.Format(config.DATE_PARSE_FORMAT),
		reservation.CheckOutDate.Format(config.DATE_PARSE_FORMAT),
		reservation.TotalPrice,
	)
	if err := lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: reservation.Room.Hotel.Name,
		To:       []string{reservation.Customer.Email},
		Subject:  "Your reservation is confirmed",
		Body:     body,
		Html:     true,
	}); err != nil {
		log.Printf("Could not send confirmation email for reservation [%d]: %s\n", reservationId, err.Error())
	}
}

func reservationIdFromIntent(pi *stripe.PaymentIntent) (uint, bool) {
	raw := pi.Metadata["reservation_id"]
	atoi, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Could not read reservation id from intent %s: %v\n", pi.ID, err)
		return 0, false
	}
	return uint(atoi), true
}

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "payment_intent.succeeded":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			reservationId, ok := reservationIdFromIntent(&pi)
			if !ok {
				break
			}
			go func() {
				db := db.GetDb()
				err := db.Transaction(func(tx *gorm.DB) error {
					now := time.Now()
					updates := map[string]any{
						"status":       types.PAYMENT_SUCCEEDED,
						"payment_date": now,
					}
					if pi.LatestCharge != nil {
						updates["transaction_id"] = pi.LatestCharge.ID
					}
					if err := tx.
						Model(&models.Payment{}).
						Where("stripe_payment_intent_id = ?", pi.ID).
						Updates(updates).Error; err != nil {
						return err
					}
					return tx.
						Model(&models.Reservation{}).
						Where("id = ? AND status = ?", reservationId, types.RESERVATION_PENDING).
						Update("status", types.RESERVATION_CONFIRMED).Error
				})
				if err != nil {
					log.Printf("Error confirming reservation [%d]: %s\n", reservationId, err.Error())
					return
				}
				var reservation models.Reservation
				if err := db.First(&reservation, reservationId).Error; err == nil {
					invalidateReservationCaches(&reservation)
				}
				go lib.KafkaProduceMessage("reservations_confirmed_producer", "reservations-confirmed", map[string]any{
					"id":             reservationId,
					"payment_intent": pi.ID,
				})
				sendReservationConfirmedMail(reservationId)
			}()
		case "payment_intent.payment_failed":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			go func() {
				db := db.GetDb()
				if err := db.
					Model(&models.Payment{}).
					Where("stripe_payment_intent_id = ?", pi.ID).
					Update("status", types.PAYMENT_FAILED).Error; err != nil {
					log.Printf("Error marking payment failed for intent %s: %s\n", pi.ID, err.Error())
				}
			}()
		case "payment_intent.canceled":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			go func() {
				db := db.GetDb()
				if err := db.
					Model(&models.Payment{}).
					Where("stripe_payment_intent_id = ?", pi.ID).
					Update("status", types.PAYMENT_CANCELLED).Error; err != nil {
					log.Printf("Error marking payment cancelled for intent %s: %s\n", pi.ID, err.Error())
				}
			}()
		case "charge.refunded":
			var charge stripe.Charge
			if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
				log.Printf("[Stripe] Error parsing Charge: %s\n", err.Error())
				break
			}
			if charge.PaymentIntent == nil {
				break
			}
			intentId := charge.PaymentIntent.ID
			go func() {
				db := db.GetDb()
				if err := db.
					Model(&models.Payment{}).
					Where("stripe_payment_intent_id = ?", intentId).
					Update("status", types.PAYMENT_REFUNDED).Error; err != nil {
					log.Printf("Error marking payment refunded for intent %s: %s\n", intentId, err.Error())
				}
			}()
		}
		ctx.Status(http.StatusNoContent)
	})
	return apiv1
}
