package main

import (
	"context"
	"encoding/json"
	"errors"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/middlewares"
	"hbs/src/models"
	"hbs/src/types"
	"hbs/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func reviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reviews", middlewares.RequireRole(types.ROLE_CUSTOMER), func(ctx *gin.Context) {
			var body types.CreateReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var review models.Review
			var hotelId uint
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var reservation models.Reservation
				if err := tx.
					Preload("Room").
					First(&reservation, body.ReservationID).
					Error; err != nil {
					return errors.New("reservation not found")
				}
				if reservation.CustomerID != userId {
					return errors.New("only the guest of a stay can review it")
				}
				if reservation.Status != types.RESERVATION_CONFIRMED {
					return errors.New("only confirmed stays can be reviewed")
				}
				if reservation.CheckOutDate.After(time.Now()) {
					return errors.New("the stay can be reviewed after check-out")
				}
				var count int64
				if err := tx.
					Model(&models.Review{}).
					Where("user_id = ? AND reservation_id = ?", userId, body.ReservationID).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return errors.New("this stay has already been reviewed")
				}
				hotelId = reservation.Room.HotelID
				review = models.Review{
					UserID:        userId,
					HotelID:       hotelId,
					ReservationID: body.ReservationID,
					Rating:        body.Rating,
				}
				if body.Title != "" {
					review.Title = &body.Title
				}
				if body.Comment != "" {
					review.Comment = &body.Comment
				}
				return tx.Create(&review).Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.UpdateHotelRating(hotelId); err != nil {
				log.Printf("Error updating rating for hotel [%d]: %s\n", hotelId, err.Error())
			}
			go lib.CacheInvalidate(
				context.Background(),
				types.ReviewsByHotelCacheKey(hotelId),
				types.HotelCacheKey(hotelId),
				types.HotelsListCacheKey(),
			)
			ctx.JSON(http.StatusCreated, gin.H{"data": review})
		}).
		GET("/hotels/:id/reviews", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			rd := lib.GetRedisClient()
			cacheKey := types.ReviewsByHotelCacheKey(params.ID)
			if val := rd.JSONGet(context.Background(), cacheKey, "$").Val(); val != "" {
				var cached [][]models.Review
				if err := json.Unmarshal([]byte(val), &cached); err == nil && len(cached) > 0 {
					ctx.JSON(http.StatusOK, gin.H{"data": cached[0], "count": len(cached[0])})
					return
				}
			}
			var reviews []models.Review
			db := db.GetDb()
			if err := db.
				Where(&models.Review{HotelID: params.ID}).
				Preload("User").
				Order("created_at desc").
				Find(&reviews).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if _, err := rd.JSONSet(context.Background(), cacheKey, "$", reviews).Result(); err != nil {
				log.Printf("[redis] Error updating reviews cache: %s\n", err.Error())
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reviews, "count": len(reviews)})
		}).
		PATCH("/reviews/:id", middlewares.RequireRole(types.ROLE_CUSTOMER), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var review models.Review
			if err := db.First(&review, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
				return
			}
			if review.UserID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
				return
			}
			fields := map[string]any{}
			if body.Rating != nil {
				fields["rating"] = *body.Rating
			}
			if body.Title != nil {
				fields["title"] = *body.Title
			}
			if body.Comment != nil {
				fields["comment"] = *body.Comment
			}
			if len(fields) > 0 {
				if err := db.Transaction(func(tx *gorm.DB) error {
					return tx.Model(&models.Review{}).Where("id = ?", params.ID).Updates(fields).Error
				}); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				if body.Rating != nil {
					if err := utils.UpdateHotelRating(review.HotelID); err != nil {
						log.Printf("Error updating rating for hotel [%d]: %s\n", review.HotelID, err.Error())
					}
				}
			}
			go lib.CacheInvalidate(
				context.Background(),
				types.ReviewsByHotelCacheKey(review.HotelID),
				types.HotelCacheKey(review.HotelID),
				types.HotelsListCacheKey(),
			)
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/reviews/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			actor := utils.ActorFromContext(ctx)
			db := db.GetDb()
			var review models.Review
			if err := db.First(&review, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
				return
			}
			if actor.Role != types.ROLE_ADMIN && review.UserID != actor.ID {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
				return
			}
			if err := db.Transaction(func(tx *gorm.DB) error {
				return tx.Delete(&models.Review{}, params.ID).Error
			}); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.UpdateHotelRating(review.HotelID); err != nil {
				log.Printf("Error updating rating for hotel [%d]: %s\n", review.HotelID, err.Error())
			}
			go lib.CacheInvalidate(
				context.Background(),
				types.ReviewsByHotelCacheKey(review.HotelID),
				types.HotelCacheKey(review.HotelID),
				types.HotelsListCacheKey(),
			)
			ctx.Status(http.StatusNoContent)
		})
	return g
}
