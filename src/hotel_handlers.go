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

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func hotelHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/hotels", func(ctx *gin.Context) {
			city := ctx.Query("city")
			db := db.GetDb()
			rd := lib.GetRedisClient()
			if city == "" {
				cacheKey := types.HotelsListCacheKey()
				if val := rd.JSONGet(context.Background(), cacheKey, "$").Val(); val != "" {
					var cached [][]models.Hotel
					if err := json.Unmarshal([]byte(val), &cached); err == nil && len(cached) > 0 {
						ctx.JSON(http.StatusOK, gin.H{"data": cached[0], "count": len(cached[0])})
						return
					}
				}
				var hotels []models.Hotel
				if err := db.Order("name asc").Find(&hotels).Error; err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				if _, err := rd.JSONSet(context.Background(), cacheKey, "$", hotels).Result(); err != nil {
					log.Printf("[redis] Error updating hotels cache: %s\n", err.Error())
				}
				ctx.JSON(http.StatusOK, gin.H{"data": hotels, "count": len(hotels)})
				return
			}
			var hotels []models.Hotel
			if err := db.Where("city = ?", city).Order("name asc").Find(&hotels).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": hotels, "count": len(hotels)})
		}).
		GET("/hotels/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			rd := lib.GetRedisClient()
			cacheKey := types.HotelCacheKey(params.ID)
			if val := rd.JSONGet(context.Background(), cacheKey, "$").Val(); val != "" {
				var cached []models.Hotel
				if err := json.Unmarshal([]byte(val), &cached); err == nil && len(cached) > 0 {
					ctx.JSON(http.StatusOK, gin.H{"data": cached[0]})
					return
				}
			}
			var hotel models.Hotel
			db := db.GetDb()
			if err := db.Preload("Rooms.RoomType").First(&hotel, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if _, err := rd.JSONSet(context.Background(), cacheKey, "$", &hotel).Result(); err != nil {
				log.Printf("[redis] Error updating hotel cache: %s\n", err.Error())
			}
			ctx.JSON(http.StatusOK, gin.H{"data": hotel})
		}).
		POST("/hotels", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.CreateHotelRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, err := utils.CreateNewHotel(&body)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.CacheInvalidate(context.Background(), types.HotelsListCacheKey())
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PATCH("/hotels/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateHotelRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			fields := map[string]any{}
			if body.Name != nil {
				fields["name"] = *body.Name
				fields["slug"] = slug.Make(*body.Name)
			}
			if body.Address != nil {
				fields["address"] = *body.Address
			}
			if body.City != nil {
				fields["city"] = *body.City
			}
			if body.Country != nil {
				fields["country"] = *body.Country
			}
			if body.PhoneNumber != nil {
				fields["phone_number"] = *body.PhoneNumber
			}
			if body.Description != nil {
				fields["description"] = *body.Description
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var hotel models.Hotel
				if err := tx.First(&hotel, params.ID).Error; err != nil {
					return err
				}
				if len(fields) == 0 {
					return nil
				}
				return tx.Model(&models.Hotel{}).Where("id = ?", params.ID).Updates(fields).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.CacheInvalidate(
				context.Background(),
				types.HotelsListCacheKey(),
				types.HotelCacheKey(params.ID),
			)
			ctx.Status(http.StatusNoContent)
		}).
		GET("/hotels/:id/rooms", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			rd := lib.GetRedisClient()
			cacheKey := types.RoomsByHotelCacheKey(params.ID)
			if val := rd.JSONGet(context.Background(), cacheKey, "$").Val(); val != "" {
				var cached [][]models.Room
				if err := json.Unmarshal([]byte(val), &cached); err == nil && len(cached) > 0 {
					ctx.JSON(http.StatusOK, gin.H{"data": cached[0], "count": len(cached[0])})
					return
				}
			}
			var rooms []models.Room
			db := db.GetDb()
			if err := db.
				Where(&models.Room{HotelID: params.ID}).
				Preload("RoomType").
				Order("room_number asc").
				Find(&rooms).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if _, err := rd.JSONSet(context.Background(), cacheKey, "$", rooms).Result(); err != nil {
				log.Printf("[redis] Error updating rooms cache: %s\n", err.Error())
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rooms, "count": len(rooms)})
		})
	return g
}
