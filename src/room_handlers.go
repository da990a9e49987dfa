package main

import (
	"context"
	"errors"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/middlewares"
	"hbs/src/models"
	"hbs/src/types"
	"hbs/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func roomHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/rooms", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.CreateRoomRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			room := models.Room{
				HotelID:     body.HotelID,
				RoomTypeID:  body.RoomTypeID,
				RoomNumber:  body.RoomNumber,
				Floor:       body.Floor,
				IsAvailable: true,
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var hotel models.Hotel
				if err := tx.First(&hotel, body.HotelID).Error; err != nil {
					return errors.New("hotel not found")
				}
				var roomType models.RoomType
				if err := tx.First(&roomType, body.RoomTypeID).Error; err != nil {
					return errors.New("room type not found")
				}
				var count int64
				if err := tx.
					Model(&models.Room{}).
					Where("hotel_id = ? AND room_number = ?", body.HotelID, body.RoomNumber).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return errors.New("a room with this number already exists in the hotel")
				}
				return tx.Create(&room).Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			go lib.CacheInvalidate(context.Background(), types.RoomsByHotelCacheKey(body.HotelID))
			ctx.JSON(http.StatusCreated, gin.H{"id": room.ID})
		}).
		GET("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var room models.Room
			db := db.GetDb()
			if err := db.Preload("RoomType").Preload("Hotel").First(&room, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": room})
		}).
		PATCH("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateRoomRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := utils.ActorFromContext(ctx)
			db := db.GetDb()
			var room models.Room
			if err := db.First(&room, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			// Admins manage any room, staff only rooms in their own hotel.
			if actor.Role != types.ROLE_ADMIN &&
				(actor.Role != types.ROLE_STAFF || actor.HotelID != room.HotelID) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
				return
			}
			fields := map[string]any{}
			if body.RoomTypeID != nil {
				fields["room_type_id"] = *body.RoomTypeID
			}
			if body.RoomNumber != nil {
				fields["room_number"] = *body.RoomNumber
			}
			if body.Floor != nil {
				fields["floor"] = *body.Floor
			}
			if body.IsAvailable != nil {
				fields["is_available"] = *body.IsAvailable
			}
			if len(fields) > 0 {
				if err := db.Transaction(func(tx *gorm.DB) error {
					return tx.Model(&models.Room{}).Where("id = ?", params.ID).Updates(fields).Error
				}); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			go lib.CacheInvalidate(context.Background(), types.RoomsByHotelCacheKey(room.HotelID))
			ctx.Status(http.StatusNoContent)
		}).
		GET("/rooms/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query struct {
				CheckIn  string `form:"check_in" binding:"required,staydate"`
				CheckOut string `form:"check_out" binding:"required,staydate,gtdate=CheckIn"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			available, err := getBookingService().RoomAvailable(
				ctx,
				params.ID,
				parseStayDate(query.CheckIn),
				parseStayDate(query.CheckOut),
				0,
			)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"available": available})
		}).
		GET("/rooms/:id/reservations", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			actor := utils.ActorFromContext(ctx)
			data, err := getBookingService().ListReservationsForRoom(ctx, params.ID, actor)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		})
	return g
}
