package main

import (
	"errors"
	"hbs/src/db"
	"hbs/src/middlewares"
	"hbs/src/models"
	"hbs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func roomTypeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/room-types", func(ctx *gin.Context) {
			var roomTypes []models.RoomType
			db := db.GetDb()
			if err := db.Order("base_price asc").Find(&roomTypes).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": roomTypes, "count": len(roomTypes)})
		}).
		GET("/room-types/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var roomType models.RoomType
			db := db.GetDb()
			if err := db.First(&roomType, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": roomType})
		}).
		POST("/room-types", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.CreateRoomTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			roomType := models.RoomType{
				Name:      body.Name,
				BasePrice: body.BasePrice,
				Capacity:  body.Capacity,
			}
			if body.Description != "" {
				roomType.Description = &body.Description
			}
			if body.Amenities != "" {
				roomType.Amenities = &body.Amenities
			}
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&roomType).Error
			}); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": roomType.ID})
		}).
		PATCH("/room-types/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateRoomTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			fields := map[string]any{}
			if body.Name != nil {
				fields["name"] = *body.Name
			}
			if body.Description != nil {
				fields["description"] = *body.Description
			}
			if body.BasePrice != nil {
				fields["base_price"] = *body.BasePrice
			}
			if body.Capacity != nil {
				fields["capacity"] = *body.Capacity
			}
			if body.Amenities != nil {
				fields["amenities"] = *body.Amenities
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var roomType models.RoomType
				if err := tx.First(&roomType, params.ID).Error; err != nil {
					return err
				}
				if len(fields) == 0 {
					return nil
				}
				return tx.Model(&models.RoomType{}).Where("id = ?", params.ID).Updates(fields).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
