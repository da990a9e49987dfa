package main

import (
	"errors"
	"hbs/src/db"
	"hbs/src/middlewares"
	"hbs/src/models"
	"hbs/src/types"
	"hbs/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func staffHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/staff", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.AssignStaffRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var staff models.HotelStaff
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var user models.User
				if err := tx.First(&user, body.UserID).Error; err != nil {
					return errors.New("user not found")
				}
				var hotel models.Hotel
				if err := tx.First(&hotel, body.HotelID).Error; err != nil {
					return errors.New("hotel not found")
				}
				// A user holds at most one staff assignment; moving hotels
				// replaces the old one.
				var existing models.HotelStaff
				err := tx.Where(&models.HotelStaff{UserID: body.UserID}).First(&existing).Error
				if err == nil {
					if err := tx.
						Model(&models.HotelStaff{}).
						Where("id = ?", existing.ID).
						Updates(map[string]any{
							"hotel_id":  body.HotelID,
							"position":  body.Position,
							"is_active": true,
						}).Error; err != nil {
						return err
					}
					staff = existing
					staff.HotelID = body.HotelID
					return tx.Model(&models.User{}).Where("id = ?", body.UserID).Update("role", types.ROLE_STAFF).Error
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				staff = models.HotelStaff{
					UserID:   body.UserID,
					HotelID:  body.HotelID,
					Position: body.Position,
					IsActive: true,
				}
				if err := tx.Create(&staff).Error; err != nil {
					return err
				}
				return tx.Model(&models.User{}).Where("id = ?", body.UserID).Update("role", types.ROLE_STAFF).Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": staff.ID})
		}).
		GET("/hotels/:id/staff", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			actor := utils.ActorFromContext(ctx)
			if actor.Role != types.ROLE_ADMIN &&
				(actor.Role != types.ROLE_STAFF || actor.HotelID != params.ID) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
				return
			}
			var staff []models.HotelStaff
			db := db.GetDb()
			if err := db.
				Where(&models.HotelStaff{HotelID: params.ID, IsActive: true}).
				Preload("User").
				Find(&staff).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": staff, "count": len(staff)})
		}).
		DELETE("/staff/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var staff models.HotelStaff
				if err := tx.First(&staff, params.ID).Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.HotelStaff{}).
					Where("id = ?", params.ID).
					Update("is_active", false).Error; err != nil {
					return err
				}
				return tx.Model(&models.User{}).Where("id = ?", staff.UserID).Update("role", types.ROLE_CUSTOMER).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "staff assignment not found"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
