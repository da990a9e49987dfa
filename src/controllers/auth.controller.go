package controllers

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

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthRegister(ctx *gin.Context) (id *uint, status int, err error) {
	var body types.RegisterCustomerRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not complete registration")
	}
	newUser := models.User{
		Email:        body.Email,
		PasswordHash: hash,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		PhoneNumber:  body.PhoneNumber,
		Role:         types.ROLE_CUSTOMER,
	}
	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.User{}).
			Where("email = ?", body.Email).
			Count(&count).
			Error; err != nil {
			return errors.New("could not complete transaction")
		}
		if count > 0 {
			return errors.New("user is already registered in the system. Please proceed to Log In")
		}
		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return fmt.Errorf("error creating user: %s", body.Email)
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return &newUser.ID, http.StatusCreated, nil
}

func AuthRegisterStaff(ctx *gin.Context) (id *uint, status int, err error) {
	var body types.RegisterStaffRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not complete registration")
	}
	newUser := models.User{
		Email:        body.Email,
		PasswordHash: hash,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		PhoneNumber:  body.PhoneNumber,
		Role:         types.ROLE_STAFF,
	}
	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var hotel models.Hotel
		if err := tx.First(&hotel, body.HotelID).Error; err != nil {
			return fmt.Errorf("hotel %d does not exist", body.HotelID)
		}
		var count int64
		if err := tx.
			Model(&models.User{}).
			Where("email = ?", body.Email).
			Count(&count).
			Error; err != nil {
			return errors.New("could not complete transaction")
		}
		if count > 0 {
			return errors.New("user is already registered in the system. Please proceed to Log In")
		}
		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return fmt.Errorf("error creating user: %s", body.Email)
		}
		staff := models.HotelStaff{
			UserID:   newUser.ID,
			HotelID:  hotel.ID,
			Position: body.Position,
			IsActive: true,
		}
		return tx.Create(&staff).Error
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return &newUser.ID, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Preload("Staff").
		Where("email = ?", body.Email).
		First(&user).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusUnauthorized, errors.New("invalid credentials")
	}
	if err := utils.VerifyPassword(user.PasswordHash, body.Password); err != nil {
		return nil, http.StatusUnauthorized, errors.New("invalid credentials")
	}

	var hotelId uint
	if user.Staff != nil && user.Staff.IsActive {
		hotelId = user.Staff.HotelID
	}
	jwt, err := utils.GenerateJWT(user.Email, user.ID, user.Role, hotelId)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not complete login")
	}

	rd := lib.GetRedisClient()
	if _, err := rd.JSONSet(ctx, types.UserCacheKey(user.ID), "$", &user).Result(); err != nil {
		log.Printf("[redis] Error updating user cache: %s\n", err.Error())
	}

	return &jwt, http.StatusOK, nil
}
