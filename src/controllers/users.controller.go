package controllers

import (
	"context"
	"encoding/json"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/types"
	"log"

	"github.com/gin-gonic/gin"
)

// GetUserProfile serves the authenticated user, cache first.
func GetUserProfile(ctx *gin.Context) (*models.User, error) {
	userId := ctx.GetUint("id")
	rd := lib.GetRedisClient()
	cacheKey := types.UserCacheKey(userId)
	if val, err := rd.JSONGet(context.Background(), cacheKey, "$").Result(); err == nil && val != "" {
		var cached []models.User
		if err := json.Unmarshal([]byte(val), &cached); err == nil && len(cached) > 0 {
			return &cached[0], nil
		}
	}

	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Preload("Staff.Hotel").
		Where(&models.User{ID: userId}).
		First(&user).
		Error; err != nil {
		return nil, err
	}
	if _, err := rd.JSONSet(context.Background(), cacheKey, "$", &user).Result(); err != nil {
		log.Printf("[redis] Error updating user cache: %s\n", err.Error())
	}
	return &user, nil
}
