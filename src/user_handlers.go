package main

import (
	"hbs/src/controllers"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users/me", func(ctx *gin.Context) {
			user, err := controllers.GetUserProfile(ctx)
			if err != nil {
				log.Printf("[GetUserProfile] error: %s\n", err.Error())
				ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		})
	return g
}
