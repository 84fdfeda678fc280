package main

import (
	"dtix/src/db"
	"dtix/src/models"
	"dtix/src/types"
	"dtix/src/utils"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func accountHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/account", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			if err := db.First(&user, userId).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		POST("/account/topup", func(ctx *gin.Context) {
			var body types.TopUpRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.First(&user, userId).Error; err != nil {
					return err
				}
				user.Credit(body.Amount)
				return tx.Save(&user).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"balance": user.Balance}})
		})
	return g
}

func authHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/register", func(ctx *gin.Context) {
			var body types.RegisterUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			hash, err := utils.HashPassword(body.Password)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			// The platform operator bootstraps the admin account through
			// the environment; everyone else registers as a plain user.
			role := "user"
			if admin := os.Getenv("PLATFORM_ADMIN_EMAIL"); admin != "" && admin == body.Email {
				role = "admin"
			}
			user := models.User{
				Name:         body.Name,
				Email:        body.Email,
				Role:         role,
				PasswordHash: hash,
			}
			db := db.GetDb()
			if err := db.Create(&user).Error; err != nil {
				log.Printf("Error creating user: %s\n", err.Error())
				ctx.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": user.ID, "email": user.Email}})
		}).
		POST("/login", func(ctx *gin.Context) {
			var body types.LoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var user models.User
			if err := db.Where(&models.User{Email: body.Email}).First(&user).Error; err != nil {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			if !utils.CheckPassword(user.PasswordHash, body.Password) {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			token, err := utils.GenerateJWT(user.ID, user.Email)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token}})
		})
	return g
}
