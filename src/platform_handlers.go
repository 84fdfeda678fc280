package main

import (
	"dtix/src/config"
	"dtix/src/db"
	"dtix/src/models"
	"dtix/src/types"
	"dtix/src/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func platformHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/platform", func(ctx *gin.Context) {
			db := db.GetDb()
			var platform models.Platform
			if err := db.Where(&models.Platform{Address: utils.DeriveAddress(utils.SeedPlatform)}).First(&platform).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": platform})
		}).
		POST("/platform", func(ctx *gin.Context) {
			var body types.SetupPlatformRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			address := utils.DeriveAddress(utils.SeedPlatform)
			db := db.GetDb()
			var platform models.Platform
			if err := db.Transaction(func(tx *gorm.DB) error {
				err := tx.Where(&models.Platform{Address: address}).First(&platform).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					platform = models.Platform{
						Address:        address,
						Authority:      email,
						FeeRecipient:   email,
						PlatformFeeBps: config.DefaultPlatformFeeBps,
						IsActive:       true,
					}
					if err := platform.Apply(&body); err != nil {
						return err
					}
					return tx.Create(&platform).Error
				} else if err != nil {
					return err
				}
				// The admin role gate is not enough: only the account that
				// set the platform up may change it.
				if platform.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the platform authority")
				}
				if err := platform.Apply(&body); err != nil {
					return err
				}
				return tx.Save(&platform).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": platform})
		})
	return g
}
