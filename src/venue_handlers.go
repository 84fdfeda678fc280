package main

import (
	"dtix/src/db"
	"dtix/src/models"
	"dtix/src/types"
	"dtix/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func venueHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/venues", func(ctx *gin.Context) {
			var body types.CreateVenueRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			venue := models.Venue{
				Address:     utils.DeriveAddress(utils.SeedVenue, email, body.Name),
				Authority:   email,
				Name:        body.Name,
				Location:    body.Address,
				Capacity:    body.Capacity,
				VenueType:   types.VenueType(body.VenueType),
				ContactInfo: body.ContactInfo,
				Status:      types.VENUE_UNUSED,
			}
			db := db.GetDb()
			if err := db.Create(&venue).Error; err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": "venue already exists"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": venue})
		}).
		GET("/venues", func(ctx *gin.Context) {
			email := ctx.GetString("email")
			db := db.GetDb()
			var venues []models.Venue
			if err := db.Where(&models.Venue{Authority: email}).Find(&venues).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venues, "count": len(venues)})
		}).
		GET("/venues/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var venue models.Venue
			if err := db.Where(&models.Venue{Address: params.Address}).First(&venue).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venue})
		}).
		PATCH("/venues/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateVenueRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var venue models.Venue
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Venue{Address: params.Address}).First(&venue).Error; err != nil {
					return err
				}
				if venue.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the venue authority")
				}
				if body.Address != nil {
					venue.Location = *body.Address
				}
				if body.Capacity != nil {
					venue.Capacity = *body.Capacity
				}
				if body.VenueType != nil {
					venue.VenueType = types.VenueType(*body.VenueType)
				}
				if body.ContactInfo != nil {
					venue.ContactInfo = *body.ContactInfo
				}
				if body.Status != nil {
					venue.Status = types.VenueStatus(*body.Status)
				}
				return tx.Save(&venue).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venue})
		}).
		DELETE("/venues/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				var venue models.Venue
				if err := tx.Where(&models.Venue{Address: params.Address}).First(&venue).Error; err != nil {
					return err
				}
				if venue.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the venue authority")
				}
				if err := venue.Deletable(); err != nil {
					return err
				}
				return tx.Delete(&venue).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
