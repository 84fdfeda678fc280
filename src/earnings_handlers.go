package main

import (
	"dtix/src/db"
	"dtix/src/models"
	"dtix/src/types"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func earningsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/:address/earnings", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var event models.Event
			if err := db.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			if event.Authority != email {
				ctx.Status(http.StatusForbidden)
				return
			}
			var earnings models.Earnings
			if err := db.Where(&models.Earnings{EventID: event.ID}).First(&earnings).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": earnings})
		}).
		POST("/events/:address/earnings/withdraw", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.WithdrawRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var earnings models.Earnings
			if err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
					return err
				}
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Where(&models.Earnings{EventID: event.ID}).
					First(&earnings).
					Error; err != nil {
					return err
				}
				now := time.Now()
				if err := earnings.Withdraw(body.Amount, now); err != nil {
					return err
				}
				var organizer models.User
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&organizer, userId).
					Error; err != nil {
					return err
				}
				organizer.Credit(body.Amount)
				if err := tx.Save(&organizer).Error; err != nil {
					return err
				}
				return tx.Save(&earnings).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": earnings})
		})
	return g
}
