package main

import (
	"dtix/src/config"
	"dtix/src/db"
	"dtix/src/models"
	"dtix/src/types"
	"dtix/src/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ticketTypeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:address/ticket-types", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var ticketType models.TicketType
			if err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
					return err
				}
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if event.Terminal() {
					return types.NewDomainError(types.ErrState, "event status is terminal")
				}
				if event.TicketTypesCount >= config.MaxTicketTypesPerEvent {
					return types.NewDomainError(types.ErrState, "ticket types at capacity")
				}
				if err := models.ValidateTicketPrice(body.Price); err != nil {
					return err
				}
				strategy := types.PRICING_FIXED
				if body.PricingStrategy != "" {
					strategy = types.PricingStrategy(body.PricingStrategy)
				}
				ticketType = models.TicketType{
					Address:          utils.DeriveAddress(utils.SeedTicketType, event.Address, body.Name),
					EventID:          event.ID,
					Name:             body.Name,
					Description:      body.Description,
					Price:            body.Price,
					CurrentPrice:     body.Price,
					TotalSupply:      body.TotalSupply,
					MaxResaleRoyalty: body.MaxResaleRoyalty,
					PricingStrategy:  strategy,
					IsActive:         true,
				}
				if err := tx.Create(&ticketType).Error; err != nil {
					return err
				}
				event.TicketTypesCount++
				return tx.Save(&event).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": ticketType})
		}).
		GET("/events/:address/ticket-types", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			var ticketTypes []models.TicketType
			if err := db.Where(&models.TicketType{EventID: event.ID}).Find(&ticketTypes).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketTypes, "count": len(ticketTypes)})
		}).
		GET("/ticket-types/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var ticketType models.TicketType
			if err := db.Where(&models.TicketType{Address: params.Address}).First(&ticketType).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketType})
		}).
		PATCH("/ticket-types/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var ticketType models.TicketType
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Preload("Event").
					Where(&models.TicketType{Address: params.Address}).
					First(&ticketType).
					Error; err != nil {
					return err
				}
				if ticketType.Event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if body.Description != nil {
					ticketType.Description = *body.Description
				}
				if body.Price != nil {
					if err := ticketType.SetPrice(*body.Price); err != nil {
						return err
					}
				}
				if body.TotalSupply != nil {
					// Supply can grow but never drop below what is sold.
					if *body.TotalSupply < ticketType.SoldCount {
						return types.NewDomainError(types.ErrState, "supply below sold count")
					}
					ticketType.TotalSupply = *body.TotalSupply
				}
				// The resale royalty is not price, so it stays editable
				// after sales begin.
				if body.MaxResaleRoyalty != nil {
					if *body.MaxResaleRoyalty > config.MaxRoyaltyBps {
						return types.NewDomainError(types.ErrValidation, "royalty exceeds maximum")
					}
					ticketType.MaxResaleRoyalty = *body.MaxResaleRoyalty
				}
				if body.IsActive != nil {
					ticketType.IsActive = *body.IsActive
				}
				return tx.Save(&ticketType).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketType})
		}).
		PUT("/ticket-types/:address/price", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.SetDynamicPriceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var ticketType models.TicketType
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Preload("Event").
					Where(&models.TicketType{Address: params.Address}).
					First(&ticketType).
					Error; err != nil {
					return err
				}
				if ticketType.Event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if ticketType.Event.Terminal() {
					return types.NewDomainError(types.ErrState, "event status is terminal")
				}
				if err := ticketType.SetDynamicPrice(body.Price, time.Now()); err != nil {
					return err
				}
				return tx.Save(&ticketType).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"address":           ticketType.Address,
				"current_price":     ticketType.CurrentPrice,
				"last_price_update": ticketType.LastPriceUpdate,
			}})
		}).
		DELETE("/ticket-types/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				var ticketType models.TicketType
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Preload("Event").
					Where(&models.TicketType{Address: params.Address}).
					First(&ticketType).
					Error; err != nil {
					return err
				}
				event := ticketType.Event
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if event.Status != types.EVENT_UPCOMING {
					return types.NewDomainError(types.ErrState, "ticket types are locked once tickets are on sale")
				}
				if !time.Now().Before(event.SaleStart) {
					return types.NewDomainError(types.ErrState, "ticket types are locked once the sale window opens")
				}
				if ticketType.SoldCount > 0 {
					return types.NewDomainError(types.ErrState, "ticket type has sold tickets")
				}
				var seatMaps int64
				if err := tx.
					Model(&models.SeatStatusMap{}).
					Where(&models.SeatStatusMap{TicketTypeID: ticketType.ID}).
					Count(&seatMaps).
					Error; err != nil {
					return err
				}
				if seatMaps > 0 {
					return types.NewDomainError(types.ErrState, "ticket type still has seat maps")
				}
				if err := tx.Delete(&ticketType).Error; err != nil {
					return err
				}
				if event.TicketTypesCount > 0 {
					event.TicketTypesCount--
				}
				return tx.Save(&event).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
