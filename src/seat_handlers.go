package main

import (
	"dtix/src/db"
	"dtix/src/lib"
	"dtix/src/models"
	"dtix/src/types"
	"dtix/src/utils"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func seatMapCacheKey(address string) string {
	return fmt.Sprintf("seatmap:%s", address)
}

func seatHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:address/seat-maps", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateSeatMapRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var seatMap models.SeatStatusMap
			if err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
					return err
				}
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				var ticketType models.TicketType
				if err := tx.Where(&models.TicketType{Address: body.TicketType}).First(&ticketType).Error; err != nil {
					return err
				}
				if ticketType.EventID != event.ID {
					return types.NewDomainError(types.ErrValidation, "ticket type belongs to another event")
				}
				if body.TotalSeats > ticketType.TotalSupply {
					return types.NewDomainError(types.ErrValidation, "seat count exceeds ticket supply")
				}

				address := utils.DeriveAddress(utils.SeedSeatStatusMap, event.Address, ticketType.Address, body.AreaID)
				err := tx.Where(&models.SeatStatusMap{Address: address}).First(&seatMap).Error
				if err == nil {
					// Reinitialization wipes the bitmap, so refuse once
					// seats have been sold.
					if seatMap.SoldSeats > 0 {
						return types.NewDomainError(types.ErrState, "seat map has sold seats")
					}
				} else if err != gorm.ErrRecordNotFound {
					return err
				} else {
					seatMap = models.SeatStatusMap{
						Address:      address,
						EventID:      event.ID,
						TicketTypeID: ticketType.ID,
						AreaID:       body.AreaID,
					}
				}
				seatMap.LayoutHash = body.LayoutHash
				seatMap.IndexHash = body.IndexHash
				if err := seatMap.InitializeBitmap(body.TotalSeats); err != nil {
					return err
				}
				if err := tx.Save(&seatMap).Error; err != nil {
					return err
				}
				if err := event.AddTicketAreaMapping(ticketType.Name, body.AreaID); err != nil {
					return err
				}
				return tx.Save(&event).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			lib.InvalidateCache(ctx.Request.Context(), seatMapCacheKey(seatMap.Address))
			ctx.JSON(http.StatusCreated, gin.H{"data": seatMap})
		}).
		GET("/seat-maps/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var seatMap models.SeatStatusMap
			if err := db.Where(&models.SeatStatusMap{Address: params.Address}).First(&seatMap).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"address":     seatMap.Address,
				"area_id":     seatMap.AreaID,
				"total_seats": seatMap.TotalSeats,
				"sold_seats":  seatMap.SoldSeats,
			}})
		}).
		POST("/seat-maps/:address/query", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.BatchSeatQueryRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			cacheKey := seatMapCacheKey(params.Address)
			var statuses map[uint32]string
			if hit, err := lib.GetCachedJSON(ctx.Request.Context(), cacheKey, &statuses); err != nil {
				log.Printf("Error reading seat cache: %s\n", err.Error())
			} else if hit {
				results, err := pickSeatStatuses(statuses, body.Indexes)
				if err != nil {
					abortWithError(ctx, err)
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": results, "count": len(results)})
				return
			}

			db := db.GetDb()
			var seatMap models.SeatStatusMap
			if err := db.Where(&models.SeatStatusMap{Address: params.Address}).First(&seatMap).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			statuses = make(map[uint32]string, seatMap.TotalSeats)
			for i := uint32(0); i < seatMap.TotalSeats; i++ {
				status, err := seatMap.SeatStatusAt(i)
				if err != nil {
					abortWithError(ctx, err)
					return
				}
				statuses[i] = status.String()
			}
			if err := lib.CacheJSON(ctx.Request.Context(), cacheKey, statuses, 30*time.Second); err != nil {
				log.Printf("Error writing seat cache: %s\n", err.Error())
			}
			results, err := pickSeatStatuses(statuses, body.Indexes)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": results, "count": len(results)})
		}).
		PATCH("/seat-maps/:address/seats", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.BatchSeatUpdateRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			seatMap, soldEvents, err := applySeatUpdates(ctx.GetString("email"), params.Address, body.Updates)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			finishSeatUpdates(ctx, seatMap, soldEvents, len(body.Updates))
		}).
		PATCH("/seat-maps/:address/seats/:index", func(ctx *gin.Context) {
			var params seatIndexURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.SeatUpdate
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			body.SeatIndex = params.Index
			seatMap, soldEvents, err := applySeatUpdates(ctx.GetString("email"), params.Address, []types.SeatUpdate{body})
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			finishSeatUpdates(ctx, seatMap, soldEvents, 1)
		}).
		DELETE("/seat-maps/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				var seatMap models.SeatStatusMap
				if err := tx.
					Preload("Event").
					Preload("TicketType").
					Where(&models.SeatStatusMap{Address: params.Address}).
					First(&seatMap).
					Error; err != nil {
					return err
				}
				event := seatMap.Event
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if seatMap.SoldSeats > 0 {
					return types.NewDomainError(types.ErrState, "seat map has sold seats")
				}
				if err := tx.Delete(&seatMap).Error; err != nil {
					return err
				}
				event.RemoveTicketAreaMapping(seatMap.TicketType.Name, seatMap.AreaID)
				return tx.Save(&event).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			lib.InvalidateCache(ctx.Request.Context(), seatMapCacheKey(params.Address))
			ctx.Status(http.StatusNoContent)
		})
	return g
}

type seatIndexURIParams struct {
	Address string `uri:"address" binding:"required,len=64"`
	Index   uint32 `uri:"index"`
}

// applySeatUpdates runs one seat-status write batch in a transaction.
// Fresh sales route through the primary-sale accounting and come back
// as SeatSoldEvent payloads for the caller to emit after commit.
func applySeatUpdates(email string, address string, updates []types.SeatUpdate) (models.SeatStatusMap, []types.SeatSoldEvent, error) {
	db := db.GetDb()
	var seatMap models.SeatStatusMap
	var soldEvents []types.SeatSoldEvent
	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock the seat map and its ticket type so two batches cannot
		// both read the same sold counts and oversell.
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Event").
			Where(&models.SeatStatusMap{Address: address}).
			First(&seatMap).
			Error; err != nil {
			return err
		}
		event := seatMap.Event
		if event.Authority != email {
			return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
		}
		var ticketType models.TicketType
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ticketType, seatMap.TicketTypeID).
			Error; err != nil {
			return err
		}
		var earnings models.Earnings
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Earnings{EventID: event.ID}).
			First(&earnings).
			Error; err != nil {
			return err
		}
		var platform models.Platform
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Platform{Address: utils.DeriveAddress(utils.SeedPlatform)}).
			First(&platform).
			Error; err != nil {
			return err
		}

		now := time.Now()
		for _, update := range updates {
			newStatus := types.SeatStatus(update.Status)
			prev, err := seatMap.SetSeatStatus(update.SeatIndex, newStatus)
			if err != nil {
				return err
			}
			if prev == types.SEAT_SOLD || newStatus != types.SEAT_SOLD {
				continue
			}
			// A fresh sale needs a buyer and a seat label, and runs
			// the full sale accounting.
			if update.Buyer == nil || update.SeatInfo == nil {
				return types.NewDomainError(types.ErrValidation, "sold seat requires buyer and seat info")
			}
			if err := ticketType.CheckSupply(); err != nil {
				return err
			}
			price := ticketType.EffectivePrice()
			if err := utils.ApplyPrimarySale(&event, &ticketType, &earnings, &platform, price); err != nil {
				return err
			}
			soldEvents = append(soldEvents, types.SeatSoldEvent{
				Event:          event.Address,
				EventName:      event.Name,
				TicketType:     ticketType.Address,
				TicketTypeName: ticketType.Name,
				AreaID:         seatMap.AreaID,
				SeatIndex:      update.SeatIndex,
				SeatRow:        update.SeatInfo.SeatRow,
				SeatNumber:     update.SeatInfo.SeatNumber,
				Buyer:          *update.Buyer,
				TicketPrice:    price,
				PurchasedAt:    now,
				SeatMap:        seatMap.Address,
			})
		}

		if err := tx.Save(&seatMap).Error; err != nil {
			return err
		}
		if err := tx.Save(&event).Error; err != nil {
			return err
		}
		if err := tx.Save(&ticketType).Error; err != nil {
			return err
		}
		if err := tx.Save(&earnings).Error; err != nil {
			return err
		}
		return tx.Save(&platform).Error
	})
	return seatMap, soldEvents, err
}

func finishSeatUpdates(ctx *gin.Context, seatMap models.SeatStatusMap, soldEvents []types.SeatSoldEvent, updated int) {
	lib.InvalidateCache(ctx.Request.Context(), seatMapCacheKey(seatMap.Address))
	for _, payload := range soldEvents {
		go func(p types.SeatSoldEvent) {
			if err := models.SeatSoldProducer(p); err != nil {
				log.Printf("Error emitting seat sold event: %s\n", err.Error())
			}
		}(payload)
	}
	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
		"updated":    updated,
		"sold_seats": seatMap.SoldSeats,
	}})
}

func pickSeatStatuses(statuses map[uint32]string, indexes []uint32) ([]gin.H, error) {
	results := make([]gin.H, 0, len(indexes))
	for _, idx := range indexes {
		status, ok := statuses[idx]
		if !ok {
			return nil, types.NewDomainError(types.ErrValidation, "seat index out of range")
		}
		results = append(results, gin.H{"seat_index": idx, "status": status})
	}
	return results, nil
}
