package main

import (
	"dtix/src/db"
	"dtix/src/lib"
	"dtix/src/models"
	"dtix/src/types"
	"dtix/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			startDate, err := utils.ParseEventTime(body.StartDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			endDate, err := utils.ParseEventTime(body.EndDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			saleStart, err := utils.ParseEventTime(body.SaleStart)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			saleEnd, err := utils.ParseEventTime(body.SaleEnd)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			event := models.Event{
				Address:     utils.DeriveAddress(utils.SeedEvent, email, body.Name),
				Authority:   email,
				Name:        body.Name,
				Description: body.Description,
				StartDate:   startDate,
				EndDate:     endDate,
				SaleStart:   saleStart,
				SaleEnd:     saleEnd,
				Status:      types.EVENT_UPCOMING,
			}
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				var venue models.Venue
				if err := tx.Where(&models.Venue{Address: body.Venue}).First(&venue).Error; err != nil {
					return err
				}
				if err := venue.Claimable(); err != nil {
					return err
				}
				event.VenueID = venue.ID
				if err := tx.Create(&event).Error; err != nil {
					return err
				}
				venue.Status = types.VENUE_IN_USE
				venue.TotalEvents++
				if err := tx.Save(&venue).Error; err != nil {
					return err
				}
				earnings := models.Earnings{
					Address:   utils.DeriveAddress(utils.SeedEarnings, event.Address),
					EventID:   event.ID,
					Organizer: email,
				}
				if err := tx.Create(&earnings).Error; err != nil {
					return err
				}
				var platform models.Platform
				if err := tx.Where(&models.Platform{Address: utils.DeriveAddress(utils.SeedPlatform)}).First(&platform).Error; err == nil {
					platform.TotalEvents++
					if err := tx.Save(&platform).Error; err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			scheduleEventStatusJobs(event.ID, saleStart, endDate)
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		GET("/events", func(ctx *gin.Context) {
			db := db.GetDb()
			var events []models.Event
			err := db.
				Where("status IN ?", []types.EventStatus{types.EVENT_UPCOMING, types.EVENT_ON_SALE}).
				Order("start_date asc").
				Limit(20).
				Find(&events).
				Error
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.
				Preload("TicketTypes").
				Where(&models.Event{Address: params.Address}).
				First(&event).
				Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		PATCH("/events/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var event models.Event
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
					return err
				}
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if event.Terminal() {
					return types.NewDomainError(types.ErrState, "event status is terminal")
				}
				if body.Description != nil {
					event.Description = *body.Description
				}
				// Schedule changes are only allowed before tickets go on sale.
				datesChanged := body.StartDate != nil || body.EndDate != nil || body.SaleStart != nil || body.SaleEnd != nil
				if datesChanged && event.Status != types.EVENT_UPCOMING {
					return types.NewDomainError(types.ErrState, "schedule is locked once tickets are on sale")
				}
				if body.StartDate != nil {
					t, err := utils.ParseEventTime(*body.StartDate)
					if err != nil {
						return types.NewDomainError(types.ErrValidation, err.Error())
					}
					event.StartDate = t
				}
				if body.EndDate != nil {
					t, err := utils.ParseEventTime(*body.EndDate)
					if err != nil {
						return types.NewDomainError(types.ErrValidation, err.Error())
					}
					event.EndDate = t
				}
				if body.SaleStart != nil {
					t, err := utils.ParseEventTime(*body.SaleStart)
					if err != nil {
						return types.NewDomainError(types.ErrValidation, err.Error())
					}
					event.SaleStart = t
				}
				if body.SaleEnd != nil {
					t, err := utils.ParseEventTime(*body.SaleEnd)
					if err != nil {
						return types.NewDomainError(types.ErrValidation, err.Error())
					}
					event.SaleEnd = t
				}
				if !event.StartDate.Before(event.EndDate) {
					return types.NewDomainError(types.ErrValidation, "start date must precede end date")
				}
				if !event.SaleStart.Before(event.SaleEnd) {
					return types.NewDomainError(types.ErrValidation, "sale start must precede sale end")
				}
				return tx.Save(&event).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		PUT("/events/:address/venue", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventVenueRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var event models.Event
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
					return err
				}
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if event.Status != types.EVENT_UPCOMING {
					return types.NewDomainError(types.ErrState, "venue is locked once tickets are on sale")
				}
				if !time.Now().Before(event.SaleStart) {
					return types.NewDomainError(types.ErrState, "venue is locked once the sale window opens")
				}
				var venue models.Venue
				if err := tx.Where(&models.Venue{Address: body.Venue}).First(&venue).Error; err != nil {
					return err
				}
				if venue.ID == event.VenueID {
					return nil
				}
				if err := venue.Claimable(); err != nil {
					return err
				}
				oldVenueId := event.VenueID
				event.VenueID = venue.ID
				if err := tx.Save(&event).Error; err != nil {
					return err
				}
				venue.Status = types.VENUE_IN_USE
				venue.TotalEvents++
				if err := tx.Save(&venue).Error; err != nil {
					return err
				}
				return releaseVenue(tx, oldVenueId)
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		POST("/events/:address/mint", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.MintTicketsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var event models.Event
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
					return err
				}
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if event.Terminal() {
					return types.NewDomainError(types.ErrState, "event status is terminal")
				}
				if err := event.Mint(body.Quantity); err != nil {
					return err
				}
				return tx.Save(&event).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"address":              event.Address,
				"total_tickets_minted": event.TotalTicketsMinted,
			}})
		}).
		PATCH("/events/:address/status", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			target := types.EventStatus(body.Status)
			db := db.GetDb()
			var event models.Event
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Event{Address: params.Address}).First(&event).Error; err != nil {
					return err
				}
				if event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				if err := event.ValidateStatusTransition(target, time.Now()); err != nil {
					return err
				}
				event.Status = target
				if err := tx.Save(&event).Error; err != nil {
					return err
				}
				if event.Terminal() {
					return releaseVenue(tx, event.VenueID)
				}
				return nil
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

// releaseVenue marks the venue unused once no other live event holds it.
func releaseVenue(tx *gorm.DB, venueId uint) error {
	var active int64
	err := tx.
		Model(&models.Event{}).
		Where("venue_id = ? AND status NOT IN ?", venueId, []types.EventStatus{types.EVENT_COMPLETED, types.EVENT_CANCELLED}).
		Count(&active).
		Error
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}
	return tx.
		Model(&models.Venue{}).
		Where("id = ?", venueId).
		Update("status", types.VENUE_UNUSED).
		Error
}

// scheduleEventStatusJobs queues the automatic lifecycle flips, on
// sale at sale start and completed at event end.
func scheduleEventStatusJobs(eventId uint, saleStart time.Time, endDate time.Time) {
	if _, err := lib.CreateOneTimeJob(saleStart, func(id uint) {
		advanceEventStatus(id, types.EVENT_ON_SALE)
	}, eventId); err != nil {
		log.Printf("Error scheduling sale start job: %s\n", err.Error())
	}
	if _, err := lib.CreateOneTimeJob(endDate, func(id uint) {
		advanceEventStatus(id, types.EVENT_COMPLETED)
	}, eventId); err != nil {
		log.Printf("Error scheduling completion job: %s\n", err.Error())
	}
}

func advanceEventStatus(eventId uint, target types.EventStatus) {
	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, eventId).Error; err != nil {
			return err
		}
		if err := event.ValidateStatusTransition(target, time.Now()); err != nil {
			log.Printf("Skipping status job for event %d: %s\n", eventId, err.Error())
			return nil
		}
		event.Status = target
		if err := tx.Save(&event).Error; err != nil {
			return err
		}
		if event.Terminal() {
			return releaseVenue(tx, event.VenueID)
		}
		return nil
	}); err != nil {
		log.Printf("Error advancing event %d status: %s\n", eventId, err.Error())
	}
}
