package main

import (
	"dtix/src/config"
	"dtix/src/db"
	"dtix/src/models"
	"dtix/src/types"
	"dtix/src/utils"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func marketplaceHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/listings", func(ctx *gin.Context) {
			var body types.ListTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var listing models.Listing
			if err := db.Transaction(func(tx *gorm.DB) error {
				var ticket models.Ticket
				if err := tx.
					Preload("Event").
					Preload("TicketType").
					Where(&models.Ticket{TokenRef: body.Ticket}).
					First(&ticket).
					Error; err != nil {
					return err
				}
				if ticket.OwnerID != userId {
					return types.NewDomainError(types.ErrUnauthorized, "not the ticket owner")
				}
				if err := ticket.Listable(); err != nil {
					return err
				}
				if ticket.Event.Terminal() {
					return types.NewDomainError(types.ErrState, "event status is terminal")
				}
				var active int64
				if err := tx.
					Model(&models.Listing{}).
					Where("ticket_id = ? AND status = ?", ticket.ID, types.LISTING_ACTIVE).
					Count(&active).
					Error; err != nil {
					return err
				}
				if active > 0 {
					return types.NewDomainError(types.ErrConflict, "ticket is already listed")
				}

				platformFeeBps := config.DefaultPlatformFeeBps
				var platform models.Platform
				if err := tx.Where(&models.Platform{Address: utils.DeriveAddress(utils.SeedPlatform)}).First(&platform).Error; err == nil {
					platformFeeBps = platform.PlatformFeeBps
				}
				now := time.Now()
				listing = models.Listing{
					Address:        utils.DeriveAddress(utils.SeedListing, ticket.TokenRef, strconv.FormatInt(now.UnixNano(), 10)),
					TicketID:       ticket.ID,
					EventID:        ticket.EventID,
					SellerID:       userId,
					Price:          body.Price,
					PlatformFeeBps: platformFeeBps,
					RoyaltyBps:     ticket.TicketType.MaxResaleRoyalty,
					Status:         types.LISTING_ACTIVE,
					ListedAt:       now,
					ExpiresAt:      now.AddDate(0, 0, config.DefaultListingDuration),
				}
				return tx.Create(&listing).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": listing})
		}).
		GET("/listings", func(ctx *gin.Context) {
			db := db.GetDb()
			query := db.Where(&models.Listing{Status: types.LISTING_ACTIVE})
			if eventAddress := ctx.Query("event"); eventAddress != "" {
				var event models.Event
				if err := db.Where(&models.Event{Address: eventAddress}).First(&event).Error; err != nil {
					abortWithError(ctx, err)
					return
				}
				query = query.Where(&models.Listing{EventID: event.ID})
			}
			var listings []models.Listing
			if err := query.Order("listed_at desc").Limit(50).Find(&listings).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listings, "count": len(listings)})
		}).
		GET("/listings/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var listing models.Listing
			if err := db.
				Preload("Ticket").
				Where(&models.Listing{Address: params.Address}).
				First(&listing).
				Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listing})
		}).
		POST("/listings/:address/buy", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var listing models.Listing
			if err := db.Transaction(func(tx *gorm.DB) error {
				// Lock the listing so a second buyer blocks here and then
				// fails the active-status check instead of double-selling.
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Preload("Ticket").
					Where(&models.Listing{Address: params.Address}).
					First(&listing).
					Error; err != nil {
					return err
				}
				now := time.Now()
				if err := listing.Purchasable(now, userId); err != nil {
					return err
				}
				platformFee, royalty, sellerAmount, err := utils.SplitResale(listing.Price, listing.PlatformFeeBps, listing.RoyaltyBps)
				if err != nil {
					return err
				}
				var buyer models.User
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&buyer, userId).
					Error; err != nil {
					return err
				}
				if err := buyer.Debit(listing.Price); err != nil {
					return err
				}
				var seller models.User
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&seller, listing.SellerID).
					Error; err != nil {
					return err
				}
				seller.Credit(sellerAmount)

				var earnings models.Earnings
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Where(&models.Earnings{EventID: listing.EventID}).
					First(&earnings).
					Error; err != nil {
					return err
				}
				earnings.AccrueRoyalty(royalty)

				var platform models.Platform
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Where(&models.Platform{Address: utils.DeriveAddress(utils.SeedPlatform)}).
					First(&platform).
					Error; err != nil {
					return err
				}
				platform.TotalPlatformRevenue += platformFee
				platform.TotalTransactions++

				ticket := listing.Ticket
				ticket.OwnerID = buyer.ID
				ticket.Status = types.TICKET_TRANSFERRED
				ticket.TransferCount++

				price := listing.Price
				listing.Status = types.LISTING_SOLD
				listing.BuyerID = &buyer.ID
				listing.SoldAt = &now
				listing.SoldPrice = &price

				record := models.TransferRecord{
					TicketID:      ticket.ID,
					FromID:        seller.ID,
					ToID:          buyer.ID,
					TransferType:  types.TRANSFER_RESALE,
					Price:         price,
					PlatformFee:   platformFee,
					Royalty:       royalty,
					TransferredAt: now,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				if err := tx.Save(&ticket).Error; err != nil {
					return err
				}
				if err := tx.Save(&buyer).Error; err != nil {
					return err
				}
				if err := tx.Save(&seller).Error; err != nil {
					return err
				}
				if err := tx.Save(&earnings).Error; err != nil {
					return err
				}
				if err := tx.Save(&platform).Error; err != nil {
					return err
				}
				return tx.Save(&listing).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listing})
		}).
		DELETE("/listings/:address", func(ctx *gin.Context) {
			var params types.AddressURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				var listing models.Listing
				if err := tx.Where(&models.Listing{Address: params.Address}).First(&listing).Error; err != nil {
					return err
				}
				if listing.SellerID != userId {
					return types.NewDomainError(types.ErrUnauthorized, "not the listing seller")
				}
				if listing.Status != types.LISTING_ACTIVE {
					return types.NewDomainError(types.ErrState, "listing is not active")
				}
				listing.Status = types.LISTING_CANCELLED
				return tx.Save(&listing).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

// sweepExpiredListings closes active listings that outlived their
// window. Runs on a fixed schedule.
func sweepExpiredListings() {
	db := db.GetDb()
	result := db.
		Model(&models.Listing{}).
		Where("status = ? AND expires_at < ?", types.LISTING_ACTIVE, time.Now()).
		Update("status", types.LISTING_EXPIRED)
	if result.Error != nil {
		log.Printf("Error sweeping expired listings: %s\n", result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Expired %d listings\n", result.RowsAffected)
	}
}
