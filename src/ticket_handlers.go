package main

import (
	"dtix/src/db"
	"dtix/src/lib"
	"dtix/src/lib/mailer"
	"dtix/src/models"
	"dtix/src/types"
	"dtix/src/utils"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ticketTokenURIParams struct {
	Token string `uri:"token" binding:"required,uuid"`
}

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/tickets/purchase", func(ctx *gin.Context) {
			var body types.PurchaseTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var ticket models.Ticket
			var buyer models.User
			if err := db.Transaction(func(tx *gorm.DB) error {
				var platform models.Platform
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Where(&models.Platform{Address: utils.DeriveAddress(utils.SeedPlatform)}).
					First(&platform).
					Error; err != nil {
					return err
				}
				if !platform.IsActive {
					return types.NewDomainError(types.ErrState, "platform is paused")
				}
				// Lock the ticket type row so concurrent purchases cannot
				// both pass the supply check on the same stale sold count.
				var ticketType models.TicketType
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Preload("Event").
					Where(&models.TicketType{Address: body.TicketType}).
					First(&ticketType).
					Error; err != nil {
					return err
				}
				event := ticketType.Event
				now := time.Now()
				if err := event.SaleOpen(now); err != nil {
					return err
				}
				if err := ticketType.CheckSupply(); err != nil {
					return err
				}
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&buyer, userId).
					Error; err != nil {
					return err
				}
				price := ticketType.EffectivePrice()
				if err := buyer.Debit(price); err != nil {
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

				seatNo := ticketType.SoldCount + 1
				if err := utils.ApplyPrimarySale(&event, &ticketType, &earnings, &platform, price); err != nil {
					return err
				}
				ticket = models.Ticket{
					TokenRef:     uuid.NewString(),
					EventID:      event.ID,
					TicketTypeID: ticketType.ID,
					OwnerID:      buyer.ID,
					Price:        price,
					SeatNumber:   fmt.Sprintf("SEAT-%d", seatNo),
					MetadataHash: fmt.Sprintf("ticket-%s-%d", event.Name, seatNo),
					Status:       types.TICKET_SOLD,
					Transferable: true,
					PurchasedAt:  now,
				}
				if err := tx.Create(&ticket).Error; err != nil {
					return err
				}
				record := models.TransferRecord{
					TicketID:      ticket.ID,
					ToID:          buyer.ID,
					TransferType:  types.TRANSFER_INITIAL,
					Price:         ticket.Price,
					TransferredAt: now,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				if err := tx.Save(&buyer).Error; err != nil {
					return err
				}
				if err := tx.Save(&ticketType).Error; err != nil {
					return err
				}
				if err := tx.Save(&event).Error; err != nil {
					return err
				}
				if err := tx.Save(&earnings).Error; err != nil {
					return err
				}
				return tx.Save(&platform).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			go sendPurchaseReceipt(buyer.Email, ticket.TokenRef, ticket.SeatNumber)
			ctx.JSON(http.StatusCreated, gin.H{"data": ticket})
		}).
		GET("/tickets", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var tickets []models.Ticket
			if err := db.
				Where(&models.Ticket{OwnerID: userId}).
				Order("purchased_at desc").
				Find(&tickets).
				Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets, "count": len(tickets)})
		}).
		GET("/tickets/:token", func(ctx *gin.Context) {
			var params ticketTokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var ticket models.Ticket
			if err := db.
				Preload("Event").
				Where(&models.Ticket{TokenRef: params.Token}).
				First(&ticket).
				Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			if ticket.OwnerID != userId && ticket.Event.Authority != ctx.GetString("email") {
				ctx.Status(http.StatusForbidden)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:token/refund", func(ctx *gin.Context) {
			var params ticketTokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var ticket models.Ticket
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Preload("Event").
					Where(&models.Ticket{TokenRef: params.Token}).
					First(&ticket).
					Error; err != nil {
					return err
				}
				if ticket.OwnerID != userId {
					return types.NewDomainError(types.ErrUnauthorized, "not the ticket owner")
				}
				now := time.Now()
				if err := ticket.Refundable(now, ticket.Event.StartDate); err != nil {
					return err
				}
				var owner models.User
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&owner, userId).
					Error; err != nil {
					return err
				}
				var ticketType models.TicketType
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&ticketType, ticket.TicketTypeID).
					Error; err != nil {
					return err
				}
				var earnings models.Earnings
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Where(&models.Earnings{EventID: ticket.EventID}).
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
				event := ticket.Event
				if err := utils.ApplyRefund(&event, &ticketType, &earnings, &platform, ticket.Price); err != nil {
					return err
				}
				owner.Credit(ticket.Price)
				ticket.Status = types.TICKET_REFUNDED
				ticket.RefundedAt = &now
				// A refunded ticket cannot stay on the marketplace.
				if err := tx.
					Model(&models.Listing{}).
					Where("ticket_id = ? AND status = ?", ticket.ID, types.LISTING_ACTIVE).
					Update("status", types.LISTING_CANCELLED).
					Error; err != nil {
					return err
				}
				record := models.TransferRecord{
					TicketID:      ticket.ID,
					FromID:        owner.ID,
					TransferType:  types.TRANSFER_REFUND,
					Price:         ticket.Price,
					TransferredAt: now,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				if err := tx.Save(&ticket).Error; err != nil {
					return err
				}
				if err := tx.Save(&owner).Error; err != nil {
					return err
				}
				if err := tx.Save(&ticketType).Error; err != nil {
					return err
				}
				if err := tx.Save(&event).Error; err != nil {
					return err
				}
				if err := tx.Save(&earnings).Error; err != nil {
					return err
				}
				return tx.Save(&platform).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:token/transfer", func(ctx *gin.Context) {
			var params ticketTokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.TransferTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var ticket models.Ticket
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					Preload("Event").
					Where(&models.Ticket{TokenRef: params.Token}).
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
				var listed int64
				if err := tx.
					Model(&models.Listing{}).
					Where("ticket_id = ? AND status = ?", ticket.ID, types.LISTING_ACTIVE).
					Count(&listed).
					Error; err != nil {
					return err
				}
				if listed > 0 {
					return types.NewDomainError(types.ErrConflict, "ticket is listed for sale")
				}
				var recipient models.User
				if err := tx.Where(&models.User{Email: body.Recipient}).First(&recipient).Error; err != nil {
					return err
				}
				if recipient.ID == userId {
					return types.NewDomainError(types.ErrState, "cannot transfer to yourself")
				}
				now := time.Now()
				record := models.TransferRecord{
					TicketID:      ticket.ID,
					FromID:        userId,
					ToID:          recipient.ID,
					TransferType:  types.TRANSFER_GIFT,
					TransferredAt: now,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				ticket.OwnerID = recipient.ID
				ticket.Status = types.TICKET_TRANSFERRED
				ticket.TransferCount++
				return tx.Save(&ticket).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:token/redeem", func(ctx *gin.Context) {
			var params ticketTokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email := ctx.GetString("email")
			db := db.GetDb()
			var ticket models.Ticket
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Preload("Event").
					Where(&models.Ticket{TokenRef: params.Token}).
					First(&ticket).
					Error; err != nil {
					return err
				}
				// Only the event organizer validates tickets at the gate.
				if ticket.Event.Authority != email {
					return types.NewDomainError(types.ErrUnauthorized, "not the event organizer")
				}
				now := time.Now()
				if err := ticket.Redeemable(now, &ticket.Event); err != nil {
					return err
				}
				ticket.Status = types.TICKET_REDEEMED
				ticket.RedeemedAt = &now
				return tx.Save(&ticket).Error
			}); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		GET("/tickets/:token/code", func(ctx *gin.Context) {
			var params ticketTokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var ticket models.Ticket
			if err := db.
				Preload("Event").
				Where(&models.Ticket{TokenRef: params.Token}).
				First(&ticket).
				Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			if ticket.OwnerID != userId {
				ctx.Status(http.StatusForbidden)
				return
			}
			if !ticket.Held() {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "ticket is no longer valid"})
				return
			}

			rawData := map[string]any{
				"token": ticket.TokenRef,
				"event": ticket.Event.Address,
			}
			rawBytes, _ := json.Marshal(rawData)
			keyEnv := os.Getenv("API_QRC_SECRET")
			key, err := hex.DecodeString(keyEnv)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			encryptedMessage, err := utils.EncryptMessage(key, string(rawBytes))
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			qrc, err := qrcode.New(encryptedMessage)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			filepath := path.Join(os.TempDir(), fmt.Sprintf("%s.jpeg", ticket.TokenRef))
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.FileAttachment(filepath, "eticket.jpeg")
		})
	return g
}

func sendPurchaseReceipt(email string, tokenRef string, seatNumber string) {
	input := lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "Ticketing",
		To:       []string{email},
		Subject:  "Your ticket purchase",
		Body:     fmt.Sprintf("Your ticket %s (%s) is confirmed.", tokenRef, seatNumber),
	}
	if err := mailer.NewMailerMessage(&input); err != nil {
		log.Printf("Error queueing receipt: %s\n", err.Error())
	}
}
