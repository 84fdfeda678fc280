package models

import (
	"dtix/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundable(t *testing.T) {
	now := time.Now()
	eventStart := now.Add(24 * time.Hour)

	t.Run("Should allow a refund before the event starts", func(t *testing.T) {
		ticket := Ticket{Status: types.TICKET_SOLD}
		assert.Nil(t, ticket.Refundable(now, eventStart))
	})

	t.Run("Should refuse once the event has started", func(t *testing.T) {
		ticket := Ticket{Status: types.TICKET_SOLD}
		assert.NotNil(t, ticket.Refundable(eventStart, eventStart))
	})

	t.Run("Should refuse redeemed and refunded tickets", func(t *testing.T) {
		for _, status := range []types.TicketStatus{types.TICKET_REDEEMED, types.TICKET_REFUNDED} {
			ticket := Ticket{Status: status}
			assert.NotNil(t, ticket.Refundable(now, eventStart))
		}
	})
}

func TestRedeemable(t *testing.T) {
	now := time.Now()
	event := Event{
		Status:    types.EVENT_ON_SALE,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(3 * time.Hour),
	}

	t.Run("Should admit a sold ticket during the event", func(t *testing.T) {
		ticket := Ticket{Status: types.TICKET_SOLD}
		assert.Nil(t, ticket.Redeemable(now, &event))
	})

	t.Run("Should admit after the event sells out or completes", func(t *testing.T) {
		ticket := Ticket{Status: types.TICKET_SOLD}
		for _, status := range []types.EventStatus{types.EVENT_SOLD_OUT, types.EVENT_COMPLETED} {
			e := event
			e.Status = status
			assert.Nil(t, ticket.Redeemable(now, &e))
		}
	})

	t.Run("Should refuse outside the event window", func(t *testing.T) {
		ticket := Ticket{Status: types.TICKET_SOLD}
		assert.NotNil(t, ticket.Redeemable(event.StartDate.Add(-time.Minute), &event))
		assert.NotNil(t, ticket.Redeemable(event.EndDate.Add(time.Minute), &event))
	})

	t.Run("Should refuse a second redemption", func(t *testing.T) {
		redeemed := now
		ticket := Ticket{Status: types.TICKET_REDEEMED, RedeemedAt: &redeemed}
		assert.NotNil(t, ticket.Redeemable(now, &event))
	})

	t.Run("Should refuse entry to a cancelled event", func(t *testing.T) {
		ticket := Ticket{Status: types.TICKET_SOLD}
		e := event
		e.Status = types.EVENT_CANCELLED
		assert.NotNil(t, ticket.Redeemable(now, &e))
	})

	t.Run("Should admit a resold ticket", func(t *testing.T) {
		ticket := Ticket{Status: types.TICKET_TRANSFERRED}
		assert.Nil(t, ticket.Redeemable(now, &event))
	})
}

func TestListable(t *testing.T) {
	assert.Nil(t, (&Ticket{Status: types.TICKET_SOLD, Transferable: true}).Listable())
	assert.Nil(t, (&Ticket{Status: types.TICKET_TRANSFERRED, Transferable: true}).Listable())
	assert.NotNil(t, (&Ticket{Status: types.TICKET_SOLD, Transferable: false}).Listable())
	assert.NotNil(t, (&Ticket{Status: types.TICKET_REFUNDED, Transferable: true}).Listable())
}

func TestPurchasable(t *testing.T) {
	now := time.Now()
	listing := Listing{
		Status:    types.LISTING_ACTIVE,
		SellerID:  7,
		ExpiresAt: now.Add(time.Hour),
	}

	assert.Nil(t, listing.Purchasable(now, 8))
	assert.NotNil(t, listing.Purchasable(now, 7))
	assert.NotNil(t, listing.Purchasable(now.Add(2*time.Hour), 8))

	cancelled := listing
	cancelled.Status = types.LISTING_CANCELLED
	assert.NotNil(t, cancelled.Purchasable(now, 8))
}

func TestUserBalance(t *testing.T) {
	user := User{Balance: 100}

	assert.Nil(t, user.Debit(60))
	assert.Equal(t, uint64(40), user.Balance)

	err := user.Debit(41)
	assert.NotNil(t, err)
	assert.Equal(t, uint64(40), user.Balance)

	user.Credit(10)
	assert.Equal(t, uint64(50), user.Balance)
}

func TestTicketTypeSupply(t *testing.T) {
	tt := TicketType{TotalSupply: 2, IsActive: true}

	assert.Equal(t, uint32(2), tt.Remaining())
	assert.Nil(t, tt.CheckSupply())

	tt.SoldCount = 2
	assert.Equal(t, uint32(0), tt.Remaining())
	assert.NotNil(t, tt.CheckSupply())

	tt.SoldCount = 1
	tt.IsActive = false
	assert.NotNil(t, tt.CheckSupply())
}

func TestValidateTicketPrice(t *testing.T) {
	assert.NotNil(t, ValidateTicketPrice(999_999))
	assert.Nil(t, ValidateTicketPrice(1_000_000))
	assert.Nil(t, ValidateTicketPrice(1_000_000_000_000))
	assert.NotNil(t, ValidateTicketPrice(1_000_000_000_001))
}

func TestTicketTypePricing(t *testing.T) {
	t.Run("Should rebase the price while nothing is sold", func(t *testing.T) {
		tt := TicketType{Price: 2_000_000, CurrentPrice: 2_000_000}
		assert.Nil(t, tt.SetPrice(3_000_000))
		assert.Equal(t, uint64(3_000_000), tt.Price)
		assert.Equal(t, uint64(3_000_000), tt.EffectivePrice())
	})

	t.Run("Should lock the price after the first sale", func(t *testing.T) {
		tt := TicketType{Price: 2_000_000, CurrentPrice: 2_000_000, SoldCount: 1}
		err := tt.SetPrice(3_000_000)
		assert.NotNil(t, err)
		assert.Equal(t, uint64(2_000_000), tt.Price)
	})

	t.Run("Should still enforce platform bounds", func(t *testing.T) {
		tt := TicketType{Price: 2_000_000, CurrentPrice: 2_000_000}
		assert.NotNil(t, tt.SetPrice(999_999))
	})

	t.Run("Should reprice dynamically mid-sale", func(t *testing.T) {
		now := time.Now()
		tt := TicketType{Price: 2_000_000, CurrentPrice: 2_000_000, SoldCount: 40}
		assert.Nil(t, tt.SetDynamicPrice(2_500_000, now))
		assert.Equal(t, uint64(2_500_000), tt.CurrentPrice)
		assert.Equal(t, uint64(2_500_000), tt.EffectivePrice())
		// the list price the type was created with is untouched
		assert.Equal(t, uint64(2_000_000), tt.Price)
		assert.NotNil(t, tt.LastPriceUpdate)
		assert.Equal(t, now, *tt.LastPriceUpdate)
	})

	t.Run("Should bound dynamic prices by the platform range", func(t *testing.T) {
		tt := TicketType{Price: 2_000_000, CurrentPrice: 2_000_000}
		assert.NotNil(t, tt.SetDynamicPrice(1_000_000_000_001, time.Now()))
		assert.Equal(t, uint64(2_000_000), tt.CurrentPrice)
		assert.Nil(t, tt.LastPriceUpdate)
	})

	t.Run("Should fall back to the list price when never repriced", func(t *testing.T) {
		tt := TicketType{Price: 2_000_000}
		assert.Equal(t, uint64(2_000_000), tt.EffectivePrice())
	})
}

func TestEarningsLedger(t *testing.T) {
	now := time.Now()
	var e Earnings

	e.AccruePrimary(1000)
	e.AccrueRoyalty(50)
	assert.Equal(t, uint64(1050), e.TotalEarnings)
	assert.Equal(t, uint64(1050), e.PendingAmount)
	assert.Equal(t, uint64(50), e.RoyaltyEarnings)

	assert.Nil(t, e.Withdraw(600, now))
	assert.Equal(t, uint64(450), e.PendingAmount)
	assert.Equal(t, uint64(600), e.WithdrawnAmount)
	assert.Equal(t, uint32(1), e.WithdrawalCount)
	assert.NotNil(t, e.LastWithdrawal)

	assert.NotNil(t, e.Withdraw(451, now))
	assert.NotNil(t, e.Withdraw(0, now))

	// reversing more than remains saturates instead of wrapping
	e.ReversePrimary(2000)
	assert.Equal(t, uint64(0), e.TotalEarnings)
	assert.Equal(t, uint64(0), e.PendingAmount)
}

func TestPlatformApply(t *testing.T) {
	fee := uint16(500)
	active := false

	t.Run("Should fold non-nil fields into the record", func(t *testing.T) {
		p := Platform{PlatformFeeBps: 250, IsActive: true, FeeRecipient: "ops@example.com"}
		body := types.SetupPlatformRequestBody{
			PlatformFeeBps: &fee,
			IsActive:       &active,
		}
		assert.Nil(t, p.Apply(&body))
		assert.Equal(t, uint16(500), p.PlatformFeeBps)
		assert.False(t, p.IsActive)
		assert.Equal(t, "ops@example.com", p.FeeRecipient)
	})

	t.Run("Should reject a fee above the cap", func(t *testing.T) {
		p := Platform{}
		over := uint16(1001)
		assert.NotNil(t, p.Apply(&types.SetupPlatformRequestBody{PlatformFeeBps: &over}))
	})

	t.Run("Should reject too many supported tokens", func(t *testing.T) {
		p := Platform{}
		body := types.SetupPlatformRequestBody{
			SupportedTokens: types.StringList{"a", "b", "c", "d", "e", "f"},
		}
		assert.NotNil(t, p.Apply(&body))
	})
}
