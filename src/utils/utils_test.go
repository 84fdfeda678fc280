package utils

import (
	"dtix/src/models"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFeeOf(t *testing.T) {
	t.Run("Should truncate the basis-point cut", func(t *testing.T) {
		fee, err := FeeOf(1_000_000, 250)
		assert.Nil(t, err)
		assert.Equal(t, uint64(25_000), fee)

		fee, err = FeeOf(999, 250)
		assert.Nil(t, err)
		assert.Equal(t, uint64(24), fee)
	})

	t.Run("Should short-circuit zero inputs", func(t *testing.T) {
		fee, err := FeeOf(0, 250)
		assert.Nil(t, err)
		assert.Equal(t, uint64(0), fee)

		fee, err = FeeOf(1_000_000, 0)
		assert.Nil(t, err)
		assert.Equal(t, uint64(0), fee)
	})

	t.Run("Should reject an overflowing multiplication", func(t *testing.T) {
		_, err := FeeOf(math.MaxUint64/250+1, 250)
		assert.NotNil(t, err)
	})
}

func TestSplitPrimary(t *testing.T) {
	platformFee, organizerAmount, err := SplitPrimary(1_000_000, 250)
	assert.Nil(t, err)
	assert.Equal(t, uint64(25_000), platformFee)
	assert.Equal(t, uint64(975_000), organizerAmount)
	assert.Equal(t, uint64(1_000_000), platformFee+organizerAmount)
}

func TestSplitResale(t *testing.T) {
	t.Run("Should split the price three ways without remainder loss", func(t *testing.T) {
		platformFee, royalty, sellerAmount, err := SplitResale(2_000_000, 250, 500)
		assert.Nil(t, err)
		assert.Equal(t, uint64(50_000), platformFee)
		assert.Equal(t, uint64(100_000), royalty)
		assert.Equal(t, uint64(1_850_000), sellerAmount)
		assert.Equal(t, uint64(2_000_000), platformFee+royalty+sellerAmount)
	})

	t.Run("Should reject combined cuts above the price", func(t *testing.T) {
		// a 1-unit price truncates both cuts to zero, so force the
		// failure with full-rate fees on a tiny price
		_, _, _, err := SplitResale(10, 10_000, 10_000)
		assert.NotNil(t, err)
	})

	t.Run("Should surface the overflow guard", func(t *testing.T) {
		_, _, _, err := SplitResale(math.MaxUint64, 250, 500)
		assert.NotNil(t, err)
	})
}

func TestDeriveAddress(t *testing.T) {
	a := DeriveAddress(SeedEvent, "organizer@example.com", "Summer Fest")
	b := DeriveAddress(SeedEvent, "organizer@example.com", "Summer Fest")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	// slugging makes the derivation case-insensitive
	c := DeriveAddress(SeedEvent, "ORGANIZER@example.com", "summer fest")
	assert.Equal(t, a, c)

	d := DeriveAddress(SeedEvent, "organizer@example.com", "Winter Fest")
	assert.NotEqual(t, a, d)

	e := DeriveAddress(SeedVenue, "organizer@example.com", "Summer Fest")
	assert.NotEqual(t, a, e)
}

func TestApplyPrimarySaleAndRefund(t *testing.T) {
	event := models.Event{}
	ticketType := models.TicketType{TotalSupply: 10, IsActive: true}
	earnings := models.Earnings{}
	platform := models.Platform{PlatformFeeBps: 250}

	assert.Nil(t, ApplyPrimarySale(&event, &ticketType, &earnings, &platform, 1_000_000))

	assert.Equal(t, uint32(1), ticketType.SoldCount)
	assert.Equal(t, uint64(1), event.TotalTicketsSold)
	assert.Equal(t, uint64(1_000_000), event.TotalRevenue)
	assert.Equal(t, uint64(975_000), earnings.PendingAmount)
	assert.Equal(t, uint64(1), platform.TotalTicketsSold)
	assert.Equal(t, uint64(1), platform.TotalTransactions)
	assert.Equal(t, uint64(25_000), platform.TotalPlatformRevenue)

	assert.Nil(t, ApplyRefund(&event, &ticketType, &earnings, &platform, 1_000_000))

	assert.Equal(t, uint32(0), ticketType.SoldCount)
	assert.Equal(t, uint32(1), ticketType.RefundedCount)
	assert.Equal(t, uint64(0), event.TotalTicketsSold)
	assert.Equal(t, uint64(1), event.TotalRefunded)
	assert.Equal(t, uint64(0), event.TotalRevenue)
	assert.Equal(t, uint64(0), earnings.PendingAmount)
	// platform revenue is not clawed back on refund
	assert.Equal(t, uint64(25_000), platform.TotalPlatformRevenue)
	assert.Equal(t, uint64(2), platform.TotalTransactions)
}

func TestApplyRefundSaturates(t *testing.T) {
	event := models.Event{}
	ticketType := models.TicketType{}
	earnings := models.Earnings{}
	platform := models.Platform{PlatformFeeBps: 250}

	assert.Nil(t, ApplyRefund(&event, &ticketType, &earnings, &platform, 1_000_000))
	assert.Equal(t, uint32(0), ticketType.SoldCount)
	assert.Equal(t, uint64(0), event.TotalTicketsSold)
	assert.Equal(t, uint64(0), event.TotalRevenue)
}

func TestParseEventTime(t *testing.T) {
	parsed, err := ParseEventTime("2026-09-15 18:30:45 +08:00")
	assert.Nil(t, err)
	assert.Equal(t, 18, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())
	assert.Equal(t, 0, parsed.Second())

	_, err = ParseEventTime("2026-09-15T18:30:45Z")
	assert.NotNil(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("supersecret")
	assert.Nil(t, err)
	assert.NotEqual(t, "supersecret", hash)
	assert.True(t, CheckPassword(hash, "supersecret"))
	assert.False(t, CheckPassword(hash, "supersecre"))
}

func TestEncryptDecryptMessage(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	message := `{"token":"a6efd2a8-6a2d-4f7c-bd1d-0f2d9d8d9c3a"}`

	encrypted, err := EncryptMessage(key, message)
	assert.Nil(t, err)
	assert.NotEqual(t, message, encrypted)

	decrypted, err := DecryptMessage(key, encrypted)
	assert.Nil(t, err)
	assert.Equal(t, message, *decrypted)
}

func TestGenerateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT(42, "user@example.com")
	assert.Nil(t, err)
	assert.NotEmpty(t, token)
}

func TestParseEventTimeKeepsZone(t *testing.T) {
	parsed, err := ParseEventTime("2026-09-15 18:30:00 +08:00")
	assert.Nil(t, err)
	_, offset := parsed.Zone()
	assert.Equal(t, 8*60*60, offset)
	assert.True(t, parsed.Equal(time.Date(2026, 9, 15, 18, 30, 0, 0, time.FixedZone("", 8*60*60))))
}
