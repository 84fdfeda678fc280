package models

import (
	"dtix/src/types"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatusTransition(t *testing.T) {
	now := time.Now()
	event := func(status types.EventStatus) *Event {
		return &Event{
			Status:    status,
			StartDate: now.Add(48 * time.Hour),
			EndDate:   now.Add(52 * time.Hour),
			SaleStart: now.Add(-time.Hour),
			SaleEnd:   now.Add(47 * time.Hour),
		}
	}

	t.Run("Should allow upcoming to on sale once the sale starts", func(t *testing.T) {
		assert.Nil(t, event(types.EVENT_UPCOMING).ValidateStatusTransition(types.EVENT_ON_SALE, now))
	})

	t.Run("Should block on sale before the sale window opens", func(t *testing.T) {
		e := event(types.EVENT_UPCOMING)
		e.SaleStart = now.Add(time.Hour)
		assert.NotNil(t, e.ValidateStatusTransition(types.EVENT_ON_SALE, now))
	})

	t.Run("Should only sell out from on sale", func(t *testing.T) {
		assert.Nil(t, event(types.EVENT_ON_SALE).ValidateStatusTransition(types.EVENT_SOLD_OUT, now))
		assert.NotNil(t, event(types.EVENT_UPCOMING).ValidateStatusTransition(types.EVENT_SOLD_OUT, now))
	})

	t.Run("Should complete only after the event ends", func(t *testing.T) {
		e := event(types.EVENT_SOLD_OUT)
		assert.NotNil(t, e.ValidateStatusTransition(types.EVENT_COMPLETED, now))
		assert.Nil(t, e.ValidateStatusTransition(types.EVENT_COMPLETED, e.EndDate.Add(time.Minute)))
	})

	t.Run("Should not complete an upcoming event", func(t *testing.T) {
		e := event(types.EVENT_UPCOMING)
		assert.NotNil(t, e.ValidateStatusTransition(types.EVENT_COMPLETED, e.EndDate.Add(time.Minute)))
	})

	t.Run("Should cancel or postpone from any live status", func(t *testing.T) {
		for _, status := range []types.EventStatus{
			types.EVENT_UPCOMING, types.EVENT_ON_SALE, types.EVENT_SOLD_OUT, types.EVENT_POSTPONED,
		} {
			assert.Nil(t, event(status).ValidateStatusTransition(types.EVENT_CANCELLED, now))
			assert.Nil(t, event(status).ValidateStatusTransition(types.EVENT_POSTPONED, now))
		}
	})

	t.Run("Should only return to upcoming from postponed", func(t *testing.T) {
		assert.Nil(t, event(types.EVENT_POSTPONED).ValidateStatusTransition(types.EVENT_UPCOMING, now))
		assert.NotNil(t, event(types.EVENT_ON_SALE).ValidateStatusTransition(types.EVENT_UPCOMING, now))
	})

	t.Run("Should refuse any move out of a terminal status", func(t *testing.T) {
		for _, status := range []types.EventStatus{types.EVENT_COMPLETED, types.EVENT_CANCELLED} {
			e := event(status)
			assert.True(t, e.Terminal())
			assert.NotNil(t, e.ValidateStatusTransition(types.EVENT_POSTPONED, now))
			assert.NotNil(t, e.ValidateStatusTransition(types.EVENT_UPCOMING, now))
		}
	})

	t.Run("Should refuse an unknown status", func(t *testing.T) {
		assert.NotNil(t, event(types.EVENT_UPCOMING).ValidateStatusTransition("archived", now))
	})
}

func TestTicketAreaMappings(t *testing.T) {
	t.Run("Should record and deduplicate mappings", func(t *testing.T) {
		var e Event
		assert.Nil(t, e.AddTicketAreaMapping("VIP", "A1"))
		assert.Nil(t, e.AddTicketAreaMapping("VIP", "A1"))
		assert.Nil(t, e.AddTicketAreaMapping("GA", "B1"))
		assert.Equal(t, types.StringList{"VIP-A1", "GA-B1"}, e.TicketAreaMappings)
	})

	t.Run("Should reject an entry over the length cap", func(t *testing.T) {
		var e Event
		err := e.AddTicketAreaMapping(strings.Repeat("x", 40), strings.Repeat("y", 40))
		assert.NotNil(t, err)
	})

	t.Run("Should stop at the mapping capacity", func(t *testing.T) {
		var e Event
		for i := 0; i < 50; i++ {
			assert.Nil(t, e.AddTicketAreaMapping("GA", string(rune('a'+i%26))+string(rune('0'+i/26))))
		}
		assert.NotNil(t, e.AddTicketAreaMapping("GA", "zz9"))
	})

	t.Run("Should remove a mapping", func(t *testing.T) {
		var e Event
		assert.Nil(t, e.AddTicketAreaMapping("VIP", "A1"))
		assert.Nil(t, e.AddTicketAreaMapping("GA", "B1"))
		e.RemoveTicketAreaMapping("VIP", "A1")
		assert.Equal(t, types.StringList{"GA-B1"}, e.TicketAreaMappings)
	})
}

func TestMint(t *testing.T) {
	var e Event

	assert.Nil(t, e.Mint(100))
	assert.Equal(t, uint64(100), e.TotalTicketsMinted)

	assert.NotNil(t, e.Mint(0))

	e.TotalTicketsMinted = math.MaxUint64 - 1
	assert.NotNil(t, e.Mint(2))
	assert.Nil(t, e.Mint(1))
	assert.Equal(t, uint64(math.MaxUint64), e.TotalTicketsMinted)
}

func TestSaleOpen(t *testing.T) {
	now := time.Now()
	e := Event{
		Status:    types.EVENT_ON_SALE,
		SaleStart: now.Add(-time.Hour),
		SaleEnd:   now.Add(time.Hour),
	}

	assert.Nil(t, e.SaleOpen(now))
	assert.NotNil(t, e.SaleOpen(now.Add(2*time.Hour)))
	assert.NotNil(t, e.SaleOpen(now.Add(-2*time.Hour)))

	e.Status = types.EVENT_UPCOMING
	assert.NotNil(t, e.SaleOpen(now))
}
