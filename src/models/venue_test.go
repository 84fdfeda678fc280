package models

import (
	"dtix/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVenueClaimable(t *testing.T) {
	t.Run("Should let events book unused and active venues", func(t *testing.T) {
		for _, status := range []types.VenueStatus{types.VENUE_UNUSED, types.VENUE_IN_USE} {
			venue := Venue{Status: status}
			assert.Nil(t, venue.Claimable())
		}
	})

	t.Run("Should refuse venues out of rotation", func(t *testing.T) {
		for _, status := range []types.VenueStatus{
			types.VENUE_MAINTENANCE,
			types.VENUE_INACTIVE,
			types.VENUE_TEMP_CLOSED,
		} {
			venue := Venue{Status: status}
			assert.NotNil(t, venue.Claimable())
		}
	})
}

func TestVenueDeletable(t *testing.T) {
	assert.Nil(t, (&Venue{Status: types.VENUE_UNUSED}).Deletable())
	assert.NotNil(t, (&Venue{Status: types.VENUE_IN_USE}).Deletable())
	assert.NotNil(t, (&Venue{Status: types.VENUE_MAINTENANCE}).Deletable())
}
