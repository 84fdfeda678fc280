package models

import (
	"dtix/src/types"
)

type Venue struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Address     string            `gorm:"uniqueIndex;size:64" json:"address"`
	Authority   string            `json:"authority,omitempty"`
	Name        string            `gorm:"size:100" json:"name"`
	Location    string            `gorm:"size:500" json:"location"`
	Capacity    uint32            `json:"capacity"`
	VenueType   types.VenueType   `gorm:"default:'other'" json:"venue_type"`
	ContactInfo string            `gorm:"size:300" json:"contact_info,omitempty"`
	Status      types.VenueStatus `gorm:"default:'unused'" json:"status"`
	TotalEvents uint32            `json:"total_events"`

	Events []Event `gorm:"foreignKey:venue_id" json:"events,omitempty"`

	types.Timestamps
}

// Deletable reports whether the venue can be removed. A venue stays
// undeletable while any event still holds it in use.
func (v *Venue) Deletable() error {
	if v.Status != types.VENUE_UNUSED {
		return types.NewDomainError(types.ErrState, "venue is in use")
	}
	return nil
}

// Claimable reports whether an event may book the venue. Venues under
// maintenance or otherwise out of rotation cannot host events.
func (v *Venue) Claimable() error {
	if v.Status != types.VENUE_UNUSED && v.Status != types.VENUE_IN_USE {
		return types.NewDomainError(types.ErrState, "venue is not available for events")
	}
	return nil
}
