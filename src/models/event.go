package models

import (
	"dtix/src/config"
	"dtix/src/lib"
	"dtix/src/types"
	"fmt"
	"log"
	"math"
	"time"
)

type Event struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Address     string `gorm:"uniqueIndex;size:64" json:"address"`
	Authority   string `json:"authority,omitempty"`
	Name        string `gorm:"size:100" json:"name"`
	Description string `gorm:"size:1000" json:"description,omitempty"`
	VenueID     uint   `json:"venue_id,omitempty"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	SaleStart time.Time `json:"sale_start"`
	SaleEnd   time.Time `json:"sale_end"`

	Status types.EventStatus `gorm:"default:'upcoming'" json:"status"`

	TicketTypesCount   uint8  `json:"ticket_types_count"`
	TotalTicketsMinted uint64 `json:"total_tickets_minted"`
	TotalTicketsSold   uint64 `json:"total_tickets_sold"`
	TotalRefunded      uint64 `json:"total_refunded"`
	TotalRevenue       uint64 `json:"total_revenue"`

	// TicketAreaMappings records which ticket type covers which seat
	// area, one "type-area" entry per seat status map.
	TicketAreaMappings types.StringList `gorm:"type:jsonb" json:"ticket_area_mappings,omitempty"`

	Venue       Venue        `gorm:"foreignKey:venue_id" json:"-"`
	TicketTypes []TicketType `gorm:"foreignKey:event_id" json:"ticket_types,omitempty"`

	types.Timestamps
}

func (e *Event) Terminal() bool {
	return e.Status == types.EVENT_COMPLETED || e.Status == types.EVENT_CANCELLED
}

// ValidateStatusTransition checks whether the event may move to the
// target status at the given time. It does not mutate the event.
func (e *Event) ValidateStatusTransition(target types.EventStatus, now time.Time) error {
	if e.Terminal() {
		return types.NewDomainError(types.ErrState, "event status is terminal")
	}
	switch target {
	case types.EVENT_ON_SALE:
		if e.Status != types.EVENT_UPCOMING {
			return types.NewDomainError(types.ErrState, "only upcoming events can go on sale")
		}
		if now.Before(e.SaleStart) {
			return types.NewDomainError(types.ErrState, "sale has not started")
		}
	case types.EVENT_SOLD_OUT:
		if e.Status != types.EVENT_ON_SALE {
			return types.NewDomainError(types.ErrState, "only on-sale events can sell out")
		}
	case types.EVENT_COMPLETED:
		if e.Status != types.EVENT_ON_SALE && e.Status != types.EVENT_SOLD_OUT {
			return types.NewDomainError(types.ErrState, "event cannot complete from current status")
		}
		if now.Before(e.EndDate) {
			return types.NewDomainError(types.ErrState, "event has not ended")
		}
	case types.EVENT_CANCELLED, types.EVENT_POSTPONED:
		// allowed from any non-terminal status
	case types.EVENT_UPCOMING:
		if e.Status != types.EVENT_POSTPONED {
			return types.NewDomainError(types.ErrState, "only postponed events can return to upcoming")
		}
	default:
		return types.NewDomainError(types.ErrValidation, "unknown event status")
	}
	return nil
}

// AddTicketAreaMapping appends a deduplicated "type-area" entry,
// enforcing the per-event mapping caps.
func (e *Event) AddTicketAreaMapping(typeName, areaID string) error {
	entry := fmt.Sprintf("%s-%s", typeName, areaID)
	if len(entry) > config.MaxTicketAreaMappingLen {
		return types.NewDomainError(types.ErrValidation, "ticket area mapping too long")
	}
	for _, m := range e.TicketAreaMappings {
		if m == entry {
			return nil
		}
	}
	if len(e.TicketAreaMappings) >= config.MaxTicketAreaMappings {
		return types.NewDomainError(types.ErrState, "ticket area mappings at capacity")
	}
	e.TicketAreaMappings = append(e.TicketAreaMappings, entry)
	return nil
}

func (e *Event) RemoveTicketAreaMapping(typeName, areaID string) {
	entry := fmt.Sprintf("%s-%s", typeName, areaID)
	kept := e.TicketAreaMappings[:0]
	for _, m := range e.TicketAreaMappings {
		if m != entry {
			kept = append(kept, m)
		}
	}
	e.TicketAreaMappings = kept
}

// Mint records newly minted inventory against the event.
func (e *Event) Mint(quantity uint32) error {
	if quantity == 0 {
		return types.NewDomainError(types.ErrValidation, "mint quantity must be positive")
	}
	if e.TotalTicketsMinted > math.MaxUint64-uint64(quantity) {
		return types.NewDomainError(types.ErrArithmetic, "minted counter overflow")
	}
	e.TotalTicketsMinted += uint64(quantity)
	return nil
}

// SaleOpen reports whether primary purchases are allowed right now.
func (e *Event) SaleOpen(now time.Time) error {
	if e.Status != types.EVENT_ON_SALE {
		return types.NewDomainError(types.ErrState, "event is not on sale")
	}
	if now.Before(e.SaleStart) || now.After(e.SaleEnd) {
		return types.NewDomainError(types.ErrState, "outside sale window")
	}
	return nil
}

func SeatSoldProducer(payload types.SeatSoldEvent) error {
	err := lib.KafkaProduceMessage("seats_sold_producer", "seats-sold", payload)
	if err != nil {
		log.Printf("Error on producing message: %s\n", err.Error())
		return err
	}
	return nil
}
