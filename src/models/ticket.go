package models

import (
	"dtix/src/types"
	"time"
)

type Ticket struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	TokenRef     string `gorm:"uniqueIndex;size:36" json:"token_ref"`
	EventID      uint   `json:"event_id"`
	TicketTypeID uint   `json:"ticket_type_id"`
	OwnerID      uint   `json:"owner_id"`

	Price        uint64 `json:"price"`
	SeatRow      string `gorm:"size:20" json:"seat_row,omitempty"`
	SeatNumber   string `gorm:"size:20" json:"seat_number,omitempty"`
	MetadataHash string `gorm:"size:100" json:"metadata_hash,omitempty"`

	Status        types.TicketStatus `gorm:"default:'sold'" json:"status"`
	Transferable  bool               `gorm:"default:true" json:"transferable"`
	TransferCount uint32             `json:"transfer_count"`

	PurchasedAt time.Time  `json:"purchased_at"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`
	RedeemedAt  *time.Time `json:"redeemed_at,omitempty"`

	Event      Event      `gorm:"foreignKey:event_id" json:"-"`
	TicketType TicketType `gorm:"foreignKey:ticket_type_id" json:"-"`
	Owner      User       `gorm:"foreignKey:owner_id" json:"-"`

	types.Timestamps
}

// Refundable allows a refund only while the ticket is still a plain
// sold ticket and the event has not started.
func (t *Ticket) Refundable(now time.Time, eventStart time.Time) error {
	if t.Status != types.TICKET_SOLD {
		return types.NewDomainError(types.ErrState, "ticket is not refundable")
	}
	if !now.Before(eventStart) {
		return types.NewDomainError(types.ErrState, "event has already started")
	}
	return nil
}

// Held reports whether the ticket is currently in a holder's hands,
// either from the primary sale or a later change of hands.
func (t *Ticket) Held() bool {
	return t.Status == types.TICKET_SOLD || t.Status == types.TICKET_TRANSFERRED
}

// Redeemable gates entry. Redemption is one-way; a redeemed or
// refunded ticket never passes again.
func (t *Ticket) Redeemable(now time.Time, event *Event) error {
	if !t.Held() {
		return types.NewDomainError(types.ErrState, "ticket cannot be redeemed")
	}
	if t.RedeemedAt != nil {
		return types.NewDomainError(types.ErrState, "ticket already redeemed")
	}
	if event.Status != types.EVENT_ON_SALE && event.Status != types.EVENT_SOLD_OUT && event.Status != types.EVENT_COMPLETED {
		return types.NewDomainError(types.ErrState, "event does not admit entry")
	}
	if now.Before(event.StartDate) || now.After(event.EndDate) {
		return types.NewDomainError(types.ErrState, "outside event window")
	}
	return nil
}

// Listable guards marketplace listing creation and gift transfers.
func (t *Ticket) Listable() error {
	if !t.Held() {
		return types.NewDomainError(types.ErrState, "ticket is not sellable")
	}
	if !t.Transferable {
		return types.NewDomainError(types.ErrState, "ticket is not transferable")
	}
	return nil
}
