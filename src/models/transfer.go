package models

import (
	"dtix/src/types"
	"time"
)

// TransferRecord is an audit row written whenever a ticket changes
// hands on the secondary market.
type TransferRecord struct {
	ID       uint `gorm:"primarykey" json:"id"`
	TicketID uint `json:"ticket_id"`
	FromID   uint `json:"from_id"`
	ToID     uint `json:"to_id"`

	TransferType  types.TransferType `gorm:"default:'resale'" json:"transfer_type"`
	Price         uint64             `json:"price,omitempty"`
	PlatformFee   uint64             `json:"platform_fee,omitempty"`
	Royalty       uint64             `json:"royalty,omitempty"`
	TransferredAt time.Time          `json:"transferred_at"`

	Ticket Ticket `gorm:"foreignKey:ticket_id" json:"-"`

	types.Timestamps
}
