package models

import (
	"dtix/src/types"
	"time"
)

type Listing struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Address  string `gorm:"uniqueIndex;size:64" json:"address"`
	TicketID uint   `json:"ticket_id"`
	EventID  uint   `json:"event_id"`
	SellerID uint   `json:"seller_id"`

	Price uint64 `json:"price"`

	// Fee rates are snapshotted at listing time so a later platform or
	// event change cannot alter an in-flight sale.
	PlatformFeeBps uint16 `json:"platform_fee_bps"`
	RoyaltyBps     uint16 `json:"royalty_bps"`

	Status    types.ListingStatus `gorm:"default:'active'" json:"status"`
	ListedAt  time.Time           `json:"listed_at"`
	ExpiresAt time.Time           `json:"expires_at"`

	BuyerID   *uint      `json:"buyer_id,omitempty"`
	SoldAt    *time.Time `json:"sold_at,omitempty"`
	SoldPrice *uint64    `json:"sold_price,omitempty"`

	Ticket Ticket `gorm:"foreignKey:ticket_id" json:"-"`
	Event  Event  `gorm:"foreignKey:event_id" json:"-"`
	Seller User   `gorm:"foreignKey:seller_id" json:"-"`

	types.Timestamps
}

func (l *Listing) Purchasable(now time.Time, buyerID uint) error {
	if l.Status != types.LISTING_ACTIVE {
		return types.NewDomainError(types.ErrState, "listing is not active")
	}
	if now.After(l.ExpiresAt) {
		return types.NewDomainError(types.ErrState, "listing has expired")
	}
	if buyerID == l.SellerID {
		return types.NewDomainError(types.ErrState, "cannot buy own listing")
	}
	return nil
}
