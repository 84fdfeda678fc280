package models

import (
	"dtix/src/config"
	"dtix/src/types"
	"time"
)

type TicketType struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Address     string `gorm:"uniqueIndex;size:64" json:"address"`
	EventID     uint   `json:"event_id"`
	Name        string `gorm:"size:50" json:"name"`
	Description string `gorm:"size:1000" json:"description,omitempty"`

	Price            uint64                `json:"price"`
	CurrentPrice     uint64                `json:"current_price"`
	LastPriceUpdate  *time.Time            `json:"last_price_update,omitempty"`
	TotalSupply      uint32                `json:"total_supply"`
	SoldCount        uint32                `json:"sold_count"`
	RefundedCount    uint32                `json:"refunded_count"`
	MaxResaleRoyalty uint16                `json:"max_resale_royalty"`
	PricingStrategy  types.PricingStrategy `gorm:"default:'fixed'" json:"pricing_strategy"`
	IsActive         bool                  `gorm:"default:true" json:"is_active"`

	Event   Event    `gorm:"foreignKey:event_id" json:"-"`
	Tickets []Ticket `gorm:"foreignKey:ticket_type_id" json:"tickets,omitempty"`

	types.Timestamps
}

// EffectivePrice is what a buyer pays right now. Dynamic repricing only
// ever moves CurrentPrice; Price keeps the value the type was created
// with.
func (t *TicketType) EffectivePrice() uint64 {
	if t.CurrentPrice > 0 {
		return t.CurrentPrice
	}
	return t.Price
}

// SetPrice rebases the list price. Locked once any ticket is sold.
func (t *TicketType) SetPrice(price uint64) error {
	if t.SoldCount > 0 {
		return types.NewDomainError(types.ErrState, "price is locked after the first sale")
	}
	if err := ValidateTicketPrice(price); err != nil {
		return err
	}
	t.Price = price
	t.CurrentPrice = price
	return nil
}

// SetDynamicPrice adjusts the live price on behalf of a pricing policy.
// Unlike SetPrice it works mid-sale, bounded only by the platform price
// range.
func (t *TicketType) SetDynamicPrice(price uint64, now time.Time) error {
	if err := ValidateTicketPrice(price); err != nil {
		return err
	}
	t.CurrentPrice = price
	t.LastPriceUpdate = &now
	return nil
}

func (t *TicketType) Remaining() uint32 {
	if t.SoldCount >= t.TotalSupply {
		return 0
	}
	return t.TotalSupply - t.SoldCount
}

// CheckSupply rejects a sale once every ticket of the type is sold.
func (t *TicketType) CheckSupply() error {
	if !t.IsActive {
		return types.NewDomainError(types.ErrState, "ticket type is inactive")
	}
	if t.SoldCount >= t.TotalSupply {
		return types.NewDomainError(types.ErrState, "ticket type is sold out")
	}
	return nil
}

func ValidateTicketPrice(price uint64) error {
	if price < config.MinTicketPrice || price > config.MaxTicketPrice {
		return types.NewDomainError(types.ErrValidation, "ticket price out of range")
	}
	return nil
}
