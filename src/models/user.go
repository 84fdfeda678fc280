package models

import (
	"dtix/src/types"
)

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `json:"name,omitempty"`
	Email        string `gorm:"uniqueIndex" json:"email,omitempty"`
	Role         string `gorm:"default:'user'" json:"role,omitempty"`
	PasswordHash string `json:"-"`

	// Balance is the spendable amount in native token units. Purchases
	// debit it, refunds and resale proceeds credit it.
	Balance uint64 `json:"balance"`

	Tickets  []Ticket  `gorm:"foreignKey:owner_id" json:"tickets,omitempty"`
	Listings []Listing `gorm:"foreignKey:seller_id" json:"listings,omitempty"`

	types.Timestamps
}

func (u *User) Debit(amount uint64) error {
	if u.Balance < amount {
		return types.NewDomainError(types.ErrState, "insufficient balance")
	}
	u.Balance -= amount
	return nil
}

func (u *User) Credit(amount uint64) {
	u.Balance += amount
}
