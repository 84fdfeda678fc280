package models

import (
	"dtix/src/types"
	"time"
)

// Earnings is the per-event organizer ledger. Pending amounts move to
// withdrawn on payout; totals only ever grow.
type Earnings struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Address   string `gorm:"uniqueIndex;size:64" json:"address"`
	EventID   uint   `json:"event_id"`
	Organizer string `json:"organizer"`

	TotalEarnings   uint64 `json:"total_earnings"`
	PendingAmount   uint64 `json:"pending_amount"`
	WithdrawnAmount uint64 `json:"withdrawn_amount"`
	RoyaltyEarnings uint64 `json:"royalty_earnings"`

	WithdrawalCount uint32     `json:"withdrawal_count"`
	LastWithdrawal  *time.Time `json:"last_withdrawal,omitempty"`

	Event Event `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}

func (e *Earnings) AccruePrimary(amount uint64) {
	e.TotalEarnings += amount
	e.PendingAmount += amount
}

func (e *Earnings) AccrueRoyalty(amount uint64) {
	e.RoyaltyEarnings += amount
	e.TotalEarnings += amount
	e.PendingAmount += amount
}

// ReversePrimary claws back a refunded sale, saturating at zero so a
// ledger that already paid out cannot underflow.
func (e *Earnings) ReversePrimary(amount uint64) {
	if e.TotalEarnings >= amount {
		e.TotalEarnings -= amount
	} else {
		e.TotalEarnings = 0
	}
	if e.PendingAmount >= amount {
		e.PendingAmount -= amount
	} else {
		e.PendingAmount = 0
	}
}

func (e *Earnings) Withdraw(amount uint64, now time.Time) error {
	if amount == 0 {
		return types.NewDomainError(types.ErrValidation, "withdrawal amount must be positive")
	}
	if amount > e.PendingAmount {
		return types.NewDomainError(types.ErrState, "withdrawal exceeds pending amount")
	}
	e.PendingAmount -= amount
	e.WithdrawnAmount += amount
	e.WithdrawalCount++
	e.LastWithdrawal = &now
	return nil
}
