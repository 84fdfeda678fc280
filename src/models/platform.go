package models

import (
	"dtix/src/config"
	"dtix/src/types"
)

type Platform struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	Address         string           `gorm:"uniqueIndex;size:64" json:"address"`
	Authority       string           `json:"authority,omitempty"`
	FeeRecipient    string           `json:"fee_recipient,omitempty"`
	PlatformFeeBps  uint16           `gorm:"default:250" json:"platform_fee_bps"`
	IsActive        bool             `gorm:"default:true" json:"is_active"`
	SupportedTokens types.StringList `gorm:"type:jsonb" json:"supported_tokens,omitempty"`

	TotalEvents          uint64 `json:"total_events"`
	TotalTicketsSold     uint64 `json:"total_tickets_sold"`
	TotalTransactions    uint64 `json:"total_transactions"`
	TotalPlatformRevenue uint64 `json:"total_platform_revenue"`

	types.Timestamps
}

// Apply folds a tri-state settings update into the record. Nil fields
// keep their current value.
func (p *Platform) Apply(body *types.SetupPlatformRequestBody) error {
	if body.PlatformFeeBps != nil {
		if *body.PlatformFeeBps > config.MaxPlatformFeeBps {
			return types.NewDomainError(types.ErrValidation, "platform fee exceeds maximum")
		}
		p.PlatformFeeBps = *body.PlatformFeeBps
	}
	if body.FeeRecipient != nil {
		p.FeeRecipient = *body.FeeRecipient
	}
	if body.SupportedTokens != nil {
		if len(body.SupportedTokens) > config.MaxSupportedTokens {
			return types.NewDomainError(types.ErrValidation, "too many supported tokens")
		}
		p.SupportedTokens = body.SupportedTokens
	}
	if body.IsActive != nil {
		p.IsActive = *body.IsActive
	}
	return nil
}
