package utils

import (
	"dtix/src/models"
)

// ApplyPrimarySale rolls one sold seat through every counter that a
// primary sale touches. The caller persists the records inside its own
// transaction.
func ApplyPrimarySale(event *models.Event, ticketType *models.TicketType, earnings *models.Earnings, platform *models.Platform, price uint64) error {
	platformFee, organizerAmount, err := SplitPrimary(price, platform.PlatformFeeBps)
	if err != nil {
		return err
	}
	ticketType.SoldCount++
	event.TotalTicketsSold++
	event.TotalRevenue += price
	earnings.AccruePrimary(organizerAmount)
	platform.TotalTicketsSold++
	platform.TotalTransactions++
	platform.TotalPlatformRevenue += platformFee
	return nil
}

// ApplyRefund reverses a primary sale. Counter rollbacks saturate at
// zero rather than underflow.
func ApplyRefund(event *models.Event, ticketType *models.TicketType, earnings *models.Earnings, platform *models.Platform, price uint64) error {
	_, organizerAmount, err := SplitPrimary(price, platform.PlatformFeeBps)
	if err != nil {
		return err
	}
	if ticketType.SoldCount > 0 {
		ticketType.SoldCount--
	}
	ticketType.RefundedCount++
	if event.TotalTicketsSold > 0 {
		event.TotalTicketsSold--
	}
	event.TotalRefunded++
	if event.TotalRevenue >= price {
		event.TotalRevenue -= price
	} else {
		event.TotalRevenue = 0
	}
	earnings.ReversePrimary(organizerAmount)
	platform.TotalTransactions++
	return nil
}
