package utils

import (
	"dtix/src/config"
	"dtix/src/types"
	"math"
)

// FeeOf computes a basis-point cut of the price with truncating
// division, guarding the multiplication against overflow.
func FeeOf(price uint64, bps uint16) (uint64, error) {
	if bps == 0 || price == 0 {
		return 0, nil
	}
	if price > math.MaxUint64/uint64(bps) {
		return 0, types.NewDomainError(types.ErrArithmetic, "fee computation overflow")
	}
	return price * uint64(bps) / config.BpsDenominator, nil
}

// SplitPrimary divides a primary sale into the platform's cut and the
// organizer's remainder.
func SplitPrimary(price uint64, platformFeeBps uint16) (platformFee uint64, organizerAmount uint64, err error) {
	platformFee, err = FeeOf(price, platformFeeBps)
	if err != nil {
		return 0, 0, err
	}
	return platformFee, price - platformFee, nil
}

// SplitResale divides a secondary sale between platform, royalty
// recipient, and seller. The sale is rejected outright if the combined
// cuts exceed the price.
func SplitResale(price uint64, platformFeeBps uint16, royaltyBps uint16) (platformFee uint64, royalty uint64, sellerAmount uint64, err error) {
	platformFee, err = FeeOf(price, platformFeeBps)
	if err != nil {
		return 0, 0, 0, err
	}
	royalty, err = FeeOf(price, royaltyBps)
	if err != nil {
		return 0, 0, 0, err
	}
	if platformFee+royalty > price {
		return 0, 0, 0, types.NewDomainError(types.ErrArithmetic, "fees exceed sale price")
	}
	return platformFee, royalty, price - platformFee - royalty, nil
}
