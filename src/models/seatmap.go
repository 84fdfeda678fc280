package models

import (
	"dtix/src/config"
	"dtix/src/types"
	"math"
)

// SeatStatusMap tracks per-seat state for one seating area. Each seat
// occupies two bits of the bitmap, four seats to a byte.
type SeatStatusMap struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Address      string `gorm:"uniqueIndex;size:64" json:"address"`
	EventID      uint   `json:"event_id"`
	TicketTypeID uint   `json:"ticket_type_id"`
	AreaID       string `gorm:"size:50" json:"area_id"`

	LayoutHash string `gorm:"size:100" json:"layout_hash,omitempty"`
	IndexHash  string `gorm:"size:100" json:"index_hash,omitempty"`

	TotalSeats uint32 `json:"total_seats"`
	SoldSeats  uint32 `json:"sold_seats"`
	SeatBitmap []byte `gorm:"type:bytea" json:"-"`

	Event      Event      `gorm:"foreignKey:event_id" json:"-"`
	TicketType TicketType `gorm:"foreignKey:ticket_type_id" json:"-"`

	types.Timestamps
}

// InitializeBitmap sizes the bitmap for totalSeats and marks every
// seat available. Reinitializing a map with sold seats is refused by
// the handler, not here.
func (m *SeatStatusMap) InitializeBitmap(totalSeats uint32) error {
	if totalSeats == 0 {
		return types.NewDomainError(types.ErrValidation, "total seats must be positive")
	}
	if totalSeats > config.MaxSeatsPerMap {
		return types.NewDomainError(types.ErrValidation, "seat count exceeds bitmap capacity")
	}
	m.TotalSeats = totalSeats
	m.SoldSeats = 0
	m.SeatBitmap = make([]byte, (totalSeats+3)/4)
	return nil
}

func (m *SeatStatusMap) SeatStatusAt(index uint32) (types.SeatStatus, error) {
	if index >= m.TotalSeats {
		return 0, types.NewDomainError(types.ErrValidation, "seat index out of range")
	}
	byteIndex := index / 4
	if byteIndex >= uint32(len(m.SeatBitmap)) {
		return 0, types.NewDomainError(types.ErrState, "seat bitmap shorter than seat count")
	}
	bitOffset := (index % 4) * 2
	raw := (m.SeatBitmap[byteIndex] >> bitOffset) & 0b11
	return types.SeatStatus(raw), nil
}

// SetSeatStatus writes the two-bit status for a seat and keeps the
// sold counter in step, saturating on both edges. Returns the previous
// status.
func (m *SeatStatusMap) SetSeatStatus(index uint32, status types.SeatStatus) (types.SeatStatus, error) {
	if index >= m.TotalSeats {
		return 0, types.NewDomainError(types.ErrValidation, "seat index out of range")
	}
	if status > types.SEAT_UNAVAILABLE {
		return 0, types.NewDomainError(types.ErrValidation, "unknown seat status")
	}
	byteIndex := index / 4
	if byteIndex >= uint32(len(m.SeatBitmap)) {
		return 0, types.NewDomainError(types.ErrState, "seat bitmap shorter than seat count")
	}
	bitOffset := (index % 4) * 2
	prev := types.SeatStatus((m.SeatBitmap[byteIndex] >> bitOffset) & 0b11)

	cleared := m.SeatBitmap[byteIndex] &^ (0b11 << bitOffset)
	m.SeatBitmap[byteIndex] = cleared | (byte(status) << bitOffset)

	if prev != types.SEAT_SOLD && status == types.SEAT_SOLD {
		if m.SoldSeats < math.MaxUint32 {
			m.SoldSeats++
		}
	} else if prev == types.SEAT_SOLD && status != types.SEAT_SOLD {
		if m.SoldSeats > 0 {
			m.SoldSeats--
		}
	}
	return prev, nil
}
