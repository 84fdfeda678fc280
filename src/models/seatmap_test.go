package models

import (
	"dtix/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitializeBitmap(t *testing.T) {
	t.Run("Should size the bitmap at four seats per byte", func(t *testing.T) {
		var m SeatStatusMap
		err := m.InitializeBitmap(10)
		assert.Nil(t, err)
		assert.Equal(t, uint32(10), m.TotalSeats)
		assert.Equal(t, uint32(0), m.SoldSeats)
		assert.Len(t, m.SeatBitmap, 3)
	})

	t.Run("Should accept the maximum seat count", func(t *testing.T) {
		var m SeatStatusMap
		err := m.InitializeBitmap(16000)
		assert.Nil(t, err)
		assert.Len(t, m.SeatBitmap, 4000)
	})

	t.Run("Should refuse a seat count above capacity", func(t *testing.T) {
		var m SeatStatusMap
		err := m.InitializeBitmap(16001)
		assert.NotNil(t, err)
	})

	t.Run("Should refuse zero seats", func(t *testing.T) {
		var m SeatStatusMap
		err := m.InitializeBitmap(0)
		assert.NotNil(t, err)
	})

	t.Run("Should start with every seat available", func(t *testing.T) {
		var m SeatStatusMap
		assert.Nil(t, m.InitializeBitmap(16))
		for i := uint32(0); i < 16; i++ {
			status, err := m.SeatStatusAt(i)
			assert.Nil(t, err)
			assert.Equal(t, types.SEAT_AVAILABLE, status)
		}
	})
}

func TestSetSeatStatus(t *testing.T) {
	t.Run("Should read back every status it writes", func(t *testing.T) {
		var m SeatStatusMap
		assert.Nil(t, m.InitializeBitmap(8))
		statuses := []types.SeatStatus{
			types.SEAT_SOLD,
			types.SEAT_TEMP_LOCKED,
			types.SEAT_UNAVAILABLE,
			types.SEAT_AVAILABLE,
		}
		for i, want := range statuses {
			_, err := m.SetSeatStatus(uint32(i), want)
			assert.Nil(t, err)
			got, err := m.SeatStatusAt(uint32(i))
			assert.Nil(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Should not disturb neighbouring seats in the same byte", func(t *testing.T) {
		var m SeatStatusMap
		assert.Nil(t, m.InitializeBitmap(4))
		_, err := m.SetSeatStatus(1, types.SEAT_UNAVAILABLE)
		assert.Nil(t, err)
		_, err = m.SetSeatStatus(2, types.SEAT_SOLD)
		assert.Nil(t, err)
		for i, want := range []types.SeatStatus{
			types.SEAT_AVAILABLE,
			types.SEAT_UNAVAILABLE,
			types.SEAT_SOLD,
			types.SEAT_AVAILABLE,
		} {
			got, err := m.SeatStatusAt(uint32(i))
			assert.Nil(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Should return the previous status", func(t *testing.T) {
		var m SeatStatusMap
		assert.Nil(t, m.InitializeBitmap(4))
		prev, err := m.SetSeatStatus(0, types.SEAT_TEMP_LOCKED)
		assert.Nil(t, err)
		assert.Equal(t, types.SEAT_AVAILABLE, prev)
		prev, err = m.SetSeatStatus(0, types.SEAT_SOLD)
		assert.Nil(t, err)
		assert.Equal(t, types.SEAT_TEMP_LOCKED, prev)
	})

	t.Run("Should count sold seats across transitions", func(t *testing.T) {
		var m SeatStatusMap
		assert.Nil(t, m.InitializeBitmap(8))

		m.SetSeatStatus(0, types.SEAT_SOLD)
		m.SetSeatStatus(1, types.SEAT_SOLD)
		assert.Equal(t, uint32(2), m.SoldSeats)

		// sold to sold is not a sale
		m.SetSeatStatus(0, types.SEAT_SOLD)
		assert.Equal(t, uint32(2), m.SoldSeats)

		// locking a sold seat releases it
		m.SetSeatStatus(1, types.SEAT_TEMP_LOCKED)
		assert.Equal(t, uint32(1), m.SoldSeats)

		m.SetSeatStatus(0, types.SEAT_AVAILABLE)
		assert.Equal(t, uint32(0), m.SoldSeats)

		// releasing an already-available seat saturates at zero
		m.SetSeatStatus(2, types.SEAT_AVAILABLE)
		assert.Equal(t, uint32(0), m.SoldSeats)
	})

	t.Run("Should reject an out-of-range index", func(t *testing.T) {
		var m SeatStatusMap
		assert.Nil(t, m.InitializeBitmap(4))
		_, err := m.SetSeatStatus(4, types.SEAT_SOLD)
		assert.NotNil(t, err)
		_, err = m.SeatStatusAt(4)
		assert.NotNil(t, err)
	})

	t.Run("Should fail closed on a bitmap shorter than the seat count", func(t *testing.T) {
		// A corrupt row must surface as an error, never a panic.
		m := SeatStatusMap{TotalSeats: 8, SeatBitmap: make([]byte, 1)}
		assert.NotPanics(t, func() {
			_, err := m.SeatStatusAt(4)
			assert.NotNil(t, err)
			_, err = m.SetSeatStatus(4, types.SEAT_SOLD)
			assert.NotNil(t, err)
		})
		// indexes inside the allocated bytes still decode
		status, err := m.SeatStatusAt(3)
		assert.Nil(t, err)
		assert.Equal(t, types.SEAT_AVAILABLE, status)
	})
}
