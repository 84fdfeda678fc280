package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// Fee caps and defaults, expressed in basis points of the sale price.
const (
	MaxPlatformFeeBps     uint16 = 1000
	DefaultPlatformFeeBps uint16 = 250
	MaxRoyaltyBps         uint16 = 2500
	BpsDenominator        uint64 = 10_000
)

// Ticket price bounds in native token units.
const (
	MinTicketPrice uint64 = 1_000_000
	MaxTicketPrice uint64 = 1_000_000_000_000
)

const (
	MaxTicketTypesPerEvent = 10
	MaxSupportedTokens     = 5

	// Seat status maps pack four seats per byte, capped at 4000 bytes.
	MaxSeatBitmapBytes = 4000
	MaxSeatsPerMap     = MaxSeatBitmapBytes * 4

	MaxTicketAreaMappings   = 50
	MaxTicketAreaMappingLen = 50

	MaxBatchSeatUpdates = 50
	MaxBatchSeatQueries = 100
)

// String length bounds shared by request validation and column sizing.
const (
	MaxVenueNameLen    = 100
	MaxVenueAddressLen = 500
	MaxDescriptionLen  = 1000
	MaxContactInfoLen  = 300
	MaxTicketTypeName  = 50
	MaxSeatNumberLen   = 20
	MaxHashLen         = 100
)

// DefaultListingDuration is how long a marketplace listing stays active
// before the expiry sweep closes it, in days.
const DefaultListingDuration = 30
