package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gosimple/slug"
)

// Seed prefixes for derived record addresses. A record's address is a
// deterministic digest of its prefix plus its identifying parts, so
// the same inputs always land on the same row.
const (
	SeedPlatform      = "platform"
	SeedVenue         = "venue"
	SeedEvent         = "event"
	SeedTicketType    = "ticket_type"
	SeedSeatStatusMap = "seat_status_map"
	SeedEarnings      = "earnings"
	SeedListing       = "marketplace_listing"
	SeedTicket        = "ticket"
)

// DeriveAddress hashes the slugged seed parts into a stable 64-char
// hex identifier. Names feed the derivation, which is why they are
// immutable after creation.
func DeriveAddress(parts ...string) string {
	slugged := make([]string, 0, len(parts))
	for _, part := range parts {
		slugged = append(slugged, slug.Make(part))
	}
	sum := sha256.Sum256([]byte(strings.Join(slugged, ":")))
	return hex.EncodeToString(sum[:])
}
