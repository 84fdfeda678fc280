package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
}

type JSONB map[string]any
type StringList []string

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a StringList) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *StringList) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Model struct {
	Timestamps

	ID uint `gorm:"id,primaryKey"`
}

type EventStatus string

const (
	EVENT_UPCOMING  EventStatus = "upcoming"
	EVENT_ON_SALE   EventStatus = "on_sale"
	EVENT_SOLD_OUT  EventStatus = "sold_out"
	EVENT_COMPLETED EventStatus = "completed"
	EVENT_CANCELLED EventStatus = "cancelled"
	EVENT_POSTPONED EventStatus = "postponed"
)

type VenueStatus string

const (
	VENUE_UNUSED      VenueStatus = "unused"
	VENUE_IN_USE      VenueStatus = "in_use"
	VENUE_MAINTENANCE VenueStatus = "maintenance"
	VENUE_INACTIVE    VenueStatus = "inactive"
	VENUE_TEMP_CLOSED VenueStatus = "temporarily_closed"
)

type VenueType string

const (
	VENUE_STADIUM       VenueType = "stadium"
	VENUE_THEATER       VenueType = "theater"
	VENUE_ARENA         VenueType = "arena"
	VENUE_CONVENTION    VenueType = "convention"
	VENUE_CLUB          VenueType = "club"
	VENUE_OUTDOOR_SPACE VenueType = "outdoor_space"
	VENUE_OTHER         VenueType = "other"
)

type SeatStatus uint8

const (
	SEAT_AVAILABLE   SeatStatus = 0
	SEAT_SOLD        SeatStatus = 1
	SEAT_TEMP_LOCKED SeatStatus = 2
	SEAT_UNAVAILABLE SeatStatus = 3
)

func (s SeatStatus) String() string {
	switch s {
	case SEAT_AVAILABLE:
		return "available"
	case SEAT_SOLD:
		return "sold"
	case SEAT_TEMP_LOCKED:
		return "temp_locked"
	case SEAT_UNAVAILABLE:
		return "unavailable"
	}
	return "unknown"
}

type TicketStatus string

const (
	TICKET_MINTED          TicketStatus = "minted"
	TICKET_SOLD            TicketStatus = "sold"
	TICKET_TRANSFERRED     TicketStatus = "transferred"
	TICKET_LISTED_FOR_SALE TicketStatus = "listed_for_sale"
	TICKET_FOR_RESALE      TicketStatus = "available_for_resale"
	TICKET_REFUNDED        TicketStatus = "refunded"
	TICKET_REDEEMED        TicketStatus = "redeemed"
	TICKET_BURNED          TicketStatus = "burned"
)

type ListingStatus string

const (
	LISTING_ACTIVE    ListingStatus = "active"
	LISTING_SOLD      ListingStatus = "sold"
	LISTING_CANCELLED ListingStatus = "cancelled"
	LISTING_EXPIRED   ListingStatus = "expired"
)

type TransferType string

const (
	TRANSFER_INITIAL TransferType = "initial_purchase"
	TRANSFER_RESALE  TransferType = "resale"
	TRANSFER_GIFT    TransferType = "gift"
	TRANSFER_REFUND  TransferType = "refund"
)

type PricingStrategy string

const (
	PRICING_FIXED   PricingStrategy = "fixed"
	PRICING_TIERED  PricingStrategy = "tiered"
	PRICING_DYNAMIC PricingStrategy = "dynamic"
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type AddressURIParams struct {
	Address string `uri:"address" binding:"required,len=64"`
}

type SetupPlatformRequestBody struct {
	PlatformFeeBps  *uint16    `json:"platform_fee_bps,omitempty" binding:"omitempty,max=1000"`
	FeeRecipient    *string    `json:"fee_recipient,omitempty"`
	SupportedTokens StringList `json:"supported_tokens,omitempty" binding:"omitempty,max=5"`
	IsActive        *bool      `json:"is_active,omitempty"`
}

type CreateVenueRequestBody struct {
	Name        string `json:"name" binding:"required,max=100"`
	Address     string `json:"address" binding:"required,max=500"`
	Capacity    uint32 `json:"capacity" binding:"required,gt=0"`
	VenueType   string `json:"venue_type" binding:"required,venuetype"`
	ContactInfo string `json:"contact_info,omitempty" binding:"omitempty,max=300"`
}

type UpdateVenueRequestBody struct {
	Address     *string `json:"address,omitempty" binding:"omitempty,max=500"`
	Capacity    *uint32 `json:"capacity,omitempty" binding:"omitempty,gt=0"`
	VenueType   *string `json:"venue_type,omitempty" binding:"omitempty,venuetype"`
	ContactInfo *string `json:"contact_info,omitempty" binding:"omitempty,max=300"`
	Status      *string `json:"status,omitempty" binding:"omitempty,venuestatus"`
}

type CreateEventRequestBody struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description,omitempty" binding:"omitempty,max=1000"`
	Venue       string `json:"venue" binding:"required,len=64"`
	StartDate   string `json:"start_date" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndDate     string `json:"end_date" binding:"required,gtdate=StartDate" time_format:"2006-01-02 15:04:05 -07:00"`
	SaleStart   string `json:"sale_start" binding:"required,ltdate=StartDate" time_format:"2006-01-02 15:04:05 -07:00"`
	SaleEnd     string `json:"sale_end" binding:"required,gtdate=SaleStart" time_format:"2006-01-02 15:04:05 -07:00"`
}

type UpdateEventRequestBody struct {
	Description *string `json:"description,omitempty" binding:"omitempty,max=1000"`
	StartDate   *string `json:"start_date,omitempty" time_format:"2006-01-02 15:04:05 -07:00"`
	EndDate     *string `json:"end_date,omitempty" time_format:"2006-01-02 15:04:05 -07:00"`
	SaleStart   *string `json:"sale_start,omitempty" time_format:"2006-01-02 15:04:05 -07:00"`
	SaleEnd     *string `json:"sale_end,omitempty" time_format:"2006-01-02 15:04:05 -07:00"`
}

type UpdateEventStatusRequestBody struct {
	Status string `json:"status" binding:"required,eventstatus"`
}

type UpdateEventVenueRequestBody struct {
	Venue string `json:"venue" binding:"required,len=64"`
}

type MintTicketsRequestBody struct {
	Quantity uint32 `json:"quantity" binding:"required,gt=0"`
}

type CreateTicketTypeRequestBody struct {
	Name             string `json:"name" binding:"required,max=50"`
	Description      string `json:"description,omitempty" binding:"omitempty,max=1000"`
	Price            uint64 `json:"price" binding:"required,min=1000000,max=1000000000000"`
	TotalSupply      uint32 `json:"total_supply" binding:"required,gt=0"`
	MaxResaleRoyalty uint16 `json:"max_resale_royalty,omitempty" binding:"omitempty,max=2500"`
	PricingStrategy  string `json:"pricing_strategy,omitempty" binding:"omitempty,pricingstrategy"`
}

type UpdateTicketTypeRequestBody struct {
	Description      *string `json:"description,omitempty" binding:"omitempty,max=1000"`
	Price            *uint64 `json:"price,omitempty" binding:"omitempty,min=1000000,max=1000000000000"`
	TotalSupply      *uint32 `json:"total_supply,omitempty" binding:"omitempty,gt=0"`
	MaxResaleRoyalty *uint16 `json:"max_resale_royalty,omitempty" binding:"omitempty,max=2500"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

type SetDynamicPriceRequestBody struct {
	Price uint64 `json:"price" binding:"required,min=1000000,max=1000000000000"`
}

type CreateSeatMapRequestBody struct {
	AreaID     string `json:"area_id" binding:"required,max=50"`
	TicketType string `json:"ticket_type" binding:"required,len=64"`
	LayoutHash string `json:"layout_hash" binding:"required,max=100"`
	IndexHash  string `json:"index_hash" binding:"required,max=100"`
	TotalSeats uint32 `json:"total_seats" binding:"required,gt=0,max=16000"`
}

type SeatInfo struct {
	SeatRow    string `json:"seat_row,omitempty" binding:"omitempty,max=20"`
	SeatNumber string `json:"seat_number" binding:"required,max=20"`
}

type SeatUpdate struct {
	SeatIndex uint32    `json:"seat_index"`
	Status    uint8     `json:"status" binding:"max=3"`
	Buyer     *string   `json:"buyer,omitempty"`
	SeatInfo  *SeatInfo `json:"seat_info,omitempty"`
}

type BatchSeatUpdateRequestBody struct {
	Updates []SeatUpdate `json:"updates" binding:"required,min=1,max=50,dive"`
}

type BatchSeatQueryRequestBody struct {
	Indexes []uint32 `json:"indexes" binding:"required,min=1,max=100"`
}

type PurchaseTicketRequestBody struct {
	TicketType string `json:"ticket_type" binding:"required,len=64"`
}

type TransferTicketRequestBody struct {
	Recipient string `json:"recipient" binding:"required,email"`
}

type ListTicketRequestBody struct {
	Ticket string `json:"ticket" binding:"required"`
	Price  uint64 `json:"price" binding:"required,gt=0"`
}

type WithdrawRequestBody struct {
	Amount uint64 `json:"amount" binding:"required,gt=0"`
}

type RegisterUserRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name,omitempty" binding:"omitempty,max=100"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TopUpRequestBody struct {
	Amount uint64 `json:"amount" binding:"required,gt=0"`
}

type SeatSoldEvent struct {
	Event          string    `json:"event"`
	EventName      string    `json:"event_name"`
	TicketType     string    `json:"ticket_type"`
	TicketTypeName string    `json:"ticket_type_name"`
	AreaID         string    `json:"area_id"`
	SeatIndex      uint32    `json:"seat_index"`
	SeatRow        string    `json:"seat_row,omitempty"`
	SeatNumber     string    `json:"seat_number"`
	Buyer          string    `json:"buyer"`
	TicketPrice    uint64    `json:"ticket_price"`
	PurchasedAt    time.Time `json:"purchased_at"`
	SeatMap        string    `json:"seat_map"`
}
