package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const MaxPlayersPerSlot = 4

type TeeTimeSlot struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	TenantID       uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Date           time.Time       `json:"date" db:"date"`
	StartTime      string          `json:"start_time" db:"start_time"` // HH:MM
	MaxPlayers     int             `json:"max_players" db:"max_players"`
	BookedPlayers  int             `json:"booked_players" db:"booked_players"`
	PricePerPlayer decimal.Decimal `json:"price_per_player" db:"price_per_player"`
	CartFee        decimal.Decimal `json:"cart_fee" db:"cart_fee"`
	WalkingAllowed bool            `json:"walking_allowed" db:"walking_allowed"`
	IsAvailable    bool            `json:"is_available" db:"is_available"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// SpotsRemaining is derived from the stored counts and never persisted.
func (s TeeTimeSlot) SpotsRemaining() int {
	remaining := s.MaxPlayers - s.BookedPlayers
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s TeeTimeSlot) IsFull() bool {
	return s.SpotsRemaining() == 0
}

// Bookable reports whether the slot can take at least one more player.
func (s TeeTimeSlot) Bookable() bool {
	return s.IsAvailable && !s.IsFull()
}

func (s TeeTimeSlot) View() SlotView {
	return SlotView{
		ID:             s.ID,
		Date:           s.Date.Format("2006-01-02"),
		StartTime:      s.StartTime,
		PricePerPlayer: s.PricePerPlayer,
		CartFee:        s.CartFee,
		MaxPlayers:     s.MaxPlayers,
		SpotsRemaining: s.SpotsRemaining(),
		WalkingAllowed: s.WalkingAllowed,
	}
}

// SlotKey identifies a slot within a tenant.
type SlotKey struct {
	Date      time.Time
	StartTime string
}

// SlotUpsert is one row written by bulk generation.
type SlotUpsert struct {
	SlotKey
	MaxPlayers     int
	PricePerPlayer decimal.Decimal
	CartFee        decimal.Decimal
	WalkingAllowed bool
}

// SlotView is the public projection of a bookable slot.
type SlotView struct {
	ID             uuid.UUID       `json:"id"`
	Date           string          `json:"date"`
	StartTime      string          `json:"start_time"`
	PricePerPlayer decimal.Decimal `json:"price_per_player"`
	CartFee        decimal.Decimal `json:"cart_fee"`
	MaxPlayers     int             `json:"max_players"`
	SpotsRemaining int             `json:"spots_remaining"`
	WalkingAllowed bool            `json:"walking_allowed"`
}

type Availability struct {
	Date        string     `json:"date"`
	Closed      bool       `json:"closed"`
	CloseReason *string    `json:"close_reason,omitempty"`
	Slots       []SlotView `json:"slots"`
}

// SlotRangeFilter selects slots for the admin listing.
type SlotRangeFilter struct {
	From time.Time
	To   time.Time
}

type UpdateSlotRequest struct {
	MaxPlayers     *int             `json:"max_players,omitempty"`
	PricePerPlayer *decimal.Decimal `json:"price_per_player,omitempty"`
	CartFee        *decimal.Decimal `json:"cart_fee,omitempty"`
	WalkingAllowed *bool            `json:"walking_allowed,omitempty"`
	IsAvailable    *bool            `json:"is_available,omitempty"`
}

type CreateSlotRequest struct {
	Date           string          `json:"date"`
	StartTime      string          `json:"start_time"`
	MaxPlayers     int             `json:"max_players"`
	PricePerPlayer decimal.Decimal `json:"price_per_player"`
	CartFee        decimal.Decimal `json:"cart_fee"`
	WalkingAllowed bool            `json:"walking_allowed"`
}
