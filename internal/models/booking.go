package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

const MaxBookingNotesLength = 500

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// HoldsCapacity reports whether a booking in this status occupies seats on its slot.
func (s BookingStatus) HoldsCapacity() bool {
	return s == BookingPending || s == BookingConfirmed
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// QuoteTotal computes the frozen booking price from a slot's stored fees.
func QuoteTotal(pricePerPlayer, cartFee decimal.Decimal, players int, cartRequested bool) decimal.Decimal {
	n := decimal.NewFromInt(int64(players))
	total := pricePerPlayer.Mul(n)
	if cartRequested {
		total = total.Add(cartFee.Mul(n))
	}
	return total.Round(2)
}

type Booking struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TenantID      uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	TeeTimeSlotID uuid.UUID       `json:"tee_time_slot_id" db:"tee_time_slot_id"`
	UserID        *uuid.UUID      `json:"user_id" db:"user_id"`
	GuestName     *string         `json:"guest_name" db:"guest_name"`
	GuestEmail    *string         `json:"guest_email" db:"guest_email"`
	GuestPhone    *string         `json:"guest_phone" db:"guest_phone"`
	Players       int             `json:"players" db:"players"`
	CartRequested bool            `json:"cart_requested" db:"cart_requested"`
	TotalPrice    decimal.Decimal `json:"total_price" db:"total_price"`
	Status        BookingStatus   `json:"status" db:"status"`
	Notes         *string         `json:"notes" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	// Populated by listing queries that join the slot.
	TeeTimeDate  string `json:"tee_time_date,omitempty" db:"-"`
	TeeTimeStart string `json:"tee_time_start,omitempty" db:"-"`
}

// Booker identifies who is booking: an authenticated user or a guest.
type Booker struct {
	UserID     *uuid.UUID
	GuestName  string
	GuestEmail string
	GuestPhone string
}

type CreateBookingRequest struct {
	TeeTimeSlotID uuid.UUID `json:"tee_time_slot_id"`
	Players       int       `json:"players"`
	CartRequested bool      `json:"cart_requested"`
	GuestName     string    `json:"guest_name,omitempty"`
	GuestEmail    string    `json:"guest_email,omitempty"`
	GuestPhone    string    `json:"guest_phone,omitempty"`
	Notes         *string   `json:"notes,omitempty"`

	UserID *uuid.UUID `json:"-"`
}

func (r CreateBookingRequest) Booker() Booker {
	return Booker{
		UserID:     r.UserID,
		GuestName:  r.GuestName,
		GuestEmail: r.GuestEmail,
		GuestPhone: r.GuestPhone,
	}
}

type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status"`
}

// BookingFilter narrows the admin booking listing.
type BookingFilter struct {
	Date   *time.Time
	Status *BookingStatus
	Limit  int
	Offset int
}

// BookingStatusChange is returned by status updates so callers can publish events.
type BookingStatusChange struct {
	Booking        *Booking      `json:"booking"`
	PreviousStatus BookingStatus `json:"previous_status"`
	SeatsReleased  int           `json:"seats_released"`
}
