package events

import (
	"context"
	"time"

	"fairway/internal/models"
	"fairway/pkg/mq"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Routing keys on the bookings exchange.
const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
)

type BookingEvent struct {
	TenantID       uuid.UUID            `json:"tenant_id"`
	BookingID      uuid.UUID            `json:"booking_id"`
	TeeTimeSlotID  uuid.UUID            `json:"tee_time_slot_id"`
	UserID         *uuid.UUID           `json:"user_id,omitempty"`
	Players        int                  `json:"players"`
	TotalPrice     decimal.Decimal      `json:"total_price"`
	Status         models.BookingStatus `json:"status"`
	PreviousStatus models.BookingStatus `json:"previous_status,omitempty"`
	SeatsReleased  int                  `json:"seats_released,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

func NewBookingEvent(b *models.Booking) BookingEvent {
	return BookingEvent{
		TenantID:      b.TenantID,
		BookingID:     b.ID,
		TeeTimeSlotID: b.TeeTimeSlotID,
		UserID:        b.UserID,
		Players:       b.Players,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		OccurredAt:    time.Now().UTC(),
	}
}

// Publisher delivers domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

type amqpPublisher struct {
	mq *mq.Publisher
}

func NewAMQPPublisher(url, exchange string) (Publisher, error) {
	p, err := mq.NewPublisher(url, exchange)
	if err != nil {
		return nil, err
	}
	return &amqpPublisher{mq: p}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	return p.mq.PublishJSON(ctx, routingKey, event)
}

func (p *amqpPublisher) Close() error {
	return p.mq.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	log.Ctx(ctx).Debug().Str("routing_key", routingKey).Msg("event broker disabled, dropping event")
	return nil
}

func (noopPublisher) Close() error { return nil }

// PublishBestEffort logs publish failures instead of returning them. Bookings are
// already committed when events go out.
func PublishBestEffort(ctx context.Context, p Publisher, routingKey string, event any) {
	if p == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.Publish(pubCtx, routingKey, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish event")
	}
}
