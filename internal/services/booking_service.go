package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"fairway/internal/common"
	"fairway/internal/events"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("fairway/internal/services")

const defaultBookingTxTimeout = 3 * time.Second

type BookingService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error)
	// UpdateStatus applies an administrative status change. Moving to cancelled
	// releases the booking's seats in the same transaction. Repeating the current
	// status is a no-op.
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.BookingStatus) (*models.BookingStatusChange, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*models.BookingStatusChange, error)
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Booking, error)
	ListForAdmin(ctx context.Context, tenantID uuid.UUID, filter models.BookingFilter) ([]*models.Booking, error)
	CompletePast(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error)
}

type bookingService struct {
	tx        repositories.Transactor
	slots     repositories.TeeTimeSlotRepository
	bookings  repositories.BookingRepository
	publisher events.Publisher
	txTimeout time.Duration
}

func NewBookingService(
	tx repositories.Transactor,
	slots repositories.TeeTimeSlotRepository,
	bookings repositories.BookingRepository,
	publisher events.Publisher,
	txTimeout time.Duration,
) BookingService {
	if txTimeout <= 0 {
		txTimeout = defaultBookingTxTimeout
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &bookingService{tx: tx, slots: slots, bookings: bookings, publisher: publisher, txTimeout: txTimeout}
}

func validateBooker(b models.Booker) (name, email, phone *string, err error) {
	if b.UserID != nil {
		return nil, nil, nil, nil
	}

	guestName := strings.TrimSpace(b.GuestName)
	guestEmail := strings.TrimSpace(b.GuestEmail)
	guestPhone := strings.TrimSpace(b.GuestPhone)
	if guestName == "" || guestEmail == "" || guestPhone == "" {
		return nil, nil, nil, common.InvalidInput("guest bookings require guest_name, guest_email and guest_phone")
	}
	if len(guestName) > 255 {
		return nil, nil, nil, common.InvalidInput("guest_name cannot exceed 255 characters")
	}
	if addr, parseErr := mail.ParseAddress(guestEmail); parseErr != nil || addr.Address != guestEmail {
		return nil, nil, nil, common.InvalidInput("guest_email is not a valid email address")
	}
	if len(guestPhone) > 32 {
		return nil, nil, nil, common.InvalidInput("guest_phone cannot exceed 32 characters")
	}
	return &guestName, &guestEmail, &guestPhone, nil
}

// Create books players onto a slot. The capacity check and the increment are a
// single guarded UPDATE, so concurrent requests for the same slot can never
// overbook it; the losers get ErrCapacityExceeded and write nothing.
func (s *bookingService) Create(ctx context.Context, tenantID uuid.UUID, req *models.CreateBookingRequest) (booking *models.Booking, err error) {
	ctx, span := tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.String("tenant.id", tenantID.String()),
		attribute.String("tee_time.id", req.TeeTimeSlotID.String()),
		attribute.Int("booking.players", req.Players),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	slot, err := s.slots.GetByID(ctx, tenantID, req.TeeTimeSlotID)
	if err != nil {
		return nil, err
	}
	if !slot.IsAvailable {
		return nil, common.NotFound("tee time")
	}
	if req.Players < 1 || req.Players > slot.MaxPlayers || req.Players > models.MaxPlayersPerSlot {
		return nil, common.InvalidInput("players must be between 1 and %d for this tee time", slot.MaxPlayers)
	}
	guestName, guestEmail, guestPhone, err := validateBooker(req.Booker())
	if err != nil {
		return nil, err
	}
	if err := common.ValidateOptionalString(req.Notes, "notes", models.MaxBookingNotesLength); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err = s.tx.WithinTx(txCtx, func(ctx context.Context, repos repositories.TxRepositories) error {
		reserved, ok, err := repos.Slots.ReserveSeats(ctx, tenantID, req.TeeTimeSlotID, req.Players)
		if err != nil {
			return err
		}
		if !ok {
			current, err := repos.Slots.GetByID(ctx, tenantID, req.TeeTimeSlotID)
			if err != nil {
				return err
			}
			if !current.IsAvailable {
				return common.NotFound("tee time")
			}
			return common.CapacityExceeded(current.SpotsRemaining(), req.Players)
		}

		booking = &models.Booking{
			ID:            uuid.New(),
			TenantID:      tenantID,
			TeeTimeSlotID: reserved.ID,
			UserID:        req.UserID,
			GuestName:     guestName,
			GuestEmail:    guestEmail,
			GuestPhone:    guestPhone,
			Players:       req.Players,
			CartRequested: req.CartRequested,
			TotalPrice:    models.QuoteTotal(reserved.PricePerPlayer, reserved.CartFee, req.Players, req.CartRequested),
			Status:        models.BookingConfirmed,
			Notes:         req.Notes,
		}
		return repos.Bookings.Create(ctx, booking)
	})
	if err != nil {
		booking = nil
		err = asRetryable(err)
		if errors.Is(err, common.ErrRetryable) {
			log.Ctx(ctx).Warn().Err(err).Str("tee_time_id", req.TeeTimeSlotID.String()).Msg("booking transaction contended")
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("booking.id", booking.ID.String()))
	log.Ctx(ctx).Info().
		Str("tenant_id", tenantID.String()).
		Str("booking_id", booking.ID.String()).
		Str("tee_time_id", booking.TeeTimeSlotID.String()).
		Int("players", booking.Players).
		Str("total_price", booking.TotalPrice.StringFixed(2)).
		Msg("booking confirmed")

	events.PublishBestEffort(ctx, s.publisher, events.BookingCreated, events.NewBookingEvent(booking))
	return booking, nil
}

// asRetryable turns a blown transaction deadline into ErrRetryable.
func asRetryable(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, common.ErrRetryable) {
		return common.Retryable(err)
	}
	return err
}

func (s *bookingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, tenantID, id)
}

func (s *bookingService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.BookingStatus) (change *models.BookingStatusChange, err error) {
	ctx, span := tracer.Start(ctx, "booking.update_status", trace.WithAttributes(
		attribute.String("tenant.id", tenantID.String()),
		attribute.String("booking.id", id.String()),
		attribute.String("booking.status", string(status)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !status.Valid() {
		return nil, common.InvalidInput("status must be one of pending, confirmed, cancelled or completed")
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	err = s.tx.WithinTx(txCtx, func(ctx context.Context, repos repositories.TxRepositories) error {
		booking, err := repos.Bookings.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		change = &models.BookingStatusChange{Booking: booking, PreviousStatus: booking.Status}
		if booking.Status == status {
			return nil
		}
		if !models.CanTransition(booking.Status, status) {
			return common.InvalidInput("cannot change a %s booking to %s", booking.Status, status)
		}

		if status == models.BookingCancelled && booking.Status.HoldsCapacity() {
			if err := repos.Slots.ReleaseSeats(ctx, tenantID, booking.TeeTimeSlotID, booking.Players); err != nil {
				return err
			}
			change.SeatsReleased = booking.Players
		}

		updatedAt, err := repos.Bookings.UpdateStatus(ctx, tenantID, id, status)
		if err != nil {
			return err
		}
		booking.Status = status
		booking.UpdatedAt = updatedAt
		return nil
	})
	if err != nil {
		return nil, asRetryable(err)
	}

	if change.PreviousStatus != change.Booking.Status {
		log.Ctx(ctx).Info().
			Str("tenant_id", tenantID.String()).
			Str("booking_id", id.String()).
			Str("from", string(change.PreviousStatus)).
			Str("to", string(change.Booking.Status)).
			Int("seats_released", change.SeatsReleased).
			Msg("booking status changed")

		event := events.NewBookingEvent(change.Booking)
		event.PreviousStatus = change.PreviousStatus
		event.SeatsReleased = change.SeatsReleased
		events.PublishBestEffort(ctx, s.publisher, events.BookingStatusChanged, event)
	}
	return change, nil
}

func (s *bookingService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*models.BookingStatusChange, error) {
	return s.UpdateStatus(ctx, tenantID, id, models.BookingCancelled)
}

func (s *bookingService) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Booking, error) {
	return s.bookings.ListForUser(ctx, tenantID, userID)
}

func (s *bookingService) ListForAdmin(ctx context.Context, tenantID uuid.UUID, filter models.BookingFilter) ([]*models.Booking, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, common.InvalidInput("unknown booking status %q", *filter.Status)
	}
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	return s.bookings.ListForAdmin(ctx, tenantID, filter)
}

func (s *bookingService) CompletePast(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error) {
	return s.bookings.CompletePast(ctx, tenantID, common.DateOnly(cutoff))
}
