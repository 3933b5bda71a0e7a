package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fairway/internal/common"
	"fairway/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TeeTimeSlotRepository interface {
	UpsertMany(ctx context.Context, tenantID uuid.UUID, slots []models.SlotUpsert) (int, error)
	Create(ctx context.Context, slot *models.TeeTimeSlot) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.TeeTimeSlot, error)
	ListBookableByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.TeeTimeSlot, error)
	ListRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.TeeTimeSlot, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req *models.UpdateSlotRequest) (*models.TeeTimeSlot, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// ReserveSeats atomically adds players to booked_players when capacity allows.
	// ok is false when the slot is missing, unavailable or too full.
	ReserveSeats(ctx context.Context, tenantID, id uuid.UUID, players int) (slot *models.TeeTimeSlot, ok bool, err error)
	ReleaseSeats(ctx context.Context, tenantID, id uuid.UUID, players int) error
}

type teeTimeSlotRepo struct {
	db DBTX
}

func NewTeeTimeSlotRepo(db DBTX) TeeTimeSlotRepository {
	return &teeTimeSlotRepo{db: db}
}

const slotColumns = `id, tenant_id, date, to_char(start_time, 'HH24:MI'), max_players, booked_players,
		price_per_player, cart_fee, walking_allowed, is_available, created_at, updated_at`

func scanSlot(row scanner) (*models.TeeTimeSlot, error) {
	slot := &models.TeeTimeSlot{}
	err := row.Scan(&slot.ID, &slot.TenantID, &slot.Date, &slot.StartTime, &slot.MaxPlayers, &slot.BookedPlayers,
		&slot.PricePerPlayer, &slot.CartFee, &slot.WalkingAllowed, &slot.IsAvailable, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func collectSlots(rows pgx.Rows) ([]*models.TeeTimeSlot, error) {
	defer rows.Close()

	slots := []*models.TeeTimeSlot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// UpsertMany writes all slots in one statement keyed on (tenant_id, date, start_time).
// booked_players is never written, and rows already holding more players than the
// new max_players are left untouched and not counted.
func (r *teeTimeSlotRepo) UpsertMany(ctx context.Context, tenantID uuid.UUID, slots []models.SlotUpsert) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	dates := make([]time.Time, len(slots))
	times := make([]string, len(slots))
	maxPlayers := make([]int32, len(slots))
	prices := make([]string, len(slots))
	cartFees := make([]string, len(slots))
	walking := make([]bool, len(slots))
	for i, s := range slots {
		dates[i] = s.Date
		times[i] = s.StartTime
		maxPlayers[i] = int32(s.MaxPlayers)
		prices[i] = s.PricePerPlayer.StringFixed(2)
		cartFees[i] = s.CartFee.StringFixed(2)
		walking[i] = s.WalkingAllowed
	}

	query := `
		INSERT INTO tee_time_slots (tenant_id, date, start_time, max_players, price_per_player, cart_fee, walking_allowed, is_available, created_at, updated_at)
		SELECT $1, s.date, s.start_time, s.max_players, s.price_per_player, s.cart_fee, s.walking_allowed, TRUE, NOW(), NOW()
		FROM unnest($2::date[], $3::text[]::time[], $4::int[], $5::text[]::numeric[], $6::text[]::numeric[], $7::boolean[])
			AS s(date, start_time, max_players, price_per_player, cart_fee, walking_allowed)
		ON CONFLICT (tenant_id, date, start_time) DO UPDATE
		SET max_players = EXCLUDED.max_players,
			price_per_player = EXCLUDED.price_per_player,
			cart_fee = EXCLUDED.cart_fee,
			walking_allowed = EXCLUDED.walking_allowed,
			is_available = TRUE,
			updated_at = NOW()
		WHERE tee_time_slots.booked_players <= EXCLUDED.max_players
	`
	tag, err := r.db.Exec(ctx, query, tenantID, dates, times, maxPlayers, prices, cartFees, walking)
	if err != nil {
		return 0, MapError(fmt.Errorf("upsert tee time slots: %w", err))
	}
	return int(tag.RowsAffected()), nil
}

func (r *teeTimeSlotRepo) Create(ctx context.Context, slot *models.TeeTimeSlot) error {
	query := `
		INSERT INTO tee_time_slots (id, tenant_id, date, start_time, max_players, booked_players, price_per_player, cart_fee, walking_allowed, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4::time, $5, 0, $6::numeric, $7::numeric, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, slot.ID, slot.TenantID, slot.Date, slot.StartTime, slot.MaxPlayers,
		slot.PricePerPlayer.StringFixed(2), slot.CartFee.StringFixed(2), slot.WalkingAllowed, slot.IsAvailable).
		Scan(&slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, common.ErrConflict) {
			return common.Conflict("a tee time already exists at this date and time")
		}
		return mapped
	}
	slot.BookedPlayers = 0
	return nil
}

func (r *teeTimeSlotRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.TeeTimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM tee_time_slots
		WHERE tenant_id = $1 AND id = $2
	`
	slot, err := scanSlot(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFoundOr(err, "tee time")
	}
	return slot, nil
}

func (r *teeTimeSlotRepo) ListBookableByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.TeeTimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM tee_time_slots
		WHERE tenant_id = $1 AND date = $2 AND is_available = TRUE AND booked_players < max_players
		ORDER BY start_time ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, date)
	if err != nil {
		return nil, MapError(err)
	}
	return collectSlots(rows)
}

func (r *teeTimeSlotRepo) ListRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.TeeTimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM tee_time_slots
		WHERE tenant_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC, start_time ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, MapError(err)
	}
	return collectSlots(rows)
}

// Update changes the administrative fields of a slot. max_players may never drop
// below the seats already booked.
func (r *teeTimeSlotRepo) Update(ctx context.Context, tenantID, id uuid.UUID, req *models.UpdateSlotRequest) (*models.TeeTimeSlot, error) {
	var price, cartFee *string
	if req.PricePerPlayer != nil {
		s := req.PricePerPlayer.StringFixed(2)
		price = &s
	}
	if req.CartFee != nil {
		s := req.CartFee.StringFixed(2)
		cartFee = &s
	}

	query := `
		UPDATE tee_time_slots
		SET max_players = COALESCE($3, max_players),
			price_per_player = COALESCE($4::numeric, price_per_player),
			cart_fee = COALESCE($5::numeric, cart_fee),
			walking_allowed = COALESCE($6, walking_allowed),
			is_available = COALESCE($7, is_available),
			updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND COALESCE($3, max_players) >= booked_players
		RETURNING ` + slotColumns
	slot, err := scanSlot(r.db.QueryRow(ctx, query, tenantID, id, req.MaxPlayers, price, cartFee, req.WalkingAllowed, req.IsAvailable))
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, MapError(fmt.Errorf("update tee time: %w", err))
	}

	// Distinguish a missing slot from one whose capacity guard rejected the update.
	if _, getErr := r.GetByID(ctx, tenantID, id); getErr != nil {
		return nil, getErr
	}
	return nil, common.Conflict("max_players cannot be lower than the number of players already booked")
}

// Delete removes a slot that has never been booked.
func (r *teeTimeSlotRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		DELETE FROM tee_time_slots
		WHERE tenant_id = $1 AND id = $2
			AND NOT EXISTS (SELECT 1 FROM bookings WHERE tenant_id = $1 AND tee_time_slot_id = $2)
	`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return MapError(fmt.Errorf("delete tee time: %w", err))
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, tenantID, id); err != nil {
		return err
	}
	return common.Conflict("cannot delete a tee time that has bookings")
}

func (r *teeTimeSlotRepo) ReserveSeats(ctx context.Context, tenantID, id uuid.UUID, players int) (*models.TeeTimeSlot, bool, error) {
	query := `
		UPDATE tee_time_slots
		SET booked_players = booked_players + $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND is_available = TRUE AND booked_players + $3 <= max_players
		RETURNING ` + slotColumns
	slot, err := scanSlot(r.db.QueryRow(ctx, query, tenantID, id, players))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, MapError(fmt.Errorf("reserve seats: %w", err))
	}
	return slot, true, nil
}

func (r *teeTimeSlotRepo) ReleaseSeats(ctx context.Context, tenantID, id uuid.UUID, players int) error {
	query := `
		UPDATE tee_time_slots
		SET booked_players = booked_players - $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND booked_players >= $3
	`
	tag, err := r.db.Exec(ctx, query, tenantID, id, players)
	if err != nil {
		return MapError(fmt.Errorf("release seats: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("release %d seats on tee time %s: booked count out of range", players, id)
	}
	return nil
}
