package repositories

import (
	"context"
	"fmt"
	"time"

	"fairway/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error)
	// GetForUpdate locks the booking row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.BookingStatus) (time.Time, error)
	ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Booking, error)
	ListForAdmin(ctx context.Context, tenantID uuid.UUID, filter models.BookingFilter) ([]*models.Booking, error)
	// CompletePast marks confirmed bookings on dates before cutoff as completed.
	CompletePast(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error)
}

type bookingRepo struct {
	db DBTX
}

func NewBookingRepo(db DBTX) BookingRepository {
	return &bookingRepo{db: db}
}

const bookingColumns = `b.id, b.tenant_id, b.tee_time_slot_id, b.user_id, b.guest_name, b.guest_email, b.guest_phone,
		b.players, b.cart_requested, b.total_price, b.status, b.notes, b.created_at, b.updated_at`

const bookingListColumns = bookingColumns + `, to_char(s.date, 'YYYY-MM-DD'), to_char(s.start_time, 'HH24:MI')`

func bookingDest(b *models.Booking, status *string) []any {
	return []any{&b.ID, &b.TenantID, &b.TeeTimeSlotID, &b.UserID, &b.GuestName, &b.GuestEmail, &b.GuestPhone,
		&b.Players, &b.CartRequested, &b.TotalPrice, status, &b.Notes, &b.CreatedAt, &b.UpdatedAt}
}

func scanBooking(row scanner) (*models.Booking, error) {
	b := &models.Booking{}
	var status string
	if err := row.Scan(bookingDest(b, &status)...); err != nil {
		return nil, err
	}
	b.Status = models.BookingStatus(status)
	return b, nil
}

func collectBookingList(rows pgx.Rows) ([]*models.Booking, error) {
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		b := &models.Booking{}
		var status string
		dest := append(bookingDest(b, &status), &b.TeeTimeDate, &b.TeeTimeStart)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		b.Status = models.BookingStatus(status)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, tenant_id, tee_time_slot_id, user_id, guest_name, guest_email, guest_phone,
			players, cart_requested, total_price, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, booking.ID, booking.TenantID, booking.TeeTimeSlotID, booking.UserID,
		booking.GuestName, booking.GuestEmail, booking.GuestPhone, booking.Players, booking.CartRequested,
		booking.TotalPrice.StringFixed(2), string(booking.Status), booking.Notes).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return MapError(fmt.Errorf("insert booking: %w", err))
	}
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.tenant_id = $1 AND b.id = $2
	`
	b, err := scanBooking(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFoundOr(err, "booking")
	}
	return b, nil
}

func (r *bookingRepo) GetForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.tenant_id = $1 AND b.id = $2
		FOR UPDATE
	`
	b, err := scanBooking(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFoundOr(err, "booking")
	}
	return b, nil
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.BookingStatus) (time.Time, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING updated_at
	`
	var updatedAt time.Time
	if err := r.db.QueryRow(ctx, query, tenantID, id, string(status)).Scan(&updatedAt); err != nil {
		return time.Time{}, notFoundOr(err, "booking")
	}
	return updatedAt, nil
}

func (r *bookingRepo) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingListColumns + `
		FROM bookings b
		JOIN tee_time_slots s ON s.id = b.tee_time_slot_id AND s.tenant_id = b.tenant_id
		WHERE b.tenant_id = $1 AND b.user_id = $2
		ORDER BY s.date DESC, s.start_time DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, userID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectBookingList(rows)
}

func (r *bookingRepo) ListForAdmin(ctx context.Context, tenantID uuid.UUID, filter models.BookingFilter) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingListColumns + `
		FROM bookings b
		JOIN tee_time_slots s ON s.id = b.tee_time_slot_id AND s.tenant_id = b.tenant_id
		WHERE b.tenant_id = $1`
	args := []interface{}{tenantID}
	argIndex := 2

	if filter.Date != nil {
		query += fmt.Sprintf(" AND s.date = $%d", argIndex)
		args = append(args, *filter.Date)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND b.status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY s.date DESC, s.start_time ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	return collectBookingList(rows)
}

func (r *bookingRepo) CompletePast(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error) {
	query := `
		UPDATE bookings b
		SET status = 'completed', updated_at = NOW()
		FROM tee_time_slots s
		WHERE b.tenant_id = $1 AND s.tenant_id = $1 AND s.id = b.tee_time_slot_id
			AND b.status = 'confirmed' AND s.date < $2
	`
	tag, err := r.db.Exec(ctx, query, tenantID, cutoff)
	if err != nil {
		return 0, MapError(fmt.Errorf("complete past bookings: %w", err))
	}
	return tag.RowsAffected(), nil
}
