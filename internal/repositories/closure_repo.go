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

type ClosureRepository interface {
	// Upsert creates the closure for (tenant, date) or replaces its reason.
	Upsert(ctx context.Context, closure *models.CourseClosure) error
	FindByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.CourseClosure, error)
	ListRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.CourseClosure, error)
	List(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]*models.CourseClosure, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type closureRepo struct {
	db DBTX
}

func NewClosureRepo(db DBTX) ClosureRepository {
	return &closureRepo{db: db}
}

const closureColumns = `id, tenant_id, date, reason, created_at, updated_at`

func scanClosure(row scanner) (*models.CourseClosure, error) {
	c := &models.CourseClosure{}
	if err := row.Scan(&c.ID, &c.TenantID, &c.Date, &c.Reason, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *closureRepo) Upsert(ctx context.Context, closure *models.CourseClosure) error {
	query := `
		INSERT INTO course_closures (id, tenant_id, date, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (tenant_id, date) DO UPDATE
		SET reason = EXCLUDED.reason, updated_at = NOW()
		RETURNING ` + closureColumns
	saved, err := scanClosure(r.db.QueryRow(ctx, query, closure.ID, closure.TenantID, closure.Date, closure.Reason))
	if err != nil {
		return MapError(fmt.Errorf("upsert closure: %w", err))
	}
	*closure = *saved
	return nil
}

// FindByDate returns nil without error when the course is open on date.
func (r *closureRepo) FindByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.CourseClosure, error) {
	query := `
		SELECT ` + closureColumns + `
		FROM course_closures
		WHERE tenant_id = $1 AND date = $2
	`
	c, err := scanClosure(r.db.QueryRow(ctx, query, tenantID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, MapError(err)
	}
	return c, nil
}

func (r *closureRepo) ListRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.CourseClosure, error) {
	query := `
		SELECT ` + closureColumns + `
		FROM course_closures
		WHERE tenant_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`
	return r.query(ctx, query, tenantID, from, to)
}

func (r *closureRepo) List(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]*models.CourseClosure, error) {
	query := `
		SELECT ` + closureColumns + `
		FROM course_closures
		WHERE tenant_id = $1 AND date >= $2
		ORDER BY date ASC
	`
	return r.query(ctx, query, tenantID, from)
}

func (r *closureRepo) query(ctx context.Context, query string, args ...any) ([]*models.CourseClosure, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	closures := []*models.CourseClosure{}
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, err
		}
		closures = append(closures, c)
	}
	return closures, rows.Err()
}

func (r *closureRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM course_closures WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("closure")
	}
	return nil
}
