package repositories

import (
	"context"
	"fmt"

	"fairway/internal/common"
	"fairway/internal/models"

	"github.com/google/uuid"
)

type CourseRepository interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Course, error)
	// Upsert creates or replaces the tenant's single course.
	Upsert(ctx context.Context, course *models.Course) error
	SetImages(ctx context.Context, tenantID uuid.UUID, images []string) error
}

type courseRepo struct {
	db DBTX
}

func NewCourseRepo(db DBTX) CourseRepository {
	return &courseRepo{db: db}
}

const courseColumns = `id, tenant_id, name, description, address, city, state, zip, phone, email, website,
		holes, par, images, amenities, hours, created_at, updated_at`

func scanCourse(row scanner) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Description, &c.Address, &c.City, &c.State, &c.Zip,
		&c.Phone, &c.Email, &c.Website, &c.Holes, &c.Par, &c.Images, &c.Amenities, &c.Hours, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *courseRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE tenant_id = $1
	`
	c, err := scanCourse(r.db.QueryRow(ctx, query, tenantID))
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	return c, nil
}

func (r *courseRepo) Upsert(ctx context.Context, course *models.Course) error {
	if course.Images == nil {
		course.Images = []string{}
	}
	if course.Amenities == nil {
		course.Amenities = []string{}
	}
	if course.Hours == nil {
		course.Hours = map[string]string{}
	}

	query := `
		INSERT INTO courses (id, tenant_id, name, description, address, city, state, zip, phone, email, website,
			holes, par, images, amenities, hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		ON CONFLICT (tenant_id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, address = EXCLUDED.address,
			city = EXCLUDED.city, state = EXCLUDED.state, zip = EXCLUDED.zip, phone = EXCLUDED.phone,
			email = EXCLUDED.email, website = EXCLUDED.website, holes = EXCLUDED.holes, par = EXCLUDED.par,
			amenities = EXCLUDED.amenities, hours = EXCLUDED.hours, updated_at = NOW()
		RETURNING ` + courseColumns
	saved, err := scanCourse(r.db.QueryRow(ctx, query, course.ID, course.TenantID, course.Name, course.Description,
		course.Address, course.City, course.State, course.Zip, course.Phone, course.Email, course.Website,
		course.Holes, course.Par, course.Images, course.Amenities, course.Hours))
	if err != nil {
		return MapError(fmt.Errorf("upsert course: %w", err))
	}
	*course = *saved
	return nil
}

func (r *courseRepo) SetImages(ctx context.Context, tenantID uuid.UUID, images []string) error {
	if images == nil {
		images = []string{}
	}
	tag, err := r.db.Exec(ctx, `UPDATE courses SET images = $2, updated_at = NOW() WHERE tenant_id = $1`, tenantID, images)
	if err != nil {
		return MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("course")
	}
	return nil
}
