package repositories

import (
	"context"
	"fmt"

	"fairway/internal/models"

	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	// GetActiveByHost matches custom_domain first, then slug, among active tenants.
	GetActiveByHost(ctx context.Context, domain, slug string) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	UpdateSettings(ctx context.Context, tenant *models.Tenant) error
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

type tenantRepo struct {
	db DBTX
}

func NewTenantRepo(db DBTX) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, slug, name, custom_domain, logo_url, colors, email, phone, is_active, created_at, updated_at`

func scanTenant(row scanner) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.CustomDomain, &t.LogoURL, &t.Colors, &t.Email, &t.Phone,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, slug, name, custom_domain, logo_url, colors, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, tenant.ID, tenant.Slug, tenant.Name, tenant.CustomDomain, tenant.LogoURL,
		tenant.Colors, tenant.Email, tenant.Phone, tenant.IsActive).Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return MapError(fmt.Errorf("insert tenant: %w", err))
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = $1
	`
	t, err := scanTenant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "tenant")
	}
	return t, nil
}

func (r *tenantRepo) GetActiveByHost(ctx context.Context, domain, slug string) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE is_active = TRUE AND (custom_domain = $1 OR slug = $2)
		ORDER BY (custom_domain = $1) DESC NULLS LAST
		LIMIT 1
	`
	t, err := scanTenant(r.db.QueryRow(ctx, query, domain, slug))
	if err != nil {
		return nil, notFoundOr(err, "tenant")
	}
	return t, nil
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE slug = $1
	`
	t, err := scanTenant(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, notFoundOr(err, "tenant")
	}
	return t, nil
}

func (r *tenantRepo) UpdateSettings(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, logo_url = $3, colors = $4, email = $5, phone = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, tenant.ID, tenant.Name, tenant.LogoURL, tenant.Colors, tenant.Email, tenant.Phone).
		Scan(&tenant.UpdatedAt)
	if err != nil {
		return notFoundOr(err, "tenant")
	}
	return nil
}

func (r *tenantRepo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM tenants WHERE is_active = TRUE ORDER BY created_at`)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}
