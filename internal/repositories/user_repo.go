package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fairway/internal/common"
	"fairway/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string, mustChange bool) error
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, tenant_id, name, email, password_hash, role, must_change_password, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.MustChangePassword,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, tenant_id, name, email, password_hash, role, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, user.ID, user.TenantID, user.Name, strings.ToLower(user.Email),
		user.PasswordHash, user.Role, user.MustChangePassword).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		mapped := MapError(fmt.Errorf("insert user: %w", err))
		if errors.Is(mapped, common.ErrConflict) {
			return common.Conflict(fmt.Sprintf("user with email '%s' already exists", user.Email))
		}
		return mapped
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE tenant_id = $1 AND id = $2
	`
	u, err := scanUser(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE tenant_id = $1 AND email = $2
	`
	u, err := scanUser(r.db.QueryRow(ctx, query, tenantID, strings.ToLower(email)))
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return u, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string, mustChange bool) error {
	query := `
		UPDATE users
		SET password_hash = $3, must_change_password = $4, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`
	tag, err := r.db.Exec(ctx, query, tenantID, id, passwordHash, mustChange)
	if err != nil {
		return MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("user")
	}
	return nil
}
