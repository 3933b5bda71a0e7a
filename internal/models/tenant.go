package models

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	Slug         string            `json:"slug" db:"slug"`
	Name         string            `json:"name" db:"name"`
	CustomDomain *string           `json:"custom_domain" db:"custom_domain"`
	LogoURL      *string           `json:"logo_url" db:"logo_url"`
	Colors       map[string]string `json:"colors" db:"colors"`
	Email        *string           `json:"email" db:"email"`
	Phone        *string           `json:"phone" db:"phone"`
	IsActive     bool              `json:"is_active" db:"is_active"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

type TenantSettingsRequest struct {
	Name    *string           `json:"name,omitempty"`
	LogoURL *string           `json:"logo_url,omitempty"`
	Colors  map[string]string `json:"colors,omitempty"`
	Email   *string           `json:"email,omitempty"`
	Phone   *string           `json:"phone,omitempty"`
}

// PublicTenant is what an anonymous visitor sees for the tenant resolved from the host.
type PublicTenant struct {
	Tenant *Tenant `json:"tenant"`
	Course *Course `json:"course,omitempty"`
}
