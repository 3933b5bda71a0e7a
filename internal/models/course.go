package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	TenantID    uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	Name        string            `json:"name" db:"name"`
	Description *string           `json:"description" db:"description"`
	Address     *string           `json:"address" db:"address"`
	City        *string           `json:"city" db:"city"`
	State       *string           `json:"state" db:"state"`
	Zip         *string           `json:"zip" db:"zip"`
	Phone       *string           `json:"phone" db:"phone"`
	Email       *string           `json:"email" db:"email"`
	Website     *string           `json:"website" db:"website"`
	Holes       int               `json:"holes" db:"holes"`
	Par         int               `json:"par" db:"par"`
	Images      []string          `json:"images" db:"images"` // object keys
	ImageURLs   []string          `json:"image_urls" db:"-"`
	Amenities   []string          `json:"amenities" db:"amenities"`
	Hours       map[string]string `json:"hours" db:"hours"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

type CourseRequest struct {
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Address     *string           `json:"address,omitempty"`
	City        *string           `json:"city,omitempty"`
	State       *string           `json:"state,omitempty"`
	Zip         *string           `json:"zip,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	Email       *string           `json:"email,omitempty"`
	Website     *string           `json:"website,omitempty"`
	Holes       int               `json:"holes"`
	Par         int               `json:"par"`
	Amenities   []string          `json:"amenities,omitempty"`
	Hours       map[string]string `json:"hours,omitempty"`
}
