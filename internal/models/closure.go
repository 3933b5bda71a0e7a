package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseClosure struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Date      time.Time `json:"date" db:"date"`
	Reason    *string   `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type ClosureRequest struct {
	Date   string  `json:"date"`
	Reason *string `json:"reason,omitempty"`
}
