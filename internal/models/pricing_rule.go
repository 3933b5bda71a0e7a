package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultPricingPriority = 10

type PricingRule struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	TenantID       uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Date           *time.Time      `json:"date" db:"date"`
	DayOfWeek      *int            `json:"day_of_week" db:"day_of_week"` // 0 = Sunday
	Name           *string         `json:"name" db:"name"`
	PricePerPlayer decimal.Decimal `json:"price_per_player" db:"price_per_player"`
	CartFee        decimal.Decimal `json:"cart_fee" db:"cart_fee"`
	Priority       int             `json:"priority" db:"priority"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsExactDate reports whether the rule is pinned to a calendar date.
func (r PricingRule) IsExactDate() bool {
	return r.Date != nil
}

// AppliesTo reports whether the rule is a candidate for date.
func (r PricingRule) AppliesTo(date time.Time) bool {
	if r.Date != nil {
		return sameDay(*r.Date, date)
	}
	return r.DayOfWeek != nil && *r.DayOfWeek == int(date.Weekday())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Price is a resolved (price per player, cart fee) pair.
type Price struct {
	PricePerPlayer decimal.Decimal `json:"price_per_player"`
	CartFee        decimal.Decimal `json:"cart_fee"`
	RuleID         *uuid.UUID      `json:"rule_id,omitempty"`
	RuleName       *string         `json:"rule_name,omitempty"`
}

type PricingRuleRequest struct {
	Date           *string         `json:"date,omitempty"`
	DayOfWeek      *int            `json:"day_of_week,omitempty"`
	Name           *string         `json:"name,omitempty"`
	PricePerPlayer decimal.Decimal `json:"price_per_player"`
	CartFee        decimal.Decimal `json:"cart_fee"`
	Priority       *int            `json:"priority,omitempty"`
}
