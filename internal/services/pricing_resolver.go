package services

import (
	"context"
	"sort"
	"time"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
)

// ResolvePricingRule picks the single rule that prices date.
//
// Candidates are exact-date rules for date and weekday-only rules for its weekday.
// An exact-date rule always beats a weekday rule. Within the same specificity the
// lowest priority number wins, then the oldest rule, then the lowest id, so the
// result never depends on input order.
func ResolvePricingRule(rules []models.PricingRule, date time.Time) (*models.PricingRule, bool) {
	candidates := make([]models.PricingRule, 0, len(rules))
	for _, rule := range rules {
		if rule.AppliesTo(date) {
			candidates = append(candidates, rule)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.IsExactDate() != b.IsExactDate() {
			return a.IsExactDate()
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	winner := candidates[0]
	return &winner, true
}

func priceFromRule(rule *models.PricingRule) models.Price {
	id := rule.ID
	return models.Price{
		PricePerPlayer: rule.PricePerPlayer,
		CartFee:        rule.CartFee,
		RuleID:         &id,
		RuleName:       rule.Name,
	}
}

type PricingResolver interface {
	// Resolve returns ErrNotFound when no rule applies; callers supply their own fallback.
	Resolve(ctx context.Context, tenantID uuid.UUID, date time.Time) (models.Price, error)
}

type pricingResolver struct {
	rules repositories.PricingRuleRepository
}

func NewPricingResolver(rules repositories.PricingRuleRepository) PricingResolver {
	return &pricingResolver{rules: rules}
}

func (r *pricingResolver) Resolve(ctx context.Context, tenantID uuid.UUID, date time.Time) (models.Price, error) {
	date = common.DateOnly(date)
	rules, err := r.rules.ListCandidates(ctx, tenantID, date)
	if err != nil {
		return models.Price{}, err
	}
	rule, ok := ResolvePricingRule(rules, date)
	if !ok {
		return models.Price{}, common.NotFound("pricing rule")
	}
	return priceFromRule(rule), nil
}
