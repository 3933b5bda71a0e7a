package services

import (
	"context"
	"time"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
)

type PricingRuleService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.PricingRule, error)
	Create(ctx context.Context, tenantID uuid.UUID, req *models.PricingRuleRequest) (*models.PricingRule, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req *models.PricingRuleRequest) (*models.PricingRule, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// Preview reports which rule, if any, prices date.
	Preview(ctx context.Context, tenantID uuid.UUID, date string) (*models.Price, error)
}

type pricingRuleService struct {
	rules    repositories.PricingRuleRepository
	resolver PricingResolver
}

func NewPricingRuleService(rules repositories.PricingRuleRepository, resolver PricingResolver) PricingRuleService {
	return &pricingRuleService{rules: rules, resolver: resolver}
}

func (s *pricingRuleService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.PricingRule, error) {
	return s.rules.List(ctx, tenantID)
}

// applyRequest validates req and copies it onto rule.
func applyRequest(rule *models.PricingRule, req *models.PricingRuleRequest) error {
	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		d, err := common.ParseDate(*req.Date, "date")
		if err != nil {
			return err
		}
		date = &d
	}
	if req.DayOfWeek != nil && (*req.DayOfWeek < 0 || *req.DayOfWeek > 6) {
		return common.InvalidInput("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}
	// A rule with neither a date nor a weekday can never match.
	if date == nil && req.DayOfWeek == nil {
		return common.InvalidInput("a pricing rule needs a date or a day_of_week")
	}
	if req.PricePerPlayer.IsNegative() || req.CartFee.IsNegative() {
		return common.InvalidInput("prices cannot be negative")
	}
	priority := models.DefaultPricingPriority
	if req.Priority != nil {
		priority = *req.Priority
	}
	if priority < 1 || priority > 100 {
		return common.InvalidInput("priority must be between 1 and 100")
	}
	if err := common.ValidateOptionalString(req.Name, "name", 100); err != nil {
		return err
	}

	rule.Date = date
	rule.DayOfWeek = req.DayOfWeek
	rule.Name = common.StringPtr(common.SafeString(req.Name))
	rule.PricePerPlayer = req.PricePerPlayer.Round(2)
	rule.CartFee = req.CartFee.Round(2)
	rule.Priority = priority
	return nil
}

func (s *pricingRuleService) Create(ctx context.Context, tenantID uuid.UUID, req *models.PricingRuleRequest) (*models.PricingRule, error) {
	rule := &models.PricingRule{ID: uuid.New(), TenantID: tenantID}
	if err := applyRequest(rule, req); err != nil {
		return nil, err
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *pricingRuleService) Update(ctx context.Context, tenantID, id uuid.UUID, req *models.PricingRuleRequest) (*models.PricingRule, error) {
	rule, err := s.rules.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := applyRequest(rule, req); err != nil {
		return nil, err
	}
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *pricingRuleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.rules.Delete(ctx, tenantID, id)
}

func (s *pricingRuleService) Preview(ctx context.Context, tenantID uuid.UUID, date string) (*models.Price, error) {
	d, err := common.ParseDate(date, "date")
	if err != nil {
		return nil, err
	}
	price, err := s.resolver.Resolve(ctx, tenantID, d)
	if err != nil {
		return nil, err
	}
	return &price, nil
}
