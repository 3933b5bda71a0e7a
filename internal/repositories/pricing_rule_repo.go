package repositories

import (
	"context"
	"fmt"
	"time"

	"fairway/internal/common"
	"fairway/internal/models"

	"github.com/google/uuid"
)

type PricingRuleRepository interface {
	Create(ctx context.Context, rule *models.PricingRule) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PricingRule, error)
	Update(ctx context.Context, rule *models.PricingRule) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.PricingRule, error)
	// ListCandidates returns the rules that may apply to date: exact-date rules for
	// that date and weekday rules for its weekday.
	ListCandidates(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]models.PricingRule, error)
	// ListCandidatesInRange returns every rule that may apply to some date in [from, to].
	ListCandidatesInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]models.PricingRule, error)
}

type pricingRuleRepo struct {
	db DBTX
}

func NewPricingRuleRepo(db DBTX) PricingRuleRepository {
	return &pricingRuleRepo{db: db}
}

const pricingRuleColumns = `id, tenant_id, date, day_of_week, name, price_per_player, cart_fee, priority, created_at, updated_at`

func scanPricingRule(row scanner) (*models.PricingRule, error) {
	rule := &models.PricingRule{}
	err := row.Scan(&rule.ID, &rule.TenantID, &rule.Date, &rule.DayOfWeek, &rule.Name,
		&rule.PricePerPlayer, &rule.CartFee, &rule.Priority, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *pricingRuleRepo) Create(ctx context.Context, rule *models.PricingRule) error {
	query := `
		INSERT INTO pricing_rules (id, tenant_id, date, day_of_week, name, price_per_player, cart_fee, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, rule.ID, rule.TenantID, rule.Date, rule.DayOfWeek, rule.Name,
		rule.PricePerPlayer.StringFixed(2), rule.CartFee.StringFixed(2), rule.Priority).
		Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return MapError(fmt.Errorf("insert pricing rule: %w", err))
	}
	return nil
}

func (r *pricingRuleRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE tenant_id = $1 AND id = $2
	`
	rule, err := scanPricingRule(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFoundOr(err, "pricing rule")
	}
	return rule, nil
}

func (r *pricingRuleRepo) Update(ctx context.Context, rule *models.PricingRule) error {
	query := `
		UPDATE pricing_rules
		SET date = $3, day_of_week = $4, name = $5, price_per_player = $6::numeric, cart_fee = $7::numeric, priority = $8, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, rule.TenantID, rule.ID, rule.Date, rule.DayOfWeek, rule.Name,
		rule.PricePerPlayer.StringFixed(2), rule.CartFee.StringFixed(2), rule.Priority).Scan(&rule.UpdatedAt)
	if err != nil {
		return notFoundOr(err, "pricing rule")
	}
	return nil
}

func (r *pricingRuleRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM pricing_rules WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("pricing rule")
	}
	return nil
}

func (r *pricingRuleRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE tenant_id = $1
		ORDER BY priority ASC, date NULLS LAST, day_of_week NULLS LAST, created_at ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	rules := []*models.PricingRule{}
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *pricingRuleRepo) ListCandidates(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]models.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE tenant_id = $1 AND (date = $2 OR (date IS NULL AND day_of_week = $3))
	`
	return r.queryRules(ctx, query, tenantID, date, int(date.Weekday()))
}

func (r *pricingRuleRepo) ListCandidatesInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]models.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE tenant_id = $1 AND ((date BETWEEN $2 AND $3) OR (date IS NULL AND day_of_week IS NOT NULL))
	`
	return r.queryRules(ctx, query, tenantID, from, to)
}

func (r *pricingRuleRepo) queryRules(ctx context.Context, query string, args ...any) ([]models.PricingRule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var rules []models.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}
