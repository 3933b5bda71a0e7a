package services

import (
	"context"
	"time"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Intervals, in minutes, between consecutive tee times.
var allowedIntervals = map[int]bool{8: true, 10: true, 12: true, 15: true, 20: true, 30: true}

const maxGenerationDays = 366

type GenerateSlotsRequest struct {
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	FirstTeeTime    string          `json:"first_tee_time"`
	LastTeeTime     string          `json:"last_tee_time"`
	IntervalMinutes int             `json:"interval_minutes"`
	MaxPlayers      int             `json:"max_players"`
	PricePerPlayer  decimal.Decimal `json:"price_per_player"`
	CartFee         decimal.Decimal `json:"cart_fee"`
	WalkingAllowed  bool            `json:"walking_allowed"`
	DaysOfWeek      []int           `json:"days_of_week"`
	// UsePricingRules prices each date through the pricing rules, falling back
	// to PricePerPlayer and CartFee when no rule applies.
	UsePricingRules bool `json:"use_pricing_rules"`
}

type slotPlan struct {
	from, to time.Time
	keys     []models.SlotKey
}

func (req GenerateSlotsRequest) plan() (*slotPlan, error) {
	if !allowedIntervals[req.IntervalMinutes] {
		return nil, common.InvalidInput("interval_minutes must be one of 8, 10, 12, 15, 20 or 30")
	}
	if req.MaxPlayers < 1 || req.MaxPlayers > models.MaxPlayersPerSlot {
		return nil, common.InvalidInput("max_players must be between 1 and %d", models.MaxPlayersPerSlot)
	}
	if req.PricePerPlayer.IsNegative() || req.CartFee.IsNegative() {
		return nil, common.InvalidInput("prices cannot be negative")
	}

	var weekdays [7]bool
	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, common.InvalidInput("days_of_week values must be between 0 (Sunday) and 6 (Saturday)")
		}
		weekdays[d] = true
	}

	first, err := common.ParseClock(req.FirstTeeTime, "first_tee_time")
	if err != nil {
		return nil, err
	}
	last, err := common.ParseClock(req.LastTeeTime, "last_tee_time")
	if err != nil {
		return nil, err
	}
	if last < first {
		return nil, common.InvalidInput("last_tee_time must not be before first_tee_time")
	}

	from, err := common.ParseDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	to, err := common.ParseDate(req.EndDate, "end_date")
	if err != nil {
		return nil, err
	}

	p := &slotPlan{from: from, to: to}
	if to.Before(from) || len(req.DaysOfWeek) == 0 {
		return p, nil
	}
	if to.Sub(from) >= maxGenerationDays*24*time.Hour {
		return nil, common.InvalidInput("date range cannot exceed %d days", maxGenerationDays)
	}

	var times []string
	for m := first; m <= last; m += req.IntervalMinutes {
		times = append(times, common.FormatClock(m))
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !weekdays[day.Weekday()] {
			continue
		}
		for _, t := range times {
			p.keys = append(p.keys, models.SlotKey{Date: day, StartTime: t})
		}
	}
	return p, nil
}

// PlanSlots enumerates every (date, start time) pair the request describes.
// An empty weekday filter or an end date before the start date plans nothing.
func PlanSlots(req GenerateSlotsRequest) ([]models.SlotKey, error) {
	p, err := req.plan()
	if err != nil {
		return nil, err
	}
	return p.keys, nil
}

type SlotGenerator interface {
	// Generate upserts the planned slots and returns how many rows were created or updated.
	Generate(ctx context.Context, tenantID uuid.UUID, req GenerateSlotsRequest) (int, error)
}

type slotGenerator struct {
	slots repositories.TeeTimeSlotRepository
	rules repositories.PricingRuleRepository
}

func NewSlotGenerator(slots repositories.TeeTimeSlotRepository, rules repositories.PricingRuleRepository) SlotGenerator {
	return &slotGenerator{slots: slots, rules: rules}
}

func (g *slotGenerator) Generate(ctx context.Context, tenantID uuid.UUID, req GenerateSlotsRequest) (int, error) {
	p, err := req.plan()
	if err != nil {
		return 0, err
	}
	if len(p.keys) == 0 {
		return 0, nil
	}

	var rules []models.PricingRule
	if req.UsePricingRules {
		rules, err = g.rules.ListCandidatesInRange(ctx, tenantID, p.from, p.to)
		if err != nil {
			return 0, err
		}
	}

	fallback := models.Price{PricePerPlayer: req.PricePerPlayer, CartFee: req.CartFee}
	priceByDay := make(map[time.Time]models.Price)
	upserts := make([]models.SlotUpsert, 0, len(p.keys))
	for _, key := range p.keys {
		price, ok := priceByDay[key.Date]
		if !ok {
			price = fallback
			if rule, found := ResolvePricingRule(rules, key.Date); found {
				price = priceFromRule(rule)
			}
			priceByDay[key.Date] = price
		}
		upserts = append(upserts, models.SlotUpsert{
			SlotKey:        key,
			MaxPlayers:     req.MaxPlayers,
			PricePerPlayer: price.PricePerPlayer,
			CartFee:        price.CartFee,
			WalkingAllowed: req.WalkingAllowed,
		})
	}

	count, err := g.slots.UpsertMany(ctx, tenantID, upserts)
	if err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().
		Str("tenant_id", tenantID.String()).
		Str("start_date", req.StartDate).
		Str("end_date", req.EndDate).
		Int("planned", len(upserts)).
		Int("written", count).
		Msg("generated tee times")
	return count, nil
}
