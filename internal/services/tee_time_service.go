package services

import (
	"context"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
)

const maxListRangeDays = 62

// TeeTimeService is the administrative surface over tee time slots.
type TeeTimeService interface {
	ListRange(ctx context.Context, tenantID uuid.UUID, filter models.SlotRangeFilter) ([]*models.TeeTimeSlot, error)
	Create(ctx context.Context, tenantID uuid.UUID, req *models.CreateSlotRequest) (*models.TeeTimeSlot, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req *models.UpdateSlotRequest) (*models.TeeTimeSlot, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Generate(ctx context.Context, tenantID uuid.UUID, req GenerateSlotsRequest) (int, error)
}

type teeTimeService struct {
	slots     repositories.TeeTimeSlotRepository
	generator SlotGenerator
}

func NewTeeTimeService(slots repositories.TeeTimeSlotRepository, generator SlotGenerator) TeeTimeService {
	return &teeTimeService{slots: slots, generator: generator}
}

func (s *teeTimeService) ListRange(ctx context.Context, tenantID uuid.UUID, filter models.SlotRangeFilter) ([]*models.TeeTimeSlot, error) {
	from, to := common.DateOnly(filter.From), common.DateOnly(filter.To)
	if to.Before(from) {
		return nil, common.InvalidInput("end date must not be before start date")
	}
	if to.Sub(from).Hours()/24 > maxListRangeDays {
		return nil, common.InvalidInput("date range cannot exceed %d days", maxListRangeDays)
	}
	return s.slots.ListRange(ctx, tenantID, from, to)
}

func (s *teeTimeService) Create(ctx context.Context, tenantID uuid.UUID, req *models.CreateSlotRequest) (*models.TeeTimeSlot, error) {
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	minutes, err := common.ParseClock(req.StartTime, "start_time")
	if err != nil {
		return nil, err
	}
	if req.MaxPlayers == 0 {
		req.MaxPlayers = models.MaxPlayersPerSlot
	}
	if req.MaxPlayers < 1 || req.MaxPlayers > models.MaxPlayersPerSlot {
		return nil, common.InvalidInput("max_players must be between 1 and %d", models.MaxPlayersPerSlot)
	}
	if req.PricePerPlayer.IsNegative() || req.CartFee.IsNegative() {
		return nil, common.InvalidInput("prices cannot be negative")
	}

	slot := &models.TeeTimeSlot{
		ID:             uuid.New(),
		TenantID:       tenantID,
		Date:           date,
		StartTime:      common.FormatClock(minutes),
		MaxPlayers:     req.MaxPlayers,
		PricePerPlayer: req.PricePerPlayer.Round(2),
		CartFee:        req.CartFee.Round(2),
		WalkingAllowed: req.WalkingAllowed,
		IsAvailable:    true,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *teeTimeService) Update(ctx context.Context, tenantID, id uuid.UUID, req *models.UpdateSlotRequest) (*models.TeeTimeSlot, error) {
	if req.MaxPlayers != nil && (*req.MaxPlayers < 1 || *req.MaxPlayers > models.MaxPlayersPerSlot) {
		return nil, common.InvalidInput("max_players must be between 1 and %d", models.MaxPlayersPerSlot)
	}
	if (req.PricePerPlayer != nil && req.PricePerPlayer.IsNegative()) || (req.CartFee != nil && req.CartFee.IsNegative()) {
		return nil, common.InvalidInput("prices cannot be negative")
	}
	return s.slots.Update(ctx, tenantID, id, req)
}

func (s *teeTimeService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.slots.Delete(ctx, tenantID, id)
}

func (s *teeTimeService) Generate(ctx context.Context, tenantID uuid.UUID, req GenerateSlotsRequest) (int, error) {
	return s.generator.Generate(ctx, tenantID, req)
}
