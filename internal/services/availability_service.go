package services

import (
	"context"
	"time"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
)

type AvailabilityService interface {
	// AvailableSlots lists the bookable tee times for date. A closed day short-circuits
	// to an empty, closed result without reading slots.
	AvailableSlots(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.Availability, error)
}

type availabilityService struct {
	slots    repositories.TeeTimeSlotRepository
	closures repositories.ClosureRepository
}

func NewAvailabilityService(slots repositories.TeeTimeSlotRepository, closures repositories.ClosureRepository) AvailabilityService {
	return &availabilityService{slots: slots, closures: closures}
}

func (s *availabilityService) AvailableSlots(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.Availability, error) {
	date = common.DateOnly(date)
	result := &models.Availability{
		Date:  date.Format(common.DateLayout),
		Slots: []models.SlotView{},
	}

	closure, err := s.closures.FindByDate(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	if closure != nil {
		result.Closed = true
		result.CloseReason = closure.Reason
		return result, nil
	}

	slots, err := s.slots.ListBookableByDate(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		// The query already filters full slots; a zero-capacity view must never escape.
		if !slot.Bookable() {
			continue
		}
		result.Slots = append(result.Slots, slot.View())
	}
	return result, nil
}
