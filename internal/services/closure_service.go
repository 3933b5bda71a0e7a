package services

import (
	"context"
	"time"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ClosureService interface {
	// ListUpcoming returns closures from today onwards.
	ListUpcoming(ctx context.Context, tenantID uuid.UUID) ([]*models.CourseClosure, error)
	Upsert(ctx context.Context, tenantID uuid.UUID, req *models.ClosureRequest) (*models.CourseClosure, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// ClosedDatesInMonth lists the closed dates (YYYY-MM-DD) of a calendar month.
	ClosedDatesInMonth(ctx context.Context, tenantID uuid.UUID, year, month int) ([]string, error)
}

type closureService struct {
	closures repositories.ClosureRepository
	now      func() time.Time
}

func NewClosureService(closures repositories.ClosureRepository) ClosureService {
	return &closureService{closures: closures, now: time.Now}
}

func (s *closureService) ListUpcoming(ctx context.Context, tenantID uuid.UUID) ([]*models.CourseClosure, error) {
	return s.closures.List(ctx, tenantID, common.DateOnly(s.now()))
}

func (s *closureService) Upsert(ctx context.Context, tenantID uuid.UUID, req *models.ClosureRequest) (*models.CourseClosure, error) {
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	if err := common.ValidateOptionalString(req.Reason, "reason", 255); err != nil {
		return nil, err
	}

	closure := &models.CourseClosure{
		ID:       uuid.New(),
		TenantID: tenantID,
		Date:     date,
		Reason:   common.StringPtr(common.SafeString(req.Reason)),
	}
	if err := s.closures.Upsert(ctx, closure); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("tenant_id", tenantID.String()).Str("date", req.Date).Msg("course closure saved")
	return closure, nil
}

func (s *closureService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.closures.Delete(ctx, tenantID, id)
}

func (s *closureService) ClosedDatesInMonth(ctx context.Context, tenantID uuid.UUID, year, month int) ([]string, error) {
	if month < 1 || month > 12 {
		return nil, common.InvalidInput("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, common.InvalidInput("year must be between 2000 and 2100")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	closures, err := s.closures.ListRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(closures))
	for _, c := range closures {
		dates = append(dates, c.Date.Format(common.DateLayout))
	}
	return dates, nil
}
