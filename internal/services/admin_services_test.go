package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fairway/internal/common"
	"fairway/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCourseService_AddImage(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	courses := &MockCourseRepository{}
	images := &MockMinioService{}
	courses.Test(t)
	images.Test(t)
	service := NewCourseService(courses, images)

	existing := "courses/" + tenantID.String() + "/first.jpg"
	courses.On("GetByTenant", ctx, tenantID).Return(&models.Course{TenantID: tenantID, Name: "Pine", Images: []string{existing}}, nil).Once()
	images.On("UploadImage", ctx, mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "courses/"+tenantID.String()+"/") && strings.HasSuffix(name, ".png")
	}), mock.Anything, int64(4), "image/png").Return(nil).Once()
	courses.On("SetImages", ctx, tenantID, mock.MatchedBy(func(keys []string) bool {
		return len(keys) == 2 && keys[0] == existing
	})).Return(nil).Once()

	course, err := service.AddImage(ctx, tenantID, bytes.NewReader([]byte("\x89PNG")), 4, "image/png")
	require.NoError(t, err)
	require.Len(t, course.ImageURLs, 2)
	assert.Equal(t, "https://cdn.example.com/course-images/"+existing, course.ImageURLs[0])

	courses.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestCourseService_AddImageRejectsType(t *testing.T) {
	service := NewCourseService(&MockCourseRepository{}, &MockMinioService{})
	_, err := service.AddImage(context.Background(), uuid.New(), strings.NewReader("gif"), 3, "image/gif")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCourseService_AddImageCleansUpOnFailure(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	courses := &MockCourseRepository{}
	images := &MockMinioService{}
	service := NewCourseService(courses, images)

	courses.On("GetByTenant", ctx, tenantID).Return(&models.Course{TenantID: tenantID}, nil).Once()
	images.On("UploadImage", ctx, mock.Anything, mock.Anything, int64(3), "image/jpeg").Return(nil).Once()
	courses.On("SetImages", ctx, tenantID, mock.Anything).Return(errors.New("db down")).Once()
	images.On("DeleteImage", ctx, mock.Anything).Return(nil).Once()

	_, err := service.AddImage(ctx, tenantID, strings.NewReader("jpg"), 3, "image/jpeg")
	assert.Error(t, err)
	images.AssertExpectations(t)
}

func TestCourseService_RemoveImage(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	courses := &MockCourseRepository{}
	images := &MockMinioService{}
	service := NewCourseService(courses, images)

	keep, drop := "courses/a.jpg", "courses/b.jpg"
	courses.On("GetByTenant", ctx, tenantID).Return(&models.Course{TenantID: tenantID, Images: []string{keep, drop}}, nil).Twice()
	courses.On("SetImages", ctx, tenantID, []string{keep}).Return(nil).Once()
	images.On("DeleteImage", ctx, drop).Return(nil).Once()

	course, err := service.RemoveImage(ctx, tenantID, drop)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, course.Images)

	_, err = service.RemoveImage(ctx, tenantID, "courses/unknown.jpg")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCourseService_Upsert(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	courses := &MockCourseRepository{}
	service := NewCourseService(courses, nil)

	courses.On("Upsert", ctx, mock.MatchedBy(func(c *models.Course) bool {
		return c.Name == "Pine Hills" && c.Holes == 18 && c.Par == 72
	})).Return(nil).Once()

	course, err := service.Upsert(ctx, tenantID, &models.CourseRequest{Name: "  Pine Hills "})
	require.NoError(t, err)
	assert.NotNil(t, course.ImageURLs)

	_, err = service.Upsert(ctx, tenantID, &models.CourseRequest{Name: "Pine", Holes: 12})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestClosureService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	closures := &MockClosureRepository{}
	closures.Test(t)
	service := &closureService{closures: closures, now: func() time.Time {
		return time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)
	}}

	today := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	closures.On("List", ctx, tenantID, today).Return([]*models.CourseClosure{}, nil).Once()
	_, err := service.ListUpcoming(ctx, tenantID)
	require.NoError(t, err)

	reason := "  Aeration  "
	closures.On("Upsert", ctx, mock.MatchedBy(func(c *models.CourseClosure) bool {
		return c.Date.Equal(time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)) && *c.Reason == "Aeration"
	})).Return(nil).Once()
	_, err = service.Upsert(ctx, tenantID, &models.ClosureRequest{Date: "2026-07-04", Reason: &reason})
	require.NoError(t, err)

	_, err = service.Upsert(ctx, tenantID, &models.ClosureRequest{Date: "July 4"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	closures.On("ListRange", ctx, tenantID, from, to).Return([]*models.CourseClosure{
		{Date: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)},
	}, nil).Once()
	dates, err := service.ClosedDatesInMonth(ctx, tenantID, 2026, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-14"}, dates)

	_, err = service.ClosedDatesInMonth(ctx, tenantID, 2026, 13)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	closures.AssertExpectations(t)
}

func TestPricingRuleService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	rules := &MockPricingRuleRepository{}
	rules.Test(t)
	service := NewPricingRuleService(rules, NewPricingResolver(rules))

	saturday := 6
	rules.On("Create", ctx, mock.MatchedBy(func(r *models.PricingRule) bool {
		return r.Priority == models.DefaultPricingPriority && *r.DayOfWeek == 6 && r.Date == nil
	})).Return(nil).Once()
	rule, err := service.Create(ctx, tenantID, &models.PricingRuleRequest{
		DayOfWeek:      &saturday,
		PricePerPlayer: decimal.RequireFromString("65"),
		CartFee:        decimal.RequireFromString("18.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "18.50", rule.CartFee.StringFixed(2))

	badDay, badPriority := 7, 0
	for _, req := range []*models.PricingRuleRequest{
		{PricePerPlayer: decimal.NewFromInt(10)},
		{DayOfWeek: &badDay},
		{DayOfWeek: &saturday, Priority: &badPriority},
		{DayOfWeek: &saturday, PricePerPlayer: decimal.NewFromInt(-5)},
	} {
		_, err := service.Create(ctx, tenantID, req)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	}
	rules.AssertExpectations(t)
}

func TestPricingRuleService_Preview(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	rules := &MockPricingRuleRepository{}
	service := NewPricingRuleService(rules, NewPricingResolver(rules))

	date := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	rules.On("ListCandidates", ctx, tenantID, date).Return([]models.PricingRule{dateRule(date, 50, "99.00")}, nil).Once()

	price, err := service.Preview(ctx, tenantID, "2026-12-25")
	require.NoError(t, err)
	assert.Equal(t, "99.00", price.PricePerPlayer.StringFixed(2))
}

func TestTeeTimeService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	slots := &MockTeeTimeSlotRepository{}
	slots.Test(t)
	service := NewTeeTimeService(slots, NewSlotGenerator(slots, &MockPricingRuleRepository{}))

	slots.On("Create", ctx, mock.MatchedBy(func(s *models.TeeTimeSlot) bool {
		return s.StartTime == "07:05" && s.MaxPlayers == 4 && s.IsAvailable && s.BookedPlayers == 0
	})).Return(nil).Once()
	_, err := service.Create(ctx, tenantID, &models.CreateSlotRequest{
		Date: "2026-05-01", StartTime: "7:05", PricePerPlayer: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	_, err = service.Create(ctx, tenantID, &models.CreateSlotRequest{Date: "2026-05-01", StartTime: "07:05", MaxPlayers: 6})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	tooMany := 5
	_, err = service.Update(ctx, tenantID, uuid.New(), &models.UpdateSlotRequest{MaxPlayers: &tooMany})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err = service.ListRange(ctx, tenantID, models.SlotRangeFilter{From: from, To: from.AddDate(0, 3, 0)})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	slots.On("ListRange", ctx, tenantID, from, from.AddDate(0, 0, 6)).Return([]*models.TeeTimeSlot{}, nil).Once()
	_, err = service.ListRange(ctx, tenantID, models.SlotRangeFilter{From: from, To: from.AddDate(0, 0, 6)})
	require.NoError(t, err)

	slots.AssertExpectations(t)
}
