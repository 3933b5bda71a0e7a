package handlers

import (
	"context"
	"io"
	"time"

	"fairway/internal/models"
	"fairway/internal/services"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
)

type MockTenantService struct{ mock.Mock }

func (m *MockTenantService) ResolveHost(ctx context.Context, host string) (*models.Tenant, error) {
	args := m.Called(ctx, host)
	t, _ := args.Get(0).(*models.Tenant)
	return t, args.Error(1)
}

func (m *MockTenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tenant)
	return t, args.Error(1)
}

func (m *MockTenantService) Provision(ctx context.Context, req *services.ProvisionTenantRequest) (*services.ProvisionResult, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*services.ProvisionResult)
	return r, args.Error(1)
}

func (m *MockTenantService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, req *models.TenantSettingsRequest) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID, req)
	t, _ := args.Get(0).(*models.Tenant)
	return t, args.Error(1)
}

func (m *MockTenantService) ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) Create(ctx context.Context, tenantID uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, req)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.BookingStatus) (*models.BookingStatusChange, error) {
	args := m.Called(ctx, tenantID, id, status)
	c, _ := args.Get(0).(*models.BookingStatusChange)
	return c, args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*models.BookingStatusChange, error) {
	args := m.Called(ctx, tenantID, id)
	c, _ := args.Get(0).(*models.BookingStatusChange)
	return c, args.Error(1)
}

func (m *MockBookingService) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, userID)
	b, _ := args.Get(0).([]*models.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) ListForAdmin(ctx context.Context, tenantID uuid.UUID, filter models.BookingFilter) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, filter)
	b, _ := args.Get(0).([]*models.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) CompletePast(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockAvailabilityService struct{ mock.Mock }

func (m *MockAvailabilityService) AvailableSlots(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.Availability, error) {
	args := m.Called(ctx, tenantID, date)
	a, _ := args.Get(0).(*models.Availability)
	return a, args.Error(1)
}

type MockClosureService struct{ mock.Mock }

func (m *MockClosureService) ListUpcoming(ctx context.Context, tenantID uuid.UUID) ([]*models.CourseClosure, error) {
	args := m.Called(ctx, tenantID)
	c, _ := args.Get(0).([]*models.CourseClosure)
	return c, args.Error(1)
}

func (m *MockClosureService) Upsert(ctx context.Context, tenantID uuid.UUID, req *models.ClosureRequest) (*models.CourseClosure, error) {
	args := m.Called(ctx, tenantID, req)
	c, _ := args.Get(0).(*models.CourseClosure)
	return c, args.Error(1)
}

func (m *MockClosureService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockClosureService) ClosedDatesInMonth(ctx context.Context, tenantID uuid.UUID, year, month int) ([]string, error) {
	args := m.Called(ctx, tenantID, year, month)
	d, _ := args.Get(0).([]string)
	return d, args.Error(1)
}

type MockCourseService struct{ mock.Mock }

func (m *MockCourseService) Get(ctx context.Context, tenantID uuid.UUID) (*models.Course, error) {
	args := m.Called(ctx, tenantID)
	c, _ := args.Get(0).(*models.Course)
	return c, args.Error(1)
}

func (m *MockCourseService) Upsert(ctx context.Context, tenantID uuid.UUID, req *models.CourseRequest) (*models.Course, error) {
	args := m.Called(ctx, tenantID, req)
	c, _ := args.Get(0).(*models.Course)
	return c, args.Error(1)
}

func (m *MockCourseService) AddImage(ctx context.Context, tenantID uuid.UUID, reader io.Reader, size int64, contentType string) (*models.Course, error) {
	args := m.Called(ctx, tenantID, reader, size, contentType)
	c, _ := args.Get(0).(*models.Course)
	return c, args.Error(1)
}

func (m *MockCourseService) RemoveImage(ctx context.Context, tenantID uuid.UUID, objectName string) (*models.Course, error) {
	args := m.Called(ctx, tenantID, objectName)
	c, _ := args.Get(0).(*models.Course)
	return c, args.Error(1)
}

type MockTeeTimeService struct{ mock.Mock }

func (m *MockTeeTimeService) ListRange(ctx context.Context, tenantID uuid.UUID, filter models.SlotRangeFilter) ([]*models.TeeTimeSlot, error) {
	args := m.Called(ctx, tenantID, filter)
	s, _ := args.Get(0).([]*models.TeeTimeSlot)
	return s, args.Error(1)
}

func (m *MockTeeTimeService) Create(ctx context.Context, tenantID uuid.UUID, req *models.CreateSlotRequest) (*models.TeeTimeSlot, error) {
	args := m.Called(ctx, tenantID, req)
	s, _ := args.Get(0).(*models.TeeTimeSlot)
	return s, args.Error(1)
}

func (m *MockTeeTimeService) Update(ctx context.Context, tenantID, id uuid.UUID, req *models.UpdateSlotRequest) (*models.TeeTimeSlot, error) {
	args := m.Called(ctx, tenantID, id, req)
	s, _ := args.Get(0).(*models.TeeTimeSlot)
	return s, args.Error(1)
}

func (m *MockTeeTimeService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockTeeTimeService) Generate(ctx context.Context, tenantID uuid.UUID, req services.GenerateSlotsRequest) (int, error) {
	args := m.Called(ctx, tenantID, req)
	return args.Int(0), args.Error(1)
}

type MockPricingRuleService struct{ mock.Mock }

func (m *MockPricingRuleService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.PricingRule, error) {
	args := m.Called(ctx, tenantID)
	r, _ := args.Get(0).([]*models.PricingRule)
	return r, args.Error(1)
}

func (m *MockPricingRuleService) Create(ctx context.Context, tenantID uuid.UUID, req *models.PricingRuleRequest) (*models.PricingRule, error) {
	args := m.Called(ctx, tenantID, req)
	r, _ := args.Get(0).(*models.PricingRule)
	return r, args.Error(1)
}

func (m *MockPricingRuleService) Update(ctx context.Context, tenantID, id uuid.UUID, req *models.PricingRuleRequest) (*models.PricingRule, error) {
	args := m.Called(ctx, tenantID, id, req)
	r, _ := args.Get(0).(*models.PricingRule)
	return r, args.Error(1)
}

func (m *MockPricingRuleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPricingRuleService) Preview(ctx context.Context, tenantID uuid.UUID, date string) (*models.Price, error) {
	args := m.Called(ctx, tenantID, date)
	p, _ := args.Get(0).(*models.Price)
	return p, args.Error(1)
}

type MockCacheService struct{ mock.Mock }

func (m *MockCacheService) GetTenantByHost(ctx context.Context, host string) (*models.Tenant, error) {
	args := m.Called(ctx, host)
	t, _ := args.Get(0).(*models.Tenant)
	return t, args.Error(1)
}

func (m *MockCacheService) SetTenantByHost(ctx context.Context, host string, tenant *models.Tenant, ttl time.Duration) error {
	return m.Called(ctx, host, tenant, ttl).Error(0)
}

func (m *MockCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) Close() error {
	return m.Called().Error(0)
}

type MockEnqueuer struct{ mock.Mock }

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, tenantID uuid.UUID, req *models.RegisterRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, tenantID, req)
	r, _ := args.Get(0).(*models.TokenResponse)
	return r, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, tenantID uuid.UUID, req *models.LoginRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, tenantID, req)
	r, _ := args.Get(0).(*models.TokenResponse)
	return r, args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, req *models.ChangePasswordRequest) error {
	return m.Called(ctx, tenantID, userID, req).Error(0)
}

func (m *MockAuthService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	args := m.Called(user)
	r, _ := args.Get(0).(*models.TokenResponse)
	return r, args.Error(1)
}

func (m *MockAuthService) ValidateToken(token string) (*services.TokenClaims, error) {
	args := m.Called(token)
	c, _ := args.Get(0).(*services.TokenClaims)
	return c, args.Error(1)
}
