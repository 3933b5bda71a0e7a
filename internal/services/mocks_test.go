package services

import (
	"context"
	"io"
	"time"

	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTeeTimeSlotRepository struct {
	mock.Mock
}

func (m *MockTeeTimeSlotRepository) UpsertMany(ctx context.Context, tenantID uuid.UUID, slots []models.SlotUpsert) (int, error) {
	args := m.Called(ctx, tenantID, slots)
	return args.Int(0), args.Error(1)
}

func (m *MockTeeTimeSlotRepository) Create(ctx context.Context, slot *models.TeeTimeSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockTeeTimeSlotRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.TeeTimeSlot, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeeTimeSlot), args.Error(1)
}

func (m *MockTeeTimeSlotRepository) ListBookableByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*models.TeeTimeSlot, error) {
	args := m.Called(ctx, tenantID, date)
	return args.Get(0).([]*models.TeeTimeSlot), args.Error(1)
}

func (m *MockTeeTimeSlotRepository) ListRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.TeeTimeSlot, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]*models.TeeTimeSlot), args.Error(1)
}

func (m *MockTeeTimeSlotRepository) Update(ctx context.Context, tenantID, id uuid.UUID, req *models.UpdateSlotRequest) (*models.TeeTimeSlot, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeeTimeSlot), args.Error(1)
}

func (m *MockTeeTimeSlotRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockTeeTimeSlotRepository) ReserveSeats(ctx context.Context, tenantID, id uuid.UUID, players int) (*models.TeeTimeSlot, bool, error) {
	args := m.Called(ctx, tenantID, id, players)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.TeeTimeSlot), args.Bool(1), args.Error(2)
}

func (m *MockTeeTimeSlotRepository) ReleaseSeats(ctx context.Context, tenantID, id uuid.UUID, players int) error {
	args := m.Called(ctx, tenantID, id, players)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status models.BookingStatus) (time.Time, error) {
	args := m.Called(ctx, tenantID, id, status)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockBookingRepository) ListForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListForAdmin(ctx context.Context, tenantID uuid.UUID, filter models.BookingFilter) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) CompletePast(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockPricingRuleRepository struct {
	mock.Mock
}

func (m *MockPricingRuleRepository) Create(ctx context.Context, rule *models.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPricingRuleRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.PricingRule, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) Update(ctx context.Context, rule *models.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPricingRuleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPricingRuleRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.PricingRule, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) ListCandidates(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]models.PricingRule, error) {
	args := m.Called(ctx, tenantID, date)
	return args.Get(0).([]models.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) ListCandidatesInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]models.PricingRule, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]models.PricingRule), args.Error(1)
}

type MockClosureRepository struct {
	mock.Mock
}

func (m *MockClosureRepository) Upsert(ctx context.Context, closure *models.CourseClosure) error {
	args := m.Called(ctx, closure)
	return args.Error(0)
}

func (m *MockClosureRepository) FindByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.CourseClosure, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CourseClosure), args.Error(1)
}

func (m *MockClosureRepository) ListRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.CourseClosure, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]*models.CourseClosure), args.Error(1)
}

func (m *MockClosureRepository) List(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]*models.CourseClosure, error) {
	args := m.Called(ctx, tenantID, from)
	return args.Get(0).([]*models.CourseClosure), args.Error(1)
}

func (m *MockClosureRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Course, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) Upsert(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) SetImages(ctx context.Context, tenantID uuid.UUID, images []string) error {
	args := m.Called(ctx, tenantID, images)
	return args.Error(0)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetActiveByHost(ctx context.Context, domain, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, domain, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) UpdateSettings(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string, mustChange bool) error {
	args := m.Called(ctx, tenantID, id, passwordHash, mustChange)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetTenantByHost(ctx context.Context, host string) (*models.Tenant, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockCacheService) SetTenantByHost(ctx context.Context, host string, tenant *models.Tenant, ttl time.Duration) error {
	args := m.Called(ctx, host, tenant, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
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

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockMinioService) PublicURL(objectName string) string {
	return "https://cdn.example.com/course-images/" + objectName
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

// fakeTransactor runs fn against fixed repositories. It records whether the
// last transaction failed so tests can assert rollback paths.
type fakeTransactor struct {
	repos      repositories.TxRepositories
	calls      int
	rolledBack bool
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repositories.TxRepositories) error) error {
	f.calls++
	err := fn(ctx, f.repos)
	f.rolledBack = err != nil
	return err
}
