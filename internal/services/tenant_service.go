package services

import (
	"context"
	"net"
	"regexp"
	"strings"
	"time"

	"fairway/internal/caching"
	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog/log"
)

const tenantCacheTTL = 5 * time.Minute

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

type TenantService interface {
	// ResolveHost maps a request host to an active tenant: custom domain first,
	// then the first host label as slug.
	ResolveHost(ctx context.Context, host string) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Provision(ctx context.Context, req *ProvisionTenantRequest) (*ProvisionResult, error)
	UpdateSettings(ctx context.Context, tenantID uuid.UUID, req *models.TenantSettingsRequest) (*models.Tenant, error)
	ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	tx         repositories.Transactor
	cache      caching.CacheService
}

func NewTenantService(tenantRepo repositories.TenantRepository, tx repositories.Transactor, cache caching.CacheService) TenantService {
	return &tenantService{tenantRepo: tenantRepo, tx: tx, cache: cache}
}

type ProvisionTenantRequest struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	CustomDomain *string `json:"custom_domain,omitempty"`
	AdminName    string  `json:"admin_name"`
	AdminEmail   string  `json:"admin_email"`
	// TempPassword is generated when empty.
	TempPassword string `json:"temp_password,omitempty"`
}

type ProvisionResult struct {
	Tenant       *models.Tenant `json:"tenant"`
	Course       *models.Course `json:"course"`
	Admin        *models.User   `json:"admin"`
	TempPassword string         `json:"temp_password"`
}

// NormalizeHost lowercases host and strips any port.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

func (s *tenantService) ResolveHost(ctx context.Context, host string) (*models.Tenant, error) {
	host = NormalizeHost(host)
	if host == "" {
		return nil, common.NotFound("tenant")
	}

	if s.cache != nil {
		cached, err := s.cache.GetTenantByHost(ctx, host)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("host", host).Msg("tenant cache lookup failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	slug := strings.SplitN(host, ".", 2)[0]
	tenant, err := s.tenantRepo.GetActiveByHost(ctx, host, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetTenantByHost(ctx, host, tenant, tenantCacheTTL); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("host", host).Msg("tenant cache store failed")
		}
	}
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

func (s *tenantService) Provision(ctx context.Context, req *ProvisionTenantRequest) (*ProvisionResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.AdminEmail = strings.ToLower(strings.TrimSpace(req.AdminEmail))
	if req.Name == "" || req.AdminEmail == "" {
		return nil, common.InvalidInput("name and admin email are required")
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, common.InvalidInput("slug must be lowercase letters, digits and hyphens")
	}
	if req.AdminName == "" {
		req.AdminName = "Administrator"
	}
	if req.TempPassword == "" {
		req.TempPassword = random.String(14, random.Alphanumeric) + random.String(1, random.Lowercase) + random.String(1, random.Numeric)
	}
	if err := validatePassword(req.TempPassword); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.TempPassword)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		ID:           uuid.New(),
		Slug:         req.Slug,
		Name:         req.Name,
		CustomDomain: req.CustomDomain,
		Colors:       map[string]string{},
		IsActive:     true,
	}
	course := &models.Course{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Name:     req.Name,
		Holes:    18,
		Par:      72,
	}
	admin := &models.User{
		ID:                 uuid.New(),
		TenantID:           tenant.ID,
		Name:               req.AdminName,
		Email:              req.AdminEmail,
		PasswordHash:       hash,
		Role:               models.RoleAdmin,
		MustChangePassword: true,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repositories.TxRepositories) error {
		if err := repos.Tenants.Create(ctx, tenant); err != nil {
			return err
		}
		if err := repos.Courses.Upsert(ctx, course); err != nil {
			return err
		}
		return repos.Users.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("tenant_id", tenant.ID.String()).Str("slug", tenant.Slug).Msg("tenant provisioned")
	return &ProvisionResult{Tenant: tenant, Course: course, Admin: admin, TempPassword: req.TempPassword}, nil
}

func (s *tenantService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, req *models.TenantSettingsRequest) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, common.InvalidInput("name cannot be empty")
		}
		tenant.Name = name
	}
	if req.LogoURL != nil {
		tenant.LogoURL = common.StringPtr(*req.LogoURL)
	}
	if req.Colors != nil {
		tenant.Colors = req.Colors
	}
	if req.Email != nil {
		tenant.Email = common.StringPtr(*req.Email)
	}
	if req.Phone != nil {
		tenant.Phone = common.StringPtr(*req.Phone)
	}

	if err := s.tenantRepo.UpdateSettings(ctx, tenant); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateTenant(ctx, tenantID); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("tenant cache invalidation failed")
		}
	}
	return tenant, nil
}

func (s *tenantService) ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.tenantRepo.ListActiveIDs(ctx)
}
