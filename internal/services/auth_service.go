package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenIssuer   = "fairway-auth"
	TokenAudience = "fairway-api"
	minPassword   = 8
)

// ErrInvalidCredentials is returned for any failed login so callers cannot probe accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles golfer registration, login and JWT issuance
type AuthService interface {
	Register(ctx context.Context, tenantID uuid.UUID, req *models.RegisterRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, tenantID uuid.UUID, req *models.LoginRequest) (*models.TokenResponse, error)
	Me(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error)
	ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, req *models.ChangePasswordRequest) error
	GenerateToken(user *models.User) (*models.TokenResponse, error)
	ValidateToken(token string) (*TokenClaims, error)
}

type authService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{users: users, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func validatePassword(password string) error {
	if len(password) < minPassword {
		return common.InvalidInput("password must be at least %d characters", minPassword)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return common.InvalidInput("password must contain letters and digits")
	}
	return nil
}

func (s *authService) Register(ctx context.Context, tenantID uuid.UUID, req *models.RegisterRequest) (*models.TokenResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, common.InvalidInput("name is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, common.InvalidInput("email is not a valid email address")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleGolfer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.GenerateToken(user)
}

func (s *authService) Login(ctx context.Context, tenantID uuid.UUID, req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, tenantID, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.GenerateToken(user)
}

func (s *authService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, tenantID, userID)
}

func (s *authService) ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, req *models.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if req.NewPassword == req.CurrentPassword {
		return common.InvalidInput("new password must differ from the current password")
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, tenantID, userID, hash, false)
}

// GenerateToken issues an HS256 access token scoped to the user's tenant.
func (s *authService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := TokenClaims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID.String(),
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// ValidateToken validates JWT access token
func (s *authService) ValidateToken(token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(TokenIssuer), jwt.WithAudience(TokenAudience))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := jwtToken.Claims.(*TokenClaims); ok && jwtToken.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}
