package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/priceworth/storefront-api/internal/api/metrics"
	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

// AuthService implements registration and login. Sessions are stateless
// HS256 tokens carrying the user's role, the sole input to the pricing
// policy.
type AuthService struct {
	repo      ports.AuthRepository
	analytics ports.AnalyticsRecorder
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, analytics ports.AnalyticsRecorder, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, analytics: analytics, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates an account with RoleNormal. Role upgrades are an
// admin concern, never a registration input.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleNormal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and returns a signed token plus the user.
// A login event goes to the analytics sink fire-and-forget.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Stored role may predate the current role set; normalise before it
	// reaches the pricing policy.
	user.Role = domain.ParseRole(string(user.Role))

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.analytics.Record(ports.AnalyticsEvent{
		Kind:      ports.EventLogin,
		Timestamp: time.Now().UTC(),
		Login: &ports.LoginInput{
			UserID:   user.ID,
			UserName: user.Name,
			Role:     user.Role,
		},
	})
	metrics.LoginsTotal.WithLabelValues(string(user.Role)).Inc()

	return token, user, nil
}

// ListUsers returns all accounts for the admin dashboard.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
