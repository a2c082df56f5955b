package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

type stubAuthRepo struct {
	users []*domain.User
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	stored := cloneUser(user)
	if stored.ID == "" {
		stored.ID = stored.Email
	}
	r.users = append(r.users, stored)
	return cloneUser(stored), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, len(r.users))
	for i, u := range r.users {
		out[i] = cloneUser(u)
	}
	return out, nil
}

func newTestAuthService(repo *stubAuthRepo) *AuthService {
	return NewAuthService(repo, &recordingSink{}, "secret", time.Hour)
}

func TestAuthService_Register_HashesPasswordAndAssignsNormal(t *testing.T) {
	repo := &stubAuthRepo{}
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleNormal {
		t.Fatalf("new accounts must get RoleNormal, got %q", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(&stubAuthRepo{})

	if _, err := svc.Register(context.Background(), "", "a@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "Bob", "", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(&stubAuthRepo{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Bob", "bob@example.com", "pass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "Bob Again", "bob@example.com", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_TokenCarriesRole(t *testing.T) {
	repo := &stubAuthRepo{}
	sink := &recordingSink{}
	svc := NewAuthService(repo, sink, "secret", time.Hour)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	repo.users = append(repo.users, &domain.User{
		ID: "u1", Name: "Carol", Email: "carol@example.com",
		PasswordHash: string(hash), Role: domain.RoleFriend,
	})

	token, user, err := svc.Login(ctx, "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != domain.RoleFriend {
		t.Fatalf("unexpected role: %q", user.Role)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != "friend" || claims["sub"] != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if len(sink.events) != 1 || sink.events[0].Kind != ports.EventLogin {
		t.Fatalf("expected a login event, got %+v", sink.events)
	}
}

func TestAuthService_Login_NormalisesLegacyRole(t *testing.T) {
	repo := &stubAuthRepo{}
	svc := newTestAuthService(repo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	repo.users = append(repo.users, &domain.User{
		ID: "u2", Name: "Dave", Email: "dave@example.com",
		PasswordHash: string(hash), Role: domain.Role("superuser"),
	})

	_, user, err := svc.Login(context.Background(), "dave@example.com", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != domain.RoleNormal {
		t.Fatalf("legacy role must normalise to normal, got %q", user.Role)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newTestAuthService(&stubAuthRepo{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Eve", "eve@example.com", "goodpass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "eve@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestAuthService(&stubAuthRepo{})

	// unknown account maps to the same error as a bad password so the
	// response does not leak which emails exist
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ListUsers(t *testing.T) {
	svc := newTestAuthService(&stubAuthRepo{})
	ctx := context.Background()

	_, _ = svc.Register(ctx, "A", "a@example.com", "pass")
	_, _ = svc.Register(ctx, "B", "b@example.com", "pass")

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
