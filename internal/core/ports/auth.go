package ports

import (
	"context"

	"github.com/priceworth/storefront-api/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// List returns all users in creation order (admin dashboard).
	List(ctx context.Context) ([]*domain.User, error)
}

// AuthService implements registration, login, and the admin user listing.
type AuthService interface {
	// Register creates an account. New accounts always get RoleNormal;
	// role changes are an admin concern.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
