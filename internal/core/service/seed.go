package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

// demoProducts is the starter catalog loaded when the store is empty.
var demoProducts = []domain.Product{
	{ID: "1", Name: "Laptop Pro", Description: "High-performance laptop for professionals", BasePrice: 1200, Stock: 10, Image: "https://images.unsplash.com/photo-1593642702821-c8da6771f0c6?w=500&auto=format", Category: "Electronics"},
	{ID: "2", Name: "Ergonomic Chair", Description: "Comfortable office chair with lumbar support", BasePrice: 300, Stock: 25, Image: "https://images.unsplash.com/photo-1519947486511-46149fa0a254?w=500&auto=format", Category: "Furniture"},
	{ID: "3", Name: "Mechanical Keyboard", Description: "Tactile mechanical keyboard for typing enthusiasts", BasePrice: 150, Stock: 30, Image: "https://images.unsplash.com/photo-1627483297886-49710ae1fc22?w=500&auto=format", Category: "Electronics"},
	{ID: "4", Name: "Wireless Mouse", Description: "Precise wireless mouse with long battery life", BasePrice: 80, Stock: 45, Image: "https://images.unsplash.com/photo-1618384887929-16ec33fab9ef?w=500&auto=format", Category: "Electronics"},
	{ID: "5", Name: "LED Desk Lamp", Description: "Adjustable LED desk lamp with multiple brightness levels", BasePrice: 50, Stock: 60, Image: "https://images.unsplash.com/photo-1513506003901-1e6a229e2d15?w=500&auto=format", Category: "Home Office"},
	{ID: "6", Name: "Monitor Stand", Description: "Adjustable monitor stand for better ergonomics", BasePrice: 65, Stock: 40, Image: "https://images.unsplash.com/photo-1611186871348-b1ce696e52c9?w=500&auto=format", Category: "Accessories"},
}

// demoUsers covers one account per role so every pricing branch can be
// exercised out of the box. Demo-grade credentials.
var demoUsers = []struct {
	name     string
	email    string
	password string
	role     domain.Role
}{
	{"Admin User", "admin@example.com", "admin123", domain.RoleAdmin},
	{"Friend User", "friend@example.com", "friend123", domain.RoleFriend},
	{"Normal User", "user@example.com", "user123", domain.RoleNormal},
	{"Opponent User", "opponent@example.com", "opponent123", domain.RoleOpponent},
}

// SeedDemoData loads the demo catalog and accounts on first start.
// Safe to call on every boot: existing data is left alone.
func SeedDemoData(ctx context.Context, catalogRepo ports.CatalogRepository, authRepo ports.AuthRepository, log zerolog.Logger) error {
	count, err := catalogRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		if err := catalogRepo.ReplaceAll(ctx, demoProducts); err != nil {
			return err
		}
		log.Info().Int("products", len(demoProducts)).Msg("seeded demo catalog")
	}

	now := time.Now().UTC()
	for _, du := range demoUsers {
		_, err := authRepo.FindByEmail(ctx, du.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(du.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := authRepo.Create(ctx, &domain.User{
			Name:         du.name,
			Email:        du.email,
			PasswordHash: string(hash),
			Role:         du.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil && !errors.Is(err, domain.ErrUserExists) {
			return err
		}
		log.Info().Str("email", du.email).Str("role", string(du.role)).Msg("seeded demo user")
	}
	return nil
}
