package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/todohub/internal/config"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/security"
	"github.com/google/uuid"
)

// UserSeeder is the part of the user store the bootstrap seed needs.
type UserSeeder interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, u user.User) (user.User, error)
}

type seedUser struct {
	name      string
	email     string
	password  string
	roles     []string
	activated bool
}

const (
	DemoEmail    = "demo@todohub.local"
	PendingEmail = "pending@todohub.local"
	demoPassword = "demo1234"
)

func seedUsers(cfg config.Config) []seedUser {
	users := []seedUser{
		{name: "Demo User", email: DemoEmail, password: demoPassword, roles: []string{user.RoleUser}, activated: true},
		{name: "Pending User", email: PendingEmail, password: demoPassword, roles: []string{user.RoleUser}},
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin := seedUser{
			name:      cfg.AdminName,
			email:     cfg.AdminEmail,
			password:  cfg.AdminPassword,
			roles:     []string{user.RoleUser, user.RoleAdmin},
			activated: true,
		}
		users = append([]seedUser{admin}, users...)
	}

	return users
}

// SeedUsers inserts the bootstrap accounts that are not present yet.
// It is a no-op unless SEED_DATA is enabled and is safe to run on every start.
func SeedUsers(ctx context.Context, store UserSeeder, cfg config.Config) error {
	if !cfg.SeedData {
		return nil
	}

	for _, su := range seedUsers(cfg) {
		exists, err := store.ExistsByEmail(ctx, su.email)
		if err != nil {
			return fmt.Errorf("seed %s: %w", su.email, err)
		}
		if exists {
			continue
		}

		hash, err := security.HashPassword(su.password)
		if err != nil {
			return fmt.Errorf("seed %s: %w", su.email, err)
		}

		now := time.Now().UTC()
		u := user.User{
			ID:           uuid.NewString(),
			Name:         su.name,
			Email:        su.email,
			PasswordHash: hash,
			Roles:        su.roles,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if su.activated {
			u.EmailActivatedAt = &now
		} else {
			tok := uuid.NewString()
			u.EmailActivationToken = &tok
		}

		if _, err := store.Save(ctx, u); err != nil {
			return fmt.Errorf("seed %s: %w", su.email, err)
		}
		slog.InfoContext(ctx, "seeded user", "email", su.email, "roles", su.roles)
	}

	return nil
}
