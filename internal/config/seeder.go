package config

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	repos *repositories.Set
	cfg   SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(repos *repositories.Set, cfg SeedConfig) *Seeder {
	return &Seeder{repos: repos, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.SeedReferenceData(ctx); err != nil {
		return err
	}

	if err := s.seedAdminUser(ctx); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the bootstrap superadmin when SEED_ADMIN_* is set
// and no superadmin exists yet
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	if s.cfg.AdminNationalID == "" || s.cfg.AdminPassword == "" {
		return nil
	}

	count, err := s.repos.Users.CountByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	email := s.cfg.AdminEmail
	if email == "" {
		email = strings.ToLower(s.cfg.AdminNationalID) + "@noemail.local"
	}

	admin := &models.User{
		Name:       "Super Admin",
		NationalID: s.cfg.AdminNationalID,
		Username:   s.cfg.AdminNationalID,
		Email:      email,
		Password:   hashedPassword,
		Role:       domain.RoleSuperAdmin,
		IsActive:   true,
	}
	if err := s.repos.Users.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil
		}
		return err
	}

	log.Printf("✅ Superadmin created: %s", admin.Username)
	return nil
}
