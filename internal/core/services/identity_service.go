package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/metrics"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/password"
)

// placeholderEmailDomain marks generated emails. They count as missing
// when backfilling.
const placeholderEmailDomain = "@noemail.local"

// Profile is the applicant data submitted with an application
type Profile struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// IdentityService ensures a citizen account exists for every applicant
type IdentityService struct {
	users   repositories.UserRepository
	metrics *metrics.Metrics
	log     logging.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(users repositories.UserRepository, m *metrics.Metrics, log logging.Logger) *IdentityService {
	return &IdentityService{users: users, metrics: m, log: log}
}

// ResolveOrCreate returns the user registered under nationalID. A missing
// user is created with the national id as username and the phone as
// password. An existing user gets empty name, address and email filled
// from profile, populated fields are never overwritten.
//
// A username or email owned by another account never fails the caller:
// creation is skipped and a nil user returned, and a taken email is left
// out of the backfill.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, nationalID string, profile Profile) (*models.User, error) {
	nationalID = strings.TrimSpace(nationalID)
	if nationalID == "" {
		return nil, domain.Validation("National ID is required")
	}

	user, err := s.users.GetByNationalID(ctx, nationalID)
	switch {
	case err == nil:
		return s.backfill(ctx, user, profile)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, domain.Persistence("Failed to ensure user credentials", err)
	}

	if strings.TrimSpace(profile.Phone) == "" {
		return nil, domain.Validation("Phone number is required")
	}

	hashed, err := password.Hash(profile.Phone)
	if err != nil {
		return nil, domain.Persistence("Failed to ensure user credentials", err)
	}

	email := strings.TrimSpace(profile.Email)
	if email == "" {
		email = nationalID + placeholderEmailDomain
	}

	user = &models.User{
		Name:       profile.Name,
		NationalID: nationalID,
		Username:   nationalID,
		Email:      email,
		Password:   hashed,
		Phone:      profile.Phone,
		Address:    profile.Address,
		Role:       domain.RoleUser,
		IsActive:   true,
	}

	err = s.users.Create(ctx, user)
	if err == nil {
		s.metrics.IncUsersCreated()
		s.log.Info(ctx, "user created on first submission", "userId", user.ID)
		return user, nil
	}
	if !repositories.IsDuplicateKey(err) {
		return nil, domain.Persistence("Failed to ensure user credentials", err)
	}

	// A concurrent submission created the same user first, or another
	// account already owns the username or email
	existing, getErr := s.users.GetByNationalID(ctx, nationalID)
	switch {
	case getErr == nil:
		s.log.Warn(ctx, "duplicate user creation swallowed", "nationalId", nationalID)
		return s.backfill(ctx, existing, profile)
	case errors.Is(getErr, domain.ErrNotFound):
		s.log.Warn(ctx, "user not created, username or email belongs to another account",
			"nationalId", nationalID,
			"error", err,
		)
		return nil, nil
	default:
		return nil, domain.Persistence("Failed to ensure user credentials", getErr)
	}
}

func (s *IdentityService) backfill(ctx context.Context, user *models.User, profile Profile) (*models.User, error) {
	previousEmail := user.Email
	changed := false
	if user.Name == "" && profile.Name != "" {
		user.Name = profile.Name
		changed = true
	}
	if user.Address == "" && profile.Address != "" {
		user.Address = profile.Address
		changed = true
	}
	emailChanged := false
	if email := strings.TrimSpace(profile.Email); email != "" && hasNoEmail(user.Email) {
		user.Email = email
		emailChanged = true
	}
	if !changed && !emailChanged {
		return user, nil
	}

	err := s.users.Update(ctx, user)
	if err != nil && emailChanged && repositories.IsDuplicateKey(err) {
		s.log.Warn(ctx, "email backfill skipped, address belongs to another account", "userId", user.ID)
		user.Email = previousEmail
		if !changed {
			return user, nil
		}
		err = s.users.Update(ctx, user)
	}
	if err != nil {
		return nil, domain.Persistence("Failed to update user profile", err)
	}
	return user, nil
}

func hasNoEmail(email string) bool {
	return email == "" || strings.HasSuffix(email, placeholderEmailDomain)
}
