package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/jwt"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/metrics"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/password"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 2 * time.Hour
)

// Auth errors
var (
	errInvalidCredentials = &domain.Error{
		Kind:    domain.ErrUnauthorized,
		Message: "Invalid credentials",
		Err:     domain.ErrInvalidCredentials,
	}
	errAccountLocked = &domain.Error{
		Kind:    domain.ErrUnauthorized,
		Message: "Account is temporarily locked due to multiple failed login attempts. Please try again later.",
		Err:     domain.ErrAccountLocked,
	}
	errAccountInactive = &domain.Error{
		Kind:    domain.ErrForbidden,
		Message: "Account is inactive",
		Err:     domain.ErrAccountInactive,
	}
)

// AuthService handles authentication business logic
type AuthService struct {
	users    repositories.UserRepository
	officers repositories.OfficerRepository
	jwtCfg   config.JWTConfig
	metrics  *metrics.Metrics
	log      logging.Logger

	now func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	repos *repositories.Set,
	jwtCfg config.JWTConfig,
	m *metrics.Metrics,
	log logging.Logger,
) *AuthService {
	return &AuthService{
		users:    repos.Users,
		officers: repos.Officers,
		jwtCfg:   jwtCfg,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// LoginInput represents login input. Username may also be an email or a
// national id.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token string               `json:"token"`
	User  *models.UserResponse `json:"user"`
}

// Login authenticates a user. Five failed attempts lock the account for
// two hours.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	credential := strings.TrimSpace(input.Username)
	if credential == "" || input.Password == "" {
		return nil, domain.Validation("Username and password are required")
	}

	// 1. Find user by username, email or national id
	user, err := s.users.FindByCredential(ctx, credential)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.IncLoginFailures()
			return nil, errInvalidCredentials
		}
		return nil, domain.Persistence("Login failed", err)
	}

	now := s.now()

	// 2. Check lock and active flag
	if user.IsLocked(now) {
		s.metrics.IncLoginFailures()
		return nil, errAccountLocked
	}
	if !user.IsActive {
		return nil, errAccountInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.Password) {
		s.metrics.IncLoginFailures()
		if err := s.registerFailure(ctx, user, now); err != nil {
			return nil, err
		}
		return nil, errInvalidCredentials
	}

	// 4. Reset attempts and stamp the login
	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, domain.Persistence("Login failed", err)
	}

	// 5. Issue token
	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "userId", user.ID, "role", string(user.Role))
	return &AuthResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *AuthService) registerFailure(ctx context.Context, user *models.User, now time.Time) error {
	// an expired lock starts a fresh count
	if user.LockUntil != nil && !user.IsLocked(now) {
		user.LoginAttempts = 0
		user.LockUntil = nil
	}

	user.LoginAttempts++
	if user.LoginAttempts >= maxLoginAttempts {
		lockUntil := now.Add(lockDuration)
		user.LockUntil = &lockUntil
		s.log.Warn(ctx, "account locked after failed logins", "userId", user.ID)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return domain.Persistence("Login failed", err)
	}
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User) (string, error) {
	sub := jwt.Subject{
		UserID:     user.ID,
		NationalID: user.NationalID,
		Username:   user.Username,
		Role:       string(user.Role),
	}

	if user.Role.IsStaff() {
		officer, err := s.officers.GetByUserID(ctx, user.ID)
		switch {
		case err == nil:
			sub.OfficerID = officer.ID
		case !errors.Is(err, domain.ErrNotFound):
			return "", domain.Persistence("Login failed", err)
		}
	}

	token, err := jwt.GenerateAccessToken(sub, s.jwtCfg.Secret, s.jwtCfg.AccessTokenMins)
	if err != nil {
		return "", domain.Persistence("Failed to generate token", err)
	}
	return token, nil
}

// Me returns the profile of the authenticated actor
func (s *AuthService) Me(ctx context.Context, actor *domain.Actor) (*models.UserResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, actor.Identity)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "Failed to fetch user")
	}
	return user.ToResponse(), nil
}
