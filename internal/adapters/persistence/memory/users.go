package memory

import (
	"context"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// UserRepository is the in-memory repositories.UserRepository
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(user); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = models.NewID()
	}
	r.s.stamp(&user.CreatedAt, &user.UpdatedAt)
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

// checkUnique enforces the national_id, username and email indexes
func (r *UserRepository) checkUnique(user *models.User) error {
	for _, u := range r.s.users {
		if u.ID == user.ID {
			continue
		}
		switch {
		case u.NationalID == user.NationalID:
			return duplicate("national_id", user.NationalID)
		case u.Username == user.Username:
			return duplicate("username", user.Username)
		case u.Email == user.Email:
			return duplicate("email", user.Email)
		}
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id }, id)
}

func (r *UserRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.NationalID == nationalID }, nationalID)
}

func (r *UserRepository) FindByCredential(ctx context.Context, credential string) (*models.User, error) {
	return r.find(func(u *models.User) bool {
		return u.Username == credential || u.Email == credential || u.NationalID == credential
	}, credential)
}

func (r *UserRepository) find(match func(*models.User) bool, key string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user", key)
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return notFound("user", user.ID)
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	user.UpdatedAt = r.s.now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
