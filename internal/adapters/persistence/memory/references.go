package memory

import (
	"context"
	"sort"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
)

// ApplicationTypeRepository is the in-memory repositories.ApplicationTypeRepository
type ApplicationTypeRepository struct {
	s *Store
}

func (r *ApplicationTypeRepository) Create(ctx context.Context, t *models.ApplicationType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.applicationTypes {
		if existing.Name == t.Name {
			return duplicate("application type", t.Name)
		}
	}
	if t.ID == "" {
		t.ID = models.NewID()
	}
	r.s.stamp(&t.CreatedAt, &t.UpdatedAt)
	cp := *t
	r.s.applicationTypes[t.ID] = &cp
	return nil
}

func (r *ApplicationTypeRepository) GetByID(ctx context.Context, id string) (*models.ApplicationType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.applicationTypes[id]
	if !ok {
		return nil, notFound("application type", id)
	}
	cp := *t
	return &cp, nil
}

func (r *ApplicationTypeRepository) GetByName(ctx context.Context, name string) (*models.ApplicationType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.applicationTypes {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, notFound("application type", name)
}

func (r *ApplicationTypeRepository) List(ctx context.Context, all bool) ([]*models.ApplicationType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.ApplicationType, 0, len(r.s.applicationTypes))
	for _, t := range r.s.applicationTypes {
		if all || t.IsActive {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// OfficerRepository is the in-memory repositories.OfficerRepository
type OfficerRepository struct {
	s *Store
}

func (r *OfficerRepository) Create(ctx context.Context, o *models.Officer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if o.UserID != nil {
		for _, existing := range r.s.officers {
			if existing.UserID != nil && *existing.UserID == *o.UserID {
				return duplicate("officer user_id", *o.UserID)
			}
		}
	}
	if o.ID == "" {
		o.ID = models.NewID()
	}
	r.s.stamp(&o.CreatedAt, &o.UpdatedAt)
	cp := *o
	r.s.officers[o.ID] = &cp
	return nil
}

func (r *OfficerRepository) GetByID(ctx context.Context, id string) (*models.Officer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.officers[id]
	if !ok {
		return nil, notFound("officer", id)
	}
	cp := *o
	return &cp, nil
}

func (r *OfficerRepository) GetByName(ctx context.Context, name string) (*models.Officer, error) {
	return r.find(func(o *models.Officer) bool { return o.Name == name }, name)
}

func (r *OfficerRepository) GetByUserID(ctx context.Context, userID string) (*models.Officer, error) {
	return r.find(func(o *models.Officer) bool { return o.UserID != nil && *o.UserID == userID }, userID)
}

func (r *OfficerRepository) find(match func(*models.Officer) bool, key string) (*models.Officer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	// oldest first so duplicate names resolve the same way every time
	var found *models.Officer
	for _, o := range r.s.officers {
		if match(o) && (found == nil || o.CreatedAt.Before(found.CreatedAt) ||
			(o.CreatedAt.Equal(found.CreatedAt) && o.ID < found.ID)) {
			found = o
		}
	}
	if found == nil {
		return nil, notFound("officer", key)
	}
	cp := *found
	return &cp, nil
}

func (r *OfficerRepository) List(ctx context.Context, all bool) ([]*models.Officer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Officer, 0, len(r.s.officers))
	for _, o := range r.s.officers {
		if all || o.IsActive {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
