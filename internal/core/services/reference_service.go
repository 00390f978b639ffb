package services

import (
	"context"
	"errors"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
)

const (
	cacheKeyApplicationTypes = "application_types"
	cacheKeyOfficers         = "officers"
)

// ReferenceService resolves and lists application types and officers
type ReferenceService struct {
	types    repositories.ApplicationTypeRepository
	officers repositories.OfficerRepository
	cache    ReferenceCache
	log      logging.Logger
}

// NewReferenceService creates a new reference service. cache may be nil.
func NewReferenceService(
	types repositories.ApplicationTypeRepository,
	officers repositories.OfficerRepository,
	cache ReferenceCache,
	log logging.Logger,
) *ReferenceService {
	return &ReferenceService{
		types:    types,
		officers: officers,
		cache:    cache,
		log:      log,
	}
}

// ResolveApplicationType looks ref up by id or by exact name
func (s *ReferenceService) ResolveApplicationType(ctx context.Context, ref domain.Ref) (*models.ApplicationType, error) {
	if ref.IsZero() {
		return nil, domain.Validation("Application type is required")
	}

	var (
		t   *models.ApplicationType
		err error
	)
	if id, ok := ref.ByID(); ok {
		t, err = s.types.GetByID(ctx, id)
	} else {
		name, _ := ref.ByName()
		t, err = s.types.GetByName(ctx, name)
	}

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Application type not found: " + ref.String())
		}
		return nil, domain.Persistence("Failed to resolve application type", err)
	}
	return t, nil
}

// ResolveOfficer looks ref up by id or by exact name. An absent ref
// resolves to nil without error.
func (s *ReferenceService) ResolveOfficer(ctx context.Context, ref domain.Ref) (*models.Officer, error) {
	if ref.IsZero() {
		return nil, nil
	}

	var (
		o   *models.Officer
		err error
	)
	if id, ok := ref.ByID(); ok {
		o, err = s.officers.GetByID(ctx, id)
	} else {
		name, _ := ref.ByName()
		o, err = s.officers.GetByName(ctx, name)
	}

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Officer not found: " + ref.String())
		}
		return nil, domain.Persistence("Failed to resolve officer", err)
	}
	return o, nil
}

// ListApplicationTypes returns the active application types by name
func (s *ReferenceService) ListApplicationTypes(ctx context.Context) ([]*models.ApplicationType, error) {
	var types []*models.ApplicationType
	if s.cached(ctx, cacheKeyApplicationTypes, &types) {
		return types, nil
	}

	types, err := s.types.List(ctx, false)
	if err != nil {
		return nil, domain.Persistence("Failed to fetch application types", err)
	}
	s.store(ctx, cacheKeyApplicationTypes, types)
	return types, nil
}

// ListOfficers returns the active officers by name
func (s *ReferenceService) ListOfficers(ctx context.Context) ([]*models.Officer, error) {
	var officers []*models.Officer
	if s.cached(ctx, cacheKeyOfficers, &officers) {
		return officers, nil
	}

	officers, err := s.officers.List(ctx, false)
	if err != nil {
		return nil, domain.Persistence("Failed to fetch officers", err)
	}
	s.store(ctx, cacheKeyOfficers, officers)
	return officers, nil
}

// AllApplicationTypes returns every type, inactive included, keyed by id
func (s *ReferenceService) AllApplicationTypes(ctx context.Context) ([]*models.ApplicationType, map[string]*models.ApplicationType, error) {
	types, err := s.types.List(ctx, true)
	if err != nil {
		return nil, nil, domain.Persistence("Failed to fetch application types", err)
	}
	byID := make(map[string]*models.ApplicationType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}
	return types, byID, nil
}

// AllOfficers returns every officer, inactive included, keyed by id
func (s *ReferenceService) AllOfficers(ctx context.Context) ([]*models.Officer, map[string]*models.Officer, error) {
	officers, err := s.officers.List(ctx, true)
	if err != nil {
		return nil, nil, domain.Persistence("Failed to fetch officers", err)
	}
	byID := make(map[string]*models.Officer, len(officers))
	for _, o := range officers {
		byID[o.ID] = o
	}
	return officers, byID, nil
}

// RefreshCache drops and reloads the cached listings
func (s *ReferenceService) RefreshCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, cacheKeyApplicationTypes, cacheKeyOfficers); err != nil {
		return err
	}
	if _, err := s.ListApplicationTypes(ctx); err != nil {
		return err
	}
	_, err := s.ListOfficers(ctx)
	return err
}

func (s *ReferenceService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn(ctx, "reference cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *ReferenceService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.log.Warn(ctx, "reference cache write failed", "key", key, "error", err)
	}
}
