// Package memory provides in-process repositories. They back the
// STORE_DRIVER=memory mode and the service tests.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// Store holds every table behind one lock
type Store struct {
	mu sync.RWMutex

	users            map[string]*models.User
	applicationTypes map[string]*models.ApplicationType
	officers         map[string]*models.Officer
	applications     map[string]*models.Application
	feedback         map[string]*models.Feedback
	files            map[string]*models.File

	// now is the clock used for timestamps
	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:            make(map[string]*models.User),
		applicationTypes: make(map[string]*models.ApplicationType),
		officers:         make(map[string]*models.Officer),
		applications:     make(map[string]*models.Application),
		feedback:         make(map[string]*models.Feedback),
		files:            make(map[string]*models.File),
		now:              time.Now,
	}
}

// SetClock replaces the timestamp source
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// NewSet builds a repository set over a fresh store
func NewSet() *repositories.Set {
	return NewStore().Set()
}

// Set exposes the store through the repository interfaces
func (s *Store) Set() *repositories.Set {
	return &repositories.Set{
		Users:            &UserRepository{s: s},
		ApplicationTypes: &ApplicationTypeRepository{s: s},
		Officers:         &OfficerRepository{s: s},
		Applications:     &ApplicationRepository{s: s},
		Feedback:         &FeedbackRepository{s: s},
		Files:            &FileRepository{s: s},
	}
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)
}

func duplicate(what, value string) error {
	return fmt.Errorf("%w: %s %q", domain.ErrDuplicateEntry, what, value)
}

// stamp sets creation timestamps the way autoCreateTime does
func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func offsetLimit[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
