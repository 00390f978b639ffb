package services

import (
	"context"
	"io"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// ObjectStore is the object storage collaborator
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// AttachmentValidator decides which URLs point at trusted, uploaded objects
type AttachmentValidator interface {
	Validate(rawURL string) error
	KeyFromURL(rawURL string) string
}

// ReferenceCache caches reference listings. Implementations are optional,
// services run uncached when none is configured.
type ReferenceCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}

// ApplicationTypeLookup resolves an application type reference
type ApplicationTypeLookup interface {
	ResolveApplicationType(ctx context.Context, ref domain.Ref) (*models.ApplicationType, error)
}

// OfficerLookup resolves an optional officer reference
type OfficerLookup interface {
	ResolveOfficer(ctx context.Context, ref domain.Ref) (*models.Officer, error)
}

// IdentityResolver ensures a citizen account exists for a national id
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, nationalID string, profile Profile) (*models.User, error)
}

// ReferenceCatalog resolves references and lists every reference row
type ReferenceCatalog interface {
	ApplicationTypeLookup
	OfficerLookup
	AllApplicationTypes(ctx context.Context) ([]*models.ApplicationType, map[string]*models.ApplicationType, error)
	AllOfficers(ctx context.Context) ([]*models.Officer, map[string]*models.Officer, error)
}
