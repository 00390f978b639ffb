package repositories

import (
	"context"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// Repositories return domain.ErrNotFound for missing rows and
// domain.ErrDuplicateEntry for unique index violations (wrapped).

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.User, error)
	// FindByCredential matches username, email or national id
	FindByCredential(ctx context.Context, credential string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// ApplicationTypeRepository defines application type repository interface
type ApplicationTypeRepository interface {
	Create(ctx context.Context, t *models.ApplicationType) error
	GetByID(ctx context.Context, id string) (*models.ApplicationType, error)
	GetByName(ctx context.Context, name string) (*models.ApplicationType, error)
	// List returns all types ordered by name, inactive included when all is set
	List(ctx context.Context, all bool) ([]*models.ApplicationType, error)
}

// OfficerRepository defines officer repository interface
type OfficerRepository interface {
	Create(ctx context.Context, o *models.Officer) error
	GetByID(ctx context.Context, id string) (*models.Officer, error)
	GetByName(ctx context.Context, name string) (*models.Officer, error)
	GetByUserID(ctx context.Context, userID string) (*models.Officer, error)
	List(ctx context.Context, all bool) ([]*models.Officer, error)
}

// ApplicationFilter narrows application listings. Text fields match
// case-insensitive substrings unless NationalIDExact is set.
type ApplicationFilter struct {
	Status          domain.ApplicationStatus
	ApplicationType string
	Officer         string
	NationalID      string
	NationalIDExact bool
	From            *time.Time
	To              *time.Time
	SortBy          string
	SortDesc        bool
}

// ApplicationSortFields maps accepted sort keys to columns
var ApplicationSortFields = map[string]string{
	"createdAt":           "created_at",
	"updatedAt":           "updated_at",
	"submittedAt":         "submitted_at",
	"trackingNumber":      "tracking_number",
	"name":                "name",
	"cnic":                "national_id",
	"status":              "status",
	"applicationType":     "application_type_name",
	"applicationTypeName": "application_type_name",
	"officer":             "officer_name",
	"officerName":         "officer_name",
}

// DefaultApplicationSort is used when SortBy is empty or unknown
const DefaultApplicationSort = "createdAt"

// ApplicationRepository defines application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Application, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Application, error)
	ExistsByTrackingNumber(ctx context.Context, trackingNumber string) (bool, error)
	// ListByNationalID returns the applications of one applicant, newest first
	ListByNationalID(ctx context.Context, nationalID string, limit int) ([]*models.Application, error)
	CountByNationalID(ctx context.Context, nationalID string) (int64, error)
	// CountByStatus groups by status. An empty nationalID counts everything.
	CountByStatus(ctx context.Context, nationalID string) ([]models.GroupCount, error)
	CountByTypeName(ctx context.Context, nationalID string) ([]models.GroupCount, error)
	List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]*models.Application, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
}

// FeedbackFilter narrows feedback listings and counts
type FeedbackFilter struct {
	UserID        string
	OfficerID     string
	ApplicationID string
	Status        domain.FeedbackStatus
	Type          domain.FeedbackType
	UnreadOnly    bool
}

// FeedbackRepository defines feedback repository interface
type FeedbackRepository interface {
	Create(ctx context.Context, f *models.Feedback) error
	// CreateReply stores reply and marks its parent replied in one transaction
	CreateReply(ctx context.Context, reply *models.Feedback) error
	GetByID(ctx context.Context, id string) (*models.Feedback, error)
	// ListByApplication returns all messages of an application, oldest first
	ListByApplication(ctx context.Context, applicationID string) ([]*models.Feedback, error)
	// List returns a page of messages, newest first
	List(ctx context.Context, filter FeedbackFilter, offset, limit int) ([]*models.Feedback, int64, error)
	Count(ctx context.Context, filter FeedbackFilter) (int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	// DeleteUnreplied deletes a message unless a reply names it as parent,
	// in which case ErrHasReplies is returned. The check and the delete are
	// atomic with respect to CreateReply.
	DeleteUnreplied(ctx context.Context, id string) error
}

// FileRepository defines file metadata repository interface
type FileRepository interface {
	Create(ctx context.Context, f *models.File) error
	GetByID(ctx context.Context, id string) (*models.File, error)
	// GetByKeys returns active files whose storage key is in keys
	GetByKeys(ctx context.Context, keys []string) ([]*models.File, error)
	List(ctx context.Context, mimePrefix string, offset, limit int) ([]*models.File, int64, error)
	Deactivate(ctx context.Context, id string) error
	// DeleteInactiveBefore removes rows deactivated before t
	DeleteInactiveBefore(ctx context.Context, t time.Time) (int64, error)
}

// Set bundles the repositories one storage backend provides
type Set struct {
	Users            UserRepository
	ApplicationTypes ApplicationTypeRepository
	Officers         OfficerRepository
	Applications     ApplicationRepository
	Feedback         FeedbackRepository
	Files            FileRepository
}
