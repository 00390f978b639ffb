package repositories

import (
	"context"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationTypeRepository handles application type data access
type applicationTypeRepository struct {
	db *gorm.DB
}

// NewApplicationTypeRepository creates a new application type repository
func NewApplicationTypeRepository(db *gorm.DB) ApplicationTypeRepository {
	return &applicationTypeRepository{db: db}
}

// Create creates a new application type
func (r *applicationTypeRepository) Create(ctx context.Context, t *models.ApplicationType) error {
	return translateError(r.db.WithContext(ctx).Create(t).Error)
}

// GetByID gets an application type by ID
func (r *applicationTypeRepository) GetByID(ctx context.Context, id string) (*models.ApplicationType, error) {
	var t models.ApplicationType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// GetByName gets an application type by exact name
func (r *applicationTypeRepository) GetByName(ctx context.Context, name string) (*models.ApplicationType, error) {
	var t models.ApplicationType
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&t).Error; err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// List lists application types
func (r *applicationTypeRepository) List(ctx context.Context, all bool) ([]*models.ApplicationType, error) {
	var types []*models.ApplicationType
	q := r.db.WithContext(ctx)
	if !all {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&types).Error
	return types, translateError(err)
}

// officerRepository handles officer data access
type officerRepository struct {
	db *gorm.DB
}

// NewOfficerRepository creates a new officer repository
func NewOfficerRepository(db *gorm.DB) OfficerRepository {
	return &officerRepository{db: db}
}

// Create creates a new officer
func (r *officerRepository) Create(ctx context.Context, o *models.Officer) error {
	return translateError(r.db.WithContext(ctx).Create(o).Error)
}

// GetByID gets an officer by ID
func (r *officerRepository) GetByID(ctx context.Context, id string) (*models.Officer, error) {
	var o models.Officer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

// GetByName gets an officer by exact name
func (r *officerRepository) GetByName(ctx context.Context, name string) (*models.Officer, error) {
	var o models.Officer
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&o).Error; err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

// GetByUserID gets the officer linked to a staff account
func (r *officerRepository) GetByUserID(ctx context.Context, userID string) (*models.Officer, error) {
	var o models.Officer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&o).Error; err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

// List lists officers
func (r *officerRepository) List(ctx context.Context, all bool) ([]*models.Officer, error) {
	var officers []*models.Officer
	q := r.db.WithContext(ctx)
	if !all {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&officers).Error
	return officers, translateError(err)
}

// NewGormSet builds every repository on one database handle
func NewGormSet(db *gorm.DB) *Set {
	return &Set{
		Users:            NewUserRepository(db),
		ApplicationTypes: NewApplicationTypeRepository(db),
		Officers:         NewOfficerRepository(db),
		Applications:     NewApplicationRepository(db),
		Feedback:         NewFeedbackRepository(db),
		Files:            NewFileRepository(db),
	}
}
