package repositories

import (
	"context"
	"strings"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"

	"gorm.io/gorm"
)

// applicationRepository handles application data access
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return translateError(r.db.WithContext(ctx).Create(app).Error)
}

// GetByID gets an application by ID
func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, translateError(err)
	}
	return &app, nil
}

// GetByIDs gets applications by IDs, missing ids are skipped
func (r *applicationRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Application, error) {
	var apps []*models.Application
	if len(ids) == 0 {
		return apps, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&apps).Error
	return apps, translateError(err)
}

// GetByTrackingNumber gets an application by tracking number
func (r *applicationRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Where("tracking_number = ?", trackingNumber).First(&app).Error; err != nil {
		return nil, translateError(err)
	}
	return &app, nil
}

// ExistsByTrackingNumber checks if tracking number exists
func (r *applicationRepository) ExistsByTrackingNumber(ctx context.Context, trackingNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("tracking_number = ?", trackingNumber).
		Count(&count).Error
	return count > 0, translateError(err)
}

// ListByNationalID lists applications of one applicant, newest first.
// A non-positive limit returns everything.
func (r *applicationRepository) ListByNationalID(ctx context.Context, nationalID string, limit int) ([]*models.Application, error) {
	var apps []*models.Application
	q := r.db.WithContext(ctx).
		Where("national_id = ?", nationalID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&apps).Error
	return apps, translateError(err)
}

// CountByNationalID counts applications of one applicant
func (r *applicationRepository) CountByNationalID(ctx context.Context, nationalID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("national_id = ?", nationalID).
		Count(&count).Error
	return count, translateError(err)
}

// CountByStatus groups applications by status
func (r *applicationRepository) CountByStatus(ctx context.Context, nationalID string) ([]models.GroupCount, error) {
	return r.groupCount(ctx, "status", nationalID)
}

// CountByTypeName groups applications by the application type snapshot
func (r *applicationRepository) CountByTypeName(ctx context.Context, nationalID string) ([]models.GroupCount, error) {
	return r.groupCount(ctx, "application_type_name", nationalID)
}

func (r *applicationRepository) groupCount(ctx context.Context, column, nationalID string) ([]models.GroupCount, error) {
	var rows []models.GroupCount
	q := r.db.WithContext(ctx).Model(&models.Application{}).
		Select(column + " AS label, COUNT(*) AS count")
	if nationalID != "" {
		q = q.Where("national_id = ?", nationalID)
	}
	err := q.Group(column).Order("count DESC").Order(column + " ASC").Scan(&rows).Error
	return rows, translateError(err)
}

// List lists applications matching filter with pagination
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	q := applyApplicationFilter(r.db.WithContext(ctx).Model(&models.Application{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	column, ok := ApplicationSortFields[filter.SortBy]
	if !ok {
		column = ApplicationSortFields[DefaultApplicationSort]
	}
	direction := " ASC"
	if filter.SortDesc {
		direction = " DESC"
	}

	err := applyApplicationFilter(r.db.WithContext(ctx), filter).
		Order(column + direction).
		Order("id" + direction).
		Offset(offset).
		Limit(limit).
		Find(&apps).Error
	return apps, total, translateError(err)
}

func applyApplicationFilter(q *gorm.DB, filter ApplicationFilter) *gorm.DB {
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ApplicationType != "" {
		q = q.Where("LOWER(application_type_name) LIKE ?", containsPattern(filter.ApplicationType))
	}
	if filter.Officer != "" {
		q = q.Where("LOWER(officer_name) LIKE ?", containsPattern(filter.Officer))
	}
	if filter.NationalID != "" {
		if filter.NationalIDExact {
			q = q.Where("national_id = ?", filter.NationalID)
		} else {
			q = q.Where("LOWER(national_id) LIKE ?", containsPattern(filter.NationalID))
		}
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	return q
}

// containsPattern builds a lower-case LIKE pattern with wildcards escaped
func containsPattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + s + "%"
}

// UpdateStatus updates the status of an application
func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}
