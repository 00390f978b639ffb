package repositories

import (
	"context"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// fileRepository handles file metadata access
type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

// Create creates a new file record
func (r *fileRepository) Create(ctx context.Context, f *models.File) error {
	return translateError(r.db.WithContext(ctx).Create(f).Error)
}

// GetByID gets an active file by ID
func (r *fileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	var f models.File
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&f).Error; err != nil {
		return nil, translateError(err)
	}
	return &f, nil
}

// GetByKeys gets active files by storage key
func (r *fileRepository) GetByKeys(ctx context.Context, keys []string) ([]*models.File, error) {
	var files []*models.File
	if len(keys) == 0 {
		return files, nil
	}
	err := r.db.WithContext(ctx).
		Where("s3_key IN ? AND is_active = ?", keys, true).
		Find(&files).Error
	return files, translateError(err)
}

// List lists active files, newest first
func (r *fileRepository) List(ctx context.Context, mimePrefix string, offset, limit int) ([]*models.File, int64, error) {
	var files []*models.File
	var total int64

	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("is_active = ?", true)
		if mimePrefix != "" {
			q = q.Where("mime_type LIKE ?", mimePrefix+"%")
		}
		return q
	}

	if err := scope(r.db.WithContext(ctx).Model(&models.File{})).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	err := scope(r.db.WithContext(ctx)).
		Order("upload_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&files).Error
	return files, total, translateError(err)
}

// Deactivate soft deletes a file record
func (r *fileRepository) Deactivate(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.File{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteInactiveBefore removes deactivated rows last touched before t
func (r *fileRepository) DeleteInactiveBefore(ctx context.Context, t time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_active = ? AND updated_at < ?", false, t).
		Delete(&models.File{})
	return res.RowsAffected, translateError(res.Error)
}
