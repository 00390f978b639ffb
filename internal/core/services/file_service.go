package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/metrics"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/pagination"

	"github.com/google/uuid"
)

const (
	uploadFolder      = "uploads"
	fileDefaultLimit  = 20
	defaultPresignTTL = time.Hour
)

// FileService uploads attachments to object storage and keeps their metadata
type FileService struct {
	files      repositories.FileRepository
	store      ObjectStore
	limits     config.UploadConfig
	presignTTL time.Duration
	metrics    *metrics.Metrics
	log        logging.Logger

	now func() time.Time
}

// NewFileService creates a new file service
func NewFileService(
	files repositories.FileRepository,
	store ObjectStore,
	limits config.UploadConfig,
	presignTTL time.Duration,
	m *metrics.Metrics,
	log logging.Logger,
) *FileService {
	if presignTTL <= 0 {
		presignTTL = defaultPresignTTL
	}
	return &FileService{
		files:      files,
		store:      store,
		limits:     limits,
		presignTTL: presignTTL,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

// UploadFile is one part of a multipart upload
type UploadFile struct {
	OriginalName string
	ContentType  string
	Size         int64
	Body         io.Reader
}

// Upload stores every file and records its metadata. Uploads are open to
// anonymous applicants, actor may be nil.
func (s *FileService) Upload(ctx context.Context, uploads []UploadFile, actor *domain.Actor) ([]*models.File, error) {
	if len(uploads) == 0 {
		return nil, domain.Validation("No files provided. Please select at least one file to upload.")
	}
	if s.limits.MaxFiles > 0 && len(uploads) > s.limits.MaxFiles {
		return nil, domain.Validationf("Too many files. At most %d files can be uploaded at once.", s.limits.MaxFiles)
	}
	for _, u := range uploads {
		if s.limits.MaxFileSize > 0 && u.Size > s.limits.MaxFileSize {
			return nil, domain.Validationf("File too large: %s", u.OriginalName)
		}
	}

	var uploadedBy string
	if actor != nil {
		uploadedBy = actor.Identity
	}

	saved := make([]*models.File, 0, len(uploads))
	for _, u := range uploads {
		key := fmt.Sprintf("%s/%s%s", uploadFolder, uuid.NewString(), strings.ToLower(filepath.Ext(u.OriginalName)))
		contentType := u.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		fileURL, err := s.store.Upload(ctx, key, contentType, u.Body, u.Size)
		if err != nil {
			s.rollback(ctx, saved)
			return nil, domain.Persistence("Failed to upload files", err)
		}

		f := &models.File{
			OriginalName: u.OriginalName,
			FileName:     path.Base(key),
			FileURL:      fileURL,
			S3Key:        key,
			MimeType:     contentType,
			Size:         u.Size,
			UploadedBy:   uploadedBy,
			IsActive:     true,
			UploadDate:   s.now(),
		}
		if err := s.files.Create(ctx, f); err != nil {
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				s.log.Warn(ctx, "orphaned object after failed metadata write", "key", key, "error", delErr)
			}
			s.rollback(ctx, saved)
			return nil, domain.Persistence("Failed to upload files", err)
		}
		saved = append(saved, f)
	}

	s.metrics.AddFilesUploaded(len(saved))
	s.log.Info(ctx, "files uploaded", "count", len(saved))
	return saved, nil
}

// rollback undoes the parts of a batch stored before a later part failed.
// Rows are deactivated and left to the purge job.
func (s *FileService) rollback(ctx context.Context, saved []*models.File) {
	for _, f := range saved {
		if err := s.store.Delete(ctx, f.S3Key); err != nil {
			s.log.Warn(ctx, "orphaned object after failed upload batch", "key", f.S3Key, "error", err)
		}
		if err := s.files.Deactivate(ctx, f.ID); err != nil {
			s.log.Warn(ctx, "file row left active after failed upload batch", "fileId", f.ID, "error", err)
		}
	}
}

// FileList is one page of file metadata
type FileList struct {
	Files      []*models.File  `json:"files"`
	Pagination pagination.Meta `json:"pagination"`
}

// List pages through active files, newest first. mimePrefix filters on the
// start of the mime type.
func (s *FileService) List(ctx context.Context, page, limit int, mimePrefix string, actor *domain.Actor) (*FileList, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	params := pagination.New(page, limit, fileDefaultLimit, pagination.MaxLimit)

	files, total, err := s.files.List(ctx, strings.TrimSpace(mimePrefix), params.Offset, params.Limit)
	if err != nil {
		return nil, domain.Persistence("Failed to retrieve files", err)
	}
	if files == nil {
		files = []*models.File{}
	}
	return &FileList{Files: files, Pagination: pagination.GetMeta(params, total)}, nil
}

// FileDetail is file metadata with a short lived download URL
type FileDetail struct {
	*models.File
	DownloadURL string `json:"downloadUrl"`
}

// Get returns an active file and a presigned download URL for it
func (s *FileService) Get(ctx context.Context, id string, actor *domain.Actor) (*FileDetail, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	f, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "File not found", "Failed to retrieve file")
	}

	signed, err := s.store.PresignGet(ctx, f.S3Key, s.presignTTL)
	if err != nil {
		return nil, domain.Persistence("Failed to generate download URL", err)
	}
	return &FileDetail{File: f, DownloadURL: signed}, nil
}

// Delete removes the object and soft deletes its metadata. Staff may
// delete any file, others only what they uploaded.
func (s *FileService) Delete(ctx context.Context, id string, actor *domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	f, err := s.files.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "File not found", "Failed to delete file")
	}
	if !actor.Role.IsStaff() && f.UploadedBy != actor.Identity {
		return domain.Forbidden("Access denied. You can only delete files you uploaded.")
	}

	if err := s.store.Delete(ctx, f.S3Key); err != nil {
		return domain.Persistence("Failed to delete file", err)
	}
	if err := s.files.Deactivate(ctx, f.ID); err != nil {
		return notFoundOr(err, "File not found", "Failed to delete file")
	}

	s.log.Info(ctx, "file deleted", "fileId", f.ID, "by", actor.Identity)
	return nil
}

// PurgeInactive drops metadata of files soft deleted more than retention ago
func (s *FileService) PurgeInactive(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.files.DeleteInactiveBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, domain.Persistence("Failed to purge files", err)
	}
	return n, nil
}
