package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
)

// FileRepository is the in-memory repositories.FileRepository
type FileRepository struct {
	s *Store
}

func (r *FileRepository) Create(ctx context.Context, f *models.File) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.files {
		if existing.S3Key == f.S3Key {
			return duplicate("s3_key", f.S3Key)
		}
	}
	if f.ID == "" {
		f.ID = models.NewID()
	}
	r.s.stamp(&f.CreatedAt, &f.UpdatedAt)
	cp := *f
	r.s.files[f.ID] = &cp
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.files[id]
	if !ok || !f.IsActive {
		return nil, notFound("file", id)
	}
	cp := *f
	return &cp, nil
}

func (r *FileRepository) GetByKeys(ctx context.Context, keys []string) ([]*models.File, error) {
	return r.filter(func(f *models.File) bool {
		return f.IsActive && slices.Contains(keys, f.S3Key)
	}), nil
}

func (r *FileRepository) List(ctx context.Context, mimePrefix string, offset, limit int) ([]*models.File, int64, error) {
	files := r.filter(func(f *models.File) bool {
		return f.IsActive && strings.HasPrefix(f.MimeType, mimePrefix)
	})
	slices.SortStableFunc(files, func(a, b *models.File) int {
		return b.UploadDate.Compare(a.UploadDate)
	})
	return offsetLimit(files, offset, limit), int64(len(files)), nil
}

func (r *FileRepository) Deactivate(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.files[id]
	if !ok || !f.IsActive {
		return notFound("file", id)
	}
	f.IsActive = false
	f.UpdatedAt = r.s.now()
	return nil
}

func (r *FileRepository) DeleteInactiveBefore(ctx context.Context, t time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, f := range r.s.files {
		if !f.IsActive && f.UpdatedAt.Before(t) {
			delete(r.s.files, id)
			n++
		}
	}
	return n, nil
}

func (r *FileRepository) filter(match func(*models.File) bool) []*models.File {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.File, 0)
	for _, f := range r.s.files {
		if match(f) {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out
}
