package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// FeedbackRepository is the in-memory repositories.FeedbackRepository
type FeedbackRepository struct {
	s *Store
}

func copyFeedback(f *models.Feedback) *models.Feedback {
	cp := *f
	if f.Attachment != nil {
		att := *f.Attachment
		cp.Attachment = &att
	}
	return &cp
}

func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.insert(f)
	return nil
}

func (r *FeedbackRepository) insert(f *models.Feedback) {
	if f.ID == "" {
		f.ID = models.NewID()
	}
	r.s.stamp(&f.CreatedAt, &f.UpdatedAt)
	r.s.feedback[f.ID] = copyFeedback(f)
}

func (r *FeedbackRepository) CreateReply(ctx context.Context, reply *models.Feedback) error {
	if reply.ParentFeedbackID == nil {
		return domain.ErrInvalidInput
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	parent, ok := r.s.feedback[*reply.ParentFeedbackID]
	if !ok {
		return notFound("feedback", *reply.ParentFeedbackID)
	}
	r.insert(reply)
	parent.Status = domain.FeedbackReplied
	parent.UpdatedAt = r.s.now()
	return nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.feedback[id]
	if !ok {
		return nil, notFound("feedback", id)
	}
	return copyFeedback(f), nil
}

func (r *FeedbackRepository) ListByApplication(ctx context.Context, applicationID string) ([]*models.Feedback, error) {
	out := r.filter(func(f *models.Feedback) bool { return f.ApplicationID == applicationID })
	sortFeedback(out, false)
	return out, nil
}

func (r *FeedbackRepository) List(ctx context.Context, filter repositories.FeedbackFilter, offset, limit int) ([]*models.Feedback, int64, error) {
	out := r.filter(func(f *models.Feedback) bool { return matchesFeedback(f, filter) })
	sortFeedback(out, true)
	return offsetLimit(out, offset, limit), int64(len(out)), nil
}

func (r *FeedbackRepository) Count(ctx context.Context, filter repositories.FeedbackFilter) (int64, error) {
	out := r.filter(func(f *models.Feedback) bool { return matchesFeedback(f, filter) })
	return int64(len(out)), nil
}

func (r *FeedbackRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.feedback[id]
	if !ok {
		return notFound("feedback", id)
	}
	if !f.IsRead {
		f.IsRead = true
		f.ReadAt = &at
		f.UpdatedAt = r.s.now()
	}
	return nil
}

func (r *FeedbackRepository) DeleteUnreplied(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.feedback[id]; !ok {
		return notFound("feedback", id)
	}
	for _, f := range r.s.feedback {
		if f.ParentFeedbackID != nil && *f.ParentFeedbackID == id {
			return repositories.ErrHasReplies
		}
	}
	delete(r.s.feedback, id)
	return nil
}

func (r *FeedbackRepository) filter(match func(*models.Feedback) bool) []*models.Feedback {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Feedback, 0)
	for _, f := range r.s.feedback {
		if match(f) {
			out = append(out, copyFeedback(f))
		}
	}
	return out
}

func matchesFeedback(f *models.Feedback, filter repositories.FeedbackFilter) bool {
	switch {
	case filter.UserID != "" && f.UserID != filter.UserID:
		return false
	case filter.OfficerID != "" && f.OfficerID != filter.OfficerID:
		return false
	case filter.ApplicationID != "" && f.ApplicationID != filter.ApplicationID:
		return false
	case filter.Status != "" && f.Status != filter.Status:
		return false
	case filter.Type != "" && f.Type != filter.Type:
		return false
	case filter.UnreadOnly && f.IsRead:
		return false
	}
	return true
}

func sortFeedback(items []*models.Feedback, desc bool) {
	slices.SortStableFunc(items, func(a, b *models.Feedback) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}
