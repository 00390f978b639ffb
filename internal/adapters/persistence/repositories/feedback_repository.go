package repositories

import (
	"context"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// feedbackRepository handles feedback data access
type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create creates a new feedback message
func (r *feedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	return translateError(r.db.WithContext(ctx).Create(f).Error)
}

// CreateReply creates a reply and marks its parent replied
func (r *feedbackRepository) CreateReply(ctx context.Context, reply *models.Feedback) error {
	if reply.ParentFeedbackID == nil {
		return domain.ErrInvalidInput
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.Feedback
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Where("id = ?", *reply.ParentFeedbackID).First(&parent).Error; err != nil {
			return err
		}
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		// MySQL reports zero affected rows when the parent is already replied
		return tx.Model(&models.Feedback{}).
			Where("id = ?", parent.ID).
			Update("status", domain.FeedbackReplied).Error
	})
	return translateError(err)
}

// GetByID gets a feedback message by ID
func (r *feedbackRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	var f models.Feedback
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, translateError(err)
	}
	return &f, nil
}

// ListByApplication lists every message of an application in creation order
func (r *feedbackRepository) ListByApplication(ctx context.Context, applicationID string) ([]*models.Feedback, error) {
	var feedbacks []*models.Feedback
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&feedbacks).Error
	return feedbacks, translateError(err)
}

// List lists feedback matching filter, newest first
func (r *feedbackRepository) List(ctx context.Context, filter FeedbackFilter, offset, limit int) ([]*models.Feedback, int64, error) {
	var feedbacks []*models.Feedback
	var total int64

	if err := applyFeedbackFilter(r.db.WithContext(ctx).Model(&models.Feedback{}), filter).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := applyFeedbackFilter(r.db.WithContext(ctx), filter).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&feedbacks).Error
	return feedbacks, total, translateError(err)
}

// Count counts feedback matching filter
func (r *feedbackRepository) Count(ctx context.Context, filter FeedbackFilter) (int64, error) {
	var count int64
	err := applyFeedbackFilter(r.db.WithContext(ctx).Model(&models.Feedback{}), filter).Count(&count).Error
	return count, translateError(err)
}

func applyFeedbackFilter(q *gorm.DB, filter FeedbackFilter) *gorm.DB {
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.OfficerID != "" {
		q = q.Where("officer_id = ?", filter.OfficerID)
	}
	if filter.ApplicationID != "" {
		q = q.Where("application_id = ?", filter.ApplicationID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	return q
}

// MarkRead sets the read flag. Messages already read keep their read time.
func (r *feedbackRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
	return translateError(err)
}

// DeleteUnreplied hard deletes a feedback message with no replies. The row
// is locked first so a concurrent CreateReply either commits before the
// reply check or finds the parent gone.
func (r *feedbackRepository) DeleteUnreplied(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.Feedback
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Where("id = ?", id).First(&target).Error; err != nil {
			return err
		}

		var replies []string
		if err := tx.Model(&models.Feedback{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("parent_feedback_id = ?", id).
			Limit(1).
			Pluck("id", &replies).Error; err != nil {
			return err
		}
		if len(replies) > 0 {
			return ErrHasReplies
		}

		return tx.Where("id = ?", target.ID).Delete(&models.Feedback{}).Error
	})
	return translateError(err)
}
