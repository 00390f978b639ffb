package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/metrics"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/pagination"
)

const feedbackDefaultLimit = 20

// FeedbackService owns officer and citizen conversations about applications
type FeedbackService struct {
	feedback    repositories.FeedbackRepository
	apps        repositories.ApplicationRepository
	users       repositories.UserRepository
	attachments AttachmentValidator
	policy      AccessPolicy
	metrics     *metrics.Metrics
	log         logging.Logger

	now func() time.Time
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	repos *repositories.Set,
	attachments AttachmentValidator,
	m *metrics.Metrics,
	log logging.Logger,
) *FeedbackService {
	return &FeedbackService{
		feedback:    repos.Feedback,
		apps:        repos.Applications,
		users:       repos.Users,
		attachments: attachments,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// CreateFeedbackInput represents officer feedback on an application
type CreateFeedbackInput struct {
	ApplicationID string             `json:"applicationId"`
	UserID        string             `json:"userId"`
	Message       string             `json:"message"`
	AttachmentURL string             `json:"attachmentUrl"`
	Attachment    *models.Attachment `json:"attachment"`
}

// ReplyInput represents a citizen reply
type ReplyInput struct {
	Message       string             `json:"message"`
	AttachmentURL string             `json:"attachmentUrl"`
	Attachment    *models.Attachment `json:"attachment"`
}

// CreateFeedback starts a new thread from an officer to the applicant
func (s *FeedbackService) CreateFeedback(ctx context.Context, in CreateFeedbackInput, actor *domain.Actor) (*models.Feedback, error) {
	in.ApplicationID = strings.TrimSpace(in.ApplicationID)
	in.UserID = strings.TrimSpace(in.UserID)
	if in.ApplicationID == "" || in.UserID == "" || strings.TrimSpace(in.Message) == "" {
		return nil, domain.Validation("Missing required fields: applicationId, userId, message")
	}
	if err := s.policy.CanCreateFeedback(actor, nil); err != nil {
		return nil, err
	}
	if err := s.validateAttachment(in.AttachmentURL, in.Attachment); err != nil {
		return nil, err
	}

	app, err := s.apps.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return nil, notFoundOr(err, "Application not found", "Failed to fetch application")
	}
	if err := s.policy.CanCreateFeedback(actor, app); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, notFoundOr(err, "User not found", "Failed to fetch user")
	}

	fb := &models.Feedback{
		ApplicationID: app.ID,
		OfficerID:     actor.OfficerIdentity(),
		UserID:        in.UserID,
		Message:       in.Message,
		AttachmentURL: in.AttachmentURL,
		Attachment:    in.Attachment,
		Type:          domain.FeedbackTypeOfficer,
		Status:        domain.FeedbackSent,
		ThreadID:      models.NewID(),
		SentAt:        s.now(),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, domain.Persistence("Failed to send feedback", err)
	}

	s.metrics.IncFeedbackCreated(string(fb.Type))
	s.log.Info(ctx, "feedback sent", "feedbackId", fb.ID, "applicationId", fb.ApplicationID, "threadId", fb.ThreadID)
	return fb, nil
}

// ReplyToFeedback answers a message in its thread and marks it replied
func (s *FeedbackService) ReplyToFeedback(ctx context.Context, feedbackID string, in ReplyInput, actor *domain.Actor) (*models.Feedback, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, domain.Validation("Message is required")
	}
	if err := s.policy.CanReply(actor, nil); err != nil {
		return nil, err
	}
	if err := s.validateAttachment(in.AttachmentURL, in.Attachment); err != nil {
		return nil, err
	}

	original, err := s.feedback.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, notFoundOr(err, "Feedback not found", "Failed to fetch feedback")
	}
	if err := s.policy.CanReply(actor, original); err != nil {
		return nil, err
	}

	parentID := original.ID
	reply := &models.Feedback{
		ApplicationID:    original.ApplicationID,
		OfficerID:        original.OfficerID,
		UserID:           actor.Identity,
		Message:          in.Message,
		AttachmentURL:    in.AttachmentURL,
		Attachment:       in.Attachment,
		Type:             domain.FeedbackTypeReply,
		Status:           domain.FeedbackSent,
		ParentFeedbackID: &parentID,
		ThreadID:         original.ThreadID,
		SentAt:           s.now(),
	}
	if err := s.feedback.CreateReply(ctx, reply); err != nil {
		return nil, notFoundOr(err, "Feedback not found", "Failed to send reply")
	}

	s.metrics.IncFeedbackCreated(string(reply.Type))
	s.log.Info(ctx, "reply sent", "feedbackId", reply.ID, "parentId", parentID, "threadId", reply.ThreadID)
	return reply, nil
}

// FeedbackThread is one conversation, oldest message first
type FeedbackThread struct {
	ThreadID      string             `json:"threadId"`
	Feedbacks     []*models.Feedback `json:"feedbacks"`
	TotalMessages int                `json:"totalMessages"`
	LatestMessage *models.Feedback   `json:"latestMessage"`
}

// ApplicationFeedback is every thread of an application
type ApplicationFeedback struct {
	Application     *models.ApplicationBrief `json:"application"`
	FeedbackThreads []FeedbackThread         `json:"feedbackThreads"`
}

// GetApplicationFeedback returns the threads of an application, most
// recently active thread first
func (s *FeedbackService) GetApplicationFeedback(ctx context.Context, applicationID string, actor *domain.Actor) (*ApplicationFeedback, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, notFoundOr(err, "Application not found", "Failed to fetch application")
	}
	if err := s.policy.CanViewApplicationFeedback(actor, app); err != nil {
		return nil, err
	}

	messages, err := s.feedback.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, domain.Persistence("Failed to fetch feedback", err)
	}

	return &ApplicationFeedback{
		Application:     app.ToBrief(),
		FeedbackThreads: groupThreads(messages),
	}, nil
}

// groupThreads groups messages that are in creation order by thread
func groupThreads(messages []*models.Feedback) []FeedbackThread {
	index := make(map[string]int)
	threads := make([]FeedbackThread, 0)
	for _, m := range messages {
		i, ok := index[m.ThreadID]
		if !ok {
			i = len(threads)
			index[m.ThreadID] = i
			threads = append(threads, FeedbackThread{ThreadID: m.ThreadID})
		}
		threads[i].Feedbacks = append(threads[i].Feedbacks, m)
	}

	for i := range threads {
		t := &threads[i]
		t.TotalMessages = len(t.Feedbacks)
		t.LatestMessage = t.Feedbacks[len(t.Feedbacks)-1]
	}

	slices.SortStableFunc(threads, func(a, b FeedbackThread) int {
		return b.LatestMessage.CreatedAt.Compare(a.LatestMessage.CreatedAt)
	})
	return threads
}

// FeedbackQuery holds listing filters
type FeedbackQuery struct {
	Page          int
	Limit         int
	Status        string
	ApplicationID string
}

// FeedbackList is one page of an inbox
type FeedbackList struct {
	Feedbacks           []models.FeedbackView `json:"feedbacks"`
	Pagination          pagination.Meta       `json:"pagination"`
	UnreadCount         *int64                `json:"unreadCount,omitempty"`
	PendingRepliesCount *int64                `json:"pendingRepliesCount,omitempty"`
}

// ListForUser is the citizen inbox with the count of unread officer feedback
func (s *FeedbackService) ListForUser(ctx context.Context, q FeedbackQuery, actor *domain.Actor) (*FeedbackList, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleUser {
		return nil, domain.Forbidden("Access denied. This endpoint is for regular users only.")
	}

	filter := repositories.FeedbackFilter{UserID: actor.Identity}
	if err := applyStatus(&filter, q.Status); err != nil {
		return nil, err
	}

	out, err := s.list(ctx, filter, q)
	if err != nil {
		return nil, err
	}

	unread, err := s.feedback.Count(ctx, repositories.FeedbackFilter{
		UserID:     actor.Identity,
		Type:       domain.FeedbackTypeOfficer,
		UnreadOnly: true,
	})
	if err != nil {
		return nil, domain.Persistence("Failed to count unread feedback", err)
	}
	out.UnreadCount = &unread
	return out, nil
}

// ListForOfficer is the officer inbox with the count of unread replies
func (s *FeedbackService) ListForOfficer(ctx context.Context, q FeedbackQuery, actor *domain.Actor) (*FeedbackList, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() {
		return nil, domain.Forbidden("Access denied. This endpoint is for officers only.")
	}

	officerID := actor.OfficerIdentity()
	filter := repositories.FeedbackFilter{
		OfficerID:     officerID,
		ApplicationID: strings.TrimSpace(q.ApplicationID),
	}
	if err := applyStatus(&filter, q.Status); err != nil {
		return nil, err
	}

	out, err := s.list(ctx, filter, q)
	if err != nil {
		return nil, err
	}

	pending, err := s.feedback.Count(ctx, repositories.FeedbackFilter{
		OfficerID:  officerID,
		Type:       domain.FeedbackTypeReply,
		UnreadOnly: true,
	})
	if err != nil {
		return nil, domain.Persistence("Failed to count pending replies", err)
	}
	out.PendingRepliesCount = &pending
	return out, nil
}

func (s *FeedbackService) list(ctx context.Context, filter repositories.FeedbackFilter, q FeedbackQuery) (*FeedbackList, error) {
	params := pagination.New(q.Page, q.Limit, feedbackDefaultLimit, pagination.MaxLimit)

	items, total, err := s.feedback.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, domain.Persistence("Failed to fetch feedback", err)
	}

	briefs := s.applicationBriefs(ctx, items)
	views := make([]models.FeedbackView, 0, len(items))
	for _, f := range items {
		views = append(views, models.FeedbackView{Feedback: f, Application: briefs[f.ApplicationID]})
	}

	return &FeedbackList{
		Feedbacks:  views,
		Pagination: pagination.GetMeta(params, total),
	}, nil
}

// applicationBriefs labels messages with their application. A failed
// lookup only drops the labels.
func (s *FeedbackService) applicationBriefs(ctx context.Context, items []*models.Feedback) map[string]*models.ApplicationBrief {
	ids := make([]string, 0, len(items))
	for _, f := range items {
		if !slices.Contains(ids, f.ApplicationID) {
			ids = append(ids, f.ApplicationID)
		}
	}

	briefs := make(map[string]*models.ApplicationBrief, len(ids))
	if len(ids) == 0 {
		return briefs
	}
	apps, err := s.apps.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Warn(ctx, "application lookup for feedback failed", "error", err)
		return briefs
	}
	for _, a := range apps {
		briefs[a.ID] = a.ToBrief()
	}
	return briefs
}

// MarkAsRead flags a message read. Marking twice keeps the first read time.
func (s *FeedbackService) MarkAsRead(ctx context.Context, feedbackID string, actor *domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	fb, err := s.feedback.GetByID(ctx, feedbackID)
	if err != nil {
		return notFoundOr(err, "Feedback not found", "Failed to fetch feedback")
	}
	if err := s.policy.CanMarkRead(actor, fb); err != nil {
		return err
	}

	if err := s.feedback.MarkRead(ctx, fb.ID, s.now()); err != nil {
		return notFoundOr(err, "Feedback not found", "Failed to mark feedback as read")
	}
	return nil
}

// DeleteFeedback removes the actor's own message when nothing replies to it
func (s *FeedbackService) DeleteFeedback(ctx context.Context, feedbackID string, actor *domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	fb, err := s.feedback.GetByID(ctx, feedbackID)
	if err != nil {
		return notFoundOr(err, "Feedback not found", "Failed to fetch feedback")
	}
	if err := s.policy.CanDeleteFeedback(actor, fb); err != nil {
		return err
	}

	if err := s.feedback.DeleteUnreplied(ctx, fb.ID); err != nil {
		if errors.Is(err, repositories.ErrHasReplies) {
			return domain.Validation("Cannot delete feedback that has replies.")
		}
		return notFoundOr(err, "Feedback not found", "Failed to delete feedback")
	}

	s.metrics.IncFeedbackDeleted()
	s.log.Info(ctx, "feedback deleted", "feedbackId", fb.ID, "by", actor.Identity)
	return nil
}

func (s *FeedbackService) validateAttachment(rawURL string, att *models.Attachment) error {
	if rawURL != "" {
		if err := s.attachments.Validate(rawURL); err != nil {
			return err
		}
	}
	if att != nil && att.URL != "" {
		return s.attachments.Validate(att.URL)
	}
	return nil
}

func applyStatus(filter *repositories.FeedbackFilter, status string) error {
	if status == "" {
		return nil
	}
	st := domain.FeedbackStatus(status)
	if !st.Valid() {
		return domain.Validationf("Invalid status: %s", status)
	}
	filter.Status = st
	return nil
}

// notFoundOr maps a repository miss to NotFound(msg) and anything else to
// a persistence error
func notFoundOr(err error, msg, failure string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(msg)
	}
	return domain.Persistence(failure, err)
}
