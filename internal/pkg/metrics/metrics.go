package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the workflow counters exposed on /metrics
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	UsersCreated          prometheus.Counter
	FeedbackCreated       *prometheus.CounterVec
	FeedbackDeleted       prometheus.Counter
	FilesUploaded         prometheus.Counter
	LoginFailures         prometheus.Counter
}

// New creates the counters and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "goat_applications_submitted_total",
			Help: "Total number of applications submitted",
		}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "goat_users_created_total",
			Help: "Total number of citizen accounts created on first submission",
		}),
		FeedbackCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goat_feedback_messages_total",
			Help: "Total number of feedback messages by type",
		}, []string{"type"}),
		FeedbackDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "goat_feedback_deleted_total",
			Help: "Total number of feedback messages deleted",
		}),
		FilesUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "goat_files_uploaded_total",
			Help: "Total number of files uploaded to object storage",
		}),
		LoginFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "goat_login_failures_total",
			Help: "Total number of rejected login attempts",
		}),
	}
}

// IncApplicationsSubmitted increments the submitted applications counter
func (m *Metrics) IncApplicationsSubmitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

// IncUsersCreated increments the lazily created users counter
func (m *Metrics) IncUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncFeedbackCreated increments the feedback counter for the message type
func (m *Metrics) IncFeedbackCreated(feedbackType string) {
	if m == nil {
		return
	}
	m.FeedbackCreated.WithLabelValues(feedbackType).Inc()
}

// IncFeedbackDeleted increments the deleted feedback counter
func (m *Metrics) IncFeedbackDeleted() {
	if m == nil {
		return
	}
	m.FeedbackDeleted.Inc()
}

// AddFilesUploaded adds n to the uploaded files counter
func (m *Metrics) AddFilesUploaded(n int) {
	if m == nil {
		return
	}
	m.FilesUploaded.Add(float64(n))
}

// IncLoginFailures increments the rejected logins counter
func (m *Metrics) IncLoginFailures() {
	if m == nil {
		return
	}
	m.LoginFailures.Inc()
}
