package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncApplicationsSubmitted()
	m.IncApplicationsSubmitted()
	m.IncFeedbackCreated("officer_feedback")
	m.AddFilesUploaded(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ApplicationsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedbackCreated.WithLabelValues("officer_feedback")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FeedbackCreated.WithLabelValues("user_reply")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FilesUploaded))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncApplicationsSubmitted()
		m.IncUsersCreated()
		m.IncFeedbackCreated("user_reply")
		m.IncFeedbackDeleted()
		m.AddFilesUploaded(1)
		m.IncLoginFailures()
	})
}
