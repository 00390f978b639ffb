package domain

// Role represents an actor role in the system
type Role string

const (
	RoleUser       Role = "user"
	RoleOfficer    Role = "officer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOfficer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsStaff returns true for officer, admin and superadmin
func (r Role) IsStaff() bool {
	return r == RoleOfficer || r == RoleAdmin || r == RoleSuperAdmin
}

// IsAdmin returns true for admin and superadmin
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Actor is the authenticated caller of a workflow operation.
// It is built per request from the access token and never persisted.
type Actor struct {
	Identity   string
	Role       Role
	NationalID string
	// OfficerID is set for staff accounts linked to an officer record.
	OfficerID string
}

// OfficerIdentity is the id compared against application and feedback
// officer references. Staff without an officer record act under their user id.
func (a *Actor) OfficerIdentity() string {
	if a.OfficerID != "" {
		return a.OfficerID
	}
	return a.Identity
}

// ApplicationStatus is the processing state of an application
type ApplicationStatus string

const (
	StatusSubmitted  ApplicationStatus = "Submitted"
	StatusProcessing ApplicationStatus = "Processing"
	StatusCompleted  ApplicationStatus = "Completed"
	StatusRejected   ApplicationStatus = "Rejected"
)

// AcknowledgementReceived is stored on every new application
const AcknowledgementReceived = "Received"

// Valid reports whether s is a known application status
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusProcessing, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// FeedbackType tells who authored a feedback message
type FeedbackType string

const (
	FeedbackTypeOfficer FeedbackType = "officer_feedback"
	FeedbackTypeReply   FeedbackType = "user_reply"
)

// FeedbackStatus is the delivery state of a feedback message.
// Read tracking is a separate flag.
type FeedbackStatus string

const (
	FeedbackSent    FeedbackStatus = "sent"
	FeedbackRead    FeedbackStatus = "read"
	FeedbackReplied FeedbackStatus = "replied"
)

// Valid reports whether s is a known feedback status
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackSent, FeedbackRead, FeedbackReplied:
		return true
	}
	return false
}
