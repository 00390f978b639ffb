package services

import (
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// AccessPolicy decides whether an actor may perform a workflow operation.
// Every check returns nil when allowed, an Unauthenticated error for a nil
// actor and a Forbidden error otherwise.
type AccessPolicy struct{}

func requireActor(actor *domain.Actor) error {
	if actor == nil || actor.Identity == "" {
		return domain.Unauthenticated("Access token required")
	}
	return nil
}

// CanListForNationalID lets citizens see only their own applications
func (AccessPolicy) CanListForNationalID(actor *domain.Actor, nationalID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role == domain.RoleUser && actor.NationalID != nationalID {
		return domain.Forbidden("Access denied. You can only view your own applications.")
	}
	return nil
}

// CanListAll allows every role except plain users
func (AccessPolicy) CanListAll(actor *domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.IsStaff() {
		return domain.Forbidden("Access denied. Only admin users can view all applications.")
	}
	return nil
}

// CanAdminList allows admin and superadmin
func (AccessPolicy) CanAdminList(actor *domain.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.IsAdmin() {
		return domain.Forbidden("Access denied. Admin or superadmin role required.")
	}
	return nil
}

// CanCreateFeedback requires a staff actor and, when the application is
// assigned, the assigned officer
func (AccessPolicy) CanCreateFeedback(actor *domain.Actor, app *models.Application) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.IsStaff() {
		return domain.Forbidden("Access denied. Only officers can create feedback.")
	}
	if app != nil && !assignedTo(app, actor) {
		return domain.Forbidden("Access denied. You can only provide feedback for applications assigned to you.")
	}
	return nil
}

// CanReply lets only the recipient citizen reply to a message
func (AccessPolicy) CanReply(actor *domain.Actor, fb *models.Feedback) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != domain.RoleUser {
		return domain.Forbidden("Access denied. Only users can reply to feedback.")
	}
	if fb != nil && fb.UserID != actor.Identity {
		return domain.Forbidden("Access denied. You can only reply to feedback intended for you.")
	}
	return nil
}

// CanViewApplicationFeedback lets the applicant and the assigned (or any,
// when unassigned) officer read an application's threads
func (AccessPolicy) CanViewApplicationFeedback(actor *domain.Actor, app *models.Application) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	allowed := false
	switch {
	case actor.Role == domain.RoleUser:
		allowed = app.NationalID == actor.NationalID
	case actor.Role.IsStaff():
		allowed = assignedTo(app, actor)
	}
	if !allowed {
		return domain.Forbidden("Access denied. You can only view feedback for applications you have access to.")
	}
	return nil
}

// CanMarkRead lets the target user or the owning officer mark a message
func (AccessPolicy) CanMarkRead(actor *domain.Actor, fb *models.Feedback) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	allowed := false
	switch {
	case actor.Role == domain.RoleUser:
		allowed = fb.UserID == actor.Identity
	case actor.Role.IsStaff():
		allowed = fb.OfficerID == actor.OfficerIdentity()
	}
	if !allowed {
		return domain.Forbidden("Access denied. You can only mark your own feedback as read.")
	}
	return nil
}

// CanDeleteFeedback lets authors delete their own messages: citizens their
// replies, officers their feedback
func (AccessPolicy) CanDeleteFeedback(actor *domain.Actor, fb *models.Feedback) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	allowed := false
	switch {
	case actor.Role == domain.RoleUser:
		allowed = fb.UserID == actor.Identity && fb.Type == domain.FeedbackTypeReply
	case actor.Role.IsStaff():
		allowed = fb.OfficerID == actor.OfficerIdentity() && fb.Type == domain.FeedbackTypeOfficer
	}
	if !allowed {
		return domain.Forbidden("Access denied. You can only delete your own feedback.")
	}
	return nil
}

// assignedTo reports whether app is unassigned or assigned to actor
func assignedTo(app *models.Application, actor *domain.Actor) bool {
	officer := app.AssignedOfficer()
	return officer == "" || officer == actor.OfficerIdentity()
}
