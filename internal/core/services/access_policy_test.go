package services

import (
	"testing"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestAccessPolicy(t *testing.T) {
	var p AccessPolicy

	assigned := "officer-1"
	app := &models.Application{NationalID: citizenNID, OfficerID: &assigned}
	open := &models.Application{NationalID: citizenNID}

	citizen := &domain.Actor{Identity: "u1", Role: domain.RoleUser, NationalID: citizenNID}
	stranger := &domain.Actor{Identity: "u2", Role: domain.RoleUser, NationalID: otherNID}
	owner := &domain.Actor{Identity: "staff-1", Role: domain.RoleOfficer, OfficerID: "officer-1"}
	otherOfficer := &domain.Actor{Identity: "staff-2", Role: domain.RoleOfficer, OfficerID: "officer-2"}
	unlinked := &domain.Actor{Identity: "officer-1", Role: domain.RoleOfficer}
	admin := &domain.Actor{Identity: "admin-1", Role: domain.RoleAdmin}

	officerMsg := &models.Feedback{UserID: "u1", OfficerID: "officer-1", Type: domain.FeedbackTypeOfficer}
	reply := &models.Feedback{UserID: "u1", OfficerID: "officer-1", Type: domain.FeedbackTypeReply}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"own applications", p.CanListForNationalID(citizen, citizenNID), nil},
		{"someone else's applications", p.CanListForNationalID(stranger, citizenNID), domain.ErrForbidden},
		{"staff list any applicant", p.CanListForNationalID(otherOfficer, citizenNID), nil},
		{"anonymous", p.CanListForNationalID(nil, citizenNID), domain.ErrUnauthorized},
		{"actor without identity", p.CanListForNationalID(&domain.Actor{Role: domain.RoleAdmin}, citizenNID), domain.ErrUnauthorized},

		{"officer lists all", p.CanListAll(owner), nil},
		{"citizen lists all", p.CanListAll(citizen), domain.ErrForbidden},
		{"admin list", p.CanAdminList(admin), nil},
		{"officer admin list", p.CanAdminList(owner), domain.ErrForbidden},
		{"superadmin list", p.CanAdminList(&domain.Actor{Identity: "root", Role: domain.RoleSuperAdmin}), nil},

		{"assigned officer gives feedback", p.CanCreateFeedback(owner, app), nil},
		{"officer without record matches by user id", p.CanCreateFeedback(unlinked, app), nil},
		{"other officer gives feedback", p.CanCreateFeedback(otherOfficer, app), domain.ErrForbidden},
		{"any officer on unassigned", p.CanCreateFeedback(otherOfficer, open), nil},
		{"admin on someone else's application", p.CanCreateFeedback(admin, app), domain.ErrForbidden},
		{"citizen gives feedback", p.CanCreateFeedback(citizen, nil), domain.ErrForbidden},

		{"recipient replies", p.CanReply(citizen, officerMsg), nil},
		{"stranger replies", p.CanReply(stranger, officerMsg), domain.ErrForbidden},
		{"officer replies", p.CanReply(owner, nil), domain.ErrForbidden},

		{"applicant views threads", p.CanViewApplicationFeedback(citizen, app), nil},
		{"stranger views threads", p.CanViewApplicationFeedback(stranger, app), domain.ErrForbidden},
		{"assigned officer views threads", p.CanViewApplicationFeedback(owner, app), nil},
		{"other officer views threads", p.CanViewApplicationFeedback(otherOfficer, app), domain.ErrForbidden},

		{"recipient marks read", p.CanMarkRead(citizen, officerMsg), nil},
		{"owning officer marks read", p.CanMarkRead(owner, reply), nil},
		{"other officer marks read", p.CanMarkRead(otherOfficer, reply), domain.ErrForbidden},

		{"officer deletes own feedback", p.CanDeleteFeedback(owner, officerMsg), nil},
		{"officer deletes a reply", p.CanDeleteFeedback(owner, reply), domain.ErrForbidden},
		{"citizen deletes own reply", p.CanDeleteFeedback(citizen, reply), nil},
		{"citizen deletes officer feedback", p.CanDeleteFeedback(citizen, officerMsg), domain.ErrForbidden},
		{"stranger deletes a reply", p.CanDeleteFeedback(stranger, reply), domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == nil {
				assert.NoError(t, tt.err)
				return
			}
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}
}
