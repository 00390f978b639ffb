package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		wantID bool
	}{
		{"object id", "64b7f0c2a1b2c3d4e5f60718", true},
		{"upper hex", "64B7F0C2A1B2C3D4E5F60718", true},
		{"display name", "Domicile", false},
		{"23 hex chars", "64b7f0c2a1b2c3d4e5f6071", false},
		{"non hex", "64b7f0c2a1b2c3d4e5f6071z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ParseRef(tt.value)
			_, isID := ref.ByID()
			_, isName := ref.ByName()
			assert.Equal(t, tt.wantID, isID)
			assert.Equal(t, !tt.wantID, isName)
			assert.Equal(t, tt.value, ref.String())
		})
	}
}

func TestParseRefEmpty(t *testing.T) {
	assert.True(t, ParseRef("   ").IsZero())
	assert.False(t, ParseRef("Domicile").IsZero())
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("submit: %w", Persistence("Failed to save application", cause))

	assert.ErrorIs(t, err, ErrInternalServer)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Failed to save application", MessageOf(err))

	assert.ErrorIs(t, Conflict("Tracking number already exists"), ErrDuplicateEntry)
	assert.ErrorIs(t, Validationf("Invalid S3 URL format: %s", "x"), ErrInvalidInput)
	assert.Equal(t, "Invalid S3 URL format: x", MessageOf(Validationf("Invalid S3 URL format: %s", "x")))
}

func TestActorOfficerIdentity(t *testing.T) {
	a := &Actor{Identity: "u1", Role: RoleOfficer}
	assert.Equal(t, "u1", a.OfficerIdentity())

	a.OfficerID = "o1"
	assert.Equal(t, "o1", a.OfficerIdentity())
}

func TestRoles(t *testing.T) {
	assert.False(t, RoleUser.IsStaff())
	assert.True(t, RoleOfficer.IsStaff())
	assert.False(t, RoleOfficer.IsAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.False(t, Role("root").Valid())
}
