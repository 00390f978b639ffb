package services

import (
	"testing"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/jwt"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/password"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWithNationalIDAndPhone(t *testing.T) {
	f := newFixture(t)
	f.submit(t, SubmitInput{})

	out, err := f.auth.Login(f.ctx, LoginInput{Username: citizenNID, Password: citizenPhone})
	require.NoError(t, err)
	assert.Equal(t, citizenNID, out.User.NIC)

	claims, err := jwt.ValidateAccessToken(out.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, citizenNID, claims.NationalID)
	assert.Equal(t, "user", claims.Role)
	assert.Empty(t, claims.OfficerID)

	user, err := f.repos.Users.GetByID(f.ctx, out.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)

	// email works as the login name too
	_, err = f.auth.Login(f.ctx, LoginInput{Username: citizenNID + "@noemail.local", Password: citizenPhone})
	require.NoError(t, err)
}

func TestLoginRejects(t *testing.T) {
	f := newFixture(t)
	f.submit(t, SubmitInput{})

	_, err := f.auth.Login(f.ctx, LoginInput{Username: citizenNID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.auth.Login(f.ctx, LoginInput{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.auth.Login(f.ctx, LoginInput{Username: citizenNID, Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.LoginFailures))
}

func TestLoginLockout(t *testing.T) {
	f := newFixture(t)
	f.submit(t, SubmitInput{})

	for i := range maxLoginAttempts {
		_, err := f.auth.Login(f.ctx, LoginInput{Username: citizenNID, Password: "wrong"})
		require.ErrorIs(t, err, domain.ErrInvalidCredentials, "attempt %d", i+1)
	}

	_, err := f.auth.Login(f.ctx, LoginInput{Username: citizenNID, Password: citizenPhone})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)

	f.clock = f.clock.Add(lockDuration)

	t.Run("expired lock restarts the count", func(t *testing.T) {
		_, err := f.auth.Login(f.ctx, LoginInput{Username: citizenNID, Password: "wrong"})
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)

		user, err := f.repos.Users.GetByNationalID(f.ctx, citizenNID)
		require.NoError(t, err)
		assert.Equal(t, 1, user.LoginAttempts)
		assert.Nil(t, user.LockUntil)
	})

	t.Run("success resets attempts", func(t *testing.T) {
		_, err := f.auth.Login(f.ctx, LoginInput{Username: citizenNID, Password: citizenPhone})
		require.NoError(t, err)

		user, err := f.repos.Users.GetByNationalID(f.ctx, citizenNID)
		require.NoError(t, err)
		assert.Zero(t, user.LoginAttempts)
	})
}

func TestLoginStaff(t *testing.T) {
	f := newFixture(t)

	hashed, err := password.Hash("s3cret!")
	require.NoError(t, err)
	staff := &models.User{
		Name:       "Tehsildar Saddar",
		NationalID: "35202-0000001-1",
		Username:   "tehsildar",
		Email:      "tehsildar@goat.gov.pk",
		Password:   hashed,
		Role:       domain.RoleOfficer,
		IsActive:   true,
	}
	require.NoError(t, f.repos.Users.Create(f.ctx, staff))
	linked := &models.Officer{Name: "Tehsildar", Designation: "Tehsildar Saddar", UserID: &staff.ID, IsActive: true}
	require.NoError(t, f.repos.Officers.Create(f.ctx, linked))

	out, err := f.auth.Login(f.ctx, LoginInput{Username: "tehsildar", Password: "s3cret!"})
	require.NoError(t, err)

	claims, err := jwt.ValidateAccessToken(out.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "officer", claims.Role)
	assert.Equal(t, linked.ID, claims.OfficerID)

	t.Run("inactive account", func(t *testing.T) {
		staff.IsActive = false
		require.NoError(t, f.repos.Users.Update(f.ctx, staff))

		_, err := f.auth.Login(f.ctx, LoginInput{Username: "tehsildar", Password: "s3cret!"})
		assert.ErrorIs(t, err, domain.ErrAccountInactive)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	f.submit(t, SubmitInput{Name: "Ali Raza"})
	citizen := f.citizen(t, citizenNID)

	me, err := f.auth.Me(f.ctx, citizen)
	require.NoError(t, err)
	assert.Equal(t, "Ali Raza", me.Name)

	_, err = f.auth.Me(f.ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.auth.Me(f.ctx, &domain.Actor{Identity: models.NewID(), Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIssueTokenLifetime(t *testing.T) {
	f := newFixture(t)
	f.submit(t, SubmitInput{})

	out, err := f.auth.Login(f.ctx, LoginInput{Username: citizenNID, Password: citizenPhone})
	require.NoError(t, err)
	claims, err := jwt.ValidateAccessToken(out.Token, testJWTSecret)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}
