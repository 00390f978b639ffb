package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/memory"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/storage"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/metrics"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/password"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testJWTSecret = "test-secret"
	citizenNID    = "35202-1234567-1"
	citizenPhone  = "03001234567"
	otherNID      = "35202-7654321-9"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

// fixture wires every service over one in-memory store
type fixture struct {
	ctx     context.Context
	store   *memory.Store
	repos   *repositories.Set
	objects *storage.MemoryStore
	metrics *metrics.Metrics
	clock   time.Time

	refs     *ReferenceService
	identity *IdentityService
	apps     *ApplicationService
	feedback *FeedbackService
	auth     *AuthService
	files    *FileService

	domicile *models.ApplicationType
	officerA *models.Officer
	officerB *models.Officer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:   context.Background(),
		store: memory.NewStore(),
		clock: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	f.store.SetClock(f.tick)
	f.repos = f.store.Set()
	f.objects = storage.NewMemoryStore(config.S3Config{})
	f.metrics = metrics.New(prometheus.NewRegistry())
	log := logging.Nop()

	validator := storage.NewURLValidator(config.S3Config{})

	f.refs = NewReferenceService(f.repos.ApplicationTypes, f.repos.Officers, nil, log)
	f.identity = NewIdentityService(f.repos.Users, f.metrics, log)
	f.apps = NewApplicationService(f.repos, f.refs, f.identity, validator, f.metrics, log)
	f.feedback = NewFeedbackService(f.repos, validator, f.metrics, log)
	f.auth = NewAuthService(f.repos, config.JWTConfig{Secret: testJWTSecret, AccessTokenMins: 60}, f.metrics, log)
	f.files = NewFileService(f.repos.Files, f.objects, config.UploadConfig{MaxFileSize: 1 << 20, MaxFiles: 3}, time.Hour, f.metrics, log)

	for _, now := range []*func() time.Time{&f.apps.now, &f.feedback.now, &f.auth.now, &f.files.now} {
		*now = f.tick
	}

	f.domicile = &models.ApplicationType{Name: "Domicile", Description: "Domicile certificate", IsActive: true}
	require.NoError(t, f.repos.ApplicationTypes.Create(f.ctx, f.domicile))
	f.officerA = &models.Officer{Name: "Assistant Commissioner", Office: "Saddar", Designation: "AC Saddar", IsActive: true}
	require.NoError(t, f.repos.Officers.Create(f.ctx, f.officerA))
	f.officerB = &models.Officer{Name: "Deputy Commissioner", Office: "Lahore", Designation: "DC Lahore", IsActive: true}
	require.NoError(t, f.repos.Officers.Create(f.ctx, f.officerB))

	return f
}

// tick advances the shared clock one minute per call so creation order
// is observable in timestamps
func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) submit(t *testing.T, in SubmitInput) *models.Application {
	t.Helper()
	if in.Name == "" {
		in.Name = "Ali Raza"
	}
	if in.CNIC == "" {
		in.CNIC = citizenNID
	}
	if in.Phone == "" {
		in.Phone = citizenPhone
	}
	if in.ApplicationType == "" {
		in.ApplicationType = f.domicile.Name
	}
	app, err := f.apps.Submit(f.ctx, in)
	require.NoError(t, err)
	return app
}

// citizen returns the actor of the account created for nationalID
func (f *fixture) citizen(t *testing.T, nationalID string) *domain.Actor {
	t.Helper()
	u, err := f.repos.Users.GetByNationalID(f.ctx, nationalID)
	require.NoError(t, err)
	return &domain.Actor{Identity: u.ID, Role: domain.RoleUser, NationalID: u.NationalID}
}

func officerActor(o *models.Officer) *domain.Actor {
	return &domain.Actor{Identity: "user-" + o.ID, Role: domain.RoleOfficer, OfficerID: o.ID}
}

func adminActor() *domain.Actor {
	return &domain.Actor{Identity: "admin-1", Role: domain.RoleAdmin}
}

// s3URL is an attachment URL in the shape the memory object store returns
func s3URL(key string) string {
	return storage.ObjectURL(storage.NewMemoryStore(config.S3Config{}).Config(), key)
}
