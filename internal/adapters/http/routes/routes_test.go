package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/handlers"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/middleware"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/memory"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/storage"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/services"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/metrics"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	officerUsername = "tehsildar"
	officerPassword = "s3cret!"
	applicantNID    = "61101-000001-1"
	applicantPhone  = "0300-0000000"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app   *fiber.App
	repos *repositories.Set
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "routes-test-secret", AccessTokenMins: 60},
		Upload:  config.UploadConfig{MaxFileSize: 1 << 20, MaxFiles: 3},
	}

	repos := memory.NewSet()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := logging.Nop()
	validator := storage.NewURLValidator(cfg.S3)

	refs := services.NewReferenceService(repos.ApplicationTypes, repos.Officers, nil, log)
	identity := services.NewIdentityService(repos.Users, m, log)
	svc := &Services{
		Auth:         services.NewAuthService(repos, cfg.JWT, m, log),
		Applications: services.NewApplicationService(repos, refs, identity, validator, m, log),
		Feedback:     services.NewFeedbackService(repos, validator, m, log),
		Files:        services.NewFileService(repos.Files, storage.NewMemoryStore(cfg.S3), cfg.Upload, 0, m, log),
		References:   refs,
		Gatherer:     reg,
		Health: map[string]handlers.HealthCheck{
			"database": func(context.Context) error { return nil },
		},
	}

	require.NoError(t, repos.ApplicationTypes.Create(ctx, &models.ApplicationType{Name: "Domicile", IsActive: true}))

	hashed, err := password.Hash(officerPassword)
	require.NoError(t, err)
	staff := &models.User{
		Name:       "Tehsildar Saddar",
		NationalID: "35202-0000001-1",
		Username:   officerUsername,
		Email:      "tehsildar@goat.gov.pk",
		Password:   hashed,
		Role:       domain.RoleOfficer,
		IsActive:   true,
	}
	require.NoError(t, repos.Users.Create(ctx, staff))
	require.NoError(t, repos.Officers.Create(ctx, &models.Officer{
		Name:        "Tehsildar",
		Designation: "Tehsildar Saddar",
		UserID:      &staff.ID,
		IsActive:    true,
	}))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg)
	Setup(app, svc, cfg)

	return &testServer{app: app, repos: repos}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return s.send(t, req, token)
}

func (s *testServer) send(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, username, pass string) string {
	t.Helper()
	code, out := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": pass,
	})
	require.Equal(t, http.StatusOK, code, out.Message)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestFeedbackConversationOverHTTP(t *testing.T) {
	s := newTestServer(t)

	code, out := s.do(t, http.MethodPost, "/api/applications", "", map[string]any{
		"trackingNumber":  "GOAT-1-1111",
		"name":            "Ali Raza",
		"cnic":            applicantNID,
		"phone":           applicantPhone,
		"applicationType": "Domicile",
		"officer":         "Tehsildar",
	})
	require.Equal(t, http.StatusCreated, code, out.Message)
	assert.Equal(t, "Application submitted successfully.", out.Message)

	app := decode[models.ApplicationResponse](t, out.Data)
	assert.Equal(t, "GOAT-1-1111", app.TrackingNumber)
	assert.Equal(t, domain.StatusSubmitted, app.Status)
	assert.Equal(t, "Received", app.Acknowledgement)

	user, err := s.repos.Users.GetByNationalID(context.Background(), applicantNID)
	require.NoError(t, err)

	officerToken := s.login(t, officerUsername, officerPassword)

	code, out = s.do(t, http.MethodPost, "/api/feedback", officerToken, map[string]string{
		"applicationId": app.ID,
		"userId":        user.ID,
		"message":       "Please attach a copy of your CNIC.",
	})
	require.Equal(t, http.StatusCreated, code, out.Message)
	original := decode[models.Feedback](t, out.Data)
	assert.Equal(t, domain.FeedbackTypeOfficer, original.Type)
	assert.Equal(t, domain.FeedbackSent, original.Status)
	assert.NotEmpty(t, original.ThreadID)

	citizenToken := s.login(t, applicantNID, applicantPhone)

	code, out = s.do(t, http.MethodPost, "/api/feedback/"+original.ID+"/reply", citizenToken, map[string]string{
		"message": "Attached.",
	})
	require.Equal(t, http.StatusCreated, code, out.Message)
	reply := decode[models.Feedback](t, out.Data)
	assert.Equal(t, original.ThreadID, reply.ThreadID)
	assert.Equal(t, domain.FeedbackTypeReply, reply.Type)

	code, out = s.do(t, http.MethodGet, "/api/feedback/application/"+app.ID, officerToken, nil)
	require.Equal(t, http.StatusOK, code, out.Message)
	threads := decode[services.ApplicationFeedback](t, out.Data)
	require.Len(t, threads.FeedbackThreads, 1)
	require.Len(t, threads.FeedbackThreads[0].Feedbacks, 2)
	assert.Equal(t, domain.FeedbackReplied, threads.FeedbackThreads[0].Feedbacks[0].Status)

	code, out = s.do(t, http.MethodDelete, "/api/feedback/"+original.ID, officerToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cannot delete feedback that has replies.", out.Message)
}

func TestApplicationRoutes(t *testing.T) {
	s := newTestServer(t)

	code, out := s.do(t, http.MethodPost, "/api/applications", "", map[string]any{
		"name":            "Ali Raza",
		"cnic":            applicantNID,
		"phone":           applicantPhone,
		"applicationType": "Domicile",
	})
	require.Equal(t, http.StatusCreated, code, out.Message)
	app := decode[models.ApplicationResponse](t, out.Data)
	require.NotEmpty(t, app.TrackingNumber)

	t.Run("public tracking lookup", func(t *testing.T) {
		code, out := s.do(t, http.MethodGet, "/api/applications/"+app.TrackingNumber, "", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, app.TrackingNumber, decode[models.ApplicationResponse](t, out.Data).TrackingNumber)

		code, _ = s.do(t, http.MethodGet, "/api/applications/GOAT-0-0000", "", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("missing fields", func(t *testing.T) {
		code, _ := s.do(t, http.MethodPost, "/api/applications", "", map[string]any{"name": "Ali"})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("duplicate tracking number", func(t *testing.T) {
		code, _ := s.do(t, http.MethodPost, "/api/applications", "", map[string]any{
			"trackingNumber":  app.TrackingNumber,
			"name":            "Ali Raza",
			"cnic":            applicantNID,
			"phone":           applicantPhone,
			"applicationType": "Domicile",
		})
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("staff listing requires a token", func(t *testing.T) {
		code, _ := s.do(t, http.MethodGet, "/api/applications", "", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	citizenToken := s.login(t, applicantNID, applicantPhone)

	t.Run("citizens cannot list everything", func(t *testing.T) {
		code, _ := s.do(t, http.MethodGet, "/api/applications", citizenToken, nil)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("citizen sees own applications", func(t *testing.T) {
		code, out := s.do(t, http.MethodGet, "/api/applications/user/"+applicantNID, citizenToken, nil)
		require.Equal(t, http.StatusOK, code, out.Message)

		code, _ = s.do(t, http.MethodGet, "/api/applications/user/35202-7654321-9", citizenToken, nil)
		assert.Equal(t, http.StatusForbidden, code)

		code, out = s.do(t, http.MethodGet, "/api/applications/my/comprehensive", citizenToken, nil)
		require.Equal(t, http.StatusOK, code, out.Message)
		list := decode[services.ComprehensiveList](t, out.Data)
		assert.Len(t, list.Applications, 1)
	})

	officerToken := s.login(t, officerUsername, officerPassword)

	t.Run("staff listing with filters", func(t *testing.T) {
		code, out := s.do(t, http.MethodGet, "/api/applications?status=Submitted&startDate=2000-01-01&page=1&limit=5", officerToken, nil)
		require.Equal(t, http.StatusOK, code, out.Message)

		code, _ = s.do(t, http.MethodGet, "/api/applications?startDate=yesterday", officerToken, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("admin listing is admin only", func(t *testing.T) {
		code, _ := s.do(t, http.MethodGet, "/api/applications/admin/comprehensive", officerToken, nil)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("status update", func(t *testing.T) {
		path := "/api/applications/" + app.TrackingNumber + "/status"

		code, _ := s.do(t, http.MethodPut, path, citizenToken, map[string]string{"status": "Processing"})
		assert.Equal(t, http.StatusForbidden, code)

		code, out := s.do(t, http.MethodPut, path, officerToken, map[string]string{"status": "Processing"})
		require.Equal(t, http.StatusOK, code, out.Message)
		assert.Equal(t, domain.StatusProcessing, decode[models.ApplicationResponse](t, out.Data).Status)
	})
}

func TestLoginRoutes(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": officerUsername,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	token := s.login(t, officerUsername, officerPassword)

	code, out := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	me := decode[struct {
		User models.UserResponse `json:"user"`
	}](t, out.Data)
	assert.Equal(t, domain.RoleOfficer, me.User.Role)
}

func TestFileUploadIsPublic(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("files", "cnic.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	code, out := s.send(t, req, "")
	require.Equal(t, http.StatusCreated, code, out.Message)

	uploaded := decode[struct {
		Files []models.File `json:"files"`
		Count int           `json:"count"`
	}](t, out.Data)
	assert.Equal(t, 1, uploaded.Count)
	assert.Equal(t, "cnic.pdf", uploaded.Files[0].OriginalName)

	code, _ = s.do(t, http.MethodGet, "/api/files", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	code, out := s.do(t, http.MethodGet, "/api/application-types", "", nil)
	require.Equal(t, http.StatusOK, code)
	types := decode[[]models.ApplicationType](t, out.Data)
	require.Len(t, types, 1)
	assert.Equal(t, "Domicile", types[0].Name)

	_, _ = s.do(t, http.MethodPost, "/api/applications", "", map[string]any{
		"name":            "Ali Raza",
		"cnic":            applicantNID,
		"phone":           applicantPhone,
		"applicationType": "Domicile",
	})

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "goat_applications_submitted_total 1")
}
