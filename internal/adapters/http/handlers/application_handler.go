package handlers

import (
	"strings"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/middleware"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/services"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/pagination"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// StatusRequest represents a status update body
type StatusRequest struct {
	Status string `json:"status"`
}

// Submit handles public application submission
// @Summary Submit application
// @Description Submit a new application. A citizen account is created for unknown national ids.
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body services.SubmitInput true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	var req services.SubmitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Submit(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Application submitted successfully.", app.ToResponse())
}

// GetByTrackingNumber handles the public status lookup
// @Summary Track application
// @Tags Applications
// @Produce json
// @Param trackingNumber path string true "Tracking number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{trackingNumber} [get]
func (h *ApplicationHandler) GetByTrackingNumber(c *fiber.Ctx) error {
	app, err := h.applicationService.GetByTrackingNumber(c.UserContext(), c.Params("trackingNumber"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application retrieved successfully", app.ToResponse())
}

// ListForUser returns every application of one applicant
// @Summary List applicant applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param nationalId path string true "National ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/user/{nationalId} [get]
func (h *ApplicationHandler) ListForUser(c *fiber.Ctx) error {
	out, err := h.applicationService.ListForUser(c.UserContext(), c.Params("nationalId"), middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User applications retrieved successfully", out)
}

// SummaryForUser returns the applicant dashboard summary
// @Summary Applicant summary
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param nationalId path string true "National ID"
// @Success 200 {object} response.Response
// @Router /applications/user/{nationalId}/summary [get]
func (h *ApplicationHandler) SummaryForUser(c *fiber.Ctx) error {
	out, err := h.applicationService.SummaryForUser(c.UserContext(), c.Params("nationalId"), middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User applications summary retrieved successfully", out)
}

// UserDetails returns the applicant profile card
// @Summary Applicant details
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param nationalId path string true "National ID"
// @Success 200 {object} response.Response
// @Router /applications/user/details/{nationalId} [get]
func (h *ApplicationHandler) UserDetails(c *fiber.Ctx) error {
	out, err := h.applicationService.UserDetails(c.UserContext(), c.Params("nationalId"), middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User details retrieved successfully", out)
}

// ListAll lists applications for staff
// @Summary List applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param status query string false "Status"
// @Param applicationType query string false "Application type name contains"
// @Param officer query string false "Officer name contains"
// @Param cnic query string false "National id contains"
// @Param startDate query string false "Created on or after (YYYY-MM-DD or RFC3339)"
// @Param endDate query string false "Created on or before (YYYY-MM-DD or RFC3339)"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) ListAll(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.applicationService.ListAll(c.UserContext(), q, middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Applications retrieved successfully", out)
}

// ListComprehensive lists applications with applicant and file details
// @Summary Comprehensive application listing
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applications/comprehensive [get]
func (h *ApplicationHandler) ListComprehensive(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.applicationService.ListComprehensive(c.UserContext(), q, middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Comprehensive applications data retrieved successfully", out)
}

// ListAdminComprehensive is the admin comprehensive listing
// @Summary Admin comprehensive listing
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applications/admin/comprehensive [get]
func (h *ApplicationHandler) ListAdminComprehensive(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.applicationService.ListAdminComprehensive(c.UserContext(), q, middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Admin comprehensive applications data retrieved successfully", out)
}

// ListMine is the caller's own comprehensive listing
// @Summary My applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applications/my/comprehensive [get]
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return response.FromError(c, err)
	}
	out, err := h.applicationService.ListSelfComprehensive(c.UserContext(), q, middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Applications retrieved successfully", out)
}

// UpdateStatus moves an application to another status
// @Summary Update application status
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trackingNumber path string true "Tracking number"
// @Param body body StatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications/{trackingNumber}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.UpdateStatus(c.UserContext(), c.Params("trackingNumber"), req.Status, middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application status updated successfully", app.ToResponse())
}

func listQuery(c *fiber.Ctx) (services.ListQuery, error) {
	params := pagination.GetParams(c)
	q := services.ListQuery{
		Page:            params.Page,
		Limit:           params.Limit,
		Status:          c.Query("status"),
		ApplicationType: c.Query("applicationType"),
		Officer:         c.Query("officer"),
		CNIC:            c.Query("cnic"),
		SortBy:          c.Query("sortBy"),
		SortOrder:       c.Query("sortOrder"),
	}

	var err error
	if q.StartDate, err = queryTime(c, "startDate", false); err != nil {
		return q, err
	}
	if q.EndDate, err = queryTime(c, "endDate", true); err != nil {
		return q, err
	}
	return q, nil
}

// queryTime parses a date or RFC3339 query value. A bare end date covers
// the whole day.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, invalidQuery(key, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func invalidQuery(key, value string) error {
	return domain.Validationf("Invalid %s: %s", key, value)
}
