package handlers

import (
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/middleware"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/services"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/pagination"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FeedbackHandler handles officer feedback and citizen replies
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Create starts a feedback thread on an application
// @Summary Create feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateFeedbackInput true "Feedback"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /feedback [post]
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	var req services.CreateFeedbackInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fb, err := h.feedbackService.CreateFeedback(c.UserContext(), req, middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Feedback created successfully", fb)
}

// Reply answers an officer feedback
// @Summary Reply to feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param feedbackId path string true "Feedback ID"
// @Param body body services.ReplyInput true "Reply"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /feedback/{feedbackId}/reply [post]
func (h *FeedbackHandler) Reply(c *fiber.Ctx) error {
	var req services.ReplyInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reply, err := h.feedbackService.ReplyToFeedback(c.UserContext(), c.Params("feedbackId"), req, middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Reply sent successfully", reply)
}

// ByApplication returns every thread on an application
// @Summary Application feedback
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param applicationId path string true "Application ID"
// @Success 200 {object} response.Response
// @Router /feedback/application/{applicationId} [get]
func (h *FeedbackHandler) ByApplication(c *fiber.Ctx) error {
	out, err := h.feedbackService.GetApplicationFeedback(c.UserContext(), c.Params("applicationId"), middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application feedback retrieved successfully", out)
}

// UserInbox lists feedback addressed to the caller
// @Summary My feedback
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param status query string false "sent, read or replied"
// @Success 200 {object} response.Response
// @Router /feedback/user [get]
func (h *FeedbackHandler) UserInbox(c *fiber.Ctx) error {
	out, err := h.feedbackService.ListForUser(c.UserContext(), feedbackQuery(c), middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User feedback retrieved successfully", out)
}

// OfficerInbox lists feedback written by the calling officer
// @Summary Officer feedback
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /feedback/officer [get]
func (h *FeedbackHandler) OfficerInbox(c *fiber.Ctx) error {
	out, err := h.feedbackService.ListForOfficer(c.UserContext(), feedbackQuery(c), middleware.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Officer feedback retrieved successfully", out)
}

// MarkRead marks a feedback as read
// @Summary Mark feedback read
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param feedbackId path string true "Feedback ID"
// @Success 200 {object} response.Response
// @Router /feedback/{feedbackId}/read [put]
func (h *FeedbackHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.feedbackService.MarkAsRead(c.UserContext(), c.Params("feedbackId"), middleware.ActorFrom(c)); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Feedback marked as read", nil)
}

// Delete removes a feedback that has no replies
// @Summary Delete feedback
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param feedbackId path string true "Feedback ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /feedback/{feedbackId} [delete]
func (h *FeedbackHandler) Delete(c *fiber.Ctx) error {
	if err := h.feedbackService.DeleteFeedback(c.UserContext(), c.Params("feedbackId"), middleware.ActorFrom(c)); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Feedback deleted successfully", nil)
}

func feedbackQuery(c *fiber.Ctx) services.FeedbackQuery {
	params := pagination.GetParams(c)
	return services.FeedbackQuery{
		Page:          params.Page,
		Limit:         params.Limit,
		Status:        c.Query("status"),
		ApplicationID: c.Query("applicationId"),
	}
}
