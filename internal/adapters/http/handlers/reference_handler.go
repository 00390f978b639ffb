package handlers

import (
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/services"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReferenceHandler serves the application type and officer catalogues
type ReferenceHandler struct {
	referenceService *services.ReferenceService
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(referenceService *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// ApplicationTypes lists active application types
// @Summary List application types
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Response
// @Router /application-types [get]
func (h *ReferenceHandler) ApplicationTypes(c *fiber.Ctx) error {
	types, err := h.referenceService.ListApplicationTypes(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application types retrieved successfully", types)
}

// Officers lists active officers
// @Summary List officers
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Response
// @Router /officers [get]
func (h *ReferenceHandler) Officers(c *fiber.Ctx) error {
	officers, err := h.referenceService.ListOfficers(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Officers retrieved successfully", officers)
}
