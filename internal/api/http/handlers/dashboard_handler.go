package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voting-service/internal/api/dto"
	"github.com/spec-kit/voting-service/internal/service"
)

// DashboardHandler serves the admin results view.
type DashboardHandler struct {
	tally *service.TallyService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(tallyService *service.TallyService) *DashboardHandler {
	return &DashboardHandler{tally: tallyService}
}

// Tally GET /admin/dashboard/tally.
func (h *DashboardHandler) Tally(c *fiber.Ctx) error {
	tally, err := h.tally.ComputeTally(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Tally(tally)})
}
