package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/educollab-analytics/internal/service"
	"github.com/noah-isme/educollab-analytics/internal/utils"
)

// DashboardHandler serves the combined user dashboard.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register binds the dashboard route.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard/:user_id", h.get)
}

func (h *DashboardHandler) get(c *fiber.Ctx) error {
	userID, err := parseUintParamValue(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	dashboard, err := h.service.GetUserDashboard(withRequestContext(c), userID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}
