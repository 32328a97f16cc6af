package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/educollab-analytics/internal/dto"
	"github.com/noah-isme/educollab-analytics/internal/service"
	"github.com/noah-isme/educollab-analytics/internal/utils"
)

// CourseAnalyticsHandler exposes course metric endpoints.
type CourseAnalyticsHandler struct {
	service service.CourseAnalyticsService
	logger  zerolog.Logger
}

// NewCourseAnalyticsHandler constructs a course analytics handler.
func NewCourseAnalyticsHandler(service service.CourseAnalyticsService, logger zerolog.Logger) *CourseAnalyticsHandler {
	return &CourseAnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "course_analytics_handler").Logger(),
	}
}

// Register binds the course analytics routes.
func (h *CourseAnalyticsHandler) Register(router fiber.Router, write ...fiber.Handler) {
	router.Get("/course/:course_id", h.get)
	router.Post("/course/:course_id/stats", append(write, h.updateStats)...)
}

func (h *CourseAnalyticsHandler) get(c *fiber.Ctx) error {
	courseID, err := parseUintParamValue(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	analytics, err := h.service.GetCourseAnalytics(withRequestContext(c), courseID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to fetch course analytics")
	}

	return utils.SendSuccess(c, "course analytics retrieved", analytics)
}

func (h *CourseAnalyticsHandler) updateStats(c *fiber.Ctx) error {
	courseID, err := parseUintParamValue(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CourseStatRequest
	if err := parseBody(c, &payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.UpdateCourseStat(withRequestContext(c), courseID, payload); err != nil {
		return sendServiceError(c, h.logger, err, "failed to update course statistics")
	}

	return utils.SendSuccess(c, "course statistics updated", nil)
}
