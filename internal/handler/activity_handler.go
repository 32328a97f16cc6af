package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/educollab-analytics/internal/dto"
	"github.com/noah-isme/educollab-analytics/internal/service"
	"github.com/noah-isme/educollab-analytics/internal/utils"
)

// ActivityHandler exposes user activity endpoints.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register binds the activity routes. write guards the mutating route.
func (h *ActivityHandler) Register(router fiber.Router, write ...fiber.Handler) {
	router.Get("/user/:user_id/activities", h.list)
	router.Post("/user/:user_id/activity", append(write, h.create)...)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	userID, err := parseUintParamValue(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activities, err := h.service.ListUserActivities(withRequestContext(c), userID, parseLimit(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to fetch activities")
	}

	return utils.SendList(c, "activities retrieved", activities, len(activities))
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	userID, err := parseUintParamValue(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ActivityCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.RecordActivity(withRequestContext(c), userID, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to record activity")
	}

	return utils.SendSuccess(c, "activity recorded", created)
}
