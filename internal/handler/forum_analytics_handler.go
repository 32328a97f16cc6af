package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/educollab-analytics/internal/dto"
	"github.com/noah-isme/educollab-analytics/internal/service"
	"github.com/noah-isme/educollab-analytics/internal/utils"
)

// ForumAnalyticsHandler exposes forum interaction endpoints.
type ForumAnalyticsHandler struct {
	service service.ForumAnalyticsService
	logger  zerolog.Logger
}

// NewForumAnalyticsHandler constructs a forum analytics handler.
func NewForumAnalyticsHandler(service service.ForumAnalyticsService, logger zerolog.Logger) *ForumAnalyticsHandler {
	return &ForumAnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "forum_analytics_handler").Logger(),
	}
}

// Register binds the forum analytics routes.
func (h *ForumAnalyticsHandler) Register(router fiber.Router, write ...fiber.Handler) {
	router.Get("/forum/post/:post_id/interactions", h.listPostInteractions)
	router.Post("/forum/interaction", append(write, h.recordInteraction)...)
	router.Get("/user/:user_id/forum-stats", h.userStats)
}

func (h *ForumAnalyticsHandler) listPostInteractions(c *fiber.Ctx) error {
	postID, err := parseUintParamValue(c, "post_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	interactions, err := h.service.ListPostInteractions(withRequestContext(c), postID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to fetch interactions")
	}

	return utils.SendList(c, "interactions retrieved", interactions, len(interactions))
}

func (h *ForumAnalyticsHandler) recordInteraction(c *fiber.Ctx) error {
	var payload dto.ForumInteractionRequest
	if err := parseBody(c, &payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.RecordInteraction(withRequestContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to record interaction")
	}

	return utils.SendSuccess(c, "interaction recorded", created)
}

func (h *ForumAnalyticsHandler) userStats(c *fiber.Ctx) error {
	userID, err := parseUintParamValue(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.service.GetUserForumStats(withRequestContext(c), userID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to fetch forum statistics")
	}

	return utils.SendSuccess(c, "forum statistics retrieved", stats)
}
