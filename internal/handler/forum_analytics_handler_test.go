package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/educollab-analytics/internal/dto"
	"github.com/noah-isme/educollab-analytics/internal/models"
)

func TestForumAnalyticsHandlerFlow(t *testing.T) {
	a := newAnalyticsApp(t)
	a.seedUser(t, 1)
	a.seedPost(t, 5, 1)

	for _, kind := range []string{"view", "view", "vote", "comment"} {
		status, payload := doJSON(t, a.app, http.MethodPost, "/analytics/forum/interaction", map[string]interface{}{
			"user_id":          1,
			"post_id":          5,
			"interaction_type": kind,
		})
		require.Equal(t, fiber.StatusOK, status)

		var created dto.InteractionCreatedResponse
		decodeData(t, payload, &created)
		require.NotEmpty(t, created.InteractionID)
	}

	status, payload := doJSON(t, a.app, http.MethodGet, "/analytics/user/1/forum-stats", nil)
	require.Equal(t, fiber.StatusOK, status)

	var stats models.ForumStats
	decodeData(t, payload, &stats)
	require.Equal(t, models.ForumStats{TotalInteractions: 4, Views: 2, Votes: 1, Comments: 1, Shares: 0}, stats)

	status, payload = doJSON(t, a.app, http.MethodGet, "/analytics/forum/post/5/interactions", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, 4, *payload.Total)
}

func TestForumAnalyticsHandlerNotFound(t *testing.T) {
	a := newAnalyticsApp(t)
	a.seedUser(t, 1)

	status, payload := doJSON(t, a.app, http.MethodPost, "/analytics/forum/interaction", map[string]interface{}{
		"user_id": 2, "post_id": 9, "interaction_type": "view",
	})
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, "user not found", payload.Message)

	status, payload = doJSON(t, a.app, http.MethodPost, "/analytics/forum/interaction", map[string]interface{}{
		"user_id": 1, "post_id": 9, "interaction_type": "view",
	})
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, "post not found", payload.Message)

	status, _ = doJSON(t, a.app, http.MethodGet, "/analytics/forum/post/9/interactions", nil)
	require.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, a.app, http.MethodGet, "/analytics/user/2/forum-stats", nil)
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestForumAnalyticsHandlerMissingFields(t *testing.T) {
	a := newAnalyticsApp(t)

	status, payload := doJSON(t, a.app, http.MethodPost, "/analytics/forum/interaction", map[string]interface{}{"post_id": 3})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "missing required fields: user_id, interaction_type", payload.Message)
}

func TestForumAnalyticsHandlerKeepsInteractionTypeAsSent(t *testing.T) {
	a := newAnalyticsApp(t)
	a.seedUser(t, 1)
	a.seedPost(t, 5, 1)

	status, _ := doJSON(t, a.app, http.MethodPost, "/analytics/forum/interaction", map[string]interface{}{
		"user_id": 1, "post_id": 5, "interaction_type": " view",
	})
	require.Equal(t, fiber.StatusOK, status)

	_, payload := doJSON(t, a.app, http.MethodGet, "/analytics/forum/post/5/interactions", nil)
	var interactions []dto.ForumInteractionResponse
	decodeData(t, payload, &interactions)
	require.Len(t, interactions, 1)
	require.Equal(t, " view", interactions[0].InteractionType)

	_, payload = doJSON(t, a.app, http.MethodGet, "/analytics/user/1/forum-stats", nil)
	var stats models.ForumStats
	decodeData(t, payload, &stats)
	require.Equal(t, models.ForumStats{TotalInteractions: 1}, stats)
}
