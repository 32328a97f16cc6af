package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/educollab-analytics/internal/config"
	"github.com/noah-isme/educollab-analytics/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	DocStore    string    `json:"docstore"`
	DocStoreUp  bool      `json:"docstore_live"`
}

// DocStoreStatus reports which document backend is serving requests.
type DocStoreStatus interface {
	Backend(ctx context.Context) string
	Live() bool
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config, store DocStoreStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}
		if store != nil {
			payload.DocStore = store.Backend(withRequestContext(c))
			payload.DocStoreUp = store.Live()
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
