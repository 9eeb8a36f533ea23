// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request. Authenticated requests carry the
// actor and tenant; server errors are logged at error level.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		reqID, _ := c.Locals("requestid").(string)
		if reqID == "" {
			reqID = c.Get(fiber.HeaderXRequestID)
		}
		status := c.Response().StatusCode()
		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", reqID,
		}
		if actor, ok := ActorFrom(c); ok {
			fields = append(fields, "actor_id", actor.ID, "tenant_id", actor.TenantID)
		}

		if status >= fiber.StatusInternalServerError {
			log.Errorw("request", fields...)
		} else {
			log.Infow("request", fields...)
		}
		return err
	}
}
