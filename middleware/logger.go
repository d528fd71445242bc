package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/utils"
)

// RequestLogger writes one line per request.
func RequestLogger(log logger.ILogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Let the app ErrorHandler render it now so the status is known.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []logger.Field{
			logger.String("method", c.Method()),
			logger.String("path", c.Path()),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
		}
		if id := UserID(c); id != 0 {
			fields = append(fields, logger.Uint("user_id", id))
		}
		if err, ok := c.Locals(utils.ErrorLocal).(error); ok {
			fields = append(fields, logger.Error(err))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request failed", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warning("request rejected", fields...)
		default:
			log.Info("request", fields...)
		}
		return nil
	}
}
