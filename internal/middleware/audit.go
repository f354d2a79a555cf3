package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Audit logs one line per completed request. The attributed caller account,
// when present, becomes part of the audit trail.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("duration", time.Since(start)),
		}
		if requestID, ok := c.Locals(requestIDHeader).(string); ok && requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if accountID, ok := c.Locals(callerLocal).(string); ok && accountID != "" {
			attrs = append(attrs, slog.String("account_id", accountID))
		}

		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			logger.Error("request completed", attrs...)
			return err
		}

		logger.Info("request completed", attrs...)
		return nil
	}
}
