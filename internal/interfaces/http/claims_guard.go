package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simple-api/internal/application/auth"
	"github.com/jhoicas/simple-api/internal/application/dto"
	"github.com/jhoicas/simple-api/internal/infrastructure/metrics"
	"github.com/jhoicas/simple-api/pkg/logger"
)

// ClaimsGuard corta las peticiones autenticadas cuyo token no trae sujeto o rol.
// Va después de Authenticate y antes de cualquier handler.
func ClaimsGuard(log *logger.Logger, m *metrics.AuthMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := auth.CheckClaims(GetIdentity(c), c.IP())
		if decision.Allowed {
			return c.Next()
		}
		m.Spoofed()
		ev := log.Security().
			Err(decision.Err()).
			Str("ip", decision.RemoteAddress).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("reason", decision.Reason)
		if rid, ok := c.Locals(LocalRequestID).(string); ok {
			ev = ev.Str("request_id", rid)
		}
		ev.Msg("JWT con claims incompletos detectado")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "SPOOFED_CLAIMS",
			Message: auth.SpoofedClaimsMessage,
		})
	}
}
