package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simple-api/internal/application/auth"
	"github.com/jhoicas/simple-api/internal/application/dto"
	"github.com/jhoicas/simple-api/internal/infrastructure/metrics"
	"github.com/jhoicas/simple-api/pkg/jwt"
	"github.com/jhoicas/simple-api/pkg/logger"
)

// Locals keys para la identidad en Fiber.
const (
	LocalIdentity      = "identity"
	LocalTokenRejected = "token_rejected"
)

// TokenValidator valida un token compacto y devuelve sus claims.
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// Authenticate resuelve la identidad de cada petición a partir del Bearer Token.
// No rechaza: sin token o con token inválido la petición sigue como anónima y
// son RequireAuth / RequireRole los que responden 401. El motivo del rechazo
// del token solo va a logs y métricas.
func Authenticate(v TokenValidator, log *logger.Logger, m *metrics.AuthMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalIdentity, auth.Identity{})

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			rejectToken(c, log, m, "malformed_header")
			return c.Next()
		}
		claims, err := v.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			rejectToken(c, log, m, jwt.Reason(err))
			return c.Next()
		}
		c.Locals(LocalIdentity, auth.Identity{
			Authenticated: true,
			SubjectID:     claims.UserID,
			Email:         claims.Email,
			Role:          claims.Role,
		})
		return c.Next()
	}
}

func rejectToken(c *fiber.Ctx, log *logger.Logger, m *metrics.AuthMetrics, reason string) {
	c.Locals(LocalTokenRejected, true)
	m.TokenRejected(reason)
	log.Warn().Str("reason", reason).Str("ip", c.IP()).Str("path", c.Path()).Msg("token rechazado")
}

// RequireAuth exige una identidad autenticada (401 si no la hay).
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetIdentity(c).Authenticated {
			return unauthenticated(c)
		}
		return c.Next()
	}
}

// RequireRole exige que el rol del token esté entre los permitidos (403 si no).
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if !id.Authenticated {
			return unauthenticated(c)
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
	}
}

func unauthenticated(c *fiber.Ctx) error {
	if rejected, _ := c.Locals(LocalTokenRejected).(bool); rejected {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
}

// GetIdentity devuelve la identidad del contexto (después de Authenticate).
func GetIdentity(c *fiber.Ctx) auth.Identity {
	id, _ := c.Locals(LocalIdentity).(auth.Identity)
	return id
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) string {
	return GetIdentity(c).SubjectID
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return GetIdentity(c).Role
}
