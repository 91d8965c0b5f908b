package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simple-api/internal/application/auth"
	"github.com/jhoicas/simple-api/internal/application/dto"
	"github.com/jhoicas/simple-api/pkg/logger"
)

// AuthHandler maneja registro, login y perfil propio.
type AuthHandler struct {
	uc      *auth.AuthUseCase
	timeout time.Duration
	log     *logger.Logger
}

// NewAuthHandler construye el handler de auth. timeout acota cada operación contra el store.
func NewAuthHandler(uc *auth.AuthUseCase, timeout time.Duration, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, timeout: timeout, log: log}
}

func (h *AuthHandler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password y perfil opcional"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
// @Router       /api/auth/register [put]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	out, err := h.uc.Register(ctx, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := h.context(c)
	defer cancel()

	out, err := h.uc.Login(ctx, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.UserResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	out, err := h.uc.Me(ctx, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
