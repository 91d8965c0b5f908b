package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simple-api/internal/application/dto"
)

const protocolOK = "Protocol tested successfully."

// ProbeHandler rutas de prueba de protocolo y de autorización.
type ProbeHandler struct{}

// NewProbeHandler construye el handler de pruebas.
func NewProbeHandler() *ProbeHandler {
	return &ProbeHandler{}
}

// ProbeResponse cuerpo de las rutas de prueba.
type ProbeResponse struct {
	Message string `json:"message"`
}

// Get godoc
// @Summary  Prueba GET
// @Tags     test
// @Produce  json
// @Success  200  {object}  ProbeResponse
// @Router   /api/test/get [get]
func (h *ProbeHandler) Get(c *fiber.Ctx) error {
	return c.JSON(ProbeResponse{Message: "GET: " + protocolOK})
}

// Post godoc
// @Summary  Prueba POST
// @Tags     test
// @Accept   json
// @Produce  json
// @Param    body  body  dto.TestPayload  true  "data"
// @Success  200  {object}  ProbeResponse
// @Failure  400  {object}  dto.ErrorResponse
// @Router   /api/test/post [post]
func (h *ProbeHandler) Post(c *fiber.Ctx) error {
	return h.echo(c, "POST: "+protocolOK+" Received: ")
}

// Put godoc
// @Summary  Prueba PUT
// @Tags     test
// @Accept   json
// @Produce  json
// @Param    body  body  dto.TestPayload  true  "data"
// @Success  200  {object}  ProbeResponse
// @Failure  400  {object}  dto.ErrorResponse
// @Router   /api/test/put [put]
func (h *ProbeHandler) Put(c *fiber.Ctx) error {
	return h.echo(c, "PUT: "+protocolOK+" Updated: ")
}

// Delete godoc
// @Summary  Prueba DELETE
// @Tags     test
// @Accept   json
// @Produce  json
// @Param    body  body  dto.TestPayload  true  "data"
// @Success  200  {object}  ProbeResponse
// @Failure  400  {object}  dto.ErrorResponse
// @Router   /api/test/delete [delete]
func (h *ProbeHandler) Delete(c *fiber.Ctx) error {
	return h.echo(c, "DELETE: "+protocolOK+" Deleted: ")
}

func (h *ProbeHandler) echo(c *fiber.Ctx, prefix string) error {
	var in dto.TestPayload
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if verr := dto.NewValidationError(in.Validate()); verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: verr.Fields})
	}
	return c.JSON(ProbeResponse{Message: prefix + in.Data})
}

// Basic godoc
// @Summary   Ruta protegida para cualquier usuario
// @Tags      test
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ProbeResponse
// @Failure   401  {object}  dto.ErrorResponse
// @Router    /api/test/protected/basic [get]
func (h *ProbeHandler) Basic(c *fiber.Ctx) error {
	return c.JSON(ProbeResponse{Message: "Successfully executed secured request. (Any user)"})
}

// UserOnly godoc
// @Summary   Ruta protegida para rol User
// @Tags      test
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ProbeResponse
// @Failure   403  {object}  dto.ErrorResponse
// @Router    /api/test/protected/user-only [get]
func (h *ProbeHandler) UserOnly(c *fiber.Ctx) error {
	return c.JSON(ProbeResponse{Message: "Successfully executed secured request. (User)"})
}

// AdminOnly godoc
// @Summary   Ruta protegida para rol Admin
// @Tags      test
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ProbeResponse
// @Failure   403  {object}  dto.ErrorResponse
// @Router    /api/test/protected/admin-only [get]
func (h *ProbeHandler) AdminOnly(c *fiber.Ctx) error {
	return c.JSON(ProbeResponse{Message: "Successfully executed secured request. (Admin)"})
}
