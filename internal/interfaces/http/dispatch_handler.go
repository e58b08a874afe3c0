package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/encomiendas-api/internal/application/dispatch"
	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// DispatchHandler despachos entre oficinas.
type DispatchHandler struct {
	uc  *dispatch.UseCase
	log *logger.Logger
}

// NewDispatchHandler construye el handler.
func NewDispatchHandler(uc *dispatch.UseCase, log *logger.Logger) *DispatchHandler {
	return &DispatchHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Despachar facturas en un vehículo
// @Tags         dispatches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDispatchRequest  true  "Facturas, vehículo y oficina destino"
// @Success      201   {object}  dto.DispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/dispatches [post]
func (h *DispatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive godoc
// @Summary      Recibir un despacho en la oficina destino
// @Tags         dispatches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        dispatchId  path  string  true  "ID del despacho"
// @Param        body        body  dto.ReceiveDispatchRequest  true  "Facturas verificadas"
// @Success      200   {object}  dto.ReceiveDispatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/dispatches/receive/{dispatchId} [post]
func (h *DispatchHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveDispatchRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Receive(c.UserContext(), actorFrom(c), c.Params("dispatchId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar despachos
// @Tags         dispatches
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.DispatchResponse
// @Router       /api/dispatches [get]
func (h *DispatchHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
