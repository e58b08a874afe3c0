package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/application/usecase"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// OfficeHandler oficinas (taquillas).
type OfficeHandler struct {
	uc  *usecase.OfficeUseCase
	log *logger.Logger
}

// NewOfficeHandler construye el handler.
func NewOfficeHandler(uc *usecase.OfficeUseCase, log *logger.Logger) *OfficeHandler {
	return &OfficeHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear oficina
// @Tags         offices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOfficeRequest  true  "Código de serie y nombre"
// @Success      201   {object}  dto.OfficeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/offices [post]
func (h *OfficeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOfficeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar oficinas
// @Tags         offices
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OfficeResponse
// @Router       /api/offices [get]
func (h *OfficeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener oficina por ID
// @Tags         offices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la oficina"
// @Success      200  {object}  dto.OfficeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/offices/{id} [get]
func (h *OfficeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
