package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/encomiendas-api/internal/application/billing"
	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// InvoiceHandler facturas de encomienda y sus operaciones fiscales (protegido).
type InvoiceHandler struct {
	invoices *billing.InvoiceUseCase
	fiscal   *billing.FiscalUseCase
	pdf      *billing.PDFUseCase
	log      *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, fiscal *billing.FiscalUseCase, pdf *billing.PDFUseCase, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, fiscal: fiscal, pdf: pdf, log: log}
}

// Create godoc
// @Summary      Crear factura (guía de encomienda)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Remitente, destinatario, mercancía y cargos"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.invoices.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        office_id        query  string  false  "Oficina"
// @Param        shipping_status  query  string  false  "Estado de envío"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	in := dto.InvoiceFilterRequest{
		PageRequest:    pageFrom(c),
		OfficeID:       c.Query("office_id"),
		ShippingStatus: c.Query("shipping_status"),
	}
	out, err := h.invoices.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de factura con sus notas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.invoices.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar factura (cargos, estados, tasa)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.invoices.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Guía impresa en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	out, err := h.pdf.InvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendFile(c, out, true)
}

// SendToHKA godoc
// @Summary      Transmitir factura a The Factory HKA
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.SendToHKAResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/send-to-hka [post]
func (h *InvoiceHandler) SendToHKA(c *fiber.Ctx) error {
	out, err := h.fiscal.SendToHKA(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreditNote godoc
// @Summary      Emitir nota de crédito
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.FiscalNoteRequest  true  "Motivo y monto (opcional)"
// @Success      201   {object}  dto.FiscalNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/credit-note [post]
func (h *InvoiceHandler) CreditNote(c *fiber.Ctx) error {
	var in dto.FiscalNoteRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.fiscal.CreditNote(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DebitNote godoc
// @Summary      Emitir nota de débito
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.FiscalNoteRequest  true  "Motivo y monto (opcional)"
// @Success      201   {object}  dto.FiscalNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/debit-note [post]
func (h *InvoiceHandler) DebitNote(c *fiber.Ctx) error {
	var in dto.FiscalNoteRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.fiscal.DebitNote(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Void godoc
// @Summary      Anular factura
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.VoidInvoiceRequest  true  "Motivo de la anulación"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *fiber.Ctx) error {
	var in dto.VoidInvoiceRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.fiscal.Void(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DownloadHKA godoc
// @Summary      Descargar el documento fiscal (PDF o XML) desde HKA
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Produce      application/xml
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.DownloadFileRequest  true  "file_type: PDF o XML"
// @Success      200   {file}  binary
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/download-hka [post]
func (h *InvoiceHandler) DownloadHKA(c *fiber.Ctx) error {
	var in dto.DownloadFileRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return invalidBody(c)
	}
	if in.FileType == "" {
		in.FileType = c.Query("file_type")
	}
	out, err := h.fiscal.DownloadFile(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendFile(c, out, false)
}
