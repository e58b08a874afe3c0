package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/encomiendas-api/internal/application/auth"
	"github.com/jhoicas/encomiendas-api/internal/application/billing"
	"github.com/jhoicas/encomiendas-api/internal/application/dispatch"
	"github.com/jhoicas/encomiendas-api/internal/application/usecase"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	InvoiceUC  *billing.InvoiceUseCase
	FiscalUC   *billing.FiscalUseCase
	InvoicePDF *billing.PDFUseCase
	DispatchUC *dispatch.UseCase
	CompanyUC  *usecase.CompanyUseCase
	OfficeUC   *usecase.OfficeUseCase
	VehicleUC  *usecase.VehicleUseCase
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")
	protect := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", protect, authHandler.Me)

	// Invoices
	invoices := api.Group("/invoices", protect)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.FiscalUC, deps.InvoicePDF, log)
	invoices.Get("/", RequirePermission(entity.PermInvoicesView), invoiceHandler.List)
	invoices.Post("/", RequirePermission(entity.PermInvoicesCreate), invoiceHandler.Create)
	invoices.Get("/:id", RequirePermission(entity.PermInvoicesView), invoiceHandler.GetByID)
	invoices.Put("/:id", RequirePermission(entity.PermInvoicesEdit, entity.PermInvoicesChangeStatus), invoiceHandler.Update)
	invoices.Get("/:id/pdf", RequirePermission(entity.PermInvoicesView), invoiceHandler.PDF)
	invoices.Post("/:id/send-to-hka", RequirePermission(entity.PermInvoicesCreate), invoiceHandler.SendToHKA)
	invoices.Post("/:id/credit-note", RequirePermission(entity.PermInvoicesVoid), invoiceHandler.CreditNote)
	invoices.Post("/:id/debit-note", RequirePermission(entity.PermInvoicesCreate), invoiceHandler.DebitNote)
	invoices.Post("/:id/void", RequirePermission(entity.PermInvoicesVoid), invoiceHandler.Void)
	invoices.Post("/:id/download-hka", RequirePermission(entity.PermInvoicesView), invoiceHandler.DownloadHKA)

	// Dispatches
	dispatches := api.Group("/dispatches", protect)
	dispatchHandler := NewDispatchHandler(deps.DispatchUC, log)
	dispatches.Get("/", RequirePermission(entity.PermFlotaView, entity.PermDispatch), dispatchHandler.List)
	dispatches.Post("/", RequirePermission(entity.PermDispatch), dispatchHandler.Create)
	dispatches.Post("/receive/:dispatchId", RequirePermission(entity.PermDispatch), dispatchHandler.Receive)

	// Company
	company := api.Group("/company", protect)
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	company.Get("/", companyHandler.Get)
	company.Put("/", RequirePermission(entity.PermCompanyEdit), companyHandler.Update)

	// Offices
	offices := api.Group("/offices", protect)
	officeHandler := NewOfficeHandler(deps.OfficeUC, log)
	offices.Get("/", RequirePermission(entity.PermOfficesView), officeHandler.List)
	offices.Post("/", RequirePermission(entity.PermOfficesEdit), officeHandler.Create)
	offices.Get("/:id", RequirePermission(entity.PermOfficesView), officeHandler.GetByID)

	// Vehicles
	vehicles := api.Group("/vehicles", protect)
	vehicleHandler := NewVehicleHandler(deps.VehicleUC, log)
	vehicles.Get("/", RequirePermission(entity.PermFlotaView), vehicleHandler.List)
	vehicles.Post("/", RequirePermission(entity.PermFlotaEdit), vehicleHandler.Create)
	vehicles.Get("/:id", RequirePermission(entity.PermFlotaView), vehicleHandler.GetByID)
}
