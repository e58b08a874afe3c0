package billing

import (
	"context"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
	"github.com/jhoicas/encomiendas-api/internal/infrastructure/hka"
)

// TxRunner ejecuta funciones dentro de una transacción con repos atados a ella.
// Si fn devuelve error se hace rollback; si no, commit.
type TxRunner interface {
	// RunNumbering solo necesita la oficina (emisión de un correlativo aislado).
	RunNumbering(ctx context.Context, fn func(offices repository.OfficeRepository) error) error
	// RunInvoicing alta de factura: clientes, correlativo e inserción en la misma transacción.
	RunInvoicing(ctx context.Context, fn func(
		offices repository.OfficeRepository,
		clients repository.ClientRepository,
		invoices repository.InvoiceRepository,
	) error) error
	// RunInvoice edición de una factura ya existente (se bloquea con GetForUpdate).
	RunInvoice(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error
	// RunNotes reserva del número de una nota de crédito/débito con la oficina bloqueada.
	RunNotes(ctx context.Context, fn func(
		offices repository.OfficeRepository,
		notes repository.FiscalNoteRepository,
	) error) error
}

// DocumentBuilder arma el DocumentoElectronico (sin I/O).
type DocumentBuilder interface {
	BuildInvoice(inv *entity.Invoice, office *entity.Office, company *entity.CompanyInfo) (*hka.Document, error)
	BuildNote(inv *entity.Invoice, office *entity.Office, company *entity.CompanyInfo, note hka.NoteData) (*hka.Document, error)
}

// FiscalProvider API de la imprenta digital. Las llamadas no se reintentan.
type FiscalProvider interface {
	Emit(ctx context.Context, doc *hka.Document) (*hka.EmissionResult, error)
	Void(ctx context.Context, req hka.VoidRequest) (string, error)
	Download(ctx context.Context, req hka.DownloadRequest) ([]byte, error)
}

// InvoicePDFGenerator representación impresa de la guía/factura.
type InvoicePDFGenerator interface {
	Generate(inv *entity.Invoice, office *entity.Office, company *entity.CompanyInfo) ([]byte, error)
}

var (
	_ DocumentBuilder = (*hka.Builder)(nil)
	_ FiscalProvider  = (*hka.Client)(nil)
)
