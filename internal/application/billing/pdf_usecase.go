package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

// PDFUseCase genera la guía impresa de una factura (representación interna, no la fiscal de HKA).
type PDFUseCase struct {
	invoices  repository.InvoiceRepository
	offices   repository.OfficeRepository
	company   repository.CompanyRepository
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoices repository.InvoiceRepository,
	offices repository.OfficeRepository,
	company repository.CompanyRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, offices: offices, company: company, generator: generator}
}

// InvoicePDF carga factura, oficina y empresa y genera el PDF.
// Sin datos de empresa el encabezado sale vacío; la guía se puede imprimir igual.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, id string) (*dto.FileResponse, error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := loadInvoice(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}

	// ── 2. Oficina y empresa ──────────────────────────────────────────────────
	office, err := uc.offices.GetByID(ctx, inv.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener oficina: %w", err)
	}
	if office == nil {
		return nil, fmt.Errorf("pdf: oficina %s: %w", inv.OfficeID, domain.ErrNotFound)
	}
	company, err := uc.company.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener empresa: %w", err)
	}

	// ── 3. Generar ────────────────────────────────────────────────────────────
	data, err := uc.generator.Generate(inv, office, company)
	if err != nil {
		return nil, fmt.Errorf("pdf: generar: %w", err)
	}
	return &dto.FileResponse{
		FileName:    "guia-" + inv.InvoiceNumber + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
