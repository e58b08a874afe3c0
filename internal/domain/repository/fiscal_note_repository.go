package repository

import (
	"context"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

// FiscalNoteRepository define el puerto de persistencia para notas de crédito y débito.
type FiscalNoteRepository interface {
	// Create inserta la nota con su número reservado (normalmente en estado PENDIENTE).
	Create(ctx context.Context, note *entity.FiscalNote) error
	// UpdateResult registra la respuesta del proveedor sobre una nota reservada.
	UpdateResult(ctx context.Context, id, status, message string) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.FiscalNote, error)
}
