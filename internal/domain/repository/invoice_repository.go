package repository

import (
	"context"
	"time"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	OfficeID       string
	ShippingStatus string
	Limit          int
	Offset         int
}

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// List ordena por invoice_number descendente y devuelve también el total sin paginar.
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, int, error)
	// Update escribe los campos editables de una factura activa: cargos, totales, estados de pago
	// y envío, tasa, correo, destino y vehículo. No toca status ni el estado HKA.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// MarkVoided anula la factura si sigue activa y su estado HKA es el esperado.
	MarkVoided(ctx context.Context, id, hkaStatus string) (bool, error)
	// ClaimSubmission pasa la factura de hka_status from a ENVIANDO si sigue activa.
	// Un ENVIANDO solo se reclama si no se tocó desde staleBefore.
	ClaimSubmission(ctx context.Context, id, from string, staleBefore time.Time) (bool, error)
	// CompleteSubmission cierra un envío reservado con su resultado. false si ya no estaba en ENVIANDO.
	CompleteSubmission(ctx context.Context, id, status, message string, sentAt *time.Time) (bool, error)
	// UpdateHKAStatus registra estado y mensaje HKA sin condiciones.
	UpdateHKAStatus(ctx context.Context, id, status, message string, sentAt *time.Time) error
	// MarkInTransit pasa a En Tránsito las facturas activas pendientes de despacho y asigna el vehículo.
	// Devuelve cuántas filas cambiaron.
	MarkInTransit(ctx context.Context, ids []string, vehicleID string) (int64, error)
	// SetShippingStatus asigna el estado de envío a las facturas indicadas.
	SetShippingStatus(ctx context.Context, ids []string, status string) error
}
