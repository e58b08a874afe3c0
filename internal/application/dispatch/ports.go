package dispatch

import (
	"context"

	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos que toca un despacho.
type TxRunner interface {
	RunDispatch(ctx context.Context, fn func(
		offices repository.OfficeRepository,
		invoices repository.InvoiceRepository,
		dispatches repository.DispatchRepository,
		vehicles repository.VehicleRepository,
	) error) error
}
