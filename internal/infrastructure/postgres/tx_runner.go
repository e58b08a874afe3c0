package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/encomiendas-api/internal/application/billing"
	"github.com/jhoicas/encomiendas-api/internal/application/dispatch"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

// Ensure TxRunner implements billing.TxRunner and dispatch.TxRunner.
var _ billing.TxRunner = (*TxRunner)(nil)
var _ dispatch.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// Los correlativos se serializan con SELECT ... FOR UPDATE sobre la fila de la oficina.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunNumbering transacción con el repo de oficinas.
func (r *TxRunner) RunNumbering(ctx context.Context, fn func(offices repository.OfficeRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOfficeRepository(tx))
	})
}

// RunInvoicing transacción para el alta de factura.
func (r *TxRunner) RunInvoicing(ctx context.Context, fn func(
	offices repository.OfficeRepository,
	clients repository.ClientRepository,
	invoices repository.InvoiceRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOfficeRepository(tx), NewClientRepository(tx), NewInvoiceRepository(tx))
	})
}

// RunInvoice transacción para editar una factura existente.
func (r *TxRunner) RunInvoice(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInvoiceRepository(tx))
	})
}

// RunNotes transacción corta que reserva el número de una nota de crédito o débito.
func (r *TxRunner) RunNotes(ctx context.Context, fn func(
	offices repository.OfficeRepository,
	notes repository.FiscalNoteRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOfficeRepository(tx), NewFiscalNoteRepository(tx))
	})
}

// RunDispatch transacción para crear o recibir un despacho.
func (r *TxRunner) RunDispatch(ctx context.Context, fn func(
	offices repository.OfficeRepository,
	invoices repository.InvoiceRepository,
	dispatches repository.DispatchRepository,
	vehicles repository.VehicleRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOfficeRepository(tx), NewInvoiceRepository(tx), NewDispatchRepository(tx), NewVehicleRepository(tx))
	})
}
