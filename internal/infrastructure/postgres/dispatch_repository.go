package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

var _ repository.DispatchRepository = (*DispatchRepo)(nil)

// DispatchRepo despachos (usable con pool o tx). invoice_ids es un arreglo UUID[].
type DispatchRepo struct {
	q Querier
}

// NewDispatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDispatchRepository(q Querier) *DispatchRepo {
	return &DispatchRepo{q: q}
}

const dispatchColumns = `id, dispatch_number, date, vehicle_id::text, invoice_ids::text[],
	origin_office_id::text, destination_office_id::text, status, received_date, received_by, created_at`

func scanDispatch(row interface{ Scan(dest ...any) error }) (*entity.Dispatch, error) {
	var d entity.Dispatch
	err := row.Scan(
		&d.ID, &d.DispatchNumber, &d.Date, &d.VehicleID, &d.InvoiceIDs,
		&d.OriginOfficeID, &d.DestinationOfficeID, &d.Status, &d.ReceivedDate, &d.ReceivedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste el despacho.
func (r *DispatchRepo) Create(ctx context.Context, d *entity.Dispatch) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO dispatches (id, dispatch_number, date, vehicle_id, invoice_ids,
			origin_office_id, destination_office_id, status, received_date, received_by, created_at)
		VALUES ($1, $2, $3, $4, $5::text[]::uuid[], $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.DispatchNumber, d.Date, d.VehicleID, d.InvoiceIDs,
		d.OriginOfficeID, d.DestinationOfficeID, d.Status, d.ReceivedDate, d.ReceivedBy, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("despacho %s: %w", d.DispatchNumber, domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("vehículo u oficina inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert dispatch: %w", err)
	}
	return nil
}

// GetByID obtiene un despacho. nil, nil si no existe.
func (r *DispatchRepo) GetByID(ctx context.Context, id string) (*entity.Dispatch, error) {
	d, err := scanDispatch(r.q.QueryRow(ctx, `SELECT `+dispatchColumns+` FROM dispatches WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	return d, nil
}

// GetForUpdate obtiene el despacho bloqueando la fila hasta el fin de la transacción.
func (r *DispatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Dispatch, error) {
	d, err := scanDispatch(r.q.QueryRow(ctx, `SELECT `+dispatchColumns+` FROM dispatches WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock dispatch: %w", err)
	}
	return d, nil
}

// MarkReceived registra la recepción en la oficina destino.
func (r *DispatchRepo) MarkReceived(ctx context.Context, d *entity.Dispatch) error {
	query := `UPDATE dispatches SET status = $2, received_date = $3, received_by = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.Status, d.ReceivedDate, d.ReceivedBy)
	if err != nil {
		return fmt.Errorf("mark dispatch received: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List despachos más recientes primero.
func (r *DispatchRepo) List(ctx context.Context, limit, offset int) ([]*entity.Dispatch, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `SELECT `+dispatchColumns+` FROM dispatches ORDER BY date DESC, dispatch_number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Dispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
