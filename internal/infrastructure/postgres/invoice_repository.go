package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// La guía (remitente, destinatario y mercancía) se guarda como JSONB.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, office_id, invoice_number, control_number, date,
	client_name, client_id_number, client_email, guide,
	freight, handling, insurance, ipostel, discount_amount, discount_percentage,
	exchange_rate, total_amount, status, payment_status, shipping_status,
	vehicle_id::text, specific_destination, created_by_name,
	hka_status, hka_message, hka_sent_at, created_at, updated_at`

func scanInvoice(row interface{ Scan(dest ...any) error }, extra ...any) (*entity.Invoice, error) {
	var inv entity.Invoice
	var guide []byte
	var vehicleID *string
	dest := []any{
		&inv.ID, &inv.OfficeID, &inv.InvoiceNumber, &inv.ControlNumber, &inv.Date,
		&inv.ClientName, &inv.ClientIDNumber, &inv.ClientEmail, &guide,
		&inv.Charges.Freight, &inv.Charges.Handling, &inv.Charges.Insurance, &inv.Charges.Ipostel,
		&inv.Charges.DiscountAmount, &inv.Charges.DiscountPercentage,
		&inv.ExchangeRate, &inv.TotalAmount, &inv.Status, &inv.PaymentStatus, &inv.ShippingStatus,
		&vehicleID, &inv.SpecificDestination, &inv.CreatedByName,
		&inv.HKAStatus, &inv.HKAMessage, &inv.HKASentAt, &inv.CreatedAt, &inv.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if len(guide) > 0 {
		if err := json.Unmarshal(guide, &inv.Guide); err != nil {
			return nil, fmt.Errorf("decode guide: %w", err)
		}
	}
	inv.VehicleID = derefStr(vehicleID)
	return &inv, nil
}

// Create persiste la factura con su guía.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	now := time.Now()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	inv.UpdatedAt = inv.CreatedAt
	guide, err := json.Marshal(inv.Guide)
	if err != nil {
		return fmt.Errorf("encode guide: %w", err)
	}
	query := `
		INSERT INTO invoices (id, office_id, invoice_number, control_number, date,
			client_name, client_id_number, client_email, guide,
			freight, handling, insurance, ipostel, discount_amount, discount_percentage,
			exchange_rate, total_amount, status, payment_status, shipping_status,
			vehicle_id, specific_destination, created_by_name,
			hka_status, hka_message, hka_sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.OfficeID, inv.InvoiceNumber, inv.ControlNumber, inv.Date,
		inv.ClientName, inv.ClientIDNumber, inv.ClientEmail, guide,
		inv.Charges.Freight, inv.Charges.Handling, inv.Charges.Insurance, inv.Charges.Ipostel,
		inv.Charges.DiscountAmount, inv.Charges.DiscountPercentage,
		inv.ExchangeRate, inv.TotalAmount, inv.Status, inv.PaymentStatus, inv.ShippingStatus,
		nullIfEmpty(inv.VehicleID), inv.SpecificDestination, inv.CreatedByName,
		inv.HKAStatus, inv.HKAMessage, inv.HKASentAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("factura %s ya existe: %w", inv.InvoiceNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID. nil, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la factura (FOR UPDATE). Usar dentro de una transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List filtra por oficina y estado de envío, ordena por número descendente y pagina.
// El segundo valor es el total de filas que cumplen el filtro.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var where []string
	var args []any
	if f.OfficeID != "" {
		args = append(args, f.OfficeID)
		where = append(where, fmt.Sprintf("office_id = $%d", len(args)))
	}
	if f.ShippingStatus != "" {
		args = append(args, f.ShippingStatus)
		where = append(where, fmt.Sprintf("shipping_status = $%d", len(args)))
	}
	query := `SELECT ` + invoiceColumns + `, COUNT(*) OVER() FROM invoices`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY invoice_number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, 0, fmt.Errorf("office_id inválido: %w", domain.ErrInvalidInput)
		}
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	total := 0
	for rows.Next() {
		inv, err := scanInvoice(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return list, total, nil
}

// Update escribe los campos editables de una factura activa. status y el estado HKA
// tienen sus propias escrituras condicionadas (MarkVoided, ClaimSubmission).
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	guide, err := json.Marshal(inv.Guide)
	if err != nil {
		return fmt.Errorf("encode guide: %w", err)
	}
	inv.UpdatedAt = time.Now()
	query := `
		UPDATE invoices
		SET guide                = $2,
		    freight              = $3,
		    handling             = $4,
		    insurance            = $5,
		    ipostel              = $6,
		    discount_amount      = $7,
		    discount_percentage  = $8,
		    exchange_rate        = $9,
		    total_amount         = $10,
		    payment_status       = $11,
		    shipping_status      = $12,
		    vehicle_id           = $13,
		    specific_destination = $14,
		    client_email         = $15,
		    updated_at           = $16
		WHERE id = $1 AND status <> $17`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, guide,
		inv.Charges.Freight, inv.Charges.Handling, inv.Charges.Insurance, inv.Charges.Ipostel,
		inv.Charges.DiscountAmount, inv.Charges.DiscountPercentage,
		inv.ExchangeRate, inv.TotalAmount, inv.PaymentStatus, inv.ShippingStatus,
		nullIfEmpty(inv.VehicleID), inv.SpecificDestination, inv.ClientEmail, inv.UpdatedAt,
		entity.InvoiceStatusVoided,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("vehículo inexistente: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewConflictError("la factura %s no existe o está anulada", inv.InvoiceNumber)
	}
	return nil
}

// MarkVoided anula solo si la factura sigue activa con el estado HKA que vio el caller.
func (r *InvoiceRepo) MarkVoided(ctx context.Context, id, hkaStatus string) (bool, error) {
	query := `
		UPDATE invoices
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3 AND hka_status = $4`
	tag, err := r.q.Exec(ctx, query, id, entity.InvoiceStatusVoided, entity.InvoiceStatusActive, hkaStatus)
	if err != nil {
		return false, fmt.Errorf("void invoice: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClaimSubmission compare-and-set de hka_status hacia ENVIANDO.
func (r *InvoiceRepo) ClaimSubmission(ctx context.Context, id, from string, staleBefore time.Time) (bool, error) {
	query := `
		UPDATE invoices
		SET hka_status = $2, updated_at = now()
		WHERE id = $1
		  AND status = $3
		  AND hka_status = $4
		  AND (hka_status <> $2 OR updated_at < $5)`
	tag, err := r.q.Exec(ctx, query, id, entity.HKAStatusSubmitting, entity.InvoiceStatusActive, from, staleBefore)
	if err != nil {
		return false, fmt.Errorf("claim invoice submission: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CompleteSubmission escribe el resultado solo sobre una factura en ENVIANDO.
func (r *InvoiceRepo) CompleteSubmission(ctx context.Context, id, status, message string, sentAt *time.Time) (bool, error) {
	query := `
		UPDATE invoices
		SET hka_status  = $2,
		    hka_message = $3,
		    hka_sent_at = COALESCE($4, hka_sent_at),
		    updated_at  = now()
		WHERE id = $1 AND hka_status = $5`
	tag, err := r.q.Exec(ctx, query, id, status, message, sentAt, entity.HKAStatusSubmitting)
	if err != nil {
		return false, fmt.Errorf("complete invoice submission: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateHKAStatus registra el resultado de la transmisión. sentAt nil conserva el valor previo.
func (r *InvoiceRepo) UpdateHKAStatus(ctx context.Context, id, status, message string, sentAt *time.Time) error {
	query := `
		UPDATE invoices
		SET hka_status  = $2,
		    hka_message = $3,
		    hka_sent_at = COALESCE($4, hka_sent_at),
		    updated_at  = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, message, sentAt)
	if err != nil {
		return fmt.Errorf("update invoice hka status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkInTransit solo toca facturas activas que siguen pendientes de despacho.
func (r *InvoiceRepo) MarkInTransit(ctx context.Context, ids []string, vehicleID string) (int64, error) {
	query := `
		UPDATE invoices
		SET shipping_status = $2, vehicle_id = $3, updated_at = now()
		WHERE id = ANY($1::text[]::uuid[])
		  AND status = $4
		  AND shipping_status = $5`
	tag, err := r.q.Exec(ctx, query,
		ids, entity.ShippingStatusInTransit, vehicleID,
		entity.InvoiceStatusActive, entity.ShippingStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("mark invoices in transit: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetShippingStatus asigna el estado de envío a las facturas indicadas.
func (r *InvoiceRepo) SetShippingStatus(ctx context.Context, ids []string, status string) error {
	query := `UPDATE invoices SET shipping_status = $2, updated_at = now() WHERE id = ANY($1::text[]::uuid[])`
	if _, err := r.q.Exec(ctx, query, ids, status); err != nil {
		return fmt.Errorf("set invoices shipping status: %w", err)
	}
	return nil
}
