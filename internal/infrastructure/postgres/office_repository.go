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

var _ repository.OfficeRepository = (*OfficeRepo)(nil)

// OfficeRepo implementación de OfficeRepository (usable con pool o tx).
type OfficeRepo struct {
	q Querier
}

// NewOfficeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOfficeRepository(q Querier) *OfficeRepo {
	return &OfficeRepo{q: q}
}

const officeColumns = `id, COALESCE(code, ''), name, address, phone,
	last_invoice_number, last_credit_note_number, last_debit_note_number, last_dispatch_number,
	created_at, updated_at`

func scanOffice(row interface{ Scan(dest ...any) error }) (*entity.Office, error) {
	var o entity.Office
	err := row.Scan(
		&o.ID, &o.Code, &o.Name, &o.Address, &o.Phone,
		&o.LastInvoiceNumber, &o.LastCreditNoteNumber, &o.LastDebitNoteNumber, &o.LastDispatchNumber,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una oficina. Code vacío se guarda como NULL (oficina sin serie).
func (r *OfficeRepo) Create(ctx context.Context, o *entity.Office) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	query := `
		INSERT INTO offices (id, code, name, address, phone,
			last_invoice_number, last_credit_note_number, last_debit_note_number, last_dispatch_number,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		o.ID, nullIfEmpty(o.Code), o.Name, o.Address, o.Phone,
		o.LastInvoiceNumber, o.LastCreditNoteNumber, o.LastDebitNoteNumber, o.LastDispatchNumber,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("código de oficina %q ya existe: %w", o.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert office: %w", err)
	}
	return nil
}

// GetByID obtiene una oficina por ID. nil, nil si no existe.
func (r *OfficeRepo) GetByID(ctx context.Context, id string) (*entity.Office, error) {
	o, err := scanOffice(r.q.QueryRow(ctx, `SELECT `+officeColumns+` FROM offices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get office: %w", err)
	}
	return o, nil
}

// List devuelve todas las oficinas ordenadas por nombre.
func (r *OfficeRepo) List(ctx context.Context) ([]*entity.Office, error) {
	rows, err := r.q.Query(ctx, `SELECT `+officeColumns+` FROM offices ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Office
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// GetForUpdate bloquea la fila de la oficina (FOR UPDATE) hasta el commit o rollback.
// Debe llamarse con un Querier transaccional; con el pool el lock se libera al instante.
func (r *OfficeRepo) GetForUpdate(ctx context.Context, id string) (*entity.Office, error) {
	o, err := scanOffice(r.q.QueryRow(ctx, `SELECT `+officeColumns+` FROM offices WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock office: %w", err)
	}
	return o, nil
}

// UpdateCounters escribe los cuatro correlativos de la oficina.
func (r *OfficeRepo) UpdateCounters(ctx context.Context, o *entity.Office) error {
	query := `
		UPDATE offices
		SET last_invoice_number     = $2,
		    last_credit_note_number = $3,
		    last_debit_note_number  = $4,
		    last_dispatch_number    = $5,
		    updated_at              = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.LastInvoiceNumber, o.LastCreditNoteNumber, o.LastDebitNoteNumber, o.LastDispatchNumber,
	)
	if err != nil {
		return fmt.Errorf("update office counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
