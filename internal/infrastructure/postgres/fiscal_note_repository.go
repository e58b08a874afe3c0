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

var _ repository.FiscalNoteRepository = (*FiscalNoteRepo)(nil)

// FiscalNoteRepo notas de crédito y débito (usable con pool o tx).
type FiscalNoteRepo struct {
	q Querier
}

// NewFiscalNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalNoteRepository(q Querier) *FiscalNoteRepo {
	return &FiscalNoteRepo{q: q}
}

// Create persiste la nota con su número reservado. Sin estado queda PENDIENTE.
func (r *FiscalNoteRepo) Create(ctx context.Context, n *entity.FiscalNote) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Status == "" {
		n.Status = entity.NoteStatusPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO fiscal_notes (id, invoice_id, office_id, kind, note_number, reason, amount, status, hka_message, created_by_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.InvoiceID, n.OfficeID, n.Kind, n.NoteNumber, n.Reason, n.Amount, n.Status, n.HKAMessage, n.CreatedByName, n.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("nota %s: %w", n.NoteNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert fiscal note: %w", err)
	}
	return nil
}

// UpdateResult estado y mensaje devueltos por el proveedor.
func (r *FiscalNoteRepo) UpdateResult(ctx context.Context, id, status, message string) error {
	tag, err := r.q.Exec(ctx, `UPDATE fiscal_notes SET status = $2, hka_message = $3 WHERE id = $1`, id, status, message)
	if err != nil {
		return fmt.Errorf("update fiscal note result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByInvoice notas de una factura en orden de emisión.
func (r *FiscalNoteRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.FiscalNote, error) {
	query := `
		SELECT id, invoice_id, office_id, kind, note_number, reason, amount, status, hka_message, created_by_name, created_at
		FROM fiscal_notes WHERE invoice_id = $1 ORDER BY created_at, note_number`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list fiscal notes: %w", err)
	}
	defer rows.Close()
	var list []*entity.FiscalNote
	for rows.Next() {
		var n entity.FiscalNote
		if err := rows.Scan(&n.ID, &n.InvoiceID, &n.OfficeID, &n.Kind, &n.NoteNumber, &n.Reason, &n.Amount, &n.Status, &n.HKAMessage, &n.CreatedByName, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fiscal note: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
