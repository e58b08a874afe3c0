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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un cliente. La cédula/RIF es única.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	query := `
		INSERT INTO clients (id, id_number, client_type, name, phone, address, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.IDNumber, c.ClientType, c.Name, c.Phone, c.Address, c.Email, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cliente %s: %w", c.IDNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByIDNumber busca por cédula/RIF. nil, nil si no existe.
func (r *ClientRepo) GetByIDNumber(ctx context.Context, idNumber string) (*entity.Client, error) {
	query := `
		SELECT id, id_number, client_type, name, phone, address, email, created_at, updated_at
		FROM clients WHERE id_number = $1`
	var c entity.Client
	err := r.q.QueryRow(ctx, query, idNumber).Scan(
		&c.ID, &c.IDNumber, &c.ClientType, &c.Name, &c.Phone, &c.Address, &c.Email, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}
