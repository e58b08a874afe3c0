package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo datos fiscales del emisor (fila única id = 1).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia de los datos fiscales.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Get devuelve los datos fiscales; nil, nil si aún no se registraron.
func (r *CompanyRepo) Get(ctx context.Context) (*entity.CompanyInfo, error) {
	query := `SELECT rif, name, address, phone, email, updated_at FROM company_info WHERE id = 1`
	var c entity.CompanyInfo
	err := r.q.QueryRow(ctx, query).Scan(&c.RIF, &c.Name, &c.Address, &c.Phone, &c.Email, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company info: %w", err)
	}
	return &c, nil
}

// Upsert crea o reemplaza los datos fiscales.
func (r *CompanyRepo) Upsert(ctx context.Context, c *entity.CompanyInfo) error {
	c.UpdatedAt = time.Now()
	query := `
		INSERT INTO company_info (id, rif, name, address, phone, email, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET rif = EXCLUDED.rif, name = EXCLUDED.name, address = EXCLUDED.address,
		    phone = EXCLUDED.phone, email = EXCLUDED.email, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, c.RIF, c.Name, c.Address, c.Phone, c.Email, c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert company info: %w", err)
	}
	return nil
}
